package entity

import "time"

type Admin struct {
	Base
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	Name         string     `db:"name"`
	IsActive     bool       `db:"is_active"`
	LastLogin    *time.Time `db:"last_login"`
}
