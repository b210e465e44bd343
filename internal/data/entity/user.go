package entity

type User struct {
	Base
	Email        string  `db:"email"`
	PasswordHash string  `db:"password"`
	FirstName    string  `db:"first_name"`
	LastName     string  `db:"last_name"`
	Phone        *string `db:"phone"`
	// HasPassword is false for accounts provisioned by a booking. Such an
	// account cannot log in until someone registers with its email.
	HasPassword bool `db:"has_password"`
	IsActive    bool `db:"is_active"`
	IsVerified  bool `db:"is_verified"`
}
