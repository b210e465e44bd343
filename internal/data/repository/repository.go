package repository

import (
	"context"
	"errors"
	"fmt"

	"freelance-booking/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

type Repository struct {
	User          UserRepository
	Session       SessionRepository
	Admin         AdminRepository
	Booking       BookingRepository
	Project       ProjectRepository
	ProjectUpdate ProjectUpdateRepository
	PaymentLog    PaymentLogRepository
	Message       MessageRepository
	Notification  NotificationRepository

	Tx Transactor
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repo *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositories(db, log)
	repo.Tx = &pgxTransactor{db: db, log: log}
	return repo
}

func newRepositories(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:          NewUserRepository(q, log),
		Session:       NewSessionRepository(q, log),
		Admin:         NewAdminRepository(q, log),
		Booking:       NewBookingRepository(q, log),
		Project:       NewProjectRepository(q, log),
		ProjectUpdate: NewProjectUpdateRepository(q, log),
		PaymentLog:    NewPaymentLogRepository(q, log),
		Message:       NewMessageRepository(q, log),
		Notification:  NewNotificationRepository(q, log),
	}
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTransactor) WithinTx(ctx context.Context, fn func(repo *Repository) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	repo := newRepositories(tx, t.log)
	repo.Tx = nestedTransactor{repo: repo}

	if err := fn(repo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// nestedTransactor joins the transaction that is already open.
type nestedTransactor struct {
	repo *Repository
}

func (n nestedTransactor) WithinTx(_ context.Context, fn func(repo *Repository) error) error {
	return fn(n.repo)
}

// scanner is implemented by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
