package repository

import (
	"context"
	"errors"
	"fmt"

	"freelance-booking/internal/data/entity"
	"freelance-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentLogRepository interface {
	InsertIfAbsent(ctx context.Context, log *entity.PaymentLog) (*entity.PaymentLog, bool, error)
	FindByReference(ctx context.Context, reference string) (*entity.PaymentLog, error)
	FindByCustomerEmail(ctx context.Context, email string) ([]*entity.PaymentLog, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.PaymentLog, error)
	CountAll(ctx context.Context) (int64, error)
	LinkProject(ctx context.Context, id, projectID uuid.UUID) error
	Revenue(ctx context.Context) (float64, int64, error)
}

type paymentLogRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentLogRepository(db database.Querier, log *zap.Logger) PaymentLogRepository {
	return &paymentLogRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment_log")),
	}
}

const paymentLogColumns = `id, reference, amount, currency, status, customer_email, service_name,
	booking_id, project_id, gateway_response, paid_at, created_at`

func scanPaymentLog(row scanner) (*entity.PaymentLog, error) {
	var p entity.PaymentLog
	err := row.Scan(
		&p.ID,
		&p.Reference,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.CustomerEmail,
		&p.ServiceName,
		&p.BookingID,
		&p.ProjectID,
		&p.GatewayResponse,
		&p.PaidAt,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertIfAbsent records a verified payment once per reference. When the
// reference is already logged the stored row is returned with created=false.
func (r *paymentLogRepository) InsertIfAbsent(ctx context.Context, p *entity.PaymentLog) (*entity.PaymentLog, bool, error) {
	query := `
		INSERT INTO payment_logs (` + paymentLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (reference) DO NOTHING
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		p.ID,
		p.Reference,
		p.Amount,
		p.Currency,
		p.Status,
		p.CustomerEmail,
		p.ServiceName,
		p.BookingID,
		p.ProjectID,
		p.GatewayResponse,
		p.PaidAt,
		p.CreatedAt,
	).Scan(&id)

	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.log.Error("Failed to insert payment log",
			zap.Error(err),
			zap.String("reference", p.Reference),
		)
		return nil, false, fmt.Errorf("insert payment log %s: %w", p.Reference, err)
	}

	existing, err := r.FindByReference(ctx, p.Reference)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("payment log %s vanished after conflict", p.Reference)
	}
	return existing, false, nil
}

func (r *paymentLogRepository) FindByReference(ctx context.Context, reference string) (*entity.PaymentLog, error) {
	query := `SELECT ` + paymentLogColumns + ` FROM payment_logs WHERE reference = $1`

	p, err := scanPaymentLog(r.db.QueryRow(ctx, query, reference))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment log",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return nil, fmt.Errorf("find payment log %s: %w", reference, err)
	}
	return p, nil
}

func (r *paymentLogRepository) FindByCustomerEmail(ctx context.Context, email string) ([]*entity.PaymentLog, error) {
	query := `SELECT ` + paymentLogColumns + ` FROM payment_logs WHERE customer_email = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, email)
	if err != nil {
		r.log.Error("Failed to find payment logs by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find payment logs by email %s: %w", email, err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *paymentLogRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.PaymentLog, error) {
	query := `SELECT ` + paymentLogColumns + ` FROM payment_logs ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get all payment logs",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all payment logs: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *paymentLogRepository) collect(rows pgx.Rows) ([]*entity.PaymentLog, error) {
	var logs []*entity.PaymentLog
	for rows.Next() {
		p, err := scanPaymentLog(rows)
		if err != nil {
			r.log.Error("Failed to scan payment log row", zap.Error(err))
			return nil, fmt.Errorf("scan payment log row: %w", err)
		}
		logs = append(logs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment log rows: %w", err)
	}

	return logs, nil
}

func (r *paymentLogRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payment_logs`).Scan(&count); err != nil {
		r.log.Error("Database error counting payment logs", zap.Error(err))
		return 0, fmt.Errorf("count payment logs: %w", err)
	}
	return count, nil
}

func (r *paymentLogRepository) LinkProject(ctx context.Context, id, projectID uuid.UUID) error {
	query := `UPDATE payment_logs SET project_id = $2 WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id, projectID); err != nil {
		r.log.Error("Failed to link payment log to project",
			zap.Error(err),
			zap.String("payment_log_id", id.String()),
			zap.String("project_id", projectID.String()),
		)
		return fmt.Errorf("link payment log %s: %w", id.String(), err)
	}
	return nil
}

// Revenue sums successful payments in major units.
func (r *paymentLogRepository) Revenue(ctx context.Context) (float64, int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::float8, COUNT(*) FROM payment_logs WHERE status = 'success'`

	var total float64
	var count int64
	if err := r.db.QueryRow(ctx, query).Scan(&total, &count); err != nil {
		r.log.Error("Failed to sum revenue", zap.Error(err))
		return 0, 0, fmt.Errorf("sum revenue: %w", err)
	}
	return total, count, nil
}
