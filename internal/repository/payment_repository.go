package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/odelarosa/tuition-engine/internal/domain"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, contract_id, installment_id, payment_date, amount, method, reference, invoice_number, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		payment.ContractID,
		payment.InstallmentID,
		payment.PaymentDate,
		payment.Amount,
		payment.Method,
		payment.Reference,
		payment.InvoiceNumber,
		payment.Note,
		payment.CreatedAt,
	)

	return err
}

func (r *paymentRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	query := `DELETE FROM payments WHERE id = $1`

	_, err := tx.ExecContext(ctx, query, id)
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `
		SELECT id, contract_id, installment_id, payment_date, amount, method, reference, invoice_number, note, created_at
		FROM payments
		WHERE id = $1
	`

	var payment domain.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepository) ListByInstallment(ctx context.Context, installmentID int64) ([]*domain.Payment, error) {
	query := `
		SELECT id, contract_id, installment_id, payment_date, amount, method, reference, invoice_number, note, created_at
		FROM payments
		WHERE installment_id = $1
		ORDER BY payment_date, created_at
	`

	var payments []*domain.Payment
	if err := r.db.SelectContext(ctx, &payments, query, installmentID); err != nil {
		return nil, err
	}

	return payments, nil
}

// SumByInstallment runs inside the caller's transaction so the reversal
// recompute sees the state after its own delete.
func (r *paymentRepository) SumByInstallment(ctx context.Context, tx *sqlx.Tx, installmentID int64) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE installment_id = $1
	`

	var total decimal.Decimal
	if err := tx.GetContext(ctx, &total, query, installmentID); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
