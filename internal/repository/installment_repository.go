package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/odelarosa/tuition-engine/internal/domain"
)

type installmentRepository struct {
	db *sqlx.DB
}

func NewInstallmentRepository(db *sqlx.DB) InstallmentRepository {
	return &installmentRepository{db: db}
}

func (r *installmentRepository) GetByID(ctx context.Context, id int64) (*domain.Installment, error) {
	query := `
		SELECT i.id, i.contract_id, i.sequence_no, i.due_date, i.value, i.paid_amount, i.status, i.created_at,
		       s.campus_id
		FROM installments i
		JOIN contracts c ON c.id = i.contract_id
		JOIN students s ON s.id = c.student_id
		WHERE i.id = $1
	`

	var inst domain.Installment
	if err := r.db.GetContext(ctx, &inst, query, id); err != nil {
		return nil, err
	}

	return &inst, nil
}

func (r *installmentRepository) LockWindow(ctx context.Context, tx *sqlx.Tx, contractID int64, maxSeq int) ([]*domain.Installment, error) {
	query := `
		SELECT id, contract_id, sequence_no, due_date, value, paid_amount, status, created_at
		FROM installments
		WHERE contract_id = $1 AND sequence_no <= $2
		ORDER BY sequence_no
		FOR UPDATE
	`

	var installments []*domain.Installment
	if err := tx.SelectContext(ctx, &installments, query, contractID, maxSeq); err != nil {
		return nil, err
	}

	return installments, nil
}

func (r *installmentRepository) LockByID(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Installment, error) {
	query := `
		SELECT id, contract_id, sequence_no, due_date, value, paid_amount, status, created_at
		FROM installments
		WHERE id = $1
		FOR UPDATE
	`

	var inst domain.Installment
	if err := tx.GetContext(ctx, &inst, query, id); err != nil {
		return nil, err
	}

	return &inst, nil
}

func (r *installmentRepository) UpdatePaid(ctx context.Context, tx *sqlx.Tx, id int64, paid decimal.Decimal, status string) error {
	query := `
		UPDATE installments
		SET paid_amount = $2, status = $3
		WHERE id = $1
	`

	_, err := tx.ExecContext(ctx, query, id, paid, status)
	return err
}

func (r *installmentRepository) ListByContract(ctx context.Context, contractID int64) ([]*domain.Installment, error) {
	query := `
		SELECT id, contract_id, sequence_no, due_date, value, paid_amount, status, created_at
		FROM installments
		WHERE contract_id = $1
		ORDER BY due_date, sequence_no
	`

	var installments []*domain.Installment
	if err := r.db.SelectContext(ctx, &installments, query, contractID); err != nil {
		return nil, err
	}

	return installments, nil
}

// ListPreviousPending computes balances from the payment set rather than the
// cached paid_amount, keeping the read path anchored to the source of truth.
func (r *installmentRepository) ListPreviousPending(ctx context.Context, contractID int64, maxSeq int) ([]*domain.PendingInstallment, error) {
	query := `
		SELECT i.id AS installment_id, i.sequence_no, i.due_date,
		       i.value - COALESCE(SUM(p.amount), 0) AS balance
		FROM installments i
		LEFT JOIN payments p ON p.installment_id = i.id
		WHERE i.contract_id = $1 AND i.sequence_no < $2
		GROUP BY i.id, i.sequence_no, i.due_date, i.value
		HAVING i.value - COALESCE(SUM(p.amount), 0) > 0
		ORDER BY i.sequence_no
	`

	var pending []*domain.PendingInstallment
	if err := r.db.SelectContext(ctx, &pending, query, contractID, maxSeq); err != nil {
		return nil, err
	}

	return pending, nil
}

func (r *installmentRepository) ListSummaries(ctx context.Context, contractID int64) ([]*domain.InstallmentSummary, error) {
	query := `
		SELECT i.id AS installment_id, i.sequence_no, i.due_date, i.value,
		       i.paid_amount AS paid,
		       i.value - i.paid_amount AS balance,
		       i.status,
		       (SELECT MAX(p.payment_date) FROM payments p WHERE p.installment_id = i.id) AS last_payment_at
		FROM installments i
		WHERE i.contract_id = $1
		ORDER BY i.due_date, i.sequence_no
	`

	var summaries []*domain.InstallmentSummary
	if err := r.db.SelectContext(ctx, &summaries, query, contractID); err != nil {
		return nil, err
	}

	return summaries, nil
}

// MarkOverdue leaves paid and partial installments alone; everything else
// past due becomes overdue, matching the nightly batch semantics.
func (r *installmentRepository) MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE installments
		SET status = $1
		WHERE due_date < $2 AND status NOT IN ($3, $4)
	`

	res, err := r.db.ExecContext(ctx, query,
		domain.InstallmentStatusOverdue,
		cutoff,
		domain.InstallmentStatusPaid,
		domain.InstallmentStatusPartial,
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
