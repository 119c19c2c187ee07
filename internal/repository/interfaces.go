package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/odelarosa/tuition-engine/internal/domain"
)

// TxManager runs a unit of work inside one database transaction. The
// transaction is rolled back when fn returns an error, committed otherwise.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
}

// InstallmentRepository defines the interface for installment data operations
type InstallmentRepository interface {
	// GetByID retrieves an installment with the owning student's campus
	// joined in for permission checks.
	GetByID(ctx context.Context, id int64) (*domain.Installment, error)

	// LockWindow locks the target installment plus every earlier one of the
	// same contract (sequence_no <= maxSeq), ordered ascending by sequence
	// number. Lock order is the deadlock-avoidance order.
	LockWindow(ctx context.Context, tx *sqlx.Tx, contractID int64, maxSeq int) ([]*domain.Installment, error)

	// LockByID locks a single installment row.
	LockByID(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Installment, error)

	// UpdatePaid writes the recomputed cached paid amount and derived status.
	UpdatePaid(ctx context.Context, tx *sqlx.Tx, id int64, paid decimal.Decimal, status string) error

	// ListByContract retrieves all installments of a contract in
	// chronological order.
	ListByContract(ctx context.Context, contractID int64) ([]*domain.Installment, error)

	// ListPreviousPending lists earlier installments of the contract that
	// still carry a balance, computed from the payment set.
	ListPreviousPending(ctx context.Context, contractID int64, maxSeq int) ([]*domain.PendingInstallment, error)

	// ListSummaries retrieves the read-side per-installment rows for a
	// contract summary.
	ListSummaries(ctx context.Context, contractID int64) ([]*domain.InstallmentSummary, error)

	// MarkOverdue flags unpaid installments whose due date passed the cutoff.
	MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create inserts a new payment record inside the caller's transaction.
	Create(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error

	// Delete removes a payment row inside the caller's transaction.
	Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error

	// GetByID retrieves a payment by its id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	// ListByInstallment retrieves all payments linked to an installment,
	// oldest first.
	ListByInstallment(ctx context.Context, installmentID int64) ([]*domain.Payment, error)

	// SumByInstallment computes the authoritative paid total for an
	// installment from its remaining payments.
	SumByInstallment(ctx context.Context, tx *sqlx.Tx, installmentID int64) (decimal.Decimal, error)
}

// ContractRepository defines the interface for contract reads
type ContractRepository interface {
	// GetByID retrieves a contract.
	GetByID(ctx context.Context, id int64) (*domain.Contract, error)

	// GetCampusID resolves the campus of the contract's student.
	GetCampusID(ctx context.Context, contractID int64) (int64, error)
}
