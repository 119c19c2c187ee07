package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/odelarosa/tuition-engine/internal/domain"
)

// MockTxManager runs the unit of work inline with a nil transaction; the
// repository mocks ignore the tx argument.
type MockTxManager struct {
	mock.Mock
	// BeginErr short-circuits RunInTx when set.
	BeginErr error
}

func (m *MockTxManager) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	if m.BeginErr != nil {
		return m.BeginErr
	}
	return fn(nil)
}

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) GetByID(ctx context.Context, id int64) (*domain.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) LockWindow(ctx context.Context, tx *sqlx.Tx, contractID int64, maxSeq int) ([]*domain.Installment, error) {
	args := m.Called(ctx, tx, contractID, maxSeq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) LockByID(ctx context.Context, tx *sqlx.Tx, id int64) (*domain.Installment, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) UpdatePaid(ctx context.Context, tx *sqlx.Tx, id int64, paid decimal.Decimal, status string) error {
	args := m.Called(ctx, tx, id, paid, status)
	return args.Error(0)
}

func (m *MockInstallmentRepository) ListByContract(ctx context.Context, contractID int64) ([]*domain.Installment, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) ListPreviousPending(ctx context.Context, contractID int64, maxSeq int) ([]*domain.PendingInstallment, error) {
	args := m.Called(ctx, contractID, maxSeq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PendingInstallment), args.Error(1)
}

func (m *MockInstallmentRepository) ListSummaries(ctx context.Context, contractID int64) ([]*domain.InstallmentSummary, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InstallmentSummary), args.Error(1)
}

func (m *MockInstallmentRepository) MarkOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx *sqlx.Tx, payment *domain.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Delete(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByInstallment(ctx context.Context, installmentID int64) ([]*domain.Payment, error) {
	args := m.Called(ctx, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumByInstallment(ctx context.Context, tx *sqlx.Tx, installmentID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, installmentID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) GetByID(ctx context.Context, id int64) (*domain.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepository) GetCampusID(ctx context.Context, contractID int64) (int64, error) {
	args := m.Called(ctx, contractID)
	return args.Get(0).(int64), args.Error(1)
}
