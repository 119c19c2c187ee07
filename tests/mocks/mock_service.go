package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/odelarosa/tuition-engine/internal/domain"
)

type MockReceivables struct {
	mock.Mock
}

func (m *MockReceivables) GetPaymentHistory(ctx context.Context, campusScope *int64, installmentID int64) (*domain.PaymentHistoryResponse, error) {
	args := m.Called(ctx, campusScope, installmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentHistoryResponse), args.Error(1)
}

func (m *MockReceivables) ApplyPayment(ctx context.Context, campusScope *int64, installmentID int64, request *domain.ApplyPaymentRequest) (*domain.ApplyPaymentResponse, error) {
	args := m.Called(ctx, campusScope, installmentID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApplyPaymentResponse), args.Error(1)
}

func (m *MockReceivables) RemovePayment(ctx context.Context, campusScope *int64, paymentID uuid.UUID) error {
	args := m.Called(ctx, campusScope, paymentID)
	return args.Error(0)
}

func (m *MockReceivables) GetContractSummary(ctx context.Context, campusScope *int64, contractID int64) (*domain.ContractSummary, error) {
	args := m.Called(ctx, campusScope, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContractSummary), args.Error(1)
}

func (m *MockReceivables) MarkOverdueInstallments(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// NewMockReceivables creates a new mock receivables service instance
func NewMockReceivables() *MockReceivables {
	return &MockReceivables{}
}
