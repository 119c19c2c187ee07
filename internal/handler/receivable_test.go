package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/odelarosa/tuition-engine/internal/domain"
	customError "github.com/odelarosa/tuition-engine/pkg/errors"
	"github.com/odelarosa/tuition-engine/tests/mocks"
)

func newRouter(svc *mocks.MockReceivables) *mux.Router {
	h := NewReceivableHandler(svc)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/installments/{id}/payments", h.GetPaymentHistory).Methods("GET")
	router.HandleFunc("/api/v1/installments/{id}/payments", h.ApplyPayment).Methods("POST")
	router.HandleFunc("/api/v1/payments/{id}", h.RemovePayment).Methods("DELETE")
	router.HandleFunc("/api/v1/contracts/{id}/summary", h.GetContractSummary).Methods("GET")
	return router
}

func TestGetPaymentHistory_OK(t *testing.T) {
	svc := mocks.NewMockReceivables()
	svc.On("GetPaymentHistory", mock.Anything, (*int64)(nil), int64(12)).Return(&domain.PaymentHistoryResponse{
		Payments:        []*domain.PaymentHistoryItem{},
		PreviousPending: []*domain.PendingInstallment{},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/installments/12/payments", nil)
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetPaymentHistory_PassesCampusScope(t *testing.T) {
	svc := mocks.NewMockReceivables()
	svc.On("GetPaymentHistory", mock.Anything, mock.MatchedBy(func(scope *int64) bool {
		return scope != nil && *scope == 4
	}), int64(12)).Return(nil, customError.WrapPermissionDenied())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/installments/12/payments", nil)
	req.Header.Set(CampusHeader, "4")
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertExpectations(t)
}

func TestApplyPayment_CreatedWithBreakdown(t *testing.T) {
	svc := mocks.NewMockReceivables()
	svc.On("ApplyPayment", mock.Anything, (*int64)(nil), int64(2), mock.MatchedBy(func(r *domain.ApplyPaymentRequest) bool {
		return r.Amount == "150" && r.Mode == domain.ModeAuto
	})).Return(&domain.ApplyPaymentResponse{
		Breakdown: []*domain.AllocationEntry{
			{InstallmentID: 1, SequenceNo: 1, Applied: decimal.NewFromInt(100)},
			{InstallmentID: 2, SequenceNo: 2, Applied: decimal.NewFromInt(50)},
		},
	}, nil)

	body, _ := json.Marshal(map[string]string{
		"amount":    "150",
		"method":    "cash",
		"reference": "REC-77",
		"mode":      "auto",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/installments/2/payments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestApplyPayment_PreviousPendingRendersPayload(t *testing.T) {
	svc := mocks.NewMockReceivables()
	svc.On("ApplyPayment", mock.Anything, (*int64)(nil), int64(2), mock.Anything).
		Return(nil, customError.WrapPreviousPending([]*domain.PendingInstallment{
			{InstallmentID: 1, SequenceNo: 1, Balance: decimal.NewFromInt(100)},
		}))

	body, _ := json.Marshal(map[string]string{
		"amount":    "50",
		"method":    "cash",
		"reference": "REC-77",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/installments/2/payments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Code string          `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, customError.ErrCodePreviousPending, envelope.Code)

	var pending []*domain.PendingInstallment
	require.NoError(t, json.Unmarshal(envelope.Data, &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].InstallmentID)
}

func TestApplyPayment_RejectsUnknownMethod(t *testing.T) {
	svc := mocks.NewMockReceivables()

	body, _ := json.Marshal(map[string]string{
		"amount":    "50",
		"method":    "crypto",
		"reference": "REC-77",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/installments/2/payments", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ApplyPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyPayment_InvalidInstallmentID(t *testing.T) {
	svc := mocks.NewMockReceivables()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/installments/abc/payments", bytes.NewReader([]byte("{}")))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemovePayment_OK(t *testing.T) {
	svc := mocks.NewMockReceivables()
	paymentID := uuid.New()
	svc.On("RemovePayment", mock.Anything, (*int64)(nil), paymentID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/payments/"+paymentID.String(), nil)
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestRemovePayment_NotFound(t *testing.T) {
	svc := mocks.NewMockReceivables()
	paymentID := uuid.New()
	svc.On("RemovePayment", mock.Anything, (*int64)(nil), paymentID).
		Return(customError.WrapPaymentNotFound(paymentID.String()))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/payments/"+paymentID.String(), nil)
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetContractSummary_OK(t *testing.T) {
	svc := mocks.NewMockReceivables()
	svc.On("GetContractSummary", mock.Anything, (*int64)(nil), int64(3)).Return(&domain.ContractSummary{
		ContractID:   3,
		TotalValue:   decimal.NewFromInt(400),
		TotalPaid:    decimal.NewFromInt(125),
		Outstanding:  decimal.NewFromInt(275),
		Installments: []*domain.InstallmentSummary{},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/contracts/3/summary", nil)
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestInvalidCampusHeader(t *testing.T) {
	svc := mocks.NewMockReceivables()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/installments/12/payments", nil)
	req.Header.Set(CampusHeader, "north")
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GetPaymentHistory", mock.Anything, mock.Anything, mock.Anything)
}
