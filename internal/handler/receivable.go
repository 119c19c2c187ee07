package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/odelarosa/tuition-engine/internal/domain"
	"github.com/odelarosa/tuition-engine/internal/service"
	customError "github.com/odelarosa/tuition-engine/pkg/errors"
	"github.com/odelarosa/tuition-engine/pkg/response"
)

// CampusHeader carries the caller's campus restriction, set by the auth
// layer in front of this service. Absent header means an unrestricted user.
const CampusHeader = "X-Campus-ID"

type ReceivableHandler struct {
	service   service.Receivables
	validator *validator.Validate
}

func NewReceivableHandler(svc service.Receivables) *ReceivableHandler {
	return &ReceivableHandler{
		service:   svc,
		validator: validator.New(),
	}
}

// GetPaymentHistory handles GET /installments/{id}/payments
func (h *ReceivableHandler) GetPaymentHistory(w http.ResponseWriter, r *http.Request) {
	installmentID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid installment id", err)
		return
	}

	scope, err := campusScope(r)
	if err != nil {
		response.BadRequest(w, "Invalid campus header", err)
		return
	}

	history, err := h.service.GetPaymentHistory(r.Context(), scope, installmentID)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, history)
}

// ApplyPayment handles POST /installments/{id}/payments
func (h *ReceivableHandler) ApplyPayment(w http.ResponseWriter, r *http.Request) {
	installmentID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid installment id", err)
		return
	}

	scope, err := campusScope(r)
	if err != nil {
		response.BadRequest(w, "Invalid campus header", err)
		return
	}

	var request domain.ApplyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "Invalid request", err)
		return
	}

	result, err := h.service.ApplyPayment(r.Context(), scope, installmentID, &request)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Created(w, result)
}

// RemovePayment handles DELETE /payments/{id}
func (h *ReceivableHandler) RemovePayment(w http.ResponseWriter, r *http.Request) {
	paymentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "Invalid payment id", err)
		return
	}

	scope, err := campusScope(r)
	if err != nil {
		response.BadRequest(w, "Invalid campus header", err)
		return
	}

	if err := h.service.RemovePayment(r.Context(), scope, paymentID); err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, map[string]bool{"removed": true})
}

// GetContractSummary handles GET /contracts/{id}/summary
func (h *ReceivableHandler) GetContractSummary(w http.ResponseWriter, r *http.Request) {
	contractID, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid contract id", err)
		return
	}

	scope, err := campusScope(r)
	if err != nil {
		response.BadRequest(w, "Invalid campus header", err)
		return
	}

	summary, err := h.service.GetContractSummary(r.Context(), scope, contractID)
	if err != nil {
		renderError(w, err)
		return
	}

	response.Success(w, summary)
}

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

func campusScope(r *http.Request) (*int64, error) {
	raw := strings.TrimSpace(r.Header.Get(CampusHeader))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func renderError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		response.InternalServerError(w, "Unexpected error", err)
		return
	}

	response.BusinessFailure(w, statusOf(businessErr.Code), businessErr.Code, businessErr.Message, businessErr.Data)
}

func statusOf(code string) int {
	switch code {
	case customError.ErrCodeNotFound:
		return http.StatusNotFound
	case customError.ErrCodePermissionDenied:
		return http.StatusForbidden
	case customError.ErrCodeDatabaseError, customError.ErrCodeCacheError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
