package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrInstallmentNotFound = errors.New("installment not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrContractNotFound    = errors.New("contract not found")
	ErrPermissionDenied    = errors.New("campus permission denied")
	ErrMissingReference    = errors.New("payment reference is required")
	ErrNothingToPay        = errors.New("installment has no balance left to pay")
	ErrMissingAmount       = errors.New("payment amount is required")
	ErrInvalidAmount       = errors.New("payment amount must be a positive number")
	ErrPreviousPending     = errors.New("previous installments have pending balance")
	ErrExceedsCapacity     = errors.New("amount exceeds total capacity of the installment window")
	ErrExceedsBalance      = errors.New("amount exceeds the installment balance")
	ErrContractMismatch    = errors.New("payment installment belongs to a different contract")
)

// BusinessError represents a business logic error. Data carries the
// machine-readable payload some failures need (pending installment list,
// capacity figure) so callers can retry with corrected input.
type BusinessError struct {
	Code    string
	Message string
	Data    interface{}
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodePermissionDenied = "PERMISSION_DENIED"
	ErrCodeMissingReference = "MISSING_REFERENCE"
	ErrCodeNothingToPay     = "NOTHING_TO_PAY"
	ErrCodeMissingAmount    = "MISSING_AMOUNT"
	ErrCodeInvalidAmount    = "INVALID_AMOUNT"
	ErrCodePreviousPending  = "PREVIOUS_PENDING"
	ErrCodeExceedsCapacity  = "EXCEEDS_CAPACITY"
	ErrCodeExceedsBalance   = "EXCEEDS_BALANCE"
	ErrCodeContractMismatch = "CONTRACT_MISMATCH"
	ErrCodeDatabaseError    = "DATABASE_ERROR"
	ErrCodeCacheError       = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapInstallmentNotFound(installmentID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Installment %d not found", installmentID),
		ErrInstallmentNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Payment %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapContractNotFound(contractID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("Contract %d not found", contractID),
		ErrContractNotFound,
	)
}

func WrapPermissionDenied() *BusinessError {
	return NewBusinessError(
		ErrCodePermissionDenied,
		"You have no permission over this campus",
		ErrPermissionDenied,
	)
}

func WrapMissingReference() *BusinessError {
	return NewBusinessError(
		ErrCodeMissingReference,
		"A payment reference is required",
		ErrMissingReference,
	)
}

func WrapNothingToPay(installmentID int64) *BusinessError {
	return NewBusinessError(
		ErrCodeNothingToPay,
		fmt.Sprintf("Installment %d has no balance left to pay", installmentID),
		ErrNothingToPay,
	)
}

func WrapMissingAmount() *BusinessError {
	return NewBusinessError(
		ErrCodeMissingAmount,
		"The amount to pay is required",
		ErrMissingAmount,
	)
}

func WrapInvalidAmount(raw string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidAmount,
		fmt.Sprintf("Invalid payment amount: %q", raw),
		ErrInvalidAmount,
	)
}

// WrapPreviousPending carries the list of earlier installments that still
// have a balance, so the caller can settle them or retry with mode=auto.
func WrapPreviousPending(pending interface{}) *BusinessError {
	return &BusinessError{
		Code:    ErrCodePreviousPending,
		Message: "Earlier installments have a pending balance. Settle them first or use auto distribution",
		Data:    pending,
		Err:     ErrPreviousPending,
	}
}

// WrapExceedsCapacity carries the total capacity of the installment window.
func WrapExceedsCapacity(amount, capacity decimal.Decimal) *BusinessError {
	return &BusinessError{
		Code:    ErrCodeExceedsCapacity,
		Message: fmt.Sprintf("The amount (%s) exceeds the total available capacity (%s)", amount, capacity),
		Data:    map[string]string{"capacity": capacity.String()},
		Err:     ErrExceedsCapacity,
	}
}

func WrapExceedsBalance(balance decimal.Decimal) *BusinessError {
	return &BusinessError{
		Code:    ErrCodeExceedsBalance,
		Message: fmt.Sprintf("The amount exceeds the installment balance: %s", balance),
		Data:    map[string]string{"balance": balance.String()},
		Err:     ErrExceedsBalance,
	}
}

func WrapContractMismatch(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodeContractMismatch,
		fmt.Sprintf("Payment %s is linked to an installment of a different contract", paymentID),
		ErrContractMismatch,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
