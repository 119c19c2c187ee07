package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MethodCash = "cash"
	MethodBank = "bank"
	// MethodTransfer is a legacy alias of bank kept on old rows; history
	// reads render it as bank, stored values are untouched.
	MethodTransfer = "transfer"
	MethodWallet   = "wallet"
	MethodOther    = "other"
)

// ModeAuto asks the allocator to spill a payment across older unpaid
// installments before the target one.
const ModeAuto = "auto"

// Payment is an immutable record of one cash application. InstallmentID is
// nullable because legacy payments predate the installment link.
type Payment struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ContractID    int64           `json:"contract_id" db:"contract_id"`
	InstallmentID *int64          `json:"installment_id,omitempty" db:"installment_id"`
	PaymentDate   time.Time       `json:"payment_date" db:"payment_date"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Method        string          `json:"method" db:"method"`
	Reference     string          `json:"reference" db:"reference"`
	InvoiceNumber *string         `json:"invoice_number,omitempty" db:"invoice_number"`
	Note          *string         `json:"note,omitempty" db:"note"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// DisplayMethod normalizes the legacy transfer alias to bank.
func DisplayMethod(method string) string {
	if method == MethodTransfer {
		return MethodBank
	}
	return method
}

// DTOs for requests and responses

type ApplyPaymentRequest struct {
	// Amount stays a raw string so the service can distinguish a missing
	// amount from an unparseable one.
	Amount        string `json:"amount"`
	Method        string `json:"method" validate:"required,oneof=cash bank transfer wallet other"`
	Reference     string `json:"reference"`
	PaymentDate   string `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	InvoiceNumber string `json:"invoice_number"`
	Note          string `json:"note"`
	Mode          string `json:"mode" validate:"omitempty,oneof=auto"`
}

// AllocationEntry records one non-zero application of money against one
// installment, in the order applied.
type AllocationEntry struct {
	InstallmentID int64           `json:"installment_id"`
	SequenceNo    int             `json:"sequence_no"`
	Applied       decimal.Decimal `json:"applied"`
}

type ApplyPaymentResponse struct {
	Breakdown []*AllocationEntry `json:"breakdown"`
}

type PaymentHistoryItem struct {
	ID            uuid.UUID       `json:"id"`
	PaymentDate   string          `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Reference     string          `json:"reference"`
	Note          string          `json:"note,omitempty"`
}

type PaymentHistoryResponse struct {
	Payments        []*PaymentHistoryItem `json:"payments"`
	PreviousPending []*PendingInstallment `json:"previous_pending"`
}
