package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	InstallmentStatusPending = "pending"
	InstallmentStatusPartial = "partial"
	InstallmentStatusOverdue = "overdue"
	InstallmentStatusPaid    = "paid"
)

// Installment ("cuota") is one scheduled partial payment of a contract.
// PaidAmount is a cached total; the payment set is the source of truth and
// every mutation recomputes the cache inside the same transaction.
type Installment struct {
	ID         int64           `json:"id" db:"id"`
	ContractID int64           `json:"contract_id" db:"contract_id"`
	SequenceNo int             `json:"sequence_no" db:"sequence_no"`
	DueDate    time.Time       `json:"due_date" db:"due_date"`
	Value      decimal.Decimal `json:"value" db:"value"`
	PaidAmount decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	Status     string          `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`

	// CampusID is the owning student's campus, joined in on read for
	// permission checks. Not a column of the installments table.
	CampusID int64 `json:"-" db:"campus_id"`
}

// Balance returns value minus cached paid amount.
func (i *Installment) Balance() decimal.Decimal {
	return i.Value.Sub(i.PaidAmount)
}

// PaidOf sums the amounts of a set of payments. Tolerates an empty set.
func PaidOf(payments []*Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// DeriveStatus maps a paid amount to the installment status. Overdue is
// never produced here; only the scheduled batch job marks installments
// overdue, by due date.
func DeriveStatus(paid, value decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(value):
		return InstallmentStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return InstallmentStatusPartial
	default:
		return InstallmentStatusPending
	}
}

// PendingInstallment describes an earlier installment that still carries a
// balance, returned to callers so they can settle it or retry in auto mode.
type PendingInstallment struct {
	InstallmentID int64           `json:"installment_id" db:"installment_id"`
	SequenceNo    int             `json:"sequence_no" db:"sequence_no"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
}
