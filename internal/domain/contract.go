package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ContractStatusActive   = "active"
	ContractStatusFinished = "finished"
)

// Contract represents one enrollment agreement. It owns the installment
// plan created at contract setup; the receivables core never mutates it.
type Contract struct {
	ID               int64           `json:"id" db:"id"`
	StudentID        int64           `json:"student_id" db:"student_id"`
	GuardianID       int64           `json:"guardian_id" db:"guardian_id"`
	StartDate        time.Time       `json:"start_date" db:"start_date"`
	EndDate          *time.Time      `json:"end_date,omitempty" db:"end_date"`
	TotalValue       decimal.Decimal `json:"total_value" db:"total_value"`
	InstallmentValue decimal.Decimal `json:"installment_value" db:"installment_value"`
	InstallmentCount int             `json:"installment_count" db:"installment_count"`
	Status           string          `json:"status" db:"status"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" db:"updated_at"`
}

// ContractSummary is the read-side aggregate for one contract: totals plus
// one row per installment with its current balance and last payment.
type ContractSummary struct {
	ContractID   int64                 `json:"contract_id"`
	StudentID    int64                 `json:"student_id"`
	Status       string                `json:"status"`
	TotalValue   decimal.Decimal       `json:"total_value"`
	TotalPaid    decimal.Decimal       `json:"total_paid"`
	Outstanding  decimal.Decimal       `json:"outstanding"`
	Installments []*InstallmentSummary `json:"installments"`
}

type InstallmentSummary struct {
	InstallmentID int64           `json:"installment_id" db:"installment_id"`
	SequenceNo    int             `json:"sequence_no" db:"sequence_no"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	Value         decimal.Decimal `json:"value" db:"value"`
	Paid          decimal.Decimal `json:"paid" db:"paid"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	Status        string          `json:"status" db:"status"`
	LastPaymentAt *time.Time      `json:"last_payment_at,omitempty" db:"last_payment_at"`
}

// ContractTotals sums paid amounts over a contract's installments.
// Outstanding is total value minus paid, mirroring the installment-level
// balance rule.
func ContractTotals(c *Contract, installments []*Installment) (paid, outstanding decimal.Decimal) {
	paid = decimal.Zero
	for _, inst := range installments {
		paid = paid.Add(inst.PaidAmount)
	}
	return paid, c.TotalValue.Sub(paid)
}
