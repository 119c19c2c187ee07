package service

import (
	"github.com/shopspring/decimal"

	"github.com/odelarosa/tuition-engine/internal/domain"
	customError "github.com/odelarosa/tuition-engine/pkg/errors"
)

// pendingOf serializes positive-balance installments into the payload shape
// returned with a PREVIOUS_PENDING failure.
func pendingOf(installments []*domain.Installment) []*domain.PendingInstallment {
	pending := make([]*domain.PendingInstallment, 0, len(installments))
	for _, inst := range installments {
		pending = append(pending, &domain.PendingInstallment{
			InstallmentID: inst.ID,
			SequenceNo:    inst.SequenceNo,
			DueDate:       inst.DueDate,
			Balance:       inst.Balance(),
		})
	}
	return pending
}

// planAllocation decides how amount splits across the previous installments
// that still carry a balance and the target installment. Pure: it works on
// the locked snapshots and performs no I/O.
//
// previous must hold only positive-balance installments of the same contract,
// ordered ascending by sequence number. Oldest installments are exhausted
// first; the remainder goes to the target. The whole call fails without a
// plan when the amount cannot be placed.
func planAllocation(target *domain.Installment, previous []*domain.Installment, amount decimal.Decimal, auto bool) ([]*domain.AllocationEntry, error) {
	if len(previous) > 0 && !auto {
		return nil, customError.WrapPreviousPending(pendingOf(previous))
	}

	targetBalance := target.Balance()

	if auto {
		capacity := targetBalance
		for _, inst := range previous {
			capacity = capacity.Add(inst.Balance())
		}
		if amount.GreaterThan(capacity) {
			return nil, customError.WrapExceedsCapacity(amount, capacity)
		}
	} else if amount.GreaterThan(targetBalance) {
		return nil, customError.WrapExceedsBalance(targetBalance)
	}

	var entries []*domain.AllocationEntry
	remaining := amount

	for _, inst := range previous {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		applied := decimal.Min(remaining, inst.Balance())
		if applied.LessThanOrEqual(decimal.Zero) {
			continue
		}
		entries = append(entries, &domain.AllocationEntry{
			InstallmentID: inst.ID,
			SequenceNo:    inst.SequenceNo,
			Applied:       applied,
		})
		remaining = remaining.Sub(applied)
	}

	if remaining.GreaterThan(decimal.Zero) {
		applied := decimal.Min(remaining, targetBalance)
		if applied.GreaterThan(decimal.Zero) {
			entries = append(entries, &domain.AllocationEntry{
				InstallmentID: target.ID,
				SequenceNo:    target.SequenceNo,
				Applied:       applied,
			})
		}
	}

	return entries, nil
}
