package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odelarosa/tuition-engine/internal/domain"
	customError "github.com/odelarosa/tuition-engine/pkg/errors"
)

func inst(id int64, seq int, value, paid string) *domain.Installment {
	return &domain.Installment{
		ID:         id,
		ContractID: 1,
		SequenceNo: seq,
		DueDate:    time.Date(2026, time.January, seq, 0, 0, 0, 0, time.UTC),
		Value:      decimal.RequireFromString(value),
		PaidAmount: decimal.RequireFromString(paid),
		Status:     domain.DeriveStatus(decimal.RequireFromString(paid), decimal.RequireFromString(value)),
	}
}

func businessCode(t *testing.T, err error) *customError.BusinessError {
	t.Helper()
	var businessErr *customError.BusinessError
	require.True(t, errors.As(err, &businessErr), "expected a BusinessError, got %v", err)
	return businessErr
}

func TestPlanAllocation_PreviousPendingBlocksNormalMode(t *testing.T) {
	target := inst(2, 2, "100", "0")
	previous := []*domain.Installment{inst(1, 1, "100", "0")}

	entries, err := planAllocation(target, previous, decimal.NewFromInt(50), false)

	assert.Nil(t, entries)
	businessErr := businessCode(t, err)
	assert.Equal(t, customError.ErrCodePreviousPending, businessErr.Code)

	pending, ok := businessErr.Data.([]*domain.PendingInstallment)
	require.True(t, ok)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].InstallmentID)
	assert.Equal(t, 1, pending[0].SequenceNo)
	assert.True(t, pending[0].Balance.Equal(decimal.NewFromInt(100)))
}

func TestPlanAllocation_AutoDistributesOldestFirst(t *testing.T) {
	target := inst(2, 2, "100", "0")
	previous := []*domain.Installment{inst(1, 1, "100", "0")}

	entries, err := planAllocation(target, previous, decimal.NewFromInt(150), true)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].InstallmentID)
	assert.True(t, entries[0].Applied.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(2), entries[1].InstallmentID)
	assert.True(t, entries[1].Applied.Equal(decimal.NewFromInt(50)))
}

func TestPlanAllocation_AutoStopsOnceAmountExhausted(t *testing.T) {
	target := inst(3, 3, "100", "0")
	previous := []*domain.Installment{
		inst(1, 1, "100", "50"), // balance 50
		inst(2, 2, "100", "30"), // balance 70
	}

	entries, err := planAllocation(target, previous, decimal.NewFromInt(40), true)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].InstallmentID)
	assert.True(t, entries[0].Applied.Equal(decimal.NewFromInt(40)))
}

func TestPlanAllocation_AutoExceedsCapacity(t *testing.T) {
	target := inst(2, 2, "100", "0")
	previous := []*domain.Installment{inst(1, 1, "100", "0")}

	entries, err := planAllocation(target, previous, decimal.NewFromInt(250), true)

	assert.Nil(t, entries)
	businessErr := businessCode(t, err)
	assert.Equal(t, customError.ErrCodeExceedsCapacity, businessErr.Code)

	data, ok := businessErr.Data.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "200", data["capacity"])
}

func TestPlanAllocation_NormalModeExceedsBalance(t *testing.T) {
	target := inst(1, 1, "100", "40")

	entries, err := planAllocation(target, nil, decimal.NewFromInt(61), false)

	assert.Nil(t, entries)
	businessErr := businessCode(t, err)
	assert.Equal(t, customError.ErrCodeExceedsBalance, businessErr.Code)
}

func TestPlanAllocation_NormalModeExactBalance(t *testing.T) {
	target := inst(1, 1, "100", "40")

	entries, err := planAllocation(target, nil, decimal.NewFromInt(60), false)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].InstallmentID)
	assert.True(t, entries[0].Applied.Equal(decimal.NewFromInt(60)))
}

func TestPlanAllocation_AutoWithoutPreviousKeepsCapacityCheck(t *testing.T) {
	target := inst(1, 1, "100", "0")

	entries, err := planAllocation(target, nil, decimal.NewFromInt(120), true)

	assert.Nil(t, entries)
	businessErr := businessCode(t, err)
	assert.Equal(t, customError.ErrCodeExceedsCapacity, businessErr.Code)
}

func TestPlanAllocation_BreakdownSumsToAmount(t *testing.T) {
	target := inst(4, 4, "150", "0")
	previous := []*domain.Installment{
		inst(1, 1, "100", "75"),
		inst(2, 2, "100", "0"),
		inst(3, 3, "200", "180"),
	}
	amount := decimal.RequireFromString("160.50")

	entries, err := planAllocation(target, previous, amount, true)
	require.NoError(t, err)

	total := decimal.Zero
	seen := int64(0)
	for _, entry := range entries {
		total = total.Add(entry.Applied)
		assert.True(t, entry.InstallmentID > seen, "entries must stay in allocation order")
		seen = entry.InstallmentID
	}
	assert.True(t, total.Equal(amount))

	// each application stays within the balance before the call
	balances := map[int64]decimal.Decimal{1: decimal.NewFromInt(25), 2: decimal.NewFromInt(100), 3: decimal.NewFromInt(20), 4: decimal.NewFromInt(150)}
	for _, entry := range entries {
		assert.True(t, entry.Applied.LessThanOrEqual(balances[entry.InstallmentID]))
	}
}
