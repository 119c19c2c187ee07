package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/odelarosa/tuition-engine/internal/config"
	"github.com/odelarosa/tuition-engine/internal/domain"
	"github.com/odelarosa/tuition-engine/internal/repository"
	customError "github.com/odelarosa/tuition-engine/pkg/errors"
	"github.com/odelarosa/tuition-engine/pkg/utils"
)

// Receivables is the accounts-receivable core consumed by the HTTP and
// scheduler boundaries.
type Receivables interface {
	GetPaymentHistory(ctx context.Context, campusScope *int64, installmentID int64) (*domain.PaymentHistoryResponse, error)
	ApplyPayment(ctx context.Context, campusScope *int64, installmentID int64, request *domain.ApplyPaymentRequest) (*domain.ApplyPaymentResponse, error)
	RemovePayment(ctx context.Context, campusScope *int64, paymentID uuid.UUID) error
	GetContractSummary(ctx context.Context, campusScope *int64, contractID int64) (*domain.ContractSummary, error)
	MarkOverdueInstallments(ctx context.Context) (int64, error)
}

type ReceivableService struct {
	contractRepo    repository.ContractRepository
	installmentRepo repository.InstallmentRepository
	paymentRepo     repository.PaymentRepository
	txManager       repository.TxManager
	redis           *redis.Client
	config          *config.Config
}

func NewReceivableService(
	contractRepo repository.ContractRepository,
	installmentRepo repository.InstallmentRepository,
	paymentRepo repository.PaymentRepository,
	txManager repository.TxManager,
	redisClient *redis.Client,
	cfg *config.Config,
) *ReceivableService {
	return &ReceivableService{
		contractRepo:    contractRepo,
		installmentRepo: installmentRepo,
		paymentRepo:     paymentRepo,
		txManager:       txManager,
		redis:           redisClient,
		config:          cfg,
	}
}

// getScopedInstallment loads an installment and enforces campus scoping. A
// nil campusScope means an unrestricted caller.
func (s *ReceivableService) getScopedInstallment(ctx context.Context, campusScope *int64, installmentID int64) (*domain.Installment, error) {
	inst, err := s.installmentRepo.GetByID(ctx, installmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapInstallmentNotFound(installmentID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	if campusScope != nil && inst.CampusID != *campusScope {
		return nil, customError.WrapPermissionDenied()
	}

	return inst, nil
}

// GetPaymentHistory returns the payments applied to one installment together
// with the earlier installments of the contract that still carry a balance.
func (s *ReceivableService) GetPaymentHistory(ctx context.Context, campusScope *int64, installmentID int64) (*domain.PaymentHistoryResponse, error) {
	inst, err := s.getScopedInstallment(ctx, campusScope, installmentID)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.ListByInstallment(ctx, inst.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	items := make([]*domain.PaymentHistoryItem, 0, len(payments))
	for _, p := range payments {
		item := &domain.PaymentHistoryItem{
			ID:          p.ID,
			PaymentDate: utils.FormatDate(p.PaymentDate),
			Amount:      p.Amount,
			// Legacy transfer rows read as bank here; stored values stay.
			Method:    domain.DisplayMethod(p.Method),
			Reference: p.Reference,
		}
		if p.InvoiceNumber != nil {
			item.InvoiceNumber = *p.InvoiceNumber
		}
		if p.Note != nil {
			item.Note = *p.Note
		}
		items = append(items, item)
	}

	pending, err := s.installmentRepo.ListPreviousPending(ctx, inst.ContractID, inst.SequenceNo)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if pending == nil {
		pending = []*domain.PendingInstallment{}
	}

	return &domain.PaymentHistoryResponse{
		Payments:        items,
		PreviousPending: pending,
	}, nil
}

// ApplyPayment validates and applies one cash payment against an installment
// plan. Without auto mode the payment is rejected while earlier installments
// of the contract still carry a balance; with it, the amount is distributed
// oldest-first before crediting the target. One Payment row is written per
// installment actually credited, all inside a single transaction.
func (s *ReceivableService) ApplyPayment(ctx context.Context, campusScope *int64, installmentID int64, request *domain.ApplyPaymentRequest) (*domain.ApplyPaymentResponse, error) {
	inst, err := s.getScopedInstallment(ctx, campusScope, installmentID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(request.Reference) == "" {
		return nil, customError.WrapMissingReference()
	}

	rawAmount := strings.TrimSpace(request.Amount)
	if rawAmount == "" {
		if inst.Balance().LessThanOrEqual(decimal.Zero) {
			return nil, customError.WrapNothingToPay(inst.ID)
		}
		return nil, customError.WrapMissingAmount()
	}

	amount, err := utils.ParseAmount(rawAmount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		return nil, customError.WrapInvalidAmount(rawAmount)
	}

	paymentDate := utils.ParseDateOr(request.PaymentDate, utils.Today())
	auto := request.Mode == domain.ModeAuto

	var breakdown []*domain.AllocationEntry

	err = s.txManager.RunInTx(ctx, func(tx *sqlx.Tx) error {
		// Lock target plus all earlier installments, ascending by sequence,
		// before re-reading balances. Two concurrent allocations over
		// overlapping windows serialize here.
		window, err := s.installmentRepo.LockWindow(ctx, tx, inst.ContractID, inst.SequenceNo)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		var target *domain.Installment
		var previous []*domain.Installment
		for _, w := range window {
			if w.ID == inst.ID {
				target = w
			} else if w.Balance().GreaterThan(decimal.Zero) {
				previous = append(previous, w)
			}
		}
		if target == nil {
			return customError.WrapInstallmentNotFound(inst.ID)
		}

		entries, err := planAllocation(target, previous, amount, auto)
		if err != nil {
			return err
		}

		byID := make(map[int64]*domain.Installment, len(window))
		for _, w := range window {
			byID[w.ID] = w
		}

		for _, entry := range entries {
			credited := byID[entry.InstallmentID]

			payment := &domain.Payment{
				ID:            uuid.New(),
				ContractID:    credited.ContractID,
				InstallmentID: &credited.ID,
				PaymentDate:   paymentDate,
				Amount:        entry.Applied,
				Method:        request.Method,
				Reference:     request.Reference,
				CreatedAt:     time.Now(),
			}
			if v := strings.TrimSpace(request.InvoiceNumber); v != "" {
				payment.InvoiceNumber = &v
			}
			if v := strings.TrimSpace(request.Note); v != "" {
				payment.Note = &v
			}

			if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
				return customError.WrapDatabaseError(err)
			}

			credited.PaidAmount = credited.PaidAmount.Add(entry.Applied)
			status := domain.DeriveStatus(credited.PaidAmount, credited.Value)
			if err := s.installmentRepo.UpdatePaid(ctx, tx, credited.ID, credited.PaidAmount, status); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		breakdown = entries
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateContractSummary(ctx, inst.ContractID)

	if breakdown == nil {
		breakdown = []*domain.AllocationEntry{}
	}
	return &domain.ApplyPaymentResponse{Breakdown: breakdown}, nil
}

// RemovePayment deletes a payment and recomputes the owning installment's
// paid amount from the remaining payment set. Deleting the last payment
// leaves the installment pending, never overdue; the nightly job owns that
// transition.
func (s *ReceivableService) RemovePayment(ctx context.Context, campusScope *int64, paymentID uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return customError.WrapPaymentNotFound(paymentID.String())
		}
		return customError.WrapDatabaseError(err)
	}

	// Legacy payments without an installment link need no recomputation.
	if payment.InstallmentID == nil {
		err = s.txManager.RunInTx(ctx, func(tx *sqlx.Tx) error {
			return s.paymentRepo.Delete(ctx, tx, payment.ID)
		})
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	}

	inst, err := s.getScopedInstallment(ctx, campusScope, *payment.InstallmentID)
	if err != nil {
		return err
	}
	if inst.ContractID != payment.ContractID {
		return customError.WrapContractMismatch(paymentID.String())
	}

	err = s.txManager.RunInTx(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.installmentRepo.LockByID(ctx, tx, inst.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := s.paymentRepo.Delete(ctx, tx, payment.ID); err != nil {
			return customError.WrapDatabaseError(err)
		}

		// Recompute from the payment set instead of decrementing, so the
		// cached total self-corrects even if it had drifted.
		paid, err := s.paymentRepo.SumByInstallment(ctx, tx, locked.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		status := domain.DeriveStatus(paid, locked.Value)
		return s.installmentRepo.UpdatePaid(ctx, tx, locked.ID, paid, status)
	})
	if err != nil {
		return err
	}

	s.invalidateContractSummary(ctx, payment.ContractID)
	return nil
}

// GetContractSummary returns contract-level totals plus one row per
// installment, served from redis when fresh.
func (s *ReceivableService) GetContractSummary(ctx context.Context, campusScope *int64, contractID int64) (*domain.ContractSummary, error) {
	campusID, err := s.contractRepo.GetCampusID(ctx, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapContractNotFound(contractID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	if campusScope != nil && campusID != *campusScope {
		return nil, customError.WrapPermissionDenied()
	}

	if cached := s.cachedContractSummary(ctx, contractID); cached != nil {
		return cached, nil
	}

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	installments, err := s.installmentRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	paid, outstanding := domain.ContractTotals(contract, installments)

	rows, err := s.installmentRepo.ListSummaries(ctx, contractID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if rows == nil {
		rows = []*domain.InstallmentSummary{}
	}

	summary := &domain.ContractSummary{
		ContractID:   contract.ID,
		StudentID:    contract.StudentID,
		Status:       contract.Status,
		TotalValue:   contract.TotalValue,
		TotalPaid:    paid,
		Outstanding:  outstanding,
		Installments: rows,
	}

	s.storeContractSummary(ctx, summary)
	return summary, nil
}

// MarkOverdueInstallments flags installments past their due date that are
// neither paid nor partially paid. Invoked by the scheduler binary.
func (s *ReceivableService) MarkOverdueInstallments(ctx context.Context) (int64, error) {
	count, err := s.installmentRepo.MarkOverdue(ctx, utils.Today())
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}
	return count, nil
}

// Cache helpers. Failures here are logged and swallowed; the cache is a read
// optimization, never part of a transaction.

func contractSummaryKey(contractID int64) string {
	return fmt.Sprintf("contract:summary:%d", contractID)
}

func (s *ReceivableService) cachedContractSummary(ctx context.Context, contractID int64) *domain.ContractSummary {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, contractSummaryKey(contractID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("contract summary cache read failed: %v", err)
		}
		return nil
	}

	var summary domain.ContractSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		log.Printf("contract summary cache decode failed: %v", err)
		return nil
	}
	return &summary
}

func (s *ReceivableService) storeContractSummary(ctx context.Context, summary *domain.ContractSummary) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		log.Printf("contract summary cache encode failed: %v", err)
		return
	}

	if err := s.redis.Set(ctx, contractSummaryKey(summary.ContractID), raw, s.config.GetSummaryCacheTTL()).Err(); err != nil {
		log.Printf("contract summary cache write failed: %v", err)
	}
}

func (s *ReceivableService) invalidateContractSummary(ctx context.Context, contractID int64) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, contractSummaryKey(contractID)).Err(); err != nil {
		log.Printf("contract summary cache invalidation failed: %v", err)
	}
}
