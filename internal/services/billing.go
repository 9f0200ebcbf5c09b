package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
)

// BillingService keeps the cached hasDebt / hasPendingTransfer flags on
// client records in step with the debt and transfer collections. The
// collections are the source of truth; the flags exist so day lists
// render without a join. Each operation is a sequence of independent
// writes, so a crash in between can leave a flag stale until the next
// operation for that client or the nightly ReconcileFlags pass.
type BillingService struct {
	clientRepo   repository.ClientRepository
	debtRepo     repository.DebtRepository
	transferRepo repository.TransferRepository
}

func NewBillingService(
	clientRepo repository.ClientRepository,
	debtRepo repository.DebtRepository,
	transferRepo repository.TransferRepository,
) *BillingService {
	return &BillingService{
		clientRepo:   clientRepo,
		debtRepo:     debtRepo,
		transferRepo: transferRepo,
	}
}

// AddDebt records a new debt and raises the client's debt flag. Amounts
// that are not strictly positive are rejected as a silent no-op; they
// only arise from input already refused upstream.
func (service *BillingService) AddDebt(ctx context.Context, scope models.Scope, clientID string, amount decimal.Decimal, note string) (models.Debt, error) {
	if !amount.IsPositive() {
		return models.Debt{}, nil
	}

	debt, err := service.debtRepo.Create(ctx, models.Debt{
		ClientID: clientID,
		Amount:   amount,
		Note:     note,
		Scope:    scope,
	})
	if err != nil {
		return models.Debt{}, fmt.Errorf("creating debt: %w", err)
	}

	if err := service.clientRepo.SetDebtFlag(ctx, clientID, true); err != nil {
		return debt, fmt.Errorf("raising debt flag: %w", err)
	}
	return debt, nil
}

// MarkPaid deletes the debt and lowers the client's flag when the
// snapshot taken before the delete holds no other debt for that client.
func (service *BillingService) MarkPaid(ctx context.Context, scope models.Scope, debtID string) error {
	debts, err := service.debtRepo.FindAll(ctx, scope)
	if err != nil {
		return fmt.Errorf("loading debts: %w", err)
	}

	var paid *models.Debt
	for i := range debts {
		if debts[i].ID == debtID {
			paid = &debts[i]
			break
		}
	}
	if paid == nil {
		// Already deleted; a replayed pay is a no-op.
		return nil
	}

	if err := service.debtRepo.Delete(ctx, debtID); err != nil {
		return fmt.Errorf("deleting debt: %w", err)
	}

	for _, debt := range debts {
		if debt.ID != debtID && debt.ClientID == paid.ClientID {
			return nil
		}
	}
	if err := service.clientRepo.SetDebtFlag(ctx, paid.ClientID, false); err != nil {
		return fmt.Errorf("lowering debt flag: %w", err)
	}
	return nil
}

// EditAmount mutates the amount in place. The debt still exists either
// way, so the cached flag is never touched here.
func (service *BillingService) EditAmount(ctx context.Context, debtID string, newAmount decimal.Decimal) error {
	if !newAmount.IsPositive() {
		return nil
	}
	if err := service.debtRepo.UpdateAmount(ctx, debtID, newAmount); err != nil {
		return fmt.Errorf("editing debt amount: %w", err)
	}
	return nil
}

// AddTransfer opens a pending-review marker for the client, keeping at
// most one open per client. The uniqueness check runs over the scope
// snapshot held here; two concurrent writers can still both pass it,
// which is accepted and healed by ReconcileFlags.
func (service *BillingService) AddTransfer(ctx context.Context, scope models.Scope, clientID string) (bool, error) {
	transfers, err := service.transferRepo.FindAll(ctx, scope)
	if err != nil {
		return false, fmt.Errorf("loading transfers: %w", err)
	}
	for _, transfer := range transfers {
		if transfer.ClientID == clientID {
			return false, nil
		}
	}

	if _, err := service.transferRepo.Create(ctx, models.Transfer{
		ClientID: clientID,
		Scope:    scope,
	}); err != nil {
		return false, fmt.Errorf("creating transfer: %w", err)
	}

	if err := service.clientRepo.SetTransferFlag(ctx, clientID, true); err != nil {
		return true, fmt.Errorf("raising transfer flag: %w", err)
	}
	return true, nil
}

// MarkReviewed deletes the transfer and lowers the client's flag when
// the pre-delete snapshot holds no other transfer for that client.
func (service *BillingService) MarkReviewed(ctx context.Context, scope models.Scope, transferID string) error {
	transfers, err := service.transferRepo.FindAll(ctx, scope)
	if err != nil {
		return fmt.Errorf("loading transfers: %w", err)
	}

	var reviewed *models.Transfer
	for i := range transfers {
		if transfers[i].ID == transferID {
			reviewed = &transfers[i]
			break
		}
	}
	if reviewed == nil {
		return nil
	}

	if err := service.transferRepo.Delete(ctx, transferID); err != nil {
		return fmt.Errorf("deleting transfer: %w", err)
	}

	for _, transfer := range transfers {
		if transfer.ID != transferID && transfer.ClientID == reviewed.ClientID {
			return nil
		}
	}
	if err := service.clientRepo.SetTransferFlag(ctx, reviewed.ClientID, false); err != nil {
		return fmt.Errorf("lowering transfer flag: %w", err)
	}
	return nil
}

// ReconcileFlags recomputes both cached flags for every client from the
// live collections, writing only rows that drifted. Run nightly.
func (service *BillingService) ReconcileFlags(ctx context.Context) error {
	clients, err := service.clientRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("loading clients: %w", err)
	}
	debts, err := service.debtRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("loading debts: %w", err)
	}
	transfers, err := service.transferRepo.All(ctx)
	if err != nil {
		return fmt.Errorf("loading transfers: %w", err)
	}

	hasDebt := make(map[string]bool, len(debts))
	for _, debt := range debts {
		hasDebt[debt.ClientID] = true
	}
	hasTransfer := make(map[string]bool, len(transfers))
	for _, transfer := range transfers {
		hasTransfer[transfer.ClientID] = true
	}

	for _, client := range clients {
		wantDebt := hasDebt[client.ID]
		wantTransfer := hasTransfer[client.ID]
		if client.HasDebt == wantDebt && client.HasPendingTransfer == wantTransfer {
			continue
		}
		if err := service.clientRepo.SetFlags(ctx, client.ID, wantDebt, wantTransfer); err != nil {
			return fmt.Errorf("reconciling flags for %s: %w", client.ID, err)
		}
	}
	return nil
}
