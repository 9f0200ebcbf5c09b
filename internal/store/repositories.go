package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
)

// Repository decorators applying the backoff policy to every write.
// Reads pass straight through: a not-found lookup is an answer, not a
// transient failure, and the watcher snapshot path carries its own
// retry. Wired in front of the SQLite implementations at boot.

type RetryingClientRepository struct {
	repository.ClientRepository
}

func NewRetryingClientRepository(inner repository.ClientRepository) *RetryingClientRepository {
	return &RetryingClientRepository{ClientRepository: inner}
}

func (r *RetryingClientRepository) Create(ctx context.Context, client models.Client) (models.Client, error) {
	var created models.Client
	err := Retry(ctx, DefaultAttempts, func() error {
		var err error
		created, err = r.ClientRepository.Create(ctx, client)
		return err
	})
	return created, err
}

func (r *RetryingClientRepository) Update(ctx context.Context, client models.Client) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.ClientRepository.Update(ctx, client)
	})
}

func (r *RetryingClientRepository) Delete(ctx context.Context, id string) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.ClientRepository.Delete(ctx, id)
	})
}

func (r *RetryingClientRepository) SetCompleted(ctx context.Context, id string, completed bool, visitedAt *time.Time) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.ClientRepository.SetCompleted(ctx, id, completed, visitedAt)
	})
}

func (r *RetryingClientRepository) SetStarred(ctx context.Context, id string, starred bool) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.ClientRepository.SetStarred(ctx, id, starred)
	})
}

func (r *RetryingClientRepository) SetDebtFlag(ctx context.Context, id string, hasDebt bool) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.ClientRepository.SetDebtFlag(ctx, id, hasDebt)
	})
}

func (r *RetryingClientRepository) SetTransferFlag(ctx context.Context, id string, hasPendingTransfer bool) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.ClientRepository.SetTransferFlag(ctx, id, hasPendingTransfer)
	})
}

func (r *RetryingClientRepository) SetFlags(ctx context.Context, id string, hasDebt bool, hasPendingTransfer bool) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.ClientRepository.SetFlags(ctx, id, hasDebt, hasPendingTransfer)
	})
}

func (r *RetryingClientRepository) BatchUpdateListOrders(ctx context.Context, updates []repository.ListOrderUpdate) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.ClientRepository.BatchUpdateListOrders(ctx, updates)
	})
}

type RetryingDebtRepository struct {
	repository.DebtRepository
}

func NewRetryingDebtRepository(inner repository.DebtRepository) *RetryingDebtRepository {
	return &RetryingDebtRepository{DebtRepository: inner}
}

func (r *RetryingDebtRepository) Create(ctx context.Context, debt models.Debt) (models.Debt, error) {
	var created models.Debt
	err := Retry(ctx, DefaultAttempts, func() error {
		var err error
		created, err = r.DebtRepository.Create(ctx, debt)
		return err
	})
	return created, err
}

func (r *RetryingDebtRepository) UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.DebtRepository.UpdateAmount(ctx, id, amount)
	})
}

func (r *RetryingDebtRepository) Delete(ctx context.Context, id string) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.DebtRepository.Delete(ctx, id)
	})
}

type RetryingTransferRepository struct {
	repository.TransferRepository
}

func NewRetryingTransferRepository(inner repository.TransferRepository) *RetryingTransferRepository {
	return &RetryingTransferRepository{TransferRepository: inner}
}

func (r *RetryingTransferRepository) Create(ctx context.Context, transfer models.Transfer) (models.Transfer, error) {
	var created models.Transfer
	err := Retry(ctx, DefaultAttempts, func() error {
		var err error
		created, err = r.TransferRepository.Create(ctx, transfer)
		return err
	})
	return created, err
}

func (r *RetryingTransferRepository) Delete(ctx context.Context, id string) error {
	return Retry(ctx, DefaultAttempts, func() error {
		return r.TransferRepository.Delete(ctx, id)
	})
}
