package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
)

type TransferRepository interface {
	FindByID(ctx context.Context, id string) (models.Transfer, error)
	FindAll(ctx context.Context, scope models.Scope) ([]models.Transfer, error)
	All(ctx context.Context) ([]models.Transfer, error)
	Create(ctx context.Context, transfer models.Transfer) (models.Transfer, error)
	Delete(ctx context.Context, id string) error
}

type SQLiteTransferRepository struct {
	database *sql.DB
}

func NewTransferRepository(database *sql.DB) *SQLiteTransferRepository {
	return &SQLiteTransferRepository{database: database}
}

const transferColumns = "id, client_id, user_id, group_id, created_at"

func (repository *SQLiteTransferRepository) FindByID(ctx context.Context, id string) (models.Transfer, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+transferColumns+" FROM transfers WHERE id = ?", id,
	)
	transfer, err := scanTransfer(row)
	if err != nil {
		return models.Transfer{}, fmt.Errorf("finding transfer by id: %w", err)
	}
	return transfer, nil
}

func (repository *SQLiteTransferRepository) FindAll(ctx context.Context, scope models.Scope) ([]models.Transfer, error) {
	condition, value := scopeCondition(scope)
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+transferColumns+" FROM transfers WHERE "+condition+" ORDER BY created_at ASC", value,
	)
	if err != nil {
		return nil, fmt.Errorf("finding transfers: %w", err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func (repository *SQLiteTransferRepository) All(ctx context.Context) ([]models.Transfer, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+transferColumns+" FROM transfers ORDER BY created_at ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("finding all transfers: %w", err)
	}
	defer rows.Close()

	return scanTransfers(rows)
}

func (repository *SQLiteTransferRepository) Create(ctx context.Context, transfer models.Transfer) (models.Transfer, error) {
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	transfer.CreatedAt = time.Now()
	userID, groupID := scopeValues(transfer.Scope)

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO transfers ("+transferColumns+") VALUES (?, ?, ?, ?, ?)",
		transfer.ID, transfer.ClientID, userID, groupID, transfer.CreatedAt,
	)
	if err != nil {
		return models.Transfer{}, fmt.Errorf("creating transfer: %w", err)
	}
	return transfer, nil
}

func (repository *SQLiteTransferRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM transfers WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting transfer: %w", err)
	}
	return nil
}

func scanTransfer(row rowScanner) (models.Transfer, error) {
	var transfer models.Transfer
	var userID, groupID sql.NullString

	if err := row.Scan(&transfer.ID, &transfer.ClientID, &userID, &groupID, &transfer.CreatedAt); err != nil {
		return models.Transfer{}, err
	}
	transfer.Scope = scanScope(userID, groupID)

	return transfer, nil
}

func scanTransfers(rows *sql.Rows) ([]models.Transfer, error) {
	var transfers []models.Transfer
	for rows.Next() {
		transfer, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		transfers = append(transfers, transfer)
	}
	return transfers, rows.Err()
}
