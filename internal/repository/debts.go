package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
)

type DebtRepository interface {
	FindByID(ctx context.Context, id string) (models.Debt, error)
	FindAll(ctx context.Context, scope models.Scope) ([]models.Debt, error)
	FindByClient(ctx context.Context, clientID string) ([]models.Debt, error)
	All(ctx context.Context) ([]models.Debt, error)
	Create(ctx context.Context, debt models.Debt) (models.Debt, error)
	UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}

type SQLiteDebtRepository struct {
	database *sql.DB
}

func NewDebtRepository(database *sql.DB) *SQLiteDebtRepository {
	return &SQLiteDebtRepository{database: database}
}

const debtColumns = "id, client_id, amount, note, user_id, group_id, created_at"

func (repository *SQLiteDebtRepository) FindByID(ctx context.Context, id string) (models.Debt, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+debtColumns+" FROM debts WHERE id = ?", id,
	)
	debt, err := scanDebt(row)
	if err != nil {
		return models.Debt{}, fmt.Errorf("finding debt by id: %w", err)
	}
	return debt, nil
}

func (repository *SQLiteDebtRepository) FindAll(ctx context.Context, scope models.Scope) ([]models.Debt, error) {
	condition, value := scopeCondition(scope)
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+debtColumns+" FROM debts WHERE "+condition+" ORDER BY created_at ASC", value,
	)
	if err != nil {
		return nil, fmt.Errorf("finding debts: %w", err)
	}
	defer rows.Close()

	return scanDebts(rows)
}

func (repository *SQLiteDebtRepository) FindByClient(ctx context.Context, clientID string) ([]models.Debt, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+debtColumns+" FROM debts WHERE client_id = ? ORDER BY created_at ASC", clientID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding debts by client: %w", err)
	}
	defer rows.Close()

	return scanDebts(rows)
}

func (repository *SQLiteDebtRepository) All(ctx context.Context) ([]models.Debt, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+debtColumns+" FROM debts ORDER BY created_at ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("finding all debts: %w", err)
	}
	defer rows.Close()

	return scanDebts(rows)
}

func (repository *SQLiteDebtRepository) Create(ctx context.Context, debt models.Debt) (models.Debt, error) {
	if debt.ID == "" {
		debt.ID = uuid.New().String()
	}
	debt.CreatedAt = time.Now()
	userID, groupID := scopeValues(debt.Scope)

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO debts ("+debtColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		debt.ID, debt.ClientID, debt.Amount.String(), debt.Note, userID, groupID, debt.CreatedAt,
	)
	if err != nil {
		return models.Debt{}, fmt.Errorf("creating debt: %w", err)
	}
	return debt, nil
}

func (repository *SQLiteDebtRepository) UpdateAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE debts SET amount = ? WHERE id = ?",
		amount.String(), id,
	)
	if err != nil {
		return fmt.Errorf("updating debt amount: %w", err)
	}
	return nil
}

func (repository *SQLiteDebtRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM debts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting debt: %w", err)
	}
	return nil
}

func scanDebt(row rowScanner) (models.Debt, error) {
	var debt models.Debt
	var amount string
	var userID, groupID sql.NullString

	if err := row.Scan(&debt.ID, &debt.ClientID, &amount, &debt.Note, &userID, &groupID, &debt.CreatedAt); err != nil {
		return models.Debt{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Debt{}, fmt.Errorf("parsing debt amount: %w", err)
	}
	debt.Amount = parsed
	debt.Scope = scanScope(userID, groupID)

	return debt, nil
}

func scanDebts(rows *sql.Rows) ([]models.Debt, error) {
	var debts []models.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning debt: %w", err)
		}
		debts = append(debts, debt)
	}
	return debts, rows.Err()
}
