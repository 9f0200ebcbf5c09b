package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
)

// ListOrderUpdate is one row of the dense per-day renumbering write.
type ListOrderUpdate struct {
	ClientID string
	Day      string
	Position int
}

type ClientRepository interface {
	FindByID(ctx context.Context, id string) (models.Client, error)
	FindAll(ctx context.Context, scope models.Scope) ([]models.Client, error)
	All(ctx context.Context) ([]models.Client, error)
	Create(ctx context.Context, client models.Client) (models.Client, error)
	Update(ctx context.Context, client models.Client) error
	Delete(ctx context.Context, id string) error
	SetCompleted(ctx context.Context, id string, completed bool, visitedAt *time.Time) error
	SetStarred(ctx context.Context, id string, starred bool) error
	SetDebtFlag(ctx context.Context, id string, hasDebt bool) error
	SetTransferFlag(ctx context.Context, id string, hasPendingTransfer bool) error
	SetFlags(ctx context.Context, id string, hasDebt bool, hasPendingTransfer bool) error
	BatchUpdateListOrders(ctx context.Context, updates []ListOrderUpdate) error
}

type SQLiteClientRepository struct {
	database *sql.DB
}

func NewClientRepository(database *sql.DB) *SQLiteClientRepository {
	return &SQLiteClientRepository{database: database}
}

const clientColumns = `id, name, address, phone, notes,
	freq, visit_day, visit_days, specific_date, last_visited,
	list_order, list_orders,
	is_completed, is_starred, is_note, alarm, products,
	has_debt, has_pending_transfer,
	user_id, group_id, created_at, updated_at`

func (repository *SQLiteClientRepository) FindByID(ctx context.Context, id string) (models.Client, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE id = ?", id,
	)
	client, err := scanClient(row)
	if err != nil {
		return models.Client{}, fmt.Errorf("finding client by id: %w", err)
	}
	return client, nil
}

func (repository *SQLiteClientRepository) FindAll(ctx context.Context, scope models.Scope) ([]models.Client, error) {
	condition, value := scopeCondition(scope)
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients WHERE "+condition+" ORDER BY created_at ASC", value,
	)
	if err != nil {
		return nil, fmt.Errorf("finding clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

func (repository *SQLiteClientRepository) All(ctx context.Context) ([]models.Client, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+clientColumns+" FROM clients ORDER BY created_at ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("finding all clients: %w", err)
	}
	defer rows.Close()

	return scanClients(rows)
}

func (repository *SQLiteClientRepository) Create(ctx context.Context, client models.Client) (models.Client, error) {
	if client.ID == "" {
		client.ID = uuid.New().String()
	}
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now
	if client.Frequency == "" {
		client.Frequency = models.FrequencyWeekly
	}

	visitDaysJSON, listOrdersJSON, productsJSON, err := marshalClientFields(client)
	if err != nil {
		return models.Client{}, err
	}
	userID, groupID := scopeValues(client.Scope)

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO clients (`+clientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		client.ID, client.Name, client.Address, client.Phone, client.Notes,
		client.Frequency, client.VisitDay, visitDaysJSON, client.SpecificDate, client.LastVisited,
		client.ListOrder, listOrdersJSON,
		client.IsCompleted, client.IsStarred, client.IsNote, client.Alarm, productsJSON,
		client.HasDebt, client.HasPendingTransfer,
		userID, groupID, client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		return models.Client{}, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}

func (repository *SQLiteClientRepository) Update(ctx context.Context, client models.Client) error {
	client.UpdatedAt = time.Now()

	visitDaysJSON, listOrdersJSON, productsJSON, err := marshalClientFields(client)
	if err != nil {
		return err
	}

	_, err = repository.database.ExecContext(ctx,
		`UPDATE clients SET name = ?, address = ?, phone = ?, notes = ?,
			freq = ?, visit_day = ?, visit_days = ?, specific_date = ?, last_visited = ?,
			list_order = ?, list_orders = ?,
			is_completed = ?, is_starred = ?, is_note = ?, alarm = ?, products = ?,
			has_debt = ?, has_pending_transfer = ?,
			updated_at = ?
		WHERE id = ?`,
		client.Name, client.Address, client.Phone, client.Notes,
		client.Frequency, client.VisitDay, visitDaysJSON, client.SpecificDate, client.LastVisited,
		client.ListOrder, listOrdersJSON,
		client.IsCompleted, client.IsStarred, client.IsNote, client.Alarm, productsJSON,
		client.HasDebt, client.HasPendingTransfer,
		client.UpdatedAt, client.ID,
	)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	return nil
}

// Delete removes the client together with its debts and transfers, so the
// billing collections never hold references to a dead client id.
func (repository *SQLiteClientRepository) Delete(ctx context.Context, id string) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	if _, err := transaction.ExecContext(ctx, "DELETE FROM debts WHERE client_id = ?", id); err != nil {
		return fmt.Errorf("deleting client debts: %w", err)
	}
	if _, err := transaction.ExecContext(ctx, "DELETE FROM transfers WHERE client_id = ?", id); err != nil {
		return fmt.Errorf("deleting client transfers: %w", err)
	}
	if _, err := transaction.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	return transaction.Commit()
}

func (repository *SQLiteClientRepository) SetCompleted(ctx context.Context, id string, completed bool, visitedAt *time.Time) error {
	var err error
	if visitedAt != nil {
		_, err = repository.database.ExecContext(ctx,
			"UPDATE clients SET is_completed = ?, last_visited = ?, updated_at = ? WHERE id = ?",
			completed, visitedAt, time.Now(), id,
		)
	} else {
		_, err = repository.database.ExecContext(ctx,
			"UPDATE clients SET is_completed = ?, updated_at = ? WHERE id = ?",
			completed, time.Now(), id,
		)
	}
	if err != nil {
		return fmt.Errorf("setting client completion: %w", err)
	}
	return nil
}

func (repository *SQLiteClientRepository) SetStarred(ctx context.Context, id string, starred bool) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE clients SET is_starred = ?, updated_at = ? WHERE id = ?",
		starred, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("setting client star: %w", err)
	}
	return nil
}

func (repository *SQLiteClientRepository) SetDebtFlag(ctx context.Context, id string, hasDebt bool) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE clients SET has_debt = ?, updated_at = ? WHERE id = ?",
		hasDebt, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("setting debt flag: %w", err)
	}
	return nil
}

func (repository *SQLiteClientRepository) SetTransferFlag(ctx context.Context, id string, hasPendingTransfer bool) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE clients SET has_pending_transfer = ?, updated_at = ? WHERE id = ?",
		hasPendingTransfer, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("setting transfer flag: %w", err)
	}
	return nil
}

func (repository *SQLiteClientRepository) SetFlags(ctx context.Context, id string, hasDebt bool, hasPendingTransfer bool) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE clients SET has_debt = ?, has_pending_transfer = ?, updated_at = ? WHERE id = ?",
		hasDebt, hasPendingTransfer, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("setting cached flags: %w", err)
	}
	return nil
}

// BatchUpdateListOrders rewrites one day's rank for every listed client in
// a single transaction. Callers send the full renumbered day list.
func (repository *SQLiteClientRepository) BatchUpdateListOrders(ctx context.Context, updates []ListOrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	now := time.Now()
	for _, update := range updates {
		var listOrdersJSON string
		if err := transaction.QueryRowContext(ctx,
			"SELECT list_orders FROM clients WHERE id = ?", update.ClientID,
		).Scan(&listOrdersJSON); err != nil {
			return fmt.Errorf("reading list orders for %s: %w", update.ClientID, err)
		}

		listOrders := map[string]int{}
		if err := json.Unmarshal([]byte(listOrdersJSON), &listOrders); err != nil {
			return fmt.Errorf("unmarshalling list orders for %s: %w", update.ClientID, err)
		}
		listOrders[update.Day] = update.Position

		encoded, err := json.Marshal(listOrders)
		if err != nil {
			return fmt.Errorf("marshalling list orders for %s: %w", update.ClientID, err)
		}
		if _, err := transaction.ExecContext(ctx,
			"UPDATE clients SET list_orders = ?, updated_at = ? WHERE id = ?",
			string(encoded), now, update.ClientID,
		); err != nil {
			return fmt.Errorf("writing list orders for %s: %w", update.ClientID, err)
		}
	}

	return transaction.Commit()
}

func marshalClientFields(client models.Client) (visitDays, listOrders, products string, err error) {
	days := client.VisitDays
	if days == nil {
		days = []string{}
	}
	visitDaysBytes, err := json.Marshal(days)
	if err != nil {
		return "", "", "", fmt.Errorf("marshalling visit days: %w", err)
	}

	orders := client.ListOrders
	if orders == nil {
		orders = map[string]int{}
	}
	listOrdersBytes, err := json.Marshal(orders)
	if err != nil {
		return "", "", "", fmt.Errorf("marshalling list orders: %w", err)
	}

	productsBytes, err := json.Marshal(client.Products)
	if err != nil {
		return "", "", "", fmt.Errorf("marshalling products: %w", err)
	}

	return string(visitDaysBytes), string(listOrdersBytes), string(productsBytes), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (models.Client, error) {
	var client models.Client
	var visitDaysJSON, listOrdersJSON, productsJSON string
	var userID, groupID sql.NullString

	if err := row.Scan(
		&client.ID, &client.Name, &client.Address, &client.Phone, &client.Notes,
		&client.Frequency, &client.VisitDay, &visitDaysJSON, &client.SpecificDate, &client.LastVisited,
		&client.ListOrder, &listOrdersJSON,
		&client.IsCompleted, &client.IsStarred, &client.IsNote, &client.Alarm, &productsJSON,
		&client.HasDebt, &client.HasPendingTransfer,
		&userID, &groupID, &client.CreatedAt, &client.UpdatedAt,
	); err != nil {
		return models.Client{}, err
	}

	if err := json.Unmarshal([]byte(visitDaysJSON), &client.VisitDays); err != nil {
		return models.Client{}, fmt.Errorf("unmarshalling visit days: %w", err)
	}
	if err := json.Unmarshal([]byte(listOrdersJSON), &client.ListOrders); err != nil {
		return models.Client{}, fmt.Errorf("unmarshalling list orders: %w", err)
	}
	if err := json.Unmarshal([]byte(productsJSON), &client.Products); err != nil {
		return models.Client{}, fmt.Errorf("unmarshalling products: %w", err)
	}
	client.Scope = scanScope(userID, groupID)

	return client, nil
}

func scanClients(rows *sql.Rows) ([]models.Client, error) {
	var clients []models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}
