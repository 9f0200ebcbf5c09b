package repository_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/testutil"
)

func TestDebtRepository_CreateAndFindByID(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()

	amount, _ := decimal.NewFromString("12.50")
	created, err := repo.Create(ctx, models.Debt{
		ClientID: "client-1",
		Amount:   amount,
		Note:     "dos garrafones",
		Scope:    models.UserScope("user-1"),
	})
	if err != nil {
		t.Fatalf("creating debt: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty ID")
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("finding debt: %v", err)
	}
	if !found.Amount.Equal(amount) {
		t.Errorf("expected amount 12.50, got %s", found.Amount)
	}
	if found.Note != "dos garrafones" {
		t.Errorf("expected note roundtrip, got '%s'", found.Note)
	}
	if found.Scope.UserID != "user-1" {
		t.Errorf("expected user scope, got %+v", found.Scope)
	}
}

func TestDebtRepository_FindAllScopeIsolation(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()

	repo.Create(ctx, models.Debt{ClientID: "c1", Amount: decimal.NewFromInt(10), Scope: models.UserScope("user-1")})
	repo.Create(ctx, models.Debt{ClientID: "c2", Amount: decimal.NewFromInt(20), Scope: models.GroupScope("group-1")})

	mine, err := repo.FindAll(ctx, models.UserScope("user-1"))
	if err != nil {
		t.Fatalf("finding debts: %v", err)
	}
	if len(mine) != 1 || mine[0].ClientID != "c1" {
		t.Fatalf("expected one user-scoped debt, got %d", len(mine))
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("finding all debts: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 debts across scopes, got %d", len(all))
	}
}

func TestDebtRepository_FindByClient(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()
	scope := models.UserScope("user-1")

	repo.Create(ctx, models.Debt{ClientID: "c1", Amount: decimal.NewFromInt(10), Scope: scope})
	repo.Create(ctx, models.Debt{ClientID: "c1", Amount: decimal.NewFromInt(15), Scope: scope})
	repo.Create(ctx, models.Debt{ClientID: "c2", Amount: decimal.NewFromInt(5), Scope: scope})

	debts, err := repo.FindByClient(ctx, "c1")
	if err != nil {
		t.Fatalf("finding debts by client: %v", err)
	}
	if len(debts) != 2 {
		t.Fatalf("expected 2 debts for c1, got %d", len(debts))
	}
}

func TestDebtRepository_UpdateAmountPreservesPrecision(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()

	created, _ := repo.Create(ctx, models.Debt{
		ClientID: "c1",
		Amount:   decimal.NewFromInt(10),
		Scope:    models.UserScope("user-1"),
	})

	newAmount, _ := decimal.NewFromString("7.05")
	if err := repo.UpdateAmount(ctx, created.ID, newAmount); err != nil {
		t.Fatalf("updating amount: %v", err)
	}

	found, _ := repo.FindByID(ctx, created.ID)
	if !found.Amount.Equal(newAmount) {
		t.Errorf("expected amount 7.05, got %s", found.Amount)
	}
}

func TestDebtRepository_Delete(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewDebtRepository(db)
	ctx := context.Background()

	created, _ := repo.Create(ctx, models.Debt{
		ClientID: "c1",
		Amount:   decimal.NewFromInt(10),
		Scope:    models.UserScope("user-1"),
	})

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("deleting debt: %v", err)
	}
	if _, err := repo.FindByID(ctx, created.ID); err == nil {
		t.Error("expected deleted debt to be gone")
	}
}
