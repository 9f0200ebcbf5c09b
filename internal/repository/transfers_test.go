package repository_test

import (
	"context"
	"testing"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/testutil"
)

func TestTransferRepository_CreateAndFindByID(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewTransferRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, models.Transfer{
		ClientID: "client-1",
		Scope:    models.GroupScope("group-1"),
	})
	if err != nil {
		t.Fatalf("creating transfer: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected non-empty ID")
	}

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("finding transfer: %v", err)
	}
	if found.ClientID != "client-1" {
		t.Errorf("expected client-1, got '%s'", found.ClientID)
	}
	if found.Scope.GroupID != "group-1" {
		t.Errorf("expected group scope, got %+v", found.Scope)
	}
}

func TestTransferRepository_FindAllScopeIsolation(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewTransferRepository(db)
	ctx := context.Background()

	repo.Create(ctx, models.Transfer{ClientID: "c1", Scope: models.UserScope("user-1")})
	repo.Create(ctx, models.Transfer{ClientID: "c2", Scope: models.UserScope("user-2")})

	mine, err := repo.FindAll(ctx, models.UserScope("user-1"))
	if err != nil {
		t.Fatalf("finding transfers: %v", err)
	}
	if len(mine) != 1 || mine[0].ClientID != "c1" {
		t.Fatalf("expected one user-scoped transfer, got %d", len(mine))
	}

	all, err := repo.All(ctx)
	if err != nil {
		t.Fatalf("finding all transfers: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 transfers across scopes, got %d", len(all))
	}
}

func TestTransferRepository_Delete(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewTransferRepository(db)
	ctx := context.Background()

	created, _ := repo.Create(ctx, models.Transfer{ClientID: "c1", Scope: models.UserScope("user-1")})

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("deleting transfer: %v", err)
	}
	if _, err := repo.FindByID(ctx, created.ID); err == nil {
		t.Error("expected deleted transfer to be gone")
	}
}
