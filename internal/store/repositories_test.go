package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
)

// flakyClients fails writes a fixed number of times before succeeding
// and fails every read outright.
type flakyClients struct {
	repository.ClientRepository
	writeFailures int
	writeCalls    int
	readCalls     int
}

func (f *flakyClients) SetFlags(ctx context.Context, id string, hasDebt bool, hasPendingTransfer bool) error {
	f.writeCalls++
	if f.writeCalls <= f.writeFailures {
		return errors.New("database is locked")
	}
	return nil
}

func (f *flakyClients) FindByID(ctx context.Context, id string) (models.Client, error) {
	f.readCalls++
	return models.Client{}, errors.New("database is locked")
}

func TestRetryingClientRepository_WriteRecovers(t *testing.T) {
	fastBackoff(t)

	inner := &flakyClients{writeFailures: 2}
	repo := NewRetryingClientRepository(inner)

	if err := repo.SetFlags(context.Background(), "c1", true, false); err != nil {
		t.Fatalf("expected write to recover, got %v", err)
	}
	if inner.writeCalls != 3 {
		t.Errorf("expected 3 attempts, got %d", inner.writeCalls)
	}
}

func TestRetryingClientRepository_WriteExhausts(t *testing.T) {
	fastBackoff(t)

	inner := &flakyClients{writeFailures: 10}
	repo := NewRetryingClientRepository(inner)

	if err := repo.SetFlags(context.Background(), "c1", true, false); err == nil {
		t.Fatal("expected exhausted write to surface its error")
	}
	if inner.writeCalls != DefaultAttempts {
		t.Errorf("expected %d attempts, got %d", DefaultAttempts, inner.writeCalls)
	}
}

func TestRetryingClientRepository_ReadsPassThrough(t *testing.T) {
	fastBackoff(t)

	inner := &flakyClients{}
	repo := NewRetryingClientRepository(inner)

	if _, err := repo.FindByID(context.Background(), "c1"); err == nil {
		t.Fatal("expected the read error to surface")
	}
	if inner.readCalls != 1 {
		t.Errorf("expected a single read attempt, got %d", inner.readCalls)
	}
}
