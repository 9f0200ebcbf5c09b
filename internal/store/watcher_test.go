package store

import (
	"context"
	"testing"
	"time"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/testutil"
)

func newTestWatcher(t *testing.T) (*Watcher, repository.ClientRepository) {
	t.Helper()
	db := testutil.NewTestDatabase(t)
	clientRepo := repository.NewClientRepository(db)
	debtRepo := repository.NewDebtRepository(db)
	transferRepo := repository.NewTransferRepository(db)
	return NewWatcher(clientRepo, debtRepo, transferRepo), clientRepo
}

func receiveSnapshot(t *testing.T, channel <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snapshot := <-channel:
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestWatcher_NotifyDeliversFullSnapshot(t *testing.T) {
	watcher, clientRepo := newTestWatcher(t)
	ctx := context.Background()
	scope := models.UserScope("user-1")

	channel, cancel := watcher.Subscribe(CollectionClients, scope)
	defer cancel()

	clientRepo.Create(ctx, models.Client{Name: "Uno", Scope: scope})
	watcher.Notify(ctx, CollectionClients)

	snapshot := receiveSnapshot(t, channel)
	if snapshot.Collection != CollectionClients {
		t.Errorf("expected clients collection, got '%s'", snapshot.Collection)
	}
	if len(snapshot.Clients) != 1 || snapshot.Clients[0].Name != "Uno" {
		t.Fatalf("expected one client in snapshot, got %d", len(snapshot.Clients))
	}

	// Each notification carries the complete current set.
	clientRepo.Create(ctx, models.Client{Name: "Dos", Scope: scope})
	watcher.Notify(ctx, CollectionClients)

	snapshot = receiveSnapshot(t, channel)
	if len(snapshot.Clients) != 2 {
		t.Errorf("expected full set of 2 clients, got %d", len(snapshot.Clients))
	}
}

func TestWatcher_SnapshotsAreScoped(t *testing.T) {
	watcher, clientRepo := newTestWatcher(t)
	ctx := context.Background()

	mine, cancelMine := watcher.Subscribe(CollectionClients, models.UserScope("user-1"))
	defer cancelMine()
	theirs, cancelTheirs := watcher.Subscribe(CollectionClients, models.UserScope("user-2"))
	defer cancelTheirs()

	clientRepo.Create(ctx, models.Client{Name: "Mine", Scope: models.UserScope("user-1")})
	watcher.Notify(ctx, CollectionClients)

	snapshot := receiveSnapshot(t, mine)
	if len(snapshot.Clients) != 1 {
		t.Errorf("expected 1 client for owner, got %d", len(snapshot.Clients))
	}
	snapshot = receiveSnapshot(t, theirs)
	if len(snapshot.Clients) != 0 {
		t.Errorf("expected empty snapshot for other user, got %d clients", len(snapshot.Clients))
	}
}

func TestWatcher_NotifyIgnoresOtherCollections(t *testing.T) {
	watcher, _ := newTestWatcher(t)
	ctx := context.Background()

	channel, cancel := watcher.Subscribe(CollectionDebts, models.UserScope("user-1"))
	defer cancel()

	watcher.Notify(ctx, CollectionClients)

	select {
	case snapshot := <-channel:
		t.Fatalf("unexpected snapshot for %s", snapshot.Collection)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_CancelClosesChannel(t *testing.T) {
	watcher, _ := newTestWatcher(t)

	channel, cancel := watcher.Subscribe(CollectionClients, models.UserScope("user-1"))
	cancel()

	if _, open := <-channel; open {
		t.Fatal("expected closed channel after cancel")
	}

	// Double cancel and post-cancel notify are both safe.
	cancel()
	watcher.Notify(context.Background(), CollectionClients)
}

func TestWatcher_Current(t *testing.T) {
	watcher, clientRepo := newTestWatcher(t)
	ctx := context.Background()
	scope := models.GroupScope("group-1")

	clientRepo.Create(ctx, models.Client{Name: "Compartido", Scope: scope})

	snapshot, err := watcher.Current(ctx, CollectionClients, scope)
	if err != nil {
		t.Fatalf("loading snapshot: %v", err)
	}
	if len(snapshot.Clients) != 1 || snapshot.Clients[0].Name != "Compartido" {
		t.Fatalf("expected the group client, got %d clients", len(snapshot.Clients))
	}
}
