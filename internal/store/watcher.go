package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
)

type Collection string

const (
	CollectionClients   Collection = "clients"
	CollectionDebts     Collection = "debts"
	CollectionTransfers Collection = "transfers"
)

// Snapshot is one change notification: the complete current matching
// set for a collection and scope, never a diff.
type Snapshot struct {
	Collection Collection        `json:"collection"`
	Clients    []models.Client   `json:"clients,omitempty"`
	Debts      []models.Debt     `json:"debts,omitempty"`
	Transfers  []models.Transfer `json:"transfers,omitempty"`
}

type subscriber struct {
	collection Collection
	scope      models.Scope
	channel    chan Snapshot
}

// Watcher fans full-snapshot change notifications out to subscribers.
// Writers call Notify after a successful mutation; the watcher reloads
// the collection per subscribed scope and pushes the fresh snapshot.
type Watcher struct {
	clientRepo   repository.ClientRepository
	debtRepo     repository.DebtRepository
	transferRepo repository.TransferRepository

	mu          sync.Mutex
	subscribers map[int]*subscriber
	nextID      int
}

func NewWatcher(
	clientRepo repository.ClientRepository,
	debtRepo repository.DebtRepository,
	transferRepo repository.TransferRepository,
) *Watcher {
	return &Watcher{
		clientRepo:   clientRepo,
		debtRepo:     debtRepo,
		transferRepo: transferRepo,
		subscribers:  make(map[int]*subscriber),
	}
}

// Subscribe registers for a collection within one scope. The returned
// cancel func must be called to release the subscription; the channel
// is closed by it.
func (watcher *Watcher) Subscribe(collection Collection, scope models.Scope) (<-chan Snapshot, func()) {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()

	id := watcher.nextID
	watcher.nextID++
	entry := &subscriber{
		collection: collection,
		scope:      scope,
		channel:    make(chan Snapshot, 8),
	}
	watcher.subscribers[id] = entry

	cancel := func() {
		watcher.mu.Lock()
		defer watcher.mu.Unlock()
		if _, ok := watcher.subscribers[id]; ok {
			delete(watcher.subscribers, id)
			close(entry.channel)
		}
	}
	return entry.channel, cancel
}

// Notify reloads the collection for every subscriber watching it and
// delivers the snapshot. Slow consumers lose intermediate snapshots
// rather than blocking the writer.
func (watcher *Watcher) Notify(ctx context.Context, collection Collection) {
	watcher.mu.Lock()
	var interested []*subscriber
	for _, entry := range watcher.subscribers {
		if entry.collection == collection {
			interested = append(interested, entry)
		}
	}
	watcher.mu.Unlock()

	for _, entry := range interested {
		snapshot, err := watcher.Current(ctx, collection, entry.scope)
		if err != nil {
			slog.Error("loading change snapshot", "collection", collection, "error", err)
			continue
		}
		select {
		case entry.channel <- snapshot:
		default:
		}
	}
}

// Current loads the complete matching set for a collection and scope,
// retrying transient store failures per the backoff policy.
func (watcher *Watcher) Current(ctx context.Context, collection Collection, scope models.Scope) (Snapshot, error) {
	snapshot := Snapshot{Collection: collection}
	err := Retry(ctx, DefaultAttempts, func() error {
		switch collection {
		case CollectionClients:
			clients, err := watcher.clientRepo.FindAll(ctx, scope)
			if err != nil {
				return err
			}
			snapshot.Clients = clients
		case CollectionDebts:
			debts, err := watcher.debtRepo.FindAll(ctx, scope)
			if err != nil {
				return err
			}
			snapshot.Debts = debts
		case CollectionTransfers:
			transfers, err := watcher.transferRepo.FindAll(ctx, scope)
			if err != nil {
				return err
			}
			snapshot.Transfers = transfers
		}
		return nil
	})
	return snapshot, err
}
