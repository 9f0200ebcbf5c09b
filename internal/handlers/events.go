package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/middleware"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/store"
)

type EventsHandler struct {
	watcher *store.Watcher
}

func NewEventsHandler(watcher *store.Watcher) *EventsHandler {
	return &EventsHandler{watcher: watcher}
}

// Stream pushes full-snapshot change notifications for one collection
// over server-sent events, scoped to the caller.
func (handler *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	collection := store.Collection(r.URL.Query().Get("collection"))
	switch collection {
	case "":
		collection = store.CollectionClients
	case store.CollectionClients, store.CollectionDebts, store.CollectionTransfers:
	default:
		writeError(w, http.StatusBadRequest, "unknown collection")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	snapshots, cancel := handler.watcher.Subscribe(collection, scope)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	initial, err := handler.watcher.Current(ctx, collection, scope)
	if err != nil {
		slog.Error("loading initial snapshot", "collection", collection, "error", err)
		return
	}
	if err := writeSnapshot(w, initial); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, open := <-snapshots:
			if !open {
				return
			}
			if err := writeSnapshot(w, snapshot); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeSnapshot(w http.ResponseWriter, snapshot store.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
