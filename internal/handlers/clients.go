package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/middleware"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/services"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/store"
)

type ClientHandler struct {
	clientRepo   repository.ClientRepository
	orderService *services.OrderService
	watcher      *store.Watcher
}

func NewClientHandler(clientRepo repository.ClientRepository, orderService *services.OrderService, watcher *store.Watcher) *ClientHandler {
	return &ClientHandler{
		clientRepo:   clientRepo,
		orderService: orderService,
		watcher:      watcher,
	}
}

// List serves either the full directory or, with ?day=, the day view
// split into its active and completed lists.
func (handler *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	clients, err := handler.clientRepo.FindAll(ctx, scope)
	if err != nil {
		slog.Error("loading clients", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load clients")
		return
	}

	day := r.URL.Query().Get("day")
	if day == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"directory": services.DirectoryClients(clients),
		})
		return
	}

	now := time.Now()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"visible":   services.VisibleClients(clients, day, now),
		"completed": services.CompletedClients(clients, day),
	})
}

func (handler *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	client, err := handler.clientRepo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (handler *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeError(w, http.StatusBadRequest, "invalid client payload")
		return
	}
	if client.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if client.Frequency != "" && !client.Frequency.Valid() {
		writeError(w, http.StatusBadRequest, "unknown frequency")
		return
	}
	client.Scope = middleware.GetScope(ctx)

	created, err := handler.clientRepo.Create(ctx, client)
	if err != nil {
		slog.Error("creating client", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create client")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionClients)
	writeJSON(w, http.StatusCreated, created)
}

func (handler *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	existing, err := handler.clientRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	var client models.Client
	if err := json.NewDecoder(r.Body).Decode(&client); err != nil {
		writeError(w, http.StatusBadRequest, "invalid client payload")
		return
	}
	if client.Frequency != "" && !client.Frequency.Valid() {
		writeError(w, http.StatusBadRequest, "unknown frequency")
		return
	}

	// Identity and ownership are not editable through this endpoint.
	client.ID = existing.ID
	client.Scope = existing.Scope
	client.CreatedAt = existing.CreatedAt

	if err := handler.clientRepo.Update(ctx, client); err != nil {
		slog.Error("updating client", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update client")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionClients)
	writeJSON(w, http.StatusOK, client)
}

func (handler *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := handler.clientRepo.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		slog.Error("deleting client", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete client")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionClients)
	handler.watcher.Notify(ctx, store.CollectionDebts)
	handler.watcher.Notify(ctx, store.CollectionTransfers)
	w.WriteHeader(http.StatusOK)
}

// Complete marks the visit done, anchoring the client's cycle to now.
func (handler *ClientHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now()

	if err := handler.clientRepo.SetCompleted(ctx, chi.URLParam(r, "id"), true, &now); err != nil {
		slog.Error("completing client", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to complete client")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionClients)
	w.WriteHeader(http.StatusOK)
}

// Reopen returns a completed client to the active list. The visit
// anchor stays where completion put it.
func (handler *ClientHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := handler.clientRepo.SetCompleted(ctx, chi.URLParam(r, "id"), false, nil); err != nil {
		slog.Error("reopening client", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reopen client")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionClients)
	w.WriteHeader(http.StatusOK)
}

func (handler *ClientHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	client, err := handler.clientRepo.FindByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "client not found")
		return
	}

	if err := handler.clientRepo.SetStarred(ctx, client.ID, !client.IsStarred); err != nil {
		slog.Error("toggling star", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle star")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionClients)
	writeJSON(w, http.StatusOK, map[string]bool{"isStarred": !client.IsStarred})
}

type positionRequest struct {
	Day      string `json:"day"`
	Position int    `json:"position"`
}

// ChangePosition moves the client within one day's list. Positions
// start at 1; anything lower is ignored.
func (handler *ClientHandler) ChangePosition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	var request positionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid position payload")
		return
	}
	if request.Day == "" {
		writeError(w, http.StatusBadRequest, "day is required")
		return
	}

	if err := handler.orderService.ChangePosition(ctx, scope, chi.URLParam(r, "id"), request.Position, request.Day, time.Now()); err != nil {
		slog.Error("changing position", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to change position")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionClients)
	w.WriteHeader(http.StatusOK)
}
