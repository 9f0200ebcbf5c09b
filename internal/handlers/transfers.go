package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/middleware"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/services"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/store"
)

type TransferHandler struct {
	transferRepo   repository.TransferRepository
	billingService *services.BillingService
	watcher        *store.Watcher
}

func NewTransferHandler(transferRepo repository.TransferRepository, billingService *services.BillingService, watcher *store.Watcher) *TransferHandler {
	return &TransferHandler{
		transferRepo:   transferRepo,
		billingService: billingService,
		watcher:        watcher,
	}
}

func (handler *TransferHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	transfers, err := handler.transferRepo.FindAll(ctx, scope)
	if err != nil {
		slog.Error("loading transfers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load transfers")
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}

type transferRequest struct {
	ClientID string `json:"clientId"`
}

func (handler *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	var request transferRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid transfer payload")
		return
	}
	if request.ClientID == "" {
		writeError(w, http.StatusBadRequest, "clientId is required")
		return
	}

	created, err := handler.billingService.AddTransfer(ctx, scope, request.ClientID)
	if err != nil {
		slog.Error("adding transfer", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add transfer")
		return
	}
	if !created {
		// A pending transfer already exists for this client.
		writeJSON(w, http.StatusOK, map[string]bool{"created": false})
		return
	}

	handler.watcher.Notify(ctx, store.CollectionTransfers)
	handler.watcher.Notify(ctx, store.CollectionClients)
	writeJSON(w, http.StatusCreated, map[string]bool{"created": true})
}

func (handler *TransferHandler) MarkReviewed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	if err := handler.billingService.MarkReviewed(ctx, scope, chi.URLParam(r, "id")); err != nil {
		slog.Error("marking transfer reviewed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark transfer reviewed")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionTransfers)
	handler.watcher.Notify(ctx, store.CollectionClients)
	w.WriteHeader(http.StatusOK)
}
