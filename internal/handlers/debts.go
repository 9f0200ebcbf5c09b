package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/middleware"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/services"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/store"
)

type DebtHandler struct {
	debtRepo       repository.DebtRepository
	billingService *services.BillingService
	watcher        *store.Watcher
}

func NewDebtHandler(debtRepo repository.DebtRepository, billingService *services.BillingService, watcher *store.Watcher) *DebtHandler {
	return &DebtHandler{
		debtRepo:       debtRepo,
		billingService: billingService,
		watcher:        watcher,
	}
}

func (handler *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	debts, err := handler.debtRepo.FindAll(ctx, scope)
	if err != nil {
		slog.Error("loading debts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load debts")
		return
	}

	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		var filtered []models.Debt
		for _, debt := range debts {
			if debt.ClientID == clientID {
				filtered = append(filtered, debt)
			}
		}
		debts = filtered
	}

	writeJSON(w, http.StatusOK, debts)
}

type debtRequest struct {
	ClientID string `json:"clientId"`
	Amount   string `json:"amount"`
	Note     string `json:"note"`
}

func (handler *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	var request debtRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid debt payload")
		return
	}
	if request.ClientID == "" {
		writeError(w, http.StatusBadRequest, "clientId is required")
		return
	}
	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	debt, err := handler.billingService.AddDebt(ctx, scope, request.ClientID, amount, request.Note)
	if err != nil {
		slog.Error("adding debt", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add debt")
		return
	}
	if debt.ID == "" {
		// Non-positive amount: rejected as a no-op, not an error.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	handler.watcher.Notify(ctx, store.CollectionDebts)
	handler.watcher.Notify(ctx, store.CollectionClients)
	writeJSON(w, http.StatusCreated, debt)
}

type debtAmountRequest struct {
	Amount string `json:"amount"`
}

func (handler *DebtHandler) EditAmount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var request debtAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount payload")
		return
	}
	amount, err := decimal.NewFromString(request.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	if err := handler.billingService.EditAmount(ctx, chi.URLParam(r, "id"), amount); err != nil {
		slog.Error("editing debt", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to edit debt")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionDebts)
	w.WriteHeader(http.StatusOK)
}

func (handler *DebtHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	if err := handler.billingService.MarkPaid(ctx, scope, chi.URLParam(r, "id")); err != nil {
		slog.Error("marking debt paid", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to mark debt paid")
		return
	}

	handler.watcher.Notify(ctx, store.CollectionDebts)
	handler.watcher.Notify(ctx, store.CollectionClients)
	w.WriteHeader(http.StatusOK)
}
