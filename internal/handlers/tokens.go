package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/middleware"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
)

type TokenHandler struct {
	tokenRepo repository.APITokenRepository
}

func NewTokenHandler(tokenRepo repository.APITokenRepository) *TokenHandler {
	return &TokenHandler{tokenRepo: tokenRepo}
}

func (handler *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	tokens, err := handler.tokenRepo.FindByUser(ctx, user.ID)
	if err != nil {
		slog.Error("loading tokens", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

type tokenRequest struct {
	Name string `json:"name"`
}

func (handler *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	var request tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid token payload")
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	rawToken := generateToken()
	token := models.APIToken{
		Name:      request.Name,
		TokenHash: repository.HashToken(rawToken),
		UserID:    user.ID,
	}

	created, err := handler.tokenRepo.Create(ctx, token)
	if err != nil {
		slog.Error("creating token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":    created.ID,
		"name":  created.Name,
		"token": rawToken,
	})
}

func (handler *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := handler.tokenRepo.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		slog.Error("deleting token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete token")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func generateToken() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
