package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/middleware"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/services"
)

const feedHorizonDays = 14

type ScheduleHandler struct {
	clientRepo repository.ClientRepository
	userRepo   repository.UserRepository
	tokenRepo  repository.APITokenRepository
	feedToken  string
}

func NewScheduleHandler(
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	tokenRepo repository.APITokenRepository,
	feedToken string,
) *ScheduleHandler {
	return &ScheduleHandler{
		clientRepo: clientRepo,
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		feedToken:  feedToken,
	}
}

type scheduleEntry struct {
	Client    models.Client `json:"client"`
	NextVisit *time.Time    `json:"nextVisit"`
}

// Day lists one day's active clients with their computed visit dates.
func (handler *ScheduleHandler) Day(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scope := middleware.GetScope(ctx)

	day := r.URL.Query().Get("day")
	if day == "" {
		writeError(w, http.StatusBadRequest, "day is required")
		return
	}

	clients, err := handler.clientRepo.FindAll(ctx, scope)
	if err != nil {
		slog.Error("loading clients for schedule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load schedule")
		return
	}

	now := time.Now()
	entries := []scheduleEntry{}
	for _, client := range services.VisibleClients(clients, day, now) {
		entries = append(entries, scheduleEntry{
			Client:    client,
			NextVisit: services.NextVisitDate(client, day, now),
		})
	}

	writeJSON(w, http.StatusOK, entries)
}

// Feed publishes the next two weeks of deliveries as an iCal calendar,
// authorized by token query parameter so calendar apps can poll it.
func (handler *ScheduleHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	scope := models.Scope{}
	if handler.feedToken == "" || token != handler.feedToken {
		tokenHash := repository.HashToken(token)
		found, err := handler.tokenRepo.FindByTokenHash(ctx, tokenHash)
		if err != nil || (found.ExpiresAt != nil && found.ExpiresAt.Before(time.Now())) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		user, err := handler.userRepo.FindByID(ctx, found.UserID)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		scope = models.ScopeFor(user)
	}

	var clients []models.Client
	var err error
	if scope.IsZero() {
		clients, err = handler.clientRepo.All(ctx)
	} else {
		clients, err = handler.clientRepo.FindAll(ctx, scope)
	}
	if err != nil {
		slog.Error("loading clients for feed", "error", err)
		http.Error(w, "Error", http.StatusInternalServerError)
		return
	}

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId("-//RutaAgua//Reparto//ES")
	calendar.SetXWRCalName("Reparto de agua")

	now := time.Now()
	stamp := now
	for offset := 0; offset < feedHorizonDays; offset++ {
		date := now.AddDate(0, 0, offset)
		day := services.DayName(date.Weekday())
		if day == "" {
			continue
		}

		for _, client := range services.VisibleClients(clients, day, date) {
			if client.IsNote {
				continue
			}
			visit := services.NextVisitDate(client, day, date)
			if visit == nil || !sameDate(*visit, date) {
				continue
			}

			event := calendar.AddEvent(fmt.Sprintf("%s-%s@ruta-agua", client.ID, date.Format("20060102")))
			event.SetSummary(client.Name)
			event.SetStartAt(*visit)
			event.SetEndAt(visit.Add(30 * time.Minute))
			event.SetDtStampTime(stamp)
			if client.Address != "" {
				event.SetLocation(client.Address)
			}
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=reparto.ics")
	if err := calendar.SerializeTo(w); err != nil {
		slog.Error("serializing calendar", "error", err)
	}
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
