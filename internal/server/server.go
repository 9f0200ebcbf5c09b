package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/config"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/handlers"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/middleware"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/repository"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/services"
	"github.com/jonaso220/RutaWater-Native-sub000/internal/store"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config) *Server {
	userRepo := repository.NewUserRepository(database)
	tokenRepo := repository.NewAPITokenRepository(database)
	clientRepo := store.NewRetryingClientRepository(repository.NewClientRepository(database))
	debtRepo := store.NewRetryingDebtRepository(repository.NewDebtRepository(database))
	transferRepo := store.NewRetryingTransferRepository(repository.NewTransferRepository(database))

	watcher := store.NewWatcher(clientRepo, debtRepo, transferRepo)
	orderService := services.NewOrderService(clientRepo)
	billingService := services.NewBillingService(clientRepo, debtRepo, transferRepo)

	clientHandler := handlers.NewClientHandler(clientRepo, orderService, watcher)
	debtHandler := handlers.NewDebtHandler(debtRepo, billingService, watcher)
	transferHandler := handlers.NewTransferHandler(transferRepo, billingService, watcher)
	scheduleHandler := handlers.NewScheduleHandler(clientRepo, userRepo, tokenRepo, cfg.FeedToken)
	tokenHandler := handlers.NewTokenHandler(tokenRepo)
	eventsHandler := handlers.NewEventsHandler(watcher)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/ical", scheduleHandler.Feed)

	router.Group(func(r chi.Router) {
		r.Use(middleware.APITokenAuth(tokenRepo, userRepo))

		r.Get("/api/clients", clientHandler.List)
		r.Post("/api/clients", clientHandler.Create)
		r.Get("/api/clients/{id}", clientHandler.Get)
		r.Post("/api/clients/{id}", clientHandler.Update)
		r.Post("/api/clients/{id}/delete", clientHandler.Delete)
		r.Post("/api/clients/{id}/complete", clientHandler.Complete)
		r.Post("/api/clients/{id}/reopen", clientHandler.Reopen)
		r.Post("/api/clients/{id}/star", clientHandler.ToggleStar)
		r.Post("/api/clients/{id}/position", clientHandler.ChangePosition)

		r.Get("/api/debts", debtHandler.List)
		r.Post("/api/debts", debtHandler.Create)
		r.Post("/api/debts/{id}", debtHandler.EditAmount)
		r.Post("/api/debts/{id}/pay", debtHandler.MarkPaid)

		r.Get("/api/transfers", transferHandler.List)
		r.Post("/api/transfers", transferHandler.Create)
		r.Post("/api/transfers/{id}/review", transferHandler.MarkReviewed)

		r.Get("/api/schedule", scheduleHandler.Day)
		r.Get("/events", eventsHandler.Stream)

		r.Get("/api/tokens", tokenHandler.List)
		r.Post("/api/tokens", tokenHandler.Create)
		r.Delete("/api/tokens/{id}", tokenHandler.Delete)
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}

// Handler exposes the router for tests.
func (server *Server) Handler() http.Handler {
	return server.router
}
