package main

import (
	"log/slog"
	"net/http"
	"os"

	"atelier/db"
	"atelier/db/migrations"
	"atelier/internal/auth"
	"atelier/internal/config"
	"atelier/internal/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("ATELIER_CONFIG"))
	if err != nil {
		logger.Error("cannot load config", slog.Any("err", err))
		os.Exit(1)
	}
	if cfg.PostgresConn == "" {
		logger.Error("POSTGRES_CONN is not set")
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	dbConn, err := sqlx.Connect("postgres", cfg.PostgresConn)
	if err != nil {
		logger.Error("cannot connect to DB", slog.Any("err", err))
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := migrations.Run(dbConn.DB); err != nil {
		logger.Error("failed to run migrations", slog.Any("err", err))
		os.Exit(1)
	}

	store := db.NewStorage(dbConn)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenDuration)
	h := handlers.NewHandler(store, tokens)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", h.PingHandler)

		r.Post("/auth/register", h.RegisterHandler)
		r.Post("/auth/login", h.LoginHandler)
		r.Post("/auth/logout", h.LogoutHandler)

		// Marketplace reads are public.
		r.Get("/customization-requests", h.GetRequestsHandler)
		r.Get("/customization-requests/{requestId}", h.GetRequestHandler)
		r.Get("/customization-requests/{requestId}/timeline", h.ListTimelineEventsHandler)
		r.Get("/designer-proposals", h.GetProposalsHandler)

		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware)

			r.Get("/auth/me", h.MeHandler)
			r.Get("/users", h.GetUsersHandler)
			r.Get("/users/{userId}", h.GetUserHandler)

			r.Post("/customization-requests", h.CreateRequestHandler)
			r.Get("/customization-requests/my", h.GetMyRequestsHandler)
			r.Post("/customization-requests/{requestId}/timeline", h.AppendTimelineEventHandler)

			r.Post("/designer-proposals", h.CreateProposalHandler)
			r.Get("/designer-proposals/my", h.GetMyProposalsHandler)
			r.Put("/designer-proposals/{proposalId}/status", h.UpdateProposalStatusHandler)

			r.Post("/chat", h.SendMessageHandler)
			r.Get("/chat", h.GetMessagesHandler)
			r.Put("/chat/{partnerId}/read", h.MarkConversationReadHandler)
		})
	})

	logger.Info("starting server", slog.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		logger.Error("server stopped", slog.Any("err", err))
		os.Exit(1)
	}
}
