package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/tournament-engine/handlers"
	"github.com/Dosada05/tournament-engine/middleware"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(
	router chi.Router,
	tournamentHandler *handlers.TournamentHandler,
	scoreHandler *handlers.ScoreHandler,
	opts Options,
) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.Timeout(30 * time.Second))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Logger)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListHandler)
		r.With(authenticate, middleware.RequireAdmin).Post("/", tournamentHandler.CreateHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetByIDHandler)
			r.Get("/overview", tournamentHandler.OverviewHandler)
			r.Get("/standings", tournamentHandler.StandingsHandler)
			r.Get("/matchdays", tournamentHandler.MatchdaysHandler)
			r.Get("/season", tournamentHandler.SeasonHandler)
			r.Get("/matches/{matchID}/scores", scoreHandler.GetHandler)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/matches/{matchID}/scores", scoreHandler.SubmitHandler)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/matches/{matchID}/result", tournamentHandler.ApplyResultHandler)
					r.Post("/matches/{matchID}/scores/approve", scoreHandler.ApproveHandler)
					r.Post("/matches/{matchID}/scores/resolve", scoreHandler.ResolveHandler)
					r.Post("/heats/{heatID}/placements", tournamentHandler.PlacementsHandler)
					r.Post("/playoffs", tournamentHandler.PromotePlayoffsHandler)
				})
			})
		})
	})
}
