package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pitchside/league-system/docs"
	"github.com/pitchside/league-system/handlers"
	"github.com/pitchside/league-system/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	teamHandler *handlers.TeamHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	liveHandler *handlers.LiveHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/doc.json", docs.ServeOpenAPI)
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	authenticate := middleware.Authenticate([]byte(jwtSecret))

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/users", func(r chi.Router) {
				r.Get("/{id}", userHandler.GetByID)
				r.Put("/profile", userHandler.UpdateProfile)
				r.Put("/logo", userHandler.UploadLogo)
			})

			r.Route("/teams", func(r chi.Router) {
				r.Post("/", teamHandler.Create)
				r.Post("/join", teamHandler.Join)
				r.Get("/{id}", teamHandler.GetByID)
				r.Post("/{id}/members", teamHandler.AddMember)
				r.Delete("/{id}/members/{memberID}", teamHandler.RemoveMember)
				r.Put("/{id}/admins", teamHandler.ToggleAdmin)
				r.Put("/{id}/roles", teamHandler.AssignRole)
				r.Put("/{id}/logo", teamHandler.UploadLogo)
			})

			r.Route("/tournaments", func(r chi.Router) {
				r.Post("/", tournamentHandler.Create)
				r.Post("/join", tournamentHandler.Join)
				r.Get("/{id}", tournamentHandler.GetByID)
				r.Get("/{id}/standings", tournamentHandler.Standings)
				r.Get("/{id}/live", liveHandler.Subscribe)
				r.Post("/{id}/teams", tournamentHandler.AddTeam)
				r.Post("/{id}/schedule", tournamentHandler.GenerateSchedule)
				r.Put("/{id}/logo", tournamentHandler.UploadLogo)

				r.Post("/{id}/matches", matchHandler.Add)
				r.Route("/{id}/matches/{matchID}", func(r chi.Router) {
					r.Put("/", matchHandler.Update)
					r.Delete("/", matchHandler.Delete)
					r.Patch("/status", matchHandler.UpdateStatus)
					r.Post("/goal", matchHandler.RecordGoal)
					r.Post("/card", matchHandler.RecordCard)
					r.Patch("/potm", matchHandler.SetPlayerOfTheMatch)
				})
			})
		})
	})
}
