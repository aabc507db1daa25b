package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sburman/coal-train-cup/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	statsHandler *handlers.StatsHandler,
	tippingHandler *handlers.TippingHandler,
	tipsHandler *handlers.TipsHandler,
	leaderboardHandler *handlers.LeaderboardHandler,
	shieldHandler *handlers.ShieldHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/stats", statsHandler.GetStats)

	router.Route("/tipping", func(r chi.Router) {
		r.Get("/current-round", tippingHandler.GetCurrentRound)
		r.Get("/make-tip", tippingHandler.GetMakeTip)
	})

	router.Route("/tips", func(r chi.Router) {
		r.Get("/", tipsHandler.ListTips)
		r.Post("/", tippingHandler.SubmitTip)
		r.Get("/round", tipsHandler.GetRoundTips)
		r.Get("/user", tipsHandler.GetUserTips)
	})

	router.Route("/leaderboard", func(r chi.Router) {
		r.Get("/", leaderboardHandler.GetLeaderboard)
		r.Get("/legacy", leaderboardHandler.GetLegacyLeaderboard)
	})

	router.Route("/shield", func(r chi.Router) {
		r.Get("/players", shieldHandler.GetPlayers)
		r.Post("/tips", shieldHandler.SubmitTip)
		r.Get("/winners", shieldHandler.GetWinners)
	})
}
