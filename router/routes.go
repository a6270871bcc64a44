package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juspay/genius-dashboard-go/dashboard"
	"github.com/juspay/genius-dashboard-go/filters"
	"github.com/juspay/genius-dashboard-go/rating"
	"github.com/juspay/genius-dashboard-go/session"
	"github.com/juspay/genius-dashboard-go/status"
	"github.com/juspay/genius-dashboard-go/trace"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/dashboard", dashboard.GetDashboard)

	api.Get("/session", session.ListSessions)
	api.Get("/session/:id", session.GetSession)

	api.Get("/trace/:id", trace.GetTrace)
	api.Get("/observation/:id", trace.GetObservation)

	api.Get("/filters", filters.GetFilters)
	api.Put("/filters", filters.PutFilters)
	api.Get("/filters/share", filters.ShareLink)

	api.Post("/rating", rating.PutRating)
	api.Delete("/rating/:traceid", rating.DeleteRating)
	api.Post("/rating/list", rating.ListRatings)

	api.Get("/status", status.GetStatus)
}
