package test

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/juspay/genius-dashboard-go/database"
	"github.com/juspay/genius-dashboard-go/filters"
	"github.com/juspay/genius-dashboard-go/rating"
	"github.com/juspay/genius-dashboard-go/router"
	"github.com/juspay/genius-dashboard-go/tracestore"
)

var app *fiber.App

func init() {
	// An in-memory database and an in-process trace store stub, so tests run
	// with no external services.
	os.Setenv("DB_DRIVER", "sqlite")
	os.Setenv("SQLITE_PATH", "file::memory:?cache=shared")

	database.InitDatabase()
	database.DBConn.AutoMigrate(&rating.ManualRating{})

	upstream := startTraceStoreStub()
	tracestore.Init(upstream.URL, "pk-test", "sk-test")

	filters.UseStore(newMemoryStore())

	app = fiber.New()
	router.SetupRoutes(app)
}

func getApp() *fiber.App {
	// We use this so that we only initialise fiber once.
	return app
}
