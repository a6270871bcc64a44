package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/juspay/genius-dashboard-go/config"
	"github.com/juspay/genius-dashboard-go/database"
	"github.com/juspay/genius-dashboard-go/filters"
	"github.com/juspay/genius-dashboard-go/misc"
	"github.com/juspay/genius-dashboard-go/rating"
	"github.com/juspay/genius-dashboard-go/router"
	"github.com/juspay/genius-dashboard-go/tracestore"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU() * 8)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app := fiber.New(fiber.Config{
		ReadBufferSize:  8192,
		WriteBufferSize: 8192,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Map this to a standardised error response.
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			return ctx.Status(code).JSON(fiber.Map{
				"error":   code,
				"message": err.Error(),
			})
		},
	})

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Enable CORS - the dashboard UI is served from a different origin.  Set
	// MaxAge so that OPTIONS preflight requests are cached, which reduces the
	// number of them and hence increases performance.
	app.Use(cors.New(cors.Config{
		MaxAge: 86400,
	}))

	app.Use(misc.LokiMiddleware())

	database.InitDatabase()
	database.DBConn.AutoMigrate(&rating.ManualRating{})

	tracestore.Init(cfg.TraceStoreURL, cfg.TraceStorePublicKey, cfg.TraceStoreSecretKey)

	store, err := filters.NewRedisStore(cfg.RedisURL)
	if err != nil {
		// Filters degrade to per-request defaults without the store.
		fmt.Printf("Filter store unavailable: %v\n", err)
	} else {
		filters.UseStore(store)
	}

	router.SetupRoutes(app)

	// We can signal to stop using SIGINT.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	serverShutdown := make(chan struct{})

	go func() {
		_ = <-c
		fmt.Println("Gracefully shutting down...")
		_ = app.Shutdown()
		serverShutdown <- struct{}{}
	}()

	app.Listen(":" + cfg.Port)

	<-serverShutdown

	fmt.Println("...exiting")
}
