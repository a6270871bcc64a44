package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	fiberadapter "github.com/awslabs/aws-lambda-go-api-proxy/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/juspay/genius-dashboard-go/config"
	"github.com/juspay/genius-dashboard-go/database"
	"github.com/juspay/genius-dashboard-go/filters"
	"github.com/juspay/genius-dashboard-go/rating"
	"github.com/juspay/genius-dashboard-go/router"
	"github.com/juspay/genius-dashboard-go/tracestore"
)

var fiberLambda *fiberadapter.FiberLambda

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	app := fiber.New()

	database.InitDatabase()
	database.DBConn.AutoMigrate(&rating.ManualRating{})

	tracestore.Init(cfg.TraceStoreURL, cfg.TraceStorePublicKey, cfg.TraceStoreSecretKey)

	if store, err := filters.NewRedisStore(cfg.RedisURL); err == nil {
		filters.UseStore(store)
	}

	router.SetupRoutes(app)

	fiberLambda = fiberadapter.New(app)
}

// Handler proxies our app requests to aws lambda
func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return fiberLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(Handler)
}
