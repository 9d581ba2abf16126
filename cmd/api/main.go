package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/promodeagro/packer-workflow/internal/aws"
	"github.com/promodeagro/packer-workflow/internal/handlers"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	// local development reads .env; in Lambda the environment is injected
	if os.Getenv("RUN_LOCAL") == "true" {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("no .env file loaded: %v", err)
		}
	}

	clients, err := aws.NewAWSClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	cfg := handlers.HandlerConfig{
		DynamoDBClient:     clients.DynamoDB,
		SQSClient:          clients.SQS,
		CloudWatchClient:   clients.CloudWatch,
		OrdersTable:        os.Getenv("ORDERS_TABLE"),
		PackersTable:       os.Getenv("PACKERS_TABLE"),
		UsersTable:         os.Getenv("USERS_TABLE"),
		NotificationsTable: os.Getenv("NOTIFICATIONS_TABLE"),
		QueueURL:           os.Getenv("NOTIFICATIONS_QUEUE_URL"),
		MetricsNamespace:   os.Getenv("METRICS_NAMESPACE"),
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
