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
	"go.uber.org/zap"

	"github.com/nexflow/nexflow-server/internal/awsx"
	"github.com/nexflow/nexflow-server/internal/config"
	"github.com/nexflow/nexflow-server/internal/handlers"
	"github.com/nexflow/nexflow-server/internal/notify"
	"github.com/nexflow/nexflow-server/internal/orders"
	"github.com/nexflow/nexflow-server/internal/uploads"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestLogger(cfg.Log))
	r.MaxMultipartMemory = uploads.MaxFileSize

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterOrdersRoutes(r, cfg)

	return r
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.New()

	var store orders.Store
	if cfg.OrdersTable != "" {
		client, err := awsx.NewDynamoDB(context.Background(), cfg.AWSRegion)
		if err != nil {
			logger.Fatal("failed to init dynamodb client", zap.Error(err))
		}
		store = orders.NewDynamoStore(client, cfg.OrdersTable)
		logger.Info("using dynamodb order store", zap.String("table", cfg.OrdersTable))
	} else {
		store = orders.NewMemoryStore()
		logger.Warn("using in-memory order store, state is lost on restart")
	}

	saver, err := uploads.NewSaver(cfg.UploadDir)
	if err != nil {
		logger.Fatal("failed to init uploads dir", zap.Error(err))
	}

	adminURL := cfg.PublicBaseURL + "/admin"
	dispatcher := notify.NewDispatcher(logger,
		notify.NewEmailChannel(cfg.GmailUser, cfg.GmailAppPassword, cfg.TestEmail, cfg.AdminEmails, adminURL, logger),
		notify.NewSlackChannel(cfg.SlackBotToken, cfg.SlackChannelID, adminURL, logger),
	)

	r := setupRouter(handlers.HandlerConfig{
		Store:      store,
		Dispatcher: dispatcher,
		Uploads:    saver,
		Log:        logger,
	})

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		logger.Info("running local server", zap.String("addr", cfg.RunAddress))
		if err := r.Run(cfg.RunAddress); err != nil {
			logger.Fatal("failed to run local server", zap.Error(err))
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
