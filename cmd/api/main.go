package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	internalaws "github.com/retailops/order-workflow/internal/aws"
	"github.com/retailops/order-workflow/internal/config"
	"github.com/retailops/order-workflow/internal/handlers"
	"github.com/retailops/order-workflow/internal/orders"
	"github.com/retailops/order-workflow/internal/policy"
	"github.com/retailops/order-workflow/internal/workflow"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterWorkflowRoutes(r, cfg)

	return r
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zlog.With().Str("service", "order-workflow-api").Logger()

	settings, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load settings")
	}

	clients, err := internalaws.NewAWSClients(context.Background(), settings.Region)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init aws clients")
	}

	var publisher *internalaws.Publisher
	if settings.EventsQueueURL != "" {
		publisher = internalaws.NewPublisher(clients.SQS, settings.EventsQueueURL)
	}

	svc := workflow.NewService(workflow.ServiceConfig{
		Orders:       orders.NewStore(clients.DynamoDB, settings.OrdersTable),
		Policy:       policy.NewStore(clients.DynamoDB, settings.PolicyTable),
		Events:       publisher,
		Metrics:      internalaws.NewRecorder(clients.CloudWatch, settings.MetricsNamespace),
		Logger:       logger,
		WriteRetries: settings.WriteRetries,
	})

	r := setupRouter(handlers.HandlerConfig{Service: svc})

	// run a plain HTTP server for development when RUN_LOCAL is set.
	if settings.RunLocal {
		logger.Info().Str("addr", settings.HTTPAddr).Msg("running local server")
		if err := r.Run(settings.HTTPAddr); err != nil {
			logger.Fatal().Err(err).Msg("failed to run local server")
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
