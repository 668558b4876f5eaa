package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	internalaws "github.com/retailops/order-workflow/internal/aws"
	"github.com/retailops/order-workflow/internal/config"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zlog.With().Str("service", "order-workflow-worker").Logger()

	settings, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load settings")
	}

	clients, err := internalaws.NewAWSClients(context.Background(), settings.Region)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init aws clients")
	}

	projector := NewProjector(clients.DynamoDB, settings.OrdersTable, logger)

	// If RUN_LOCAL is set, simulate a single SQS event for local testing.
	if settings.RunLocal {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"type":"order_cancelled","order_id":"local-order-1"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := projector.Handle(context.Background(), event); err != nil {
			logger.Fatal().Err(err).Msg("local handler error")
		}
		return
	}

	lambda.Start(projector.Handle)
}
