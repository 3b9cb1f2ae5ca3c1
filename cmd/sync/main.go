// Function sync copies upstream launches into DynamoDB and hands over to package api.
package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/launchsync/launchsync/internal/api"
	"github.com/launchsync/launchsync/internal/config"
	"github.com/launchsync/launchsync/internal/logging"
	"github.com/launchsync/launchsync/pkg/caller"
	"github.com/launchsync/launchsync/pkg/storage"
	"github.com/launchsync/launchsync/pkg/syncer"
)

var h *api.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	log := logging.New(logging.Options{
		Level: cfg.LogLevel,
		JSON:  config.InLambda() || cfg.Environment == "production",
	})

	db, err := storage.NewDynamo(context.Background(), storage.DynamoOptions{
		Region:    cfg.Region,
		Endpoint:  cfg.Endpoint,
		Table:     cfg.TableName,
		PageLimit: cfg.ScanPageLimit,
		Log:       log,
	})
	if err != nil {
		panic(err.Error())
	}

	src, err := caller.NewClient(cfg.SourceURL, cfg.FetchTimeout)
	if err != nil {
		panic(fmt.Sprintf("invalid SPACEX_API_URL: %v", err))
	}

	h = api.NewHandler(syncer.NewSyncer(src, db, syncer.WithLogger(log)), db, log)
}

// handler works for both API Gateway and scheduled invocations
func handler(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	return h.Sync(ctx)
}

func main() {
	lambda.Start(handler)
}
