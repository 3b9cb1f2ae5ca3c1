// Function api serves the read-side launch views and hands over to package api.
package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/launchsync/launchsync/internal/api"
	"github.com/launchsync/launchsync/internal/config"
	"github.com/launchsync/launchsync/internal/logging"
	"github.com/launchsync/launchsync/pkg/storage"
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

	h = api.NewHandler(nil, db, log)
}

func handler(ctx context.Context, req *events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return h.Handle(ctx, req)
}

func main() {
	lambda.Start(handler)
}
