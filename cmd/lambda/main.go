// Package main runs the API on AWS Lambda behind an API Gateway HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/app"
	"github.com/capitalize-ai/ai-slides/internal/config"
	"github.com/capitalize-ai/ai-slides/internal/lambdahttp"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	api, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to initialize application", zap.Error(err))
		os.Exit(1)
	}
	defer api.Close()

	lambda.Start(lambdahttp.NewHandler(api.Handler))
}
