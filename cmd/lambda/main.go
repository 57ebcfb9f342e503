package main

import (
	"context"
	"log"
	"time"

	"plenum/infrastructure/config"
	"plenum/infrastructure/di"
	"plenum/interfaces/http/rest"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container
	coldStart = true
)

// init runs during cold start
func init() {
	start := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err = di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	router := rest.NewRouter(
		container.CommandBus,
		container.JWTValidator,
		container.RateLimiter,
		cfg.EnableCORS,
		container.Logger,
	)
	chiLambda = chiadapter.NewV2(router.Setup())

	log.Printf("Lambda cold start completed in %v", time.Since(start))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := chiLambda.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	}
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Request-ID"] = req.RequestContext.RequestID
	}

	return resp, err
}

func main() {
	lambda.Start(Handler)
}
