package di

import (
	"context"
	"fmt"

	"plenum/application/commands"
	"plenum/application/commands/bus"
	commands_handlers "plenum/application/commands/handlers"
	"plenum/application/ports"
	"plenum/application/services"
	"plenum/infrastructure/config"
	"plenum/infrastructure/mail"
	"plenum/infrastructure/messaging/eventbridge"
	"plenum/infrastructure/persistence/dynamodb"
	"plenum/pkg/auth"
	"plenum/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMinutesRepository creates the minutes repository
func ProvideMinutesRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MinutesRepository {
	return dynamodb.NewMinutesRepository(client, cfg.MinutesTable, cfg.SeriesIndex, logger)
}

// ProvideSeriesRepository creates the meeting series repository
func ProvideSeriesRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.MeetingSeriesRepository {
	return dynamodb.NewSeriesRepository(client, cfg.SeriesTable, logger)
}

// ProvideEventPublisher creates the EventBridge-backed event publisher
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMailSettings exposes the config as mail settings
func ProvideMailSettings(cfg *config.Config) ports.MailSettings {
	return cfg
}

// ProvideMailComposer creates the mail hand-off composer
func ProvideMailComposer(publisher ports.EventPublisher, logger *zap.Logger) ports.MailComposer {
	return mail.NewEventBridgeComposer(publisher, logger)
}

// ProvideRoleResolver creates the series-backed role resolver
func ProvideRoleResolver(seriesRepo ports.MeetingSeriesRepository) ports.RoleResolver {
	return services.NewSeriesRoleResolver(seriesRepo)
}

// ProvideModeratorGate creates the authorization gate
func ProvideModeratorGate(roles ports.RoleResolver) *services.ModeratorGate {
	return services.NewModeratorGate(roles)
}

// ProvideFinalizeNotifier creates the finalize notifier
func ProvideFinalizeNotifier(settings ports.MailSettings, composer ports.MailComposer, logger *zap.Logger) *services.FinalizeNotifier {
	return services.NewFinalizeNotifier(settings, composer, logger)
}

// ProvideMetrics creates the metrics recorder. A nil CloudWatch client
// disables recording, so development runs cost nothing.
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	if !cfg.EnableMetrics {
		return observability.NewMetrics("", nil, logger)
	}
	namespace := fmt.Sprintf("Plenum/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client, logger)
}

// ProvideTracer creates the request tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer("plenum", cfg.EnableTracing)
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	secret := cfg.JWTSecret
	if secret == "" && !cfg.IsProduction() {
		secret = "development-secret-change-in-production"
	}
	var audience []string
	if cfg.JWTAudience != "" {
		audience = []string{cfg.JWTAudience}
	}
	return auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		Audience:  audience,
	})
}

// ProvideRateLimiter creates the per-IP rate limiter
func ProvideRateLimiter(cfg *config.Config) *auth.IPRateLimiter {
	return auth.NewIPRateLimiter(cfg.RateLimitPerMinute)
}

// CommandHandlerAdapter adapts a typed handler closure to the generic
// bus interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with all workflow handlers
// registered
func ProvideCommandBus(
	minutesRepo ports.MinutesRepository,
	seriesRepo ports.MeetingSeriesRepository,
	gate *services.ModeratorGate,
	notifier *services.FinalizeNotifier,
	publisher ports.EventPublisher,
	metrics *observability.Metrics,
	tracer *observability.Tracer,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.LoggingMiddleware(logger),
		bus.MetricsMiddleware(metrics),
		bus.TracingMiddleware(tracer),
	)

	addHandler := commands_handlers.NewAddMinutesHandler(minutesRepo, seriesRepo, gate, publisher, logger)
	if err := commandBus.Register(commands.AddMinutesCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			addCmd, ok := cmd.(commands.AddMinutesCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return addHandler.Handle(ctx, addCmd)
		},
	}); err != nil {
		return nil, err
	}

	removeHandler := commands_handlers.NewRemoveMinutesHandler(minutesRepo, seriesRepo, gate, publisher, logger)
	if err := commandBus.Register(commands.RemoveMinutesCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			removeCmd, ok := cmd.(commands.RemoveMinutesCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return removeHandler.Handle(ctx, removeCmd)
		},
	}); err != nil {
		return nil, err
	}

	finalizeHandler := commands_handlers.NewFinalizeMinutesHandler(minutesRepo, seriesRepo, gate, notifier, publisher, logger)
	if err := commandBus.Register(commands.FinalizeMinutesCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			finalizeCmd, ok := cmd.(commands.FinalizeMinutesCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return finalizeHandler.Handle(ctx, finalizeCmd)
		},
	}); err != nil {
		return nil, err
	}

	unfinalizeHandler := commands_handlers.NewUnfinalizeMinutesHandler(minutesRepo, seriesRepo, gate, publisher, logger)
	if err := commandBus.Register(commands.UnfinalizeMinutesCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			unfinalizeCmd, ok := cmd.(commands.UnfinalizeMinutesCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return unfinalizeHandler.Handle(ctx, unfinalizeCmd)
		},
	}); err != nil {
		return nil, err
	}

	removeSeriesHandler := commands_handlers.NewRemoveSeriesHandler(minutesRepo, seriesRepo, gate, publisher, logger)
	if err := commandBus.Register(commands.RemoveMeetingSeriesCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			removeSeriesCmd, ok := cmd.(commands.RemoveMeetingSeriesCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return removeSeriesHandler.Handle(ctx, removeSeriesCmd)
		},
	}); err != nil {
		return nil, err
	}

	return commandBus, nil
}
