package di

import (
	"plenum/application/commands/bus"
	"plenum/application/ports"
	"plenum/application/services"
	"plenum/infrastructure/config"
	"plenum/pkg/auth"
	"plenum/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	MinutesRepo  ports.MinutesRepository
	SeriesRepo   ports.MeetingSeriesRepository
	RoleResolver ports.RoleResolver
	Gate         *services.ModeratorGate
	Notifier     *services.FinalizeNotifier
	MailComposer ports.MailComposer
	MailSettings ports.MailSettings
	Publisher    ports.EventPublisher
	CommandBus   *bus.CommandBus
	Metrics      *observability.Metrics
	Tracer       *observability.Tracer
	JWTValidator *auth.JWTValidator
	RateLimiter  *auth.IPRateLimiter
}
