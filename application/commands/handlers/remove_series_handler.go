package handlers

import (
	"context"
	"time"

	"plenum/application/commands"
	"plenum/application/ports"
	"plenum/application/services"
	"plenum/domain/core/valueobjects"
	"plenum/domain/events"
	pkgerrors "plenum/pkg/errors"

	"go.uber.org/zap"
)

// RemoveSeriesHandler deletes a meeting series together with every minutes
// that belongs to it, drafts and finalized alike. An empty series ID is
// accepted and does nothing. The minutes go first so that a failure
// mid-cascade leaves the series document in place as the anchor for a
// retry.
type RemoveSeriesHandler struct {
	minutesRepo ports.MinutesRepository
	seriesRepo  ports.MeetingSeriesRepository
	gate        *services.ModeratorGate
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewRemoveSeriesHandler creates the handler
func NewRemoveSeriesHandler(
	minutesRepo ports.MinutesRepository,
	seriesRepo ports.MeetingSeriesRepository,
	gate *services.ModeratorGate,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *RemoveSeriesHandler {
	return &RemoveSeriesHandler{
		minutesRepo: minutesRepo,
		seriesRepo:  seriesRepo,
		gate:        gate,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the remove meeting series command
func (h *RemoveSeriesHandler) Handle(ctx context.Context, cmd commands.RemoveMeetingSeriesCommand) error {
	if cmd.SeriesID == "" {
		h.logger.Debug("Remove series called without an ID")
		return nil
	}

	seriesID, err := valueobjects.NewSeriesIDFromString(cmd.SeriesID)
	if err != nil {
		return pkgerrors.NewInvalidArgumentError(err.Error())
	}

	if err := h.gate.RequireModerator(ctx, cmd.UserID, seriesID); err != nil {
		return err
	}

	removed, err := h.minutesRepo.RemoveAllBySeries(ctx, seriesID)
	if err != nil {
		return err
	}

	affected, err := h.seriesRepo.Remove(ctx, seriesID)
	if err != nil {
		return err
	}
	if affected == 0 {
		h.logger.Warn("Series document already gone",
			zap.String("seriesID", cmd.SeriesID),
		)
	}

	h.logger.Info("Meeting series removed",
		zap.String("seriesID", cmd.SeriesID),
		zap.Int("minutesRemoved", removed),
	)

	event := events.NewMeetingSeriesRemoved(seriesID, removed, time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish series removed event", zap.Error(err))
	}

	return nil
}
