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

// RemoveMinutesHandler deletes a draft minutes and pulls its ID out of the
// parent series' list. The delete is conditional on the draft state, so a
// concurrent finalize loses no data: when the delete reports nothing
// affected, the series list is left untouched.
type RemoveMinutesHandler struct {
	minutesRepo ports.MinutesRepository
	seriesRepo  ports.MeetingSeriesRepository
	gate        *services.ModeratorGate
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewRemoveMinutesHandler creates the handler
func NewRemoveMinutesHandler(
	minutesRepo ports.MinutesRepository,
	seriesRepo ports.MeetingSeriesRepository,
	gate *services.ModeratorGate,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *RemoveMinutesHandler {
	return &RemoveMinutesHandler{
		minutesRepo: minutesRepo,
		seriesRepo:  seriesRepo,
		gate:        gate,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the remove minutes command
func (h *RemoveMinutesHandler) Handle(ctx context.Context, cmd commands.RemoveMinutesCommand) error {
	minutesID, err := valueobjects.NewMinutesIDFromString(cmd.MinutesID)
	if err != nil {
		return pkgerrors.NewInvalidArgumentError(err.Error())
	}

	minutes, err := h.minutesRepo.GetByID(ctx, minutesID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			// Already gone, nothing to do
			h.logger.Debug("Minutes to remove not found", zap.String("minutesID", cmd.MinutesID))
			return nil
		}
		return err
	}

	seriesID := minutes.SeriesID()
	if err := h.gate.RequireModerator(ctx, cmd.UserID, seriesID); err != nil {
		return err
	}

	affected, err := h.minutesRepo.RemoveDraft(ctx, minutesID)
	if err != nil {
		return err
	}
	if affected == 0 {
		// Finalized in the meantime, or removed by a concurrent caller.
		// Either way the series list must keep the reference.
		h.logger.Debug("Minutes not removable",
			zap.String("minutesID", cmd.MinutesID),
		)
		return nil
	}

	pulled, err := h.seriesRepo.PullMinutes(ctx, seriesID, minutesID)
	if err != nil {
		return err
	}
	if pulled != 1 {
		h.logger.Warn("Series held no reference to removed minutes",
			zap.String("minutesID", cmd.MinutesID),
			zap.String("seriesID", seriesID.String()),
		)
	}

	h.logger.Info("Minutes removed",
		zap.String("minutesID", cmd.MinutesID),
		zap.String("seriesID", seriesID.String()),
	)

	event := events.NewMinutesRemoved(minutesID, seriesID, time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish minutes removed event", zap.Error(err))
	}

	return nil
}
