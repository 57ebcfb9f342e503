package handlers

import (
	"context"
	"fmt"
	"time"

	"plenum/application/commands"
	"plenum/application/ports"
	"plenum/application/services"
	"plenum/domain/core/valueobjects"
	"plenum/domain/events"
	pkgerrors "plenum/pkg/errors"

	"go.uber.org/zap"
)

// UnfinalizeMinutesHandler reopens the most recently finalized minutes of a
// series and reverts the series' topics to the state of the finalized
// minutes before it, or to empty when none exists. Only the latest
// finalized minutes qualifies; a newer draft in the series does not stand
// in the way.
type UnfinalizeMinutesHandler struct {
	minutesRepo ports.MinutesRepository
	seriesRepo  ports.MeetingSeriesRepository
	gate        *services.ModeratorGate
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewUnfinalizeMinutesHandler creates the handler
func NewUnfinalizeMinutesHandler(
	minutesRepo ports.MinutesRepository,
	seriesRepo ports.MeetingSeriesRepository,
	gate *services.ModeratorGate,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *UnfinalizeMinutesHandler {
	return &UnfinalizeMinutesHandler{
		minutesRepo: minutesRepo,
		seriesRepo:  seriesRepo,
		gate:        gate,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the unfinalize minutes command
func (h *UnfinalizeMinutesHandler) Handle(ctx context.Context, cmd commands.UnfinalizeMinutesCommand) error {
	minutesID, err := valueobjects.NewMinutesIDFromString(cmd.MinutesID)
	if err != nil {
		return pkgerrors.NewInvalidArgumentError(err.Error())
	}

	minutes, err := h.minutesRepo.GetByID(ctx, minutesID)
	if err != nil {
		return err
	}

	seriesID := minutes.SeriesID()
	if err := h.gate.RequireModerator(ctx, cmd.UserID, seriesID); err != nil {
		return err
	}

	series, err := h.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return err
	}

	loaded, err := h.minutesRepo.ListBySeries(ctx, seriesID)
	if err != nil {
		return err
	}

	if !series.IsUnfinalizeAllowed(loaded, minutesID) {
		return pkgerrors.NewNotAllowedError("only the most recently finalized minutes can be unfinalized")
	}

	previous := series.PreviousFinalized(loaded, minutesID)
	series.RevertFinalizedMinutes(previous)

	affected, err := h.seriesRepo.Update(ctx, series)
	if err != nil {
		return err
	}
	if affected != 1 {
		return pkgerrors.NewRuntimeError(
			fmt.Sprintf("series topic revert affected %d documents, want exactly 1", affected))
	}

	if err := minutes.Unfinalize(); err != nil {
		return err
	}

	affected, err = h.minutesRepo.Update(ctx, minutes)
	if err != nil {
		return err
	}
	if affected != 1 {
		h.logger.Error("Minutes unfinalize write affected unexpected count",
			zap.String("minutesID", cmd.MinutesID),
			zap.Int("affected", affected),
		)
		return pkgerrors.NewRuntimeError(
			fmt.Sprintf("minutes update affected %d documents, want exactly 1", affected))
	}

	h.logger.Info("Minutes unfinalized",
		zap.String("minutesID", cmd.MinutesID),
		zap.String("seriesID", seriesID.String()),
	)

	event := events.NewMinutesUnfinalized(minutesID, seriesID, cmd.UserID, time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish minutes unfinalized event", zap.Error(err))
	}

	return nil
}
