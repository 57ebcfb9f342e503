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

// FinalizeMinutesHandler freezes a minutes and promotes its topics into the
// parent series. The series write goes first: if it fails, the minutes is
// still a draft and the operation can simply be retried. Each write must
// affect exactly one document; any other count is reported as a runtime
// error instead of being silently accepted.
type FinalizeMinutesHandler struct {
	minutesRepo ports.MinutesRepository
	seriesRepo  ports.MeetingSeriesRepository
	gate        *services.ModeratorGate
	notifier    *services.FinalizeNotifier
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewFinalizeMinutesHandler creates the handler
func NewFinalizeMinutesHandler(
	minutesRepo ports.MinutesRepository,
	seriesRepo ports.MeetingSeriesRepository,
	gate *services.ModeratorGate,
	notifier *services.FinalizeNotifier,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *FinalizeMinutesHandler {
	return &FinalizeMinutesHandler{
		minutesRepo: minutesRepo,
		seriesRepo:  seriesRepo,
		gate:        gate,
		notifier:    notifier,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the finalize minutes command
func (h *FinalizeMinutesHandler) Handle(ctx context.Context, cmd commands.FinalizeMinutesCommand) error {
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

	if minutes.IsFinalized() {
		return pkgerrors.NewNotAllowedError("minutes is already finalized")
	}

	series, err := h.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return err
	}

	loaded, err := h.minutesRepo.ListBySeries(ctx, seriesID)
	if err != nil {
		return err
	}

	if !series.IsLastMinutes(loaded, minutesID) {
		return pkgerrors.NewNotAllowedError("only the last minutes of a series can be finalized")
	}

	series.ApplyFinalizedMinutes(minutes)

	affected, err := h.seriesRepo.Update(ctx, series)
	if err != nil {
		return err
	}
	if affected != 1 {
		return pkgerrors.NewRuntimeError(
			fmt.Sprintf("series topic update affected %d documents, want exactly 1", affected))
	}

	if err := minutes.Finalize(cmd.UserID, time.Now()); err != nil {
		return err
	}

	affected, err = h.minutesRepo.Update(ctx, minutes)
	if err != nil {
		return err
	}
	if affected != 1 {
		// The series topics are already committed at this point; the
		// mismatch is surfaced rather than rolled back so an operator
		// can reconcile the documents.
		h.logger.Error("Minutes finalize write affected unexpected count",
			zap.String("minutesID", cmd.MinutesID),
			zap.Int("affected", affected),
		)
		return pkgerrors.NewRuntimeError(
			fmt.Sprintf("minutes update affected %d documents, want exactly 1", affected))
	}

	h.logger.Info("Minutes finalized",
		zap.String("minutesID", cmd.MinutesID),
		zap.String("seriesID", seriesID.String()),
		zap.String("finalizedBy", cmd.UserID),
		zap.Int("version", minutes.FinalizedVersion()),
	)

	h.notifier.NotifyFinalized(minutes, series, services.NotifyOptions{
		SendActionItems: cmd.SendActionItems,
		SendInfoItems:   cmd.SendInfoItems,
		FinalizerEmail:  cmd.UserEmail,
	})

	event := events.NewMinutesFinalized(minutesID, seriesID, cmd.UserID, minutes.FinalizedVersion(), time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish minutes finalized event", zap.Error(err))
	}

	return nil
}
