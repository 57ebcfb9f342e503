package handlers

import (
	"context"
	"time"

	"plenum/application/commands"
	"plenum/application/ports"
	"plenum/application/sagas"
	"plenum/application/services"
	"plenum/domain/core/entities"
	"plenum/domain/core/valueobjects"
	"plenum/domain/events"
	pkgerrors "plenum/pkg/errors"
	"plenum/pkg/utils"

	"go.uber.org/zap"
)

// AddMinutesHandler creates a new draft minutes and appends its ID to the
// parent series' ordered list. The two writes go to two collections with
// no shared transaction, so they run as a saga: if the series append
// fails, the freshly inserted minutes is deleted again and the append
// error surfaces. The compensation hangs off the insert step itself, not
// off surrounding control flow.
type AddMinutesHandler struct {
	minutesRepo ports.MinutesRepository
	seriesRepo  ports.MeetingSeriesRepository
	gate        *services.ModeratorGate
	publisher   ports.EventPublisher
	logger      *zap.Logger
}

// NewAddMinutesHandler creates the handler
func NewAddMinutesHandler(
	minutesRepo ports.MinutesRepository,
	seriesRepo ports.MeetingSeriesRepository,
	gate *services.ModeratorGate,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *AddMinutesHandler {
	return &AddMinutesHandler{
		minutesRepo: minutesRepo,
		seriesRepo:  seriesRepo,
		gate:        gate,
		publisher:   publisher,
		logger:      logger,
	}
}

// Handle executes the add minutes command
func (h *AddMinutesHandler) Handle(ctx context.Context, cmd commands.AddMinutesCommand) error {
	seriesID, err := valueobjects.NewSeriesIDFromString(cmd.SeriesID)
	if err != nil {
		return pkgerrors.NewInvalidArgumentError(err.Error())
	}

	series, err := h.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return err
	}

	if err := h.gate.RequireModerator(ctx, cmd.UserID, seriesID); err != nil {
		return err
	}

	loaded, err := h.minutesRepo.ListBySeries(ctx, seriesID)
	if err != nil {
		return err
	}

	if !series.AddNewMinutesAllowed(loaded) {
		return pkgerrors.NewNotAllowedError("cannot add a new minutes while the previous one is not finalized")
	}

	date, err := utils.ParseDate(cmd.Date)
	if err != nil {
		return pkgerrors.NewInvalidArgumentError("date must be in YYYY-MM-DD form")
	}

	if !series.IsMinutesDateAllowed(loaded, valueobjects.MinutesID{}, date) {
		return pkgerrors.NewNotAllowedError("date must be after the last finalized minutes of this series")
	}

	var minutesID valueobjects.MinutesID
	if cmd.MinutesID != "" {
		minutesID, err = valueobjects.NewMinutesIDFromString(cmd.MinutesID)
		if err != nil {
			return pkgerrors.NewInvalidArgumentError(err.Error())
		}
	} else {
		minutesID = valueobjects.NewMinutesID()
	}

	minutes, err := entities.NewMinutes(minutesID, seriesID, date, series.Topics())
	if err != nil {
		return err
	}

	saga := sagas.New("add-minutes", h.logger)
	saga.AddStep(sagas.Step{
		Name: "insert-minutes",
		Execute: func(ctx context.Context) error {
			return h.minutesRepo.Insert(ctx, minutes)
		},
		Compensate: func(ctx context.Context) error {
			// The document is still a draft, so the conditional delete applies
			_, err := h.minutesRepo.RemoveDraft(ctx, minutes.ID())
			return err
		},
	})
	saga.AddStep(sagas.Step{
		Name: "append-to-series",
		Execute: func(ctx context.Context) error {
			affected, err := h.seriesRepo.AppendMinutes(ctx, seriesID, minutes.ID())
			if err != nil {
				return err
			}
			if affected != 1 {
				return pkgerrors.NewRuntimeError("series minutes-list update affected no document")
			}
			return nil
		},
	})

	if err := saga.Execute(ctx); err != nil {
		return err
	}

	h.logger.Info("Minutes added",
		zap.String("minutesID", minutes.ID().String()),
		zap.String("seriesID", seriesID.String()),
		zap.String("date", cmd.Date),
	)

	event := events.NewMinutesAdded(minutes.ID(), seriesID, cmd.Date, time.Now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		// Events are best-effort; the write already committed
		h.logger.Warn("Failed to publish minutes added event", zap.Error(err))
	}

	return nil
}
