// Package mail adapts the finalize-notification hand-off. The actual
// delivery pipeline sits behind the event bus; this composer forwards the
// request there and records the hand-off.
package mail

import (
	"context"
	"time"

	"plenum/application/ports"
	"plenum/domain/events"

	"go.uber.org/zap"
)

// EventBridgeComposer forwards a finalized-minutes mail request onto the
// event bus, where the delivery worker picks it up. Composing and sending
// happen out of process; the handler only needs the hand-off to succeed.
type EventBridgeComposer struct {
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewEventBridgeComposer creates the composer
func NewEventBridgeComposer(publisher ports.EventPublisher, logger *zap.Logger) ports.MailComposer {
	return &EventBridgeComposer{
		publisher: publisher,
		logger:    logger,
	}
}

// SendMinutes publishes the mail request for the delivery worker
func (c *EventBridgeComposer) SendMinutes(ctx context.Context, req ports.SendMinutesRequest) error {
	event := events.NewMinutesMailRequested(
		req.MinutesID, req.SeriesID,
		req.SeriesName, req.MeetingDate, req.Sender,
		req.SendActionItems, req.SendInfoItems,
		req.Topics, time.Now(),
	)
	if err := c.publisher.Publish(ctx, event); err != nil {
		return err
	}

	c.logger.Info("Minutes mail hand-off published",
		zap.String("minutesID", req.MinutesID.String()),
		zap.String("seriesID", req.SeriesID.String()),
		zap.String("sender", req.Sender),
		zap.Bool("actionItems", req.SendActionItems),
		zap.Bool("infoItems", req.SendInfoItems),
	)
	return nil
}
