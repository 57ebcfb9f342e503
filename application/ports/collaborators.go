package ports

import (
	"context"

	"plenum/domain/core/valueobjects"
	"plenum/domain/events"
)

// RoleResolver answers moderator membership questions for a series
type RoleResolver interface {
	IsModeratorOf(ctx context.Context, userID string, seriesID valueobjects.SeriesID) (bool, error)
}

// MailSettings exposes the mail-delivery configuration
type MailSettings interface {
	IsEmailDeliveryEnabled() bool
	DefaultSenderAddress() string
}

// SendMinutesRequest describes one finalized-minutes mail hand-off
type SendMinutesRequest struct {
	MinutesID       valueobjects.MinutesID
	SeriesID        valueobjects.SeriesID
	SeriesName      string
	MeetingDate     string
	Sender          string
	SendActionItems bool
	SendInfoItems   bool
	Topics          []valueobjects.Topic
}

// MailComposer hands a finalized minutes off to the mail subsystem
type MailComposer interface {
	SendMinutes(ctx context.Context, req SendMinutesRequest) error
}

// EventPublisher publishes domain events to interested consumers
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
