package events

import (
	"time"

	"plenum/domain/core/valueobjects"
)

// SourceService identifies this service on the event bus
const SourceService = "plenum.minutes"

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// MinutesAdded is raised when a new draft minutes joins a series
type MinutesAdded struct {
	BaseEvent
	MinutesID valueobjects.MinutesID `json:"minutes_id"`
	SeriesID  valueobjects.SeriesID  `json:"series_id"`
	Date      string                 `json:"date"`
}

// NewMinutesAdded creates a MinutesAdded event
func NewMinutesAdded(minutesID valueobjects.MinutesID, seriesID valueobjects.SeriesID, date string, timestamp time.Time) MinutesAdded {
	return MinutesAdded{
		BaseEvent: BaseEvent{
			AggregateID: minutesID.String(),
			EventType:   "minutes.added",
			Timestamp:   timestamp,
		},
		MinutesID: minutesID,
		SeriesID:  seriesID,
		Date:      date,
	}
}

// MinutesFinalized is raised after a minutes has been frozen and its topics
// merged into the series
type MinutesFinalized struct {
	BaseEvent
	MinutesID        valueobjects.MinutesID `json:"minutes_id"`
	SeriesID         valueobjects.SeriesID  `json:"series_id"`
	FinalizedBy      string                 `json:"finalized_by"`
	FinalizedVersion int                    `json:"finalized_version"`
}

// NewMinutesFinalized creates a MinutesFinalized event
func NewMinutesFinalized(minutesID valueobjects.MinutesID, seriesID valueobjects.SeriesID, finalizedBy string, finalizedVersion int, timestamp time.Time) MinutesFinalized {
	return MinutesFinalized{
		BaseEvent: BaseEvent{
			AggregateID: minutesID.String(),
			EventType:   "minutes.finalized",
			Timestamp:   timestamp,
		},
		MinutesID:        minutesID,
		SeriesID:         seriesID,
		FinalizedBy:      finalizedBy,
		FinalizedVersion: finalizedVersion,
	}
}

// MinutesUnfinalized is raised after a finalized minutes has been reopened
type MinutesUnfinalized struct {
	BaseEvent
	MinutesID     valueobjects.MinutesID `json:"minutes_id"`
	SeriesID      valueobjects.SeriesID  `json:"series_id"`
	UnfinalizedBy string                 `json:"unfinalized_by"`
}

// NewMinutesUnfinalized creates a MinutesUnfinalized event
func NewMinutesUnfinalized(minutesID valueobjects.MinutesID, seriesID valueobjects.SeriesID, unfinalizedBy string, timestamp time.Time) MinutesUnfinalized {
	return MinutesUnfinalized{
		BaseEvent: BaseEvent{
			AggregateID: minutesID.String(),
			EventType:   "minutes.unfinalized",
			Timestamp:   timestamp,
		},
		MinutesID:     minutesID,
		SeriesID:      seriesID,
		UnfinalizedBy: unfinalizedBy,
	}
}

// MinutesRemoved is raised after a draft minutes has been deleted
type MinutesRemoved struct {
	BaseEvent
	MinutesID valueobjects.MinutesID `json:"minutes_id"`
	SeriesID  valueobjects.SeriesID  `json:"series_id"`
}

// NewMinutesRemoved creates a MinutesRemoved event
func NewMinutesRemoved(minutesID valueobjects.MinutesID, seriesID valueobjects.SeriesID, timestamp time.Time) MinutesRemoved {
	return MinutesRemoved{
		BaseEvent: BaseEvent{
			AggregateID: minutesID.String(),
			EventType:   "minutes.removed",
			Timestamp:   timestamp,
		},
		MinutesID: minutesID,
		SeriesID:  seriesID,
	}
}

// MinutesMailRequested hands a finalized minutes off to the out-of-process
// mail delivery worker
type MinutesMailRequested struct {
	BaseEvent
	MinutesID       valueobjects.MinutesID `json:"minutes_id"`
	SeriesID        valueobjects.SeriesID  `json:"series_id"`
	SeriesName      string                 `json:"series_name"`
	MeetingDate     string                 `json:"meeting_date"`
	Sender          string                 `json:"sender"`
	SendActionItems bool                   `json:"send_action_items"`
	SendInfoItems   bool                   `json:"send_info_items"`
	Topics          []valueobjects.Topic   `json:"topics"`
}

// NewMinutesMailRequested creates a MinutesMailRequested event
func NewMinutesMailRequested(
	minutesID valueobjects.MinutesID,
	seriesID valueobjects.SeriesID,
	seriesName, meetingDate, sender string,
	sendActionItems, sendInfoItems bool,
	topics []valueobjects.Topic,
	timestamp time.Time,
) MinutesMailRequested {
	return MinutesMailRequested{
		BaseEvent: BaseEvent{
			AggregateID: minutesID.String(),
			EventType:   "minutes.mail_requested",
			Timestamp:   timestamp,
		},
		MinutesID:       minutesID,
		SeriesID:        seriesID,
		SeriesName:      seriesName,
		MeetingDate:     meetingDate,
		Sender:          sender,
		SendActionItems: sendActionItems,
		SendInfoItems:   sendInfoItems,
		Topics:          topics,
	}
}

// MeetingSeriesRemoved is raised after a series and all its minutes have
// been deleted
type MeetingSeriesRemoved struct {
	BaseEvent
	SeriesID       valueobjects.SeriesID `json:"series_id"`
	MinutesRemoved int                   `json:"minutes_removed"`
}

// NewMeetingSeriesRemoved creates a MeetingSeriesRemoved event
func NewMeetingSeriesRemoved(seriesID valueobjects.SeriesID, minutesRemoved int, timestamp time.Time) MeetingSeriesRemoved {
	return MeetingSeriesRemoved{
		BaseEvent: BaseEvent{
			AggregateID: seriesID.String(),
			EventType:   "series.removed",
			Timestamp:   timestamp,
		},
		SeriesID:       seriesID,
		MinutesRemoved: minutesRemoved,
	}
}
