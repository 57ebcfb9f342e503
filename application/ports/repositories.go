package ports

import (
	"context"

	"plenum/domain/core/entities"
	"plenum/domain/core/valueobjects"
)

// The two collections are stored independently. Every mutation returns the
// number of documents it affected, so callers can tell a clean no-op from a
// concurrent modification. There is no multi-document transaction across
// the two repositories; cross-collection consistency is the workflow's job.

// MinutesRepository persists minutes documents
type MinutesRepository interface {
	// Insert stores a new minutes document
	Insert(ctx context.Context, m *entities.Minutes) error

	// GetByID retrieves a minutes document by its ID
	GetByID(ctx context.Context, id valueobjects.MinutesID) (*entities.Minutes, error)

	// ListBySeries retrieves all minutes belonging to a series
	ListBySeries(ctx context.Context, seriesID valueobjects.SeriesID) ([]*entities.Minutes, error)

	// Update persists the current state of an existing minutes document.
	// Returns the number of documents affected (0 when the document is gone).
	Update(ctx context.Context, m *entities.Minutes) (int, error)

	// RemoveDraft deletes the minutes only while it is not finalized. The
	// state condition travels with the delete, so a finalized minutes
	// survives even a racing call. Returns documents affected.
	RemoveDraft(ctx context.Context, id valueobjects.MinutesID) (int, error)

	// RemoveAllBySeries deletes every minutes of a series regardless of
	// state. Only series removal may call this. Returns documents affected.
	RemoveAllBySeries(ctx context.Context, seriesID valueobjects.SeriesID) (int, error)
}

// MeetingSeriesRepository persists meeting series documents
type MeetingSeriesRepository interface {
	// GetByID retrieves a series by its ID
	GetByID(ctx context.Context, id valueobjects.SeriesID) (*entities.MeetingSeries, error)

	// Insert stores a new series document
	Insert(ctx context.Context, s *entities.MeetingSeries) error

	// Update persists the current state of an existing series document.
	// Returns documents affected.
	Update(ctx context.Context, s *entities.MeetingSeries) (int, error)

	// AppendMinutes adds a minutes ID to the end of the series' ordered
	// list. Returns documents affected.
	AppendMinutes(ctx context.Context, seriesID valueobjects.SeriesID, minutesID valueobjects.MinutesID) (int, error)

	// PullMinutes removes a minutes ID from the series' ordered list.
	// Returns documents affected (0 when the ID was not referenced).
	PullMinutes(ctx context.Context, seriesID valueobjects.SeriesID, minutesID valueobjects.MinutesID) (int, error)

	// Remove deletes the series document. Returns documents affected.
	Remove(ctx context.Context, id valueobjects.SeriesID) (int, error)
}
