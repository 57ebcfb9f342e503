package entities

import (
	"time"

	"plenum/domain/core/valueobjects"
	pkgerrors "plenum/pkg/errors"
)

// MeetingSeries is the ordered parent of a chronological sequence of
// minutes. It owns the back-reference list of minutes identifiers and
// mirrors the topic state of the last finalize or unfinalize transition.
// The minutes documents themselves live in their own collection.
type MeetingSeries struct {
	id         valueobjects.SeriesID
	name       string
	project    string
	moderators []string

	// minutesIDs is insertion-ordered; insertion order is chronological order
	minutesIDs []valueobjects.MinutesID

	// topics and openTopics reflect the last finalize/unfinalize applied,
	// never unsynchronized edits of a draft minutes
	topics     []valueobjects.Topic
	openTopics []valueobjects.Topic

	createdAt time.Time
	updatedAt time.Time
}

// NewMeetingSeries creates a series with no minutes yet
func NewMeetingSeries(name, project string, moderators []string) (*MeetingSeries, error) {
	if name == "" {
		return nil, pkgerrors.NewInvalidArgumentError("series name cannot be empty")
	}
	if len(moderators) == 0 {
		return nil, pkgerrors.NewInvalidArgumentError("series needs at least one moderator")
	}

	now := time.Now()
	return &MeetingSeries{
		id:         valueobjects.NewSeriesID(),
		name:       name,
		project:    project,
		moderators: append([]string(nil), moderators...),
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructMeetingSeries rebuilds a series entity from stored data
func ReconstructMeetingSeries(
	id valueobjects.SeriesID,
	name, project string,
	moderators []string,
	minutesIDs []valueobjects.MinutesID,
	topics, openTopics []valueobjects.Topic,
	createdAt, updatedAt time.Time,
) (*MeetingSeries, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("series ID cannot be empty")
	}

	return &MeetingSeries{
		id:         id,
		name:       name,
		project:    project,
		moderators: append([]string(nil), moderators...),
		minutesIDs: append([]valueobjects.MinutesID(nil), minutesIDs...),
		topics:     valueobjects.CloneTopics(topics),
		openTopics: valueobjects.CloneTopics(openTopics),
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

// ID returns the series identifier
func (s *MeetingSeries) ID() valueobjects.SeriesID {
	return s.id
}

// Name returns the series name
func (s *MeetingSeries) Name() string {
	return s.name
}

// Project returns the project label of the series
func (s *MeetingSeries) Project() string {
	return s.project
}

// Moderators returns the user IDs entitled to mutate this series
func (s *MeetingSeries) Moderators() []string {
	return append([]string(nil), s.moderators...)
}

// IsModerator reports whether the given user moderates this series
func (s *MeetingSeries) IsModerator(userID string) bool {
	for _, m := range s.moderators {
		if m == userID {
			return true
		}
	}
	return false
}

// MinutesIDs returns the chronological list of minutes identifiers
func (s *MeetingSeries) MinutesIDs() []valueobjects.MinutesID {
	return append([]valueobjects.MinutesID(nil), s.minutesIDs...)
}

// Topics returns the series' aggregate topic state
func (s *MeetingSeries) Topics() []valueobjects.Topic {
	return valueobjects.CloneTopics(s.topics)
}

// OpenTopics returns the still-open subset of the aggregate topic state
func (s *MeetingSeries) OpenTopics() []valueobjects.Topic {
	return valueobjects.CloneTopics(s.openTopics)
}

// CreatedAt returns the creation timestamp
func (s *MeetingSeries) CreatedAt() time.Time {
	return s.createdAt
}

// UpdatedAt returns the last modification timestamp
func (s *MeetingSeries) UpdatedAt() time.Time {
	return s.updatedAt
}

// AppendMinutes records a new minutes identifier at the chronological end
func (s *MeetingSeries) AppendMinutes(id valueobjects.MinutesID) {
	s.minutesIDs = append(s.minutesIDs, id)
	s.updatedAt = time.Now()
}

// PullMinutes removes a minutes identifier from the list
func (s *MeetingSeries) PullMinutes(id valueobjects.MinutesID) bool {
	for i, existing := range s.minutesIDs {
		if existing.Equals(id) {
			s.minutesIDs = append(s.minutesIDs[:i], s.minutesIDs[i+1:]...)
			s.updatedAt = time.Now()
			return true
		}
	}
	return false
}

// inSeriesOrder arranges loaded minutes documents by their position in the
// series' identifier list, dropping documents that are not referenced.
func (s *MeetingSeries) inSeriesOrder(loaded []*Minutes) []*Minutes {
	byID := make(map[string]*Minutes, len(loaded))
	for _, m := range loaded {
		byID[m.ID().String()] = m
	}

	ordered := make([]*Minutes, 0, len(s.minutesIDs))
	for _, id := range s.minutesIDs {
		if m, ok := byID[id.String()]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered
}

// LastMinutes returns the chronologically last minutes, or nil
func (s *MeetingSeries) LastMinutes(loaded []*Minutes) *Minutes {
	ordered := s.inSeriesOrder(loaded)
	if len(ordered) == 0 {
		return nil
	}
	return ordered[len(ordered)-1]
}

// LastFinalized returns the most recently finalized minutes, or nil.
// Later drafts or reopened minutes do not count.
func (s *MeetingSeries) LastFinalized(loaded []*Minutes) *Minutes {
	ordered := s.inSeriesOrder(loaded)
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].IsFinalized() {
			return ordered[i]
		}
	}
	return nil
}

// PreviousFinalized returns the most recently finalized minutes other than
// the given one, or nil
func (s *MeetingSeries) PreviousFinalized(loaded []*Minutes, exclude valueobjects.MinutesID) *Minutes {
	ordered := s.inSeriesOrder(loaded)
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].ID().Equals(exclude) {
			continue
		}
		if ordered[i].IsFinalized() {
			return ordered[i]
		}
	}
	return nil
}

// AddNewMinutesAllowed reports whether a new minutes may be created.
// Adding is blocked while the last minutes exists and is not finalized.
func (s *MeetingSeries) AddNewMinutesAllowed(loaded []*Minutes) bool {
	last := s.LastMinutes(loaded)
	return last == nil || last.IsFinalized()
}

// IsMinutesDateAllowed reports whether a minutes may carry the candidate
// date. Finalized minutes form a strictly date-ordered prefix, so any other
// finalized minutes with a date at or after the candidate forbids it.
func (s *MeetingSeries) IsMinutesDateAllowed(loaded []*Minutes, exclude valueobjects.MinutesID, candidate time.Time) bool {
	for _, m := range s.inSeriesOrder(loaded) {
		if !exclude.IsZero() && m.ID().Equals(exclude) {
			continue
		}
		if m.IsFinalized() && !m.Date().Before(candidate) {
			return false
		}
	}
	return true
}

// IsLastMinutes reports whether the given minutes is the chronologically
// last one of the series
func (s *MeetingSeries) IsLastMinutes(loaded []*Minutes, id valueobjects.MinutesID) bool {
	last := s.LastMinutes(loaded)
	return last != nil && last.ID().Equals(id)
}

// IsUnfinalizeAllowed reports whether the given minutes may be reopened.
// Only the most recently finalized minutes qualifies; a newer draft in the
// series does not disqualify it.
func (s *MeetingSeries) IsUnfinalizeAllowed(loaded []*Minutes, id valueobjects.MinutesID) bool {
	last := s.LastFinalized(loaded)
	return last != nil && last.ID().Equals(id)
}

// ApplyFinalizedMinutes merges the finalized minutes' topics into the
// series' aggregate topic state. The entity is mutated in memory only;
// persisting the change is the caller's responsibility.
func (s *MeetingSeries) ApplyFinalizedMinutes(m *Minutes) {
	s.topics = m.Topics()
	s.openTopics = valueobjects.OpenTopicsOf(s.topics)
	s.updatedAt = time.Now()
}

// RevertFinalizedMinutes restores the series' topic state to that of the
// previously finalized minutes, or clears it when none remains. The inverse
// of ApplyFinalizedMinutes; in memory only.
func (s *MeetingSeries) RevertFinalizedMinutes(previous *Minutes) {
	if previous == nil {
		s.topics = nil
		s.openTopics = nil
	} else {
		s.topics = previous.Topics()
		s.openTopics = valueobjects.OpenTopicsOf(s.topics)
	}
	s.updatedAt = time.Now()
}
