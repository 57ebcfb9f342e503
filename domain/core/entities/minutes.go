package entities

import (
	"time"

	"plenum/domain/core/valueobjects"
	pkgerrors "plenum/pkg/errors"
)

// MinutesStage represents the finalization state of a minutes document
type MinutesStage string

const (
	// StageDraft: isFinalized=false, isUnfinalized=false
	StageDraft MinutesStage = "draft"
	// StageFinalized: isFinalized=true
	StageFinalized MinutesStage = "finalized"
	// StageReopened: isFinalized=false, isUnfinalized=true
	StageReopened MinutesStage = "reopened"
)

// Minutes is the record of a single meeting inside a series.
// It moves through Draft -> Finalized -> Reopened -> Finalized -> ...
// and is only deletable while not finalized (series removal excepted).
type Minutes struct {
	id       valueobjects.MinutesID
	seriesID valueobjects.SeriesID
	date     time.Time
	topics   []valueobjects.Topic

	isFinalized   bool
	isUnfinalized bool
	finalizedAt   time.Time
	finalizedBy   string
	// finalizedVersion counts finalize transitions, so a re-finalized
	// minutes is distinguishable from a first-time one
	finalizedVersion int

	createdAt time.Time
	updatedAt time.Time
}

// NewMinutes creates a draft minutes for a series. The series' current
// topic state is carried over so the document starts from the aggregate
// agenda, with all carried topics marked as already seen.
func NewMinutes(id valueobjects.MinutesID, seriesID valueobjects.SeriesID, date time.Time, carryOverTopics []valueobjects.Topic) (*Minutes, error) {
	if id.IsZero() {
		id = valueobjects.NewMinutesID()
	}
	if seriesID.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("series ID cannot be empty")
	}
	if date.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("minutes date cannot be empty")
	}

	now := time.Now()
	return &Minutes{
		id:        id,
		seriesID:  seriesID,
		date:      date,
		topics:    valueobjects.MarkSeen(carryOverTopics),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructMinutes rebuilds a minutes entity from stored data
func ReconstructMinutes(
	id valueobjects.MinutesID,
	seriesID valueobjects.SeriesID,
	date time.Time,
	topics []valueobjects.Topic,
	isFinalized, isUnfinalized bool,
	finalizedAt time.Time,
	finalizedBy string,
	finalizedVersion int,
	createdAt, updatedAt time.Time,
) (*Minutes, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("minutes ID cannot be empty")
	}
	if seriesID.IsZero() {
		return nil, pkgerrors.NewInvalidArgumentError("series ID cannot be empty")
	}

	return &Minutes{
		id:               id,
		seriesID:         seriesID,
		date:             date,
		topics:           valueobjects.CloneTopics(topics),
		isFinalized:      isFinalized,
		isUnfinalized:    isUnfinalized,
		finalizedAt:      finalizedAt,
		finalizedBy:      finalizedBy,
		finalizedVersion: finalizedVersion,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}

// ID returns the minutes identifier
func (m *Minutes) ID() valueobjects.MinutesID {
	return m.id
}

// SeriesID returns the owning meeting series identifier
func (m *Minutes) SeriesID() valueobjects.SeriesID {
	return m.seriesID
}

// Date returns the meeting date
func (m *Minutes) Date() time.Time {
	return m.date
}

// Topics returns a copy of the minutes' topics
func (m *Minutes) Topics() []valueobjects.Topic {
	return valueobjects.CloneTopics(m.topics)
}

// SetTopics replaces the minutes' topics (draft editing only)
func (m *Minutes) SetTopics(topics []valueobjects.Topic) error {
	if m.isFinalized {
		return pkgerrors.NewNotAllowedError("cannot edit topics of a finalized minutes")
	}
	m.topics = valueobjects.CloneTopics(topics)
	m.updatedAt = time.Now()
	return nil
}

// Stage derives the three-valued finalization state
func (m *Minutes) Stage() MinutesStage {
	switch {
	case m.isFinalized:
		return StageFinalized
	case m.isUnfinalized:
		return StageReopened
	default:
		return StageDraft
	}
}

// IsFinalized reports whether the minutes is currently finalized
func (m *Minutes) IsFinalized() bool {
	return m.isFinalized
}

// IsUnfinalized reports whether the minutes was finalized once and reopened
func (m *Minutes) IsUnfinalized() bool {
	return m.isUnfinalized
}

// FinalizedAt returns the time of the last finalize transition
func (m *Minutes) FinalizedAt() time.Time {
	return m.finalizedAt
}

// FinalizedBy returns the user who performed the last finalize transition
func (m *Minutes) FinalizedBy() string {
	return m.finalizedBy
}

// FinalizedVersion returns the number of finalize transitions applied
func (m *Minutes) FinalizedVersion() int {
	return m.finalizedVersion
}

// CreatedAt returns the creation timestamp
func (m *Minutes) CreatedAt() time.Time {
	return m.createdAt
}

// UpdatedAt returns the last modification timestamp
func (m *Minutes) UpdatedAt() time.Time {
	return m.updatedAt
}

// Finalize freezes the minutes and records who did it and when
func (m *Minutes) Finalize(userID string, at time.Time) error {
	if userID == "" {
		return pkgerrors.NewInvalidArgumentError("finalizing user cannot be empty")
	}
	if m.isFinalized {
		return pkgerrors.NewNotAllowedError("minutes is already finalized")
	}

	m.isFinalized = true
	m.isUnfinalized = false
	m.finalizedAt = at
	m.finalizedBy = userID
	m.finalizedVersion++
	m.updatedAt = at
	return nil
}

// Unfinalize reopens a finalized minutes for further editing
func (m *Minutes) Unfinalize() error {
	if !m.isFinalized {
		return pkgerrors.NewNotAllowedError("minutes is not finalized")
	}

	m.isFinalized = false
	m.isUnfinalized = true
	m.updatedAt = time.Now()
	return nil
}
