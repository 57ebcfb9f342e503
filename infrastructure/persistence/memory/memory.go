// Package memory provides in-memory implementations of the persistence
// ports. They are used by unit tests and local development; each write can
// be made to fail on demand to exercise the compensation paths.
package memory

import (
	"context"
	"fmt"
	"sync"

	"plenum/domain/core/entities"
	"plenum/domain/core/valueobjects"
	pkgerrors "plenum/pkg/errors"
)

// FailureHook lets a test fail a named operation. Returning a non-nil
// error from the hook makes the repository return that error without
// touching its state.
type FailureHook func(op string) error

// MinutesRepository is an in-memory ports.MinutesRepository
type MinutesRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entities.Minutes
	failure FailureHook
}

// NewMinutesRepository creates an empty in-memory minutes repository
func NewMinutesRepository() *MinutesRepository {
	return &MinutesRepository{byID: make(map[string]*entities.Minutes)}
}

// FailOn installs a failure hook
func (r *MinutesRepository) FailOn(hook FailureHook) {
	r.failure = hook
}

func (r *MinutesRepository) fail(op string) error {
	if r.failure == nil {
		return nil
	}
	return r.failure(op)
}

// Len returns the number of stored minutes
func (r *MinutesRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *MinutesRepository) Insert(ctx context.Context, m *entities.Minutes) error {
	if err := r.fail("Insert"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := m.ID().String()
	if _, ok := r.byID[key]; ok {
		return pkgerrors.NewNotAllowedError("minutes already exists")
	}
	r.byID[key] = m
	return nil
}

func (r *MinutesRepository) GetByID(ctx context.Context, id valueobjects.MinutesID) (*entities.Minutes, error) {
	if err := r.fail("GetByID"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byID[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("minutes %s not found", id.String()))
	}
	return m, nil
}

func (r *MinutesRepository) ListBySeries(ctx context.Context, seriesID valueobjects.SeriesID) ([]*entities.Minutes, error) {
	if err := r.fail("ListBySeries"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []*entities.Minutes
	for _, m := range r.byID {
		if m.SeriesID().Equals(seriesID) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *MinutesRepository) Update(ctx context.Context, m *entities.Minutes) (int, error) {
	if err := r.fail("Update"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := m.ID().String()
	if _, ok := r.byID[key]; !ok {
		return 0, nil
	}
	r.byID[key] = m
	return 1, nil
}

func (r *MinutesRepository) RemoveDraft(ctx context.Context, id valueobjects.MinutesID) (int, error) {
	if err := r.fail("RemoveDraft"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id.String()]
	if !ok || m.IsFinalized() {
		return 0, nil
	}
	delete(r.byID, id.String())
	return 1, nil
}

func (r *MinutesRepository) RemoveAllBySeries(ctx context.Context, seriesID valueobjects.SeriesID) (int, error) {
	if err := r.fail("RemoveAllBySeries"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, m := range r.byID {
		if m.SeriesID().Equals(seriesID) {
			delete(r.byID, key)
			removed++
		}
	}
	return removed, nil
}

// SeriesRepository is an in-memory ports.MeetingSeriesRepository
type SeriesRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entities.MeetingSeries
	failure FailureHook
}

// NewSeriesRepository creates an empty in-memory series repository
func NewSeriesRepository() *SeriesRepository {
	return &SeriesRepository{byID: make(map[string]*entities.MeetingSeries)}
}

// FailOn installs a failure hook
func (r *SeriesRepository) FailOn(hook FailureHook) {
	r.failure = hook
}

func (r *SeriesRepository) fail(op string) error {
	if r.failure == nil {
		return nil
	}
	return r.failure(op)
}

func (r *SeriesRepository) GetByID(ctx context.Context, id valueobjects.SeriesID) (*entities.MeetingSeries, error) {
	if err := r.fail("GetByID"); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byID[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("meeting series %s not found", id.String()))
	}
	return s, nil
}

func (r *SeriesRepository) Insert(ctx context.Context, s *entities.MeetingSeries) error {
	if err := r.fail("Insert"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := s.ID().String()
	if _, ok := r.byID[key]; ok {
		return pkgerrors.NewNotAllowedError("meeting series already exists")
	}
	r.byID[key] = s
	return nil
}

func (r *SeriesRepository) Update(ctx context.Context, s *entities.MeetingSeries) (int, error) {
	if err := r.fail("Update"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := s.ID().String()
	if _, ok := r.byID[key]; !ok {
		return 0, nil
	}
	r.byID[key] = s
	return 1, nil
}

func (r *SeriesRepository) AppendMinutes(ctx context.Context, seriesID valueobjects.SeriesID, minutesID valueobjects.MinutesID) (int, error) {
	if err := r.fail("AppendMinutes"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[seriesID.String()]
	if !ok {
		return 0, nil
	}
	for _, id := range s.MinutesIDs() {
		if id.Equals(minutesID) {
			return 0, nil
		}
	}
	s.AppendMinutes(minutesID)
	return 1, nil
}

func (r *SeriesRepository) PullMinutes(ctx context.Context, seriesID valueobjects.SeriesID, minutesID valueobjects.MinutesID) (int, error) {
	if err := r.fail("PullMinutes"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[seriesID.String()]
	if !ok {
		return 0, nil
	}
	if !s.PullMinutes(minutesID) {
		return 0, nil
	}
	return 1, nil
}

func (r *SeriesRepository) Remove(ctx context.Context, id valueobjects.SeriesID) (int, error) {
	if err := r.fail("Remove"); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id.String()]; !ok {
		return 0, nil
	}
	delete(r.byID, id.String())
	return 1, nil
}
