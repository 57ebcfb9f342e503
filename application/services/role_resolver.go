package services

import (
	"context"

	"plenum/application/ports"
	"plenum/domain/core/valueobjects"
	pkgerrors "plenum/pkg/errors"
)

// SeriesRoleResolver answers moderator questions from the series document
// itself; the moderator list is stored inline on the series.
type SeriesRoleResolver struct {
	seriesRepo ports.MeetingSeriesRepository
}

// NewSeriesRoleResolver creates a resolver backed by the series repository
func NewSeriesRoleResolver(seriesRepo ports.MeetingSeriesRepository) *SeriesRoleResolver {
	return &SeriesRoleResolver{seriesRepo: seriesRepo}
}

// IsModeratorOf reports whether userID moderates the series. A missing
// series yields false rather than an error; the caller's authorization
// gate turns that into a permission failure without leaking existence.
func (r *SeriesRoleResolver) IsModeratorOf(ctx context.Context, userID string, seriesID valueobjects.SeriesID) (bool, error) {
	series, err := r.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return series.IsModerator(userID), nil
}
