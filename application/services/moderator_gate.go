package services

import (
	"context"

	"plenum/application/ports"
	"plenum/domain/core/valueobjects"
	pkgerrors "plenum/pkg/errors"
)

// ModeratorGate answers the single authorization question every workflow
// operation asks before mutating anything: is this caller a moderator of
// this series? It is a pure predicate over the role resolver and has no
// side effects.
type ModeratorGate struct {
	roles ports.RoleResolver
}

// NewModeratorGate creates the gate
func NewModeratorGate(roles ports.RoleResolver) *ModeratorGate {
	return &ModeratorGate{roles: roles}
}

// RequireModerator fails with NotAuthenticated when no caller identity is
// established and with NotAuthorized when the caller does not moderate the
// series.
func (g *ModeratorGate) RequireModerator(ctx context.Context, userID string, seriesID valueobjects.SeriesID) error {
	if userID == "" {
		return pkgerrors.NewNotAuthenticatedError("")
	}

	ok, err := g.roles.IsModeratorOf(ctx, userID, seriesID)
	if err != nil {
		return pkgerrors.Wrap(err, "resolving moderator role")
	}
	if !ok {
		return pkgerrors.NewNotAuthorizedError("you are not a moderator of this meeting series").
			WithDetails(map[string]interface{}{"series_id": seriesID.String()})
	}

	return nil
}
