package commands

import (
	pkgerrors "plenum/pkg/errors"
	"plenum/pkg/utils"
)

// The five workflow commands. UserID is the authenticated caller and is
// filled by the transport layer, never by the client payload. An empty
// UserID is rejected by the moderator gate, not here, so authentication
// failures keep their own error kind.

// AddMinutesCommand creates a new draft minutes in a series
type AddMinutesCommand struct {
	// MinutesID is pre-generated by the caller so the new ID can be
	// returned without round-tripping through the bus
	MinutesID string `json:"minutes_id"`
	SeriesID  string `json:"series_id"`
	UserID    string `json:"user_id"`
	// Date is the meeting date in YYYY-MM-DD form
	Date string `json:"date"`
}

// Validate validates the command
func (cmd AddMinutesCommand) Validate() error {
	if cmd.SeriesID == "" {
		return pkgerrors.NewInvalidArgumentError("series ID is required")
	}
	if cmd.Date == "" {
		return pkgerrors.NewInvalidArgumentError("date is required")
	}
	if _, err := utils.ParseDate(cmd.Date); err != nil {
		return pkgerrors.NewInvalidArgumentError("date must be in YYYY-MM-DD form")
	}
	return nil
}

// RemoveMinutesCommand deletes a draft minutes
type RemoveMinutesCommand struct {
	MinutesID string `json:"minutes_id"`
	UserID    string `json:"user_id"`
}

// Validate validates the command
func (cmd RemoveMinutesCommand) Validate() error {
	if cmd.MinutesID == "" {
		return pkgerrors.NewInvalidArgumentError("minutes ID is required")
	}
	return nil
}

// FinalizeMinutesCommand freezes a minutes and merges its topics into the
// parent series
type FinalizeMinutesCommand struct {
	MinutesID       string `json:"minutes_id"`
	UserID          string `json:"user_id"`
	UserEmail       string `json:"user_email"`
	SendActionItems bool   `json:"send_action_items"`
	SendInfoItems   bool   `json:"send_info_items"`
}

// Validate validates the command
func (cmd FinalizeMinutesCommand) Validate() error {
	if cmd.MinutesID == "" {
		return pkgerrors.NewInvalidArgumentError("minutes ID is required")
	}
	return nil
}

// UnfinalizeMinutesCommand reopens the most recently finalized minutes
type UnfinalizeMinutesCommand struct {
	MinutesID string `json:"minutes_id"`
	UserID    string `json:"user_id"`
}

// Validate validates the command
func (cmd UnfinalizeMinutesCommand) Validate() error {
	if cmd.MinutesID == "" {
		return pkgerrors.NewInvalidArgumentError("minutes ID is required")
	}
	return nil
}

// RemoveMeetingSeriesCommand deletes a series and cascades over all its
// minutes regardless of their state
type RemoveMeetingSeriesCommand struct {
	SeriesID string `json:"series_id"`
	UserID   string `json:"user_id"`
}

// Validate validates the command. An empty series ID is deliberately not
// an error: the handler treats it as a silent no-op.
func (cmd RemoveMeetingSeriesCommand) Validate() error {
	return nil
}
