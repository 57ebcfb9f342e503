package handlers

import (
	"net/http"

	"plenum/application/commands"
	"plenum/application/commands/bus"
	"plenum/domain/core/valueobjects"
	"plenum/pkg/auth"
	"plenum/pkg/common"
	pkgerrors "plenum/pkg/errors"
	"plenum/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20 // 1 MB

// MinutesHandler exposes the minutes workflow over HTTP. It translates
// requests into commands, sends them through the bus and maps workflow
// errors onto status codes. The new minutes ID is generated here so the
// response can return it even though the bus only reports errors.
type MinutesHandler struct {
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewMinutesHandler creates a new MinutesHandler
func NewMinutesHandler(commandBus *bus.CommandBus, logger *zap.Logger) *MinutesHandler {
	return &MinutesHandler{
		commandBus: commandBus,
		logger:     logger,
	}
}

// createMinutesRequest is the payload for adding a minutes to a series
type createMinutesRequest struct {
	Date string `json:"date" validate:"required"`
}

// finalizeMinutesRequest is the payload for finalizing a minutes
type finalizeMinutesRequest struct {
	SendActionItems bool `json:"sendActionItems"`
	SendInfoItems   bool `json:"sendInfoItems"`
}

// CreateMinutes handles POST /series/{seriesID}/minutes
func (h *MinutesHandler) CreateMinutes(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required")
		return
	}

	var req createMinutesRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	minutesID := valueobjects.NewMinutesID()
	cmd := commands.AddMinutesCommand{
		MinutesID: minutesID.String(),
		SeriesID:  chi.URLParam(r, "seriesID"),
		UserID:    user.UserID,
		Date:      req.Date,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"id":   minutesID.String(),
		"date": req.Date,
	})
}

// DeleteMinutes handles DELETE /minutes/{minutesID}
func (h *MinutesHandler) DeleteMinutes(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required")
		return
	}

	cmd := commands.RemoveMinutesCommand{
		MinutesID: chi.URLParam(r, "minutesID"),
		UserID:    user.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// FinalizeMinutes handles POST /minutes/{minutesID}/finalize
func (h *MinutesHandler) FinalizeMinutes(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required")
		return
	}

	// The body is optional; an empty body means no mail items
	var req finalizeMinutesRequest
	if r.ContentLength > 0 {
		if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
			common.RespondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "Invalid request body")
			return
		}
	}

	cmd := commands.FinalizeMinutesCommand{
		MinutesID:       chi.URLParam(r, "minutesID"),
		UserID:          user.UserID,
		UserEmail:       user.Email,
		SendActionItems: req.SendActionItems,
		SendInfoItems:   req.SendInfoItems,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":        cmd.MinutesID,
		"finalized": true,
	})
}

// UnfinalizeMinutes handles POST /minutes/{minutesID}/unfinalize
func (h *MinutesHandler) UnfinalizeMinutes(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required")
		return
	}

	cmd := commands.UnfinalizeMinutesCommand{
		MinutesID: chi.URLParam(r, "minutesID"),
		UserID:    user.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"id":        cmd.MinutesID,
		"finalized": false,
	})
}

// DeleteSeries handles DELETE /series/{seriesID}
func (h *MinutesHandler) DeleteSeries(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required")
		return
	}

	cmd := commands.RemoveMeetingSeriesCommand{
		SeriesID: chi.URLParam(r, "seriesID"),
		UserID:   user.UserID,
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondCommandError maps a workflow error onto an HTTP response
func (h *MinutesHandler) respondCommandError(w http.ResponseWriter, err error) {
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		h.logger.Error("Unclassified command error", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error")
		return
	}

	if appErr.HTTPStatus >= http.StatusInternalServerError {
		h.logger.Error("Command failed", zap.Error(err))
		// Internal detail stays out of the response body
		common.RespondError(w, appErr.HTTPStatus, string(appErr.Kind), "Internal server error")
		return
	}

	common.RespondErrorWithDetails(w, appErr.HTTPStatus, string(appErr.Kind), appErr.Message, appErr.Details)
}
