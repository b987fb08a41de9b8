package controllers

import (
	"log/slog"
	"net/http"

	"crewmatch/internal/delivery/http/helpers"
	"crewmatch/internal/delivery/http/middleware"
	"crewmatch/internal/domain"
)

// SetHomeBaseRequest is the request body for PUT /crew/me/home-base.
// An empty home_base clears it.
type SetHomeBaseRequest struct {
	HomeBase string `json:"home_base"`
}

// SetEmailOptInRequest is the request body for PUT /crew/me/email-opt-in.
type SetEmailOptInRequest struct {
	Enabled *bool `json:"enabled"`
}

// Validate implements Validator.
func (s SetEmailOptInRequest) Validate() []string {
	if s.Enabled == nil {
		return []string{"enabled is required"}
	}
	return nil
}

// CrewProfileSuccessResponse is the success response envelope for crew profile endpoints (200).
type CrewProfileSuccessResponse struct {
	Data  *domain.CrewMember `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// CrewController handles the authenticated crew member's profile.
type CrewController struct {
	Logger  *slog.Logger
	Service domain.CrewService
}

// NewCrewController creates a CrewController with the given logger and service.
func NewCrewController(logger *slog.Logger, svc domain.CrewService) *CrewController {
	return &CrewController{Logger: logger, Service: svc}
}

// GetMe godoc
// @Summary Get my crew profile
// @Description Returns home base and notification settings. A crew member who never configured anything gets an empty profile. Requires Bearer token.
// @Tags crew
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.CrewProfileSuccessResponse "data contains the profile"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /crew/me [get]
func (c *CrewController) GetMe(w http.ResponseWriter, r *http.Request) {
	crewID, ok := middleware.CrewIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	m, err := c.Service.GetProfile(r.Context(), crewID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// SetHomeBase godoc
// @Summary Set my home base
// @Description Sets the IATA code of the crew member's home base. Rests at the home base are never treated as overnight stays. Requires Bearer token.
// @Tags crew
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetHomeBaseRequest true "Home base"
// @Success 200 {object} controllers.CrewProfileSuccessResponse "data contains the updated profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /crew/me/home-base [put]
func (c *CrewController) SetHomeBase(w http.ResponseWriter, r *http.Request) {
	crewID, ok := middleware.CrewIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SetHomeBaseRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	m, err := c.Service.SetHomeBase(r.Context(), crewID, req.HomeBase)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}

// SetEmailOptIn godoc
// @Summary Enable or disable email notifications
// @Description Email is used only when no Telegram chat is linked and the crew ID is an email address. Requires Bearer token.
// @Tags crew
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SetEmailOptInRequest true "Opt-in flag"
// @Success 200 {object} controllers.CrewProfileSuccessResponse "data contains the updated profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /crew/me/email-opt-in [put]
func (c *CrewController) SetEmailOptIn(w http.ResponseWriter, r *http.Request) {
	crewID, ok := middleware.CrewIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SetEmailOptInRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	m, err := c.Service.SetEmailOptIn(r.Context(), crewID, *req.Enabled)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, m)
}
