package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"crewmatch/internal/delivery/http/helpers"
	"crewmatch/internal/delivery/http/middleware"
	"crewmatch/internal/domain"
	"crewmatch/internal/overnight"
)

// ProcessRosterRequest is the request body for POST /rosters. Exactly one of
// Document (free-form roster text) or Events must be set.
type ProcessRosterRequest struct {
	Document string            `json:"document"`
	Events   []domain.RawEvent `json:"events"`
}

// Validate implements Validator.
func (p ProcessRosterRequest) Validate() []string {
	hasDoc := strings.TrimSpace(p.Document) != ""
	switch {
	case hasDoc && len(p.Events) > 0:
		return []string{"send either document or events, not both"}
	case !hasDoc && p.Events == nil:
		return []string{"document or events is required"}
	}
	return nil
}

// ProcessRosterSuccessResponse is the success response envelope for POST /rosters (200).
type ProcessRosterSuccessResponse struct {
	Data  *domain.RosterResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RecordStayRequest is the request body for POST /stays. Times are local wall-clock
// times without offset, e.g. 2025-03-10T18:00.
type RecordStayRequest struct {
	City     string `json:"city"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// Validate implements Validator.
func (s RecordStayRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.City) == "" {
		errs = append(errs, "city is required")
	}
	if _, ok := overnight.ParseTimestamp(s.CheckIn); !ok {
		errs = append(errs, "check_in must be a date-time like 2025-03-10T18:00")
	}
	if _, ok := overnight.ParseTimestamp(s.CheckOut); !ok {
		errs = append(errs, "check_out must be a date-time like 2025-03-11T08:00")
	}
	return errs
}

// RecordStaySuccessResponse is the success response envelope for POST /stays (201).
type RecordStaySuccessResponse struct {
	Data  *domain.StayOutcome `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ListStaysResponse is the data payload for GET /stays (200).
type ListStaysResponse struct {
	Items      []*domain.Stay         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListStaysSuccessResponse is the success response envelope for GET /stays (200).
type ListStaysSuccessResponse struct {
	Data  ListStaysResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// StayController handles roster processing and stay endpoints.
type StayController struct {
	Logger  *slog.Logger
	Service domain.StayService
}

// NewStayController creates a StayController with the given logger and service.
func NewStayController(logger *slog.Logger, svc domain.StayService) *StayController {
	return &StayController{Logger: logger, Service: svc}
}

// ProcessRoster godoc
// @Summary Process a roster
// @Description Infers overnight stays from a roster and notifies crew already staying in the same city on the same date. Send either free-form roster text in document (extracted by the model) or pre-extracted events. partial is true when a notification could not be delivered; no_stays is true when the roster held no qualifying rest. Requires Bearer token.
// @Tags rosters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProcessRosterRequest true "Roster document or events"
// @Success 200 {object} controllers.ProcessRosterSuccessResponse "data contains stays, matches and the notification report"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway (extraction failed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rosters [post]
func (c *StayController) ProcessRoster(w http.ResponseWriter, r *http.Request) {
	crewID, ok := middleware.CrewIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ProcessRosterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	var (
		result *domain.RosterResult
		err    error
	)
	if strings.TrimSpace(req.Document) != "" {
		result, err = c.Service.ProcessDocument(r.Context(), crewID, req.Document)
	} else {
		result, err = c.Service.ProcessEvents(r.Context(), crewID, req.Events)
	}
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// RecordStay godoc
// @Summary Record a stay
// @Description Records an overnight stay entered by hand. The rest must be at least the overnight minimum and not at the crew member's home base. Crew already in the city that date are notified. Requires Bearer token.
// @Tags stays
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RecordStayRequest true "Stay"
// @Success 201 {object} controllers.RecordStaySuccessResponse "data contains the stay, its match and the notification report"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stays [post]
func (c *StayController) RecordStay(w http.ResponseWriter, r *http.Request) {
	crewID, ok := middleware.CrewIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req RecordStayRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	checkIn, _ := overnight.ParseTimestamp(req.CheckIn)
	checkOut, _ := overnight.ParseTimestamp(req.CheckOut)

	outcome, err := c.Service.RecordStay(r.Context(), domain.NewStay(crewID, req.City, checkIn, checkOut))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, outcome)
}

// ListStays godoc
// @Summary List my stays
// @Description Returns the authenticated crew member's stays ordered by check-in. Use page and page_size query params. Requires Bearer token.
// @Tags stays
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListStaysSuccessResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stays [get]
func (c *StayController) ListStays(w http.ResponseWriter, r *http.Request) {
	crewID, ok := middleware.CrewIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	list, total, err := c.Service.ListStays(r.Context(), crewID, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.Stay{}
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListStaysResponse{Items: list, Pagination: meta})
}
