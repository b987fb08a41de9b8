package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewmatch/internal/delivery/http/helpers"
	"crewmatch/internal/delivery/http/middleware"
	"crewmatch/internal/domain"
)

func authed(req *http.Request, crewID string) *http.Request {
	if crewID == "" {
		return req
	}
	return req.WithContext(middleware.SetCrewID(req.Context(), crewID))
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, data any) *helpers.APIError {
	t.Helper()
	var raw struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	if data != nil && raw.Error == nil {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return raw.Error
}

func TestStayController_ProcessRoster(t *testing.T) {
	stay := &domain.Stay{ID: "s1", Owner: "bob", City: "SSA",
		CheckIn: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), CheckOut: time.Date(2025, 3, 11, 8, 0, 0, 0, time.UTC)}

	tests := []struct {
		name         string
		crewID       string
		body         string
		fake         *fakeStayService
		wantStatus   int
		wantCode     string
		wantDocument string
		wantEvents   int
	}{
		{
			name:       "events",
			crewID:     "bob",
			body:       `{"events":[{"type":"end","timestamp":"2025-03-10T18:00","location":"SSA"},{"type":"start","timestamp":"2025-03-11T08:00","location":"SSA"}]}`,
			fake:       &fakeStayService{result: &domain.RosterResult{RunID: "run-1", Stays: []*domain.Stay{stay}}},
			wantStatus: http.StatusOK,
			wantEvents: 2,
		},
		{
			name:         "document",
			crewID:       "bob",
			body:         `{"document":"10MAR GRU 0800 SSA 1800"}`,
			fake:         &fakeStayService{result: &domain.RosterResult{RunID: "run-2", NoStays: true}},
			wantStatus:   http.StatusOK,
			wantDocument: "10MAR GRU 0800 SSA 1800",
		},
		{
			name:       "both set",
			crewID:     "bob",
			body:       `{"document":"x","events":[{"type":"end"}]}`,
			fake:       &fakeStayService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "neither set",
			crewID:     "bob",
			body:       `{}`,
			fake:       &fakeStayService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unauthenticated",
			body:       `{"document":"x"}`,
			fake:       &fakeStayService{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "extraction failure",
			crewID:     "bob",
			body:       `{"document":"x"}`,
			fake:       &fakeStayService{err: domain.NewStageError(domain.StageExtraction, errors.New("model down"))},
			wantStatus: http.StatusBadGateway,
			wantCode:   helpers.ErrCodeBadGateway,
		},
		{
			name:       "storage failure",
			crewID:     "bob",
			body:       `{"events":[]}`,
			fake:       &fakeStayService{err: domain.NewStageError(domain.StageStorage, errors.New("db down"))},
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewStayController(testLogger(), tt.fake)
			req := authed(httptest.NewRequest(http.MethodPost, "/rosters", bytes.NewBufferString(tt.body)), tt.crewID)
			rr := httptest.NewRecorder()

			ctrl.ProcessRoster(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var result domain.RosterResult
			apiErr := decodeEnvelope(t, rr, &result)
			if tt.wantCode != "" {
				require.NotNil(t, apiErr)
				assert.Equal(t, tt.wantCode, apiErr.Code)
				return
			}
			require.Nil(t, apiErr)
			assert.Equal(t, tt.fake.result.RunID, result.RunID)
			assert.Equal(t, "bob", tt.fake.lastOwner)
			assert.Equal(t, tt.wantDocument, tt.fake.lastDocument)
			assert.Len(t, tt.fake.lastEvents, tt.wantEvents)
		})
	}
}

func TestStayController_RecordStay(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "created", body: `{"city":"ssa","check_in":"2025-03-10T18:00","check_out":"2025-03-11T08:00"}`, wantStatus: http.StatusCreated},
		{name: "bad time", body: `{"city":"SSA","check_in":"yesterday","check_out":"2025-03-11T08:00"}`, wantStatus: http.StatusBadRequest},
		{name: "missing city", body: `{"check_in":"2025-03-10T18:00","check_out":"2025-03-11T08:00"}`, wantStatus: http.StatusBadRequest},
		{name: "rejected by service", body: `{"city":"SSA","check_in":"2025-03-10T18:00","check_out":"2025-03-10T20:00"}`, err: domain.ErrInvalidInput, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeStayService{err: tt.err, outcome: &domain.StayOutcome{Stay: &domain.Stay{ID: "s1"}}}
			ctrl := NewStayController(testLogger(), fake)
			req := authed(httptest.NewRequest(http.MethodPost, "/stays", bytes.NewBufferString(tt.body)), "alice")
			rr := httptest.NewRecorder()

			ctrl.RecordStay(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				require.NotNil(t, fake.lastStay)
				assert.Equal(t, "alice", fake.lastStay.Owner)
				assert.Equal(t, "ssa", fake.lastStay.City)
				assert.Equal(t, time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), fake.lastStay.CheckIn)
				var outcome domain.StayOutcome
				require.Nil(t, decodeEnvelope(t, rr, &outcome))
				assert.Equal(t, "s1", outcome.Stay.ID)
			}
		})
	}
}

func TestStayController_ListStays(t *testing.T) {
	fake := &fakeStayService{
		stays: []*domain.Stay{{ID: "s3", Owner: "alice", City: "REC"}},
		total: 3,
	}
	ctrl := NewStayController(testLogger(), fake)
	req := authed(httptest.NewRequest(http.MethodGet, "/stays?page=2&page_size=2", nil), "alice")
	rr := httptest.NewRecorder()

	ctrl.ListStays(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp ListStaysResponse
	require.Nil(t, decodeEnvelope(t, rr, &resp))
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 2}, fake.lastParams)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 2, Total: 3, TotalPages: 2}, resp.Pagination)
}

func TestStayController_ListStays_Empty(t *testing.T) {
	ctrl := NewStayController(testLogger(), &fakeStayService{})
	rr := httptest.NewRecorder()
	ctrl.ListStays(rr, authed(httptest.NewRequest(http.MethodGet, "/stays", nil), "alice"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"items":[]`)
}
