package extraction

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewmatch/internal/domain"
)

func TestClient_Extract(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]string{
					"role":    "assistant",
					"content": `{"events":[{"type":"end","timestamp":"2025-03-10T18:00","location":"SSA"},{"type":"start","timestamp":"2025-03-11T08:00","location":"SSA","label":"AD4051"}]}`,
				},
			}},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL+"/v1/", "sk-test", "", server.Client())
	events, err := c.Extract(context.Background(), "10MAR GRU-SSA ...")
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "10MAR GRU-SSA ...", got.Messages[1].Content)
	assert.Equal(t, []domain.RawEvent{
		{Type: "end", Timestamp: "2025-03-10T18:00", Location: "SSA"},
		{Type: "start", Timestamp: "2025-03-11T08:00", Location: "SSA", Label: "AD4051"},
	}, events)
}

func TestClient_ExtractAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "k", "m", server.Client()).Extract(context.Background(), "doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")

	_, err = NewClient("", "k", "m", nil).Extract(context.Background(), "doc")
	assert.Error(t, err)
}

func TestParseEvents(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []domain.RawEvent
		wantErr bool
	}{
		{
			name:    "bare array with field variants",
			content: `[{"event":"begin","datetime":"2025-03-10 06:00","airport":"GRU"}]`,
			want:    []domain.RawEvent{{Type: "begin", Timestamp: "2025-03-10 06:00", Location: "GRU"}},
		},
		{
			name:    "fenced object",
			content: "```json\n{\"events\":[{\"type\":\"end\",\"time\":\"2025-03-10T18:00\",\"iata\":\"SSA\",\"flight\":\"AD1\"}]}\n```",
			want:    []domain.RawEvent{{Type: "end", Timestamp: "2025-03-10T18:00", Location: "SSA", Label: "AD1"}},
		},
		{
			name:    "empty events",
			content: `{"events":[]}`,
			want:    []domain.RawEvent{},
		},
		{
			name:    "non string fields are left empty",
			content: `[{"type":"end","timestamp":20250310,"location":"SSA"}, null]`,
			want:    []domain.RawEvent{{Type: "end", Location: "SSA"}},
		},
		{
			name: "items that are not objects are dropped",
			content: `[{"type":"end","timestamp":"2025-03-10T18:00","location":"GRU"}, "noise", 7, [],
				{"type":"start","timestamp":"2025-03-11T08:00","location":"GIG"}]`,
			want: []domain.RawEvent{
				{Type: "end", Timestamp: "2025-03-10T18:00", Location: "GRU"},
				{Type: "start", Timestamp: "2025-03-11T08:00", Location: "GIG"},
			},
		},
		{
			name:    "wrapped events with a stray string",
			content: `{"events":["skip me", {"type":"end","timestamp":"2025-03-10T18:00","location":"SSA"}]}`,
			want:    []domain.RawEvent{{Type: "end", Timestamp: "2025-03-10T18:00", Location: "SSA"}},
		},
		{
			name:    "not json",
			content: "Sorry, I cannot read this roster.",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEvents(tt.content)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
