// Package extraction turns free-form roster text into raw duty events using an
// OpenAI-compatible chat completions API.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"crewmatch/internal/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4.1-mini"

const systemPrompt = `You read airline crew rosters.
Extract every duty START and duty END event in the roster.
Return ONLY a JSON object of the form:
{"events":[{"type":"start","timestamp":"2025-03-10T06:00","location":"GRU","label":"AD4050"}]}
Rules:
- type is "start" or "end"
- timestamp is local time as YYYY-MM-DDTHH:MM, no timezone
- location is the 3-letter IATA airport code
- ignore days off, reserves and training
- no text outside the JSON`

// Client calls the completions endpoint.
type Client struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
	model      string
}

// NewClient returns an extractor. apiURL is the API base, e.g. https://api.openai.com/v1.
func NewClient(apiURL, apiKey, model string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		httpClient: httpClient,
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

var _ domain.Extractor = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Extract sends document to the model and parses the events it returns.
func (c *Client) Extract(ctx context.Context, document string) ([]domain.RawEvent, error) {
	if c.apiURL == "" {
		return nil, errors.New("extraction api url not configured")
	}
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: document},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call extraction api: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction response: %w", err)
	}
	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("extraction api returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		msg := ""
		if out.Error != nil {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("extraction api returned status %d: %s", resp.StatusCode, msg)
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("extraction api returned no choices")
	}
	return ParseEvents(out.Choices[0].Message.Content)
}

// ParseEvents decodes model output. It accepts a bare array or an object with an
// "events" array, optionally inside a markdown code fence, and tolerates common
// field name variants. Items that are not objects are skipped.
func ParseEvents(content string) ([]domain.RawEvent, error) {
	content = stripFence(content)

	var items []json.RawMessage
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &items); err != nil {
			return nil, fmt.Errorf("model returned invalid JSON: %w", err)
		}
	} else {
		var wrapper struct {
			Events []json.RawMessage `json:"events"`
		}
		if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
			return nil, fmt.Errorf("model returned invalid JSON: %w", err)
		}
		items = wrapper.Events
	}

	events := make([]domain.RawEvent, 0, len(items))
	for _, raw := range items {
		var item map[string]any
		if err := json.Unmarshal(raw, &item); err != nil || item == nil {
			continue
		}
		events = append(events, domain.RawEvent{
			Type:      firstString(item, "type", "event", "kind"),
			Timestamp: firstString(item, "timestamp", "datetime", "time"),
			Location:  firstString(item, "location", "airport", "iata", "city"),
			Label:     firstString(item, "label", "flight", "description"),
		})
	}
	return events, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func firstString(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := item[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
