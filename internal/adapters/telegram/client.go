package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"crewmatch/internal/domain"
)

// DefaultAPIURL is the public Bot API endpoint.
const DefaultAPIURL = "https://api.telegram.org"

// ErrNotConfigured is returned when no bot token is set.
var ErrNotConfigured = errors.New("telegram bot token not configured")

// Client sends messages through the Telegram Bot API.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// NewClient returns a Bot API client. An empty apiURL uses DefaultAPIURL.
func NewClient(token, apiURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Client{httpClient: httpClient, apiURL: strings.TrimSuffix(apiURL, "/"), token: token}
}

var _ domain.Messenger = (*Client)(nil)

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// Send delivers msg to the chat in endpoint.
func (c *Client) Send(ctx context.Context, endpoint domain.Endpoint, msg domain.Message) error {
	if endpoint.Channel != domain.ChannelTelegram {
		return fmt.Errorf("telegram client cannot deliver to %s", endpoint.Channel)
	}
	return c.SendText(ctx, endpoint.Address, msg.Text())
}

// SendText posts plain text to chatID.
func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	if c.token == "" {
		return ErrNotConfigured
	}
	if chatID == "" {
		return fmt.Errorf("%w: chat id is required", domain.ErrInvalidInput)
	}
	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call telegram: %w", err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("telegram api returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK || !out.OK {
		return fmt.Errorf("telegram api returned status %d: %s", resp.StatusCode, out.Description)
	}
	return nil
}
