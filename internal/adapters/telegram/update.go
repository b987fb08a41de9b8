package telegram

import (
	"strconv"
	"strings"
)

// SecretHeader carries the webhook secret configured with setWebhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Update is the subset of a Bot API update the webhook handles.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is an incoming chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

// Chat identifies the conversation.
type Chat struct {
	ID int64 `json:"id"`
}

// ChatID returns the chat id in the string form used for endpoints.
func (m *Message) ChatID() string {
	return strconv.FormatInt(m.Chat.ID, 10)
}

// StartArgument returns the argument of a "/start <arg>" command.
// Bot mentions ("/start@crew_bot") are accepted. ok is false for other texts or a missing argument.
func StartArgument(text string) (arg string, ok bool) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", false
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	if cmd != "/start" {
		return "", false
	}
	return fields[1], true
}
