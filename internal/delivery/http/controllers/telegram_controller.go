package controllers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"crewmatch/internal/adapters/telegram"
	"crewmatch/internal/delivery/http/helpers"
	"crewmatch/internal/domain"
)

const linkedReply = "✅ Telegram connected to Crew Match! You will be notified here when crew share your overnight."

// ChatReplier sends a plain text reply to a Telegram chat.
type ChatReplier interface {
	SendText(ctx context.Context, chatID, text string) error
}

// TelegramController handles the bot webhook.
type TelegramController struct {
	Logger  *slog.Logger
	Crew    domain.CrewService
	Replier ChatReplier
	Secret  string
}

// NewTelegramController creates a TelegramController. An empty secret disables the header check.
func NewTelegramController(logger *slog.Logger, crew domain.CrewService, replier ChatReplier, secret string) *TelegramController {
	return &TelegramController{Logger: logger, Crew: crew, Replier: replier, Secret: secret}
}

// Webhook godoc
// @Summary Telegram bot webhook
// @Description Receives bot updates. "/start <crew-id>" links the chat to the crew member so match notifications are delivered there. Other updates are acknowledged and ignored. Protected by the X-Telegram-Bot-Api-Secret-Token header.
// @Tags telegram
// @Accept json
// @Produce json
// @Param X-Telegram-Bot-Api-Secret-Token header string false "Webhook secret"
// @Success 200 {object} map[string]bool "ok"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /telegram/webhook [post]
func (c *TelegramController) Webhook(w http.ResponseWriter, r *http.Request) {
	if c.Secret != "" {
		got := r.Header.Get(telegram.SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(c.Secret)) != 1 {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid webhook secret")
			return
		}
	}

	var update telegram.Update
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, helpers.MaxBodyBytes)).Decode(&update); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	// Telegram retries non-2xx responses, so processing failures are logged and acknowledged.
	if update.Message != nil {
		c.handleMessage(r.Context(), update.Message)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (c *TelegramController) handleMessage(ctx context.Context, msg *telegram.Message) {
	crewID, ok := telegram.StartArgument(msg.Text)
	if !ok {
		return
	}
	chatID := msg.ChatID()
	if err := c.Crew.LinkTelegram(ctx, crewID, chatID); err != nil {
		c.Logger.ErrorContext(ctx, "link telegram chat failed", "chat_id", chatID, "err", err)
		return
	}
	c.Logger.InfoContext(ctx, "telegram chat linked", "crew_id", crewID, "chat_id", chatID)
	if c.Replier == nil {
		return
	}
	if err := c.Replier.SendText(ctx, chatID, linkedReply); err != nil {
		c.Logger.WarnContext(ctx, "telegram confirmation failed", "chat_id", chatID, "err", err)
	}
}
