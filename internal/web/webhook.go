package web

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/notevault/internal/logging"
	"github.com/dmitrijs2005/notevault/internal/telegram"
)

// secretTokenHeader carries the webhook secret set at registration time.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// WebhookHandler terminates the Bot API webhook. The platform retries
// deliveries that do not get a 2xx, so once an update is accepted the
// handler answers 200 no matter how processing went; failures are reported
// to the user in chat, not to the platform.
type WebhookHandler struct {
	bot    *Bot
	secret string
	logger logging.Logger
}

func NewWebhookHandler(bot *Bot, secret string, logger logging.Logger) *WebhookHandler {
	return &WebhookHandler{bot: bot, secret: secret, logger: logger}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.secret != "" && r.Header.Get(secretTokenHeader) != h.secret {
		h.logger.Warn(ctx, "webhook secret mismatch", "remote", r.RemoteAddr)
		writeJSON(ctx, w, h.logger, http.StatusForbidden, errorBody("forbidden"))
		return
	}

	var upd telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.logger.Warn(ctx, "undecodable update", "error", err)
		writeJSON(ctx, w, h.logger, http.StatusBadRequest, errorBody("bad request"))
		return
	}

	h.bot.HandleUpdate(ctx, &upd)

	w.WriteHeader(http.StatusOK)
}
