package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func postUpdate(t *testing.T, h http.Handler, secret string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", bytes.NewReader(body))
	if secret != "" {
		req.Header.Set(secretTokenHeader, secret)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func TestWebhook_SecretMismatch(t *testing.T) {
	f := newBotFixture(t)
	h := NewWebhookHandler(f.bot, "expected", testLogger())

	w := postUpdate(t, h, "wrong", []byte(`{}`))
	require.Equal(t, http.StatusForbidden, w.Code)

	w = postUpdate(t, h, "", []byte(`{}`))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebhook_BadJSON(t *testing.T) {
	f := newBotFixture(t)
	h := NewWebhookHandler(f.bot, "expected", testLogger())

	w := postUpdate(t, h, "expected", []byte(`{not json`))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhook_DispatchesUpdate(t *testing.T) {
	f := newBotFixture(t)
	h := NewWebhookHandler(f.bot, "expected", testLogger())

	body, err := json.Marshal(textUpdate(readerID, "/start"))
	require.NoError(t, err)

	w := postUpdate(t, h, "expected", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, msgWelcome, f.chat.last(t).text)
}

func TestWebhook_AlwaysOKAfterDispatch(t *testing.T) {
	f := newBotFixture(t)
	h := NewWebhookHandler(f.bot, "", testLogger())

	// the handler fails in chat, the platform still gets a 200 so it does
	// not redeliver the same update forever
	body, err := json.Marshal(textUpdate(readerID, "/new"))
	require.NoError(t, err)

	w := postUpdate(t, h, "", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, msgNotAllowed, f.chat.last(t).text)
}

func TestWebhook_IgnoresEmptyUpdate(t *testing.T) {
	f := newBotFixture(t)
	h := NewWebhookHandler(f.bot, "", testLogger())

	w := postUpdate(t, h, "", []byte(`{"update_id": 1}`))
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, f.chat.messages)
}

func TestRouter_WebhookMounted(t *testing.T) {
	f := newBotFixture(t)
	r := NewRouter(f.bot, f.lcl, NewMetrics(), "expected", []byte("secret"), testLogger())

	body, err := json.Marshal(textUpdate(readerID, "/start"))
	require.NoError(t, err)

	w := postUpdate(t, r, "expected", body)
	require.Equal(t, http.StatusOK, w.Code)
}
