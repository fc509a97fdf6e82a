package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "123:token")
	err := c.SendMessage(context.Background(), 42, "hello", &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{{{Text: "Open", CallbackData: "open_r1"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "/bot123:token/sendMessage", gotPath)
	assert.Equal(t, float64(42), gotBody["chat_id"])
	assert.Equal(t, "hello", gotBody["text"])
	assert.NotNil(t, gotBody["reply_markup"])
}

func TestGetFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"result":{"file_id":"f1","file_path":"documents/notes.html","file_size":200}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "123:token")
	f, err := c.GetFile(context.Background(), "f1")
	require.NoError(t, err)

	assert.Equal(t, "documents/notes.html", f.FilePath)
	assert.Equal(t, int64(200), f.FileSize)
}

func TestGetFile_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: file not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "123:token")
	_, err := c.GetFile(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/file/bot123:token/documents/notes.html" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("<html>notes</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "123:token")

	body, err := c.DownloadFile(context.Background(), "documents/notes.html")
	require.NoError(t, err)
	assert.Equal(t, "<html>notes</html>", string(body))

	_, err = c.DownloadFile(context.Background(), "documents/other.html")
	require.Error(t, err)
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
	assert.Equal(t, "Ada", User{FirstName: "Ada"}.DisplayName())
	assert.Equal(t, "ada", User{UserName: "ada"}.DisplayName())
	assert.Equal(t, "unknown", User{}.DisplayName())
}
