package telegram

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anongap/anongap/internal/logging"
	"github.com/anongap/anongap/internal/relay"
	"github.com/anongap/anongap/internal/server/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type apiCall struct {
	Path string
	Body map[string]any
}

// newTestAPI fakes the bot API, recording every call and answering with a
// fixed message ID.
func newTestAPI(t *testing.T) (*Client, *[]apiCall) {
	t.Helper()

	var calls []apiCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(body, &decoded))
		calls = append(calls, apiCall{Path: r.URL.Path, Body: decoded})

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77}}`))
	}))
	t.Cleanup(srv.Close)

	return NewClient("test-token", srv.URL, testLogger()), &calls
}

func TestSendTextRoutesAndThreads(t *testing.T) {
	c, calls := newTestAPI(t)

	menu := relay.BuildMenu("en")
	id, err := c.SendText(context.Background(), 42, "hello", relay.SendOptions{ReplyTo: 9, Menu: &menu})
	require.NoError(t, err)
	assert.Equal(t, 77, id)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/bottest-token/sendMessage", call.Path)
	assert.Equal(t, float64(42), call.Body["chat_id"])
	assert.Equal(t, "hello", call.Body["text"])
	assert.Equal(t, float64(9), call.Body["reply_to_message_id"])
	assert.Contains(t, call.Body, "reply_markup")
}

func TestSendContentPicksMethodPerKind(t *testing.T) {
	c, calls := newTestAPI(t)
	ctx := context.Background()

	tests := []struct {
		content models.MessageContent
		path    string
		field   string
	}{
		{models.NewMedia(models.KindPhoto, "f1", "cap"), "/bottest-token/sendPhoto", "photo"},
		{models.NewMedia(models.KindVideo, "f2", ""), "/bottest-token/sendVideo", "video"},
		{models.NewMedia(models.KindVoice, "f3", ""), "/bottest-token/sendVoice", "voice"},
		{models.NewMedia(models.KindSticker, "f4", ""), "/bottest-token/sendSticker", "sticker"},
		{models.NewMedia(models.KindAudio, "f5", ""), "/bottest-token/sendAudio", "audio"},
	}

	for _, tc := range tests {
		_, err := c.SendContent(ctx, 42, tc.content, relay.SendOptions{})
		require.NoError(t, err)

		call := (*calls)[len(*calls)-1]
		assert.Equal(t, tc.path, call.Path)
		assert.Equal(t, tc.content.FileID, call.Body[tc.field])
	}
}

func TestSendContentSpoilerText(t *testing.T) {
	c, calls := newTestAPI(t)

	_, err := c.SendContent(context.Background(), 42, models.NewText("hi. there!"), relay.SendOptions{Spoiler: true})
	require.NoError(t, err)

	call := (*calls)[0]
	assert.Equal(t, "/bottest-token/sendMessage", call.Path)
	assert.Equal(t, `||hi\. there\!||`, call.Body["text"])
	assert.Equal(t, "MarkdownV2", call.Body["parse_mode"])
}

func TestSendContentUnknownKind(t *testing.T) {
	c, _ := newTestAPI(t)

	_, err := c.SendContent(context.Background(), 42, models.MessageContent{Kind: "poll"}, relay.SendOptions{})
	assert.Error(t, err)
}

func TestCallSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	c := NewClient("test-token", srv.URL, testLogger())
	_, err := c.SendText(context.Background(), 1, "x", relay.SendOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSetWebhook(t *testing.T) {
	c, calls := newTestAPI(t)

	require.NoError(t, c.SetWebhook(context.Background(), "https://example.org/webhook", "s3cret"))

	call := (*calls)[0]
	assert.Equal(t, "/bottest-token/setWebhook", call.Path)
	assert.Equal(t, "https://example.org/webhook", call.Body["url"])
	assert.Equal(t, "s3cret", call.Body["secret_token"])
}
