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

func TestNotifyNewLeader(t *testing.T) {
	var got SendMessageRequest
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true,"result":{"message_id":99}}`))
	}))
	defer srv.Close()

	n := NewNotifierWithClient(NewClientWithURL(srv.URL, "TOKEN"), 42)
	require.NoError(t, n.NotifyNewLeader(context.Background(), "Maps & Flags", "<alice>", 100))

	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.EqualValues(t, 42, got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "&lt;alice&gt;")
	assert.Contains(t, got.Text, "Maps &amp; Flags")
	assert.Contains(t, got.Text, "100%")
}

func TestNotifyNewLeaderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	n := NewNotifierWithClient(NewClientWithURL(srv.URL, "TOKEN"), 42)
	err := n.NotifyNewLeader(context.Background(), "Quiz", "bob", 90)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestNewNotifierDisabledWithoutConfig(t *testing.T) {
	assert.Nil(t, NewNotifier("", 42))
	assert.Nil(t, NewNotifier("token", 0))
}
