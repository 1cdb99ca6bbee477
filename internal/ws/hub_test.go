package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hub *Hub, topic string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.AddConnection(topic, conn)
		defer hub.RemoveConnection(topic, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesTopicSubscribers(t *testing.T) {
	hub := NewHub()
	topic := QuizLeaderboardTopic(7)
	srv := newTestServer(t, hub, topic)

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Subscribers(topic) == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(topic, WSMessage{Type: "leaderboard", Data: []int{1, 2}})

	for _, conn := range []*websocket.Conn{a, b} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg struct {
			Type string `json:"type"`
			Data []int  `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		require.Equal(t, "leaderboard", msg.Type)
		require.Equal(t, []int{1, 2}, msg.Data)
	}
}

func TestBroadcastToOtherTopicIsIgnored(t *testing.T) {
	hub := NewHub()
	srv := newTestServer(t, hub, GlobalLeaderboardTopic)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Subscribers(GlobalLeaderboardTopic) == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Broadcast(QuizLeaderboardTopic(1), WSMessage{Type: "leaderboard"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestRemoveConnectionOnClientClose(t *testing.T) {
	hub := NewHub()
	srv := newTestServer(t, hub, GlobalLeaderboardTopic)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Subscribers(GlobalLeaderboardTopic) == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Subscribers(GlobalLeaderboardTopic) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestQuizLeaderboardTopic(t *testing.T) {
	require.Equal(t, "leaderboard:quiz:42", QuizLeaderboardTopic(42))
}

func TestBroadcastDoesNotBlockOnClientThatNeverReads(t *testing.T) {
	hub := NewHub()
	srv := newTestServer(t, hub, GlobalLeaderboardTopic)

	dial(t, srv) // never reads
	require.Eventually(t, func() bool { return hub.Subscribers(GlobalLeaderboardTopic) == 1 }, 2*time.Second, 10*time.Millisecond)

	big := strings.Repeat("x", 1<<20)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 64; i++ {
			hub.Broadcast(GlobalLeaderboardTopic, WSMessage{Type: "leaderboard", Data: big})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("broadcast blocked on a client that does not read")
	}

	require.Eventually(t, func() bool { return hub.Subscribers(GlobalLeaderboardTopic) == 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestCloseDropsAllConnections(t *testing.T) {
	hub := NewHub()
	srv := newTestServer(t, hub, GlobalLeaderboardTopic)

	dial(t, srv)
	dial(t, srv)
	require.Eventually(t, func() bool { return hub.Subscribers(GlobalLeaderboardTopic) == 2 }, 2*time.Second, 10*time.Millisecond)

	hub.Close()
	require.Equal(t, 0, hub.Subscribers(GlobalLeaderboardTopic))
	hub.Broadcast(GlobalLeaderboardTopic, WSMessage{Type: "leaderboard"})
}
