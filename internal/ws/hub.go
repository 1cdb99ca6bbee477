package ws

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/metrics"

	"github.com/gorilla/websocket"
)

const GlobalLeaderboardTopic = "leaderboard:global"

const (
	// WriteWait bounds every write to a client.
	WriteWait  = 10 * time.Second
	pingPeriod = 50 * time.Second
	sendBuffer = 16
)

func QuizLeaderboardTopic(quizID uint) string {
	return fmt.Sprintf("leaderboard:quiz:%d", quizID)
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// client owns the only writer of its connection.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the open connections per topic. Broadcast only queues messages;
// a client whose queue is full is dropped.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{
		topics: make(map[string]map[*websocket.Conn]*client),
	}
}

func (h *Hub) AddConnection(topic string, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*websocket.Conn]*client)
	}
	h.topics[topic][conn] = c
	total := len(h.topics[topic])
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	log.Printf("ws: client subscribed to %s (total: %d)", topic, total)
	go h.writePump(topic, c)
}

func (h *Hub) writePump(topic string, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("ws: write error on %s: %v", topic, err)
				h.RemoveConnection(topic, c.conn)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.RemoveConnection(topic, c.conn)
				return
			}
		}
	}
}

func (h *Hub) RemoveConnection(topic string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(topic, conn)
}

func (h *Hub) remove(topic string, conn *websocket.Conn) {
	conns, ok := h.topics[topic]
	if !ok {
		return
	}
	c, ok := conns[conn]
	if !ok {
		return
	}
	delete(conns, conn)
	close(c.send)
	conn.Close()
	metrics.WSConnections.Dec()
	if len(conns) == 0 {
		delete(h.topics, topic)
	}
	log.Printf("ws: client left %s", topic)
}

// Subscribers reports how many connections listen on topic.
func (h *Hub) Subscribers(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

func (h *Hub) Broadcast(topic string, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, c := range h.topics[topic] {
		select {
		case c.send <- data:
		default:
			log.Printf("ws: dropping slow client on %s", topic)
			h.remove(topic, conn)
		}
	}
}

// Close drops every connection; used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, conns := range h.topics {
		for conn := range conns {
			h.remove(topic, conn)
		}
	}
}
