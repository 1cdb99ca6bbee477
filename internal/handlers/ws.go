package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/services"
	"github.com/VincentGavrila07/Quizzy/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub                *ws.Hub
	leaderboardService *services.LeaderboardService
}

func NewWSHandler(hub *ws.Hub, leaderboardService *services.LeaderboardService) *WSHandler {
	return &WSHandler{hub: hub, leaderboardService: leaderboardService}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GlobalLeaderboard godoc
// @Summary      Live global leaderboard
// @Description  WebSocket feed of {type:"leaderboard", data:[...]} messages, starting with the current board
// @Tags         websocket
// @Router       /ws/leaderboard [get]
func (h *WSHandler) GlobalLeaderboard(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	entries, err := h.leaderboardService.GlobalLeaderboard(c.Request.Context(), services.DefaultGlobalLeaderboardLimit)
	if err != nil {
		log.Printf("ws: initial global leaderboard: %v", err)
	}
	h.serve(conn, ws.GlobalLeaderboardTopic, entries, err)
}

// QuizLeaderboard godoc
// @Summary      Live quiz leaderboard
// @Description  WebSocket feed of {type:"leaderboard", data:[...]} messages for one quiz
// @Tags         websocket
// @Param        quizId path int true "Quiz ID"
// @Router       /ws/leaderboard/{quizId} [get]
func (h *WSHandler) QuizLeaderboard(c *gin.Context) {
	quizID, ok := parseID(c, "quizId", "quiz")
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	entries, err := h.leaderboardService.QuizLeaderboard(c.Request.Context(), quizID, services.DefaultQuizLeaderboardLimit)
	if err != nil {
		log.Printf("ws: initial leaderboard of quiz %d: %v", quizID, err)
	}
	h.serve(conn, ws.QuizLeaderboardTopic(quizID), entries, err)
}

// serve sends the current board, registers the connection and blocks until
// the client goes away.
func (h *WSHandler) serve(conn *websocket.Conn, topic string, initial interface{}, initialErr error) {
	if initialErr == nil {
		conn.SetWriteDeadline(time.Now().Add(ws.WriteWait))
		if err := conn.WriteJSON(ws.WSMessage{Type: "leaderboard", Data: initial}); err != nil {
			conn.Close()
			return
		}
	}

	h.hub.AddConnection(topic, conn)
	defer h.hub.RemoveConnection(topic, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
