package handlers

import (
	"net/http"
	"strconv"

	"github.com/VincentGavrila07/Quizzy/internal/services"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

type LeaderboardRequest struct {
	QuizID *uint `json:"quizId" example:"1"`
	Limit  *int  `json:"limit" example:"10"`
}

// GetLeaderboard godoc
// @Summary      Leaderboard
// @Description  Quiz leaderboard when quizId is given, otherwise the global one
// @Tags         leaderboard
// @Produce      json
// @Param        quizId query int false "Quiz ID"
// @Param        limit query int false "Rows to return (default 10 per quiz, 20 global, max 100)"
// @Success      200 {array} GlobalLeaderboardEntry
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	raw := c.Query("quizId")
	if raw == "" {
		h.respond(c, nil, c.Query("limit"))
		return
	}

	quizID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || quizID == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz id"})
		return
	}
	id := uint(quizID)
	h.respond(c, &id, c.Query("limit"))
}

// PostLeaderboard godoc
// @Summary      Leaderboard (body)
// @Description  Same as the GET form with the parameters in the body
// @Tags         leaderboard
// @Accept       json
// @Produce      json
// @Param        request body LeaderboardRequest false "Filters"
// @Success      200 {array} GlobalLeaderboardEntry
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/leaderboard [post]
func (h *LeaderboardHandler) PostLeaderboard(c *gin.Context) {
	var req LeaderboardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	limit := ""
	if req.Limit != nil {
		limit = strconv.Itoa(*req.Limit)
	}
	if req.QuizID != nil && *req.QuizID == 0 {
		req.QuizID = nil
	}
	h.respond(c, req.QuizID, limit)
}

func (h *LeaderboardHandler) respond(c *gin.Context, quizID *uint, rawLimit string) {
	ctx := c.Request.Context()

	if quizID != nil {
		entries, err := h.leaderboardService.QuizLeaderboard(ctx, *quizID, services.ParseLimit(rawLimit, services.DefaultQuizLeaderboardLimit))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entries)
		return
	}

	entries, err := h.leaderboardService.GlobalLeaderboard(ctx, services.ParseLimit(rawLimit, services.DefaultGlobalLeaderboardLimit))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
