package handlers

import (
	"net/http"
	"strconv"

	"github.com/VincentGavrila07/Quizzy/internal/middleware"
	"github.com/VincentGavrila07/Quizzy/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService        *services.UserService
	leaderboardService *services.LeaderboardService
}

func NewUserHandler(userService *services.UserService, leaderboardService *services.LeaderboardService) *UserHandler {
	return &UserHandler{userService: userService, leaderboardService: leaderboardService}
}

type CreateUserRequest struct {
	Username  string  `json:"username" binding:"required,min=1,max=100" example:"alice"`
	Email     *string `json:"email" binding:"omitempty,email,max=255" example:"alice@example.com"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

type RankResponse struct {
	UserID uint        `json:"userId"`
	QuizID *uint       `json:"quizId,omitempty"`
	Rank   *int        `json:"rank"`
	Entry  interface{} `json:"entry"`
}

// CreateUser godoc
// @Summary      Create a player
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "Player"
// @Success      201 {object} User
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req.Username, req.Email, req.AvatarURL)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary      Get a player
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} User
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      Update own profile
// @Description  Only username, email and avatar_url can change
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Param        request body services.UserPatch true "Profile fields"
// @Success      200 {object} User
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/users/{id} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	if c.GetUint(middleware.ContextUserID) != userID {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "cannot modify another user"})
		return
	}

	var patch services.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUserStatistics godoc
// @Summary      Player statistics
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} services.UserStatistics
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/users/{id}/stats [get]
func (h *UserHandler) GetUserStatistics(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	stats, err := h.userService.GetUserStatistics(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetRecentActivity godoc
// @Summary      Recent sessions of a player
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Param        limit query int false "Sessions to return (default 5)"
// @Success      200 {array} services.Activity
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/users/{id}/activity [get]
func (h *UserHandler) GetRecentActivity(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	activity, err := h.userService.RecentActivity(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// GetRank godoc
// @Summary      Rank of a player
// @Description  Rank in one quiz when quizId is given, otherwise the global rank. rank is null when unranked.
// @Tags         users
// @Produce      json
// @Param        id path int true "User ID"
// @Param        quizId query int false "Quiz ID"
// @Success      200 {object} RankResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/users/{id}/rank [get]
func (h *UserHandler) GetRank(c *gin.Context) {
	userID, ok := parseID(c, "id", "user")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	resp := RankResponse{UserID: userID}

	if raw := c.Query("quizId"); raw != "" {
		quizID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || quizID == 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quiz id"})
			return
		}
		id := uint(quizID)
		resp.QuizID = &id

		entry, err := h.leaderboardService.UserQuizRank(ctx, userID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if entry != nil {
			resp.Rank = &entry.Rank
			resp.Entry = entry
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	entry, err := h.leaderboardService.UserGlobalRank(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if entry != nil {
		resp.Rank = &entry.Rank
		resp.Entry = entry
	}
	c.JSON(http.StatusOK, resp)
}
