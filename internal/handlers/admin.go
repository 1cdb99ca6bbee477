package handlers

import (
	"context"
	"net/http"

	"github.com/VincentGavrila07/Quizzy/internal/services"

	"github.com/gin-gonic/gin"
)

// Reconciler recomputes user aggregates on demand.
type Reconciler interface {
	Run(ctx context.Context) (int64, error)
}

type AdminHandler struct {
	quizService *services.QuizService
	reconciler  Reconciler
}

func NewAdminHandler(quizService *services.QuizService, reconciler Reconciler) *AdminHandler {
	return &AdminHandler{quizService: quizService, reconciler: reconciler}
}

type QuizRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255" example:"World Capitals"`
	Description *string `json:"description" example:"How well do you know the map?"`
}

type ReconcileResponse struct {
	UpdatedUsers int64 `json:"updated_users"`
}

// CreateQuiz godoc
// @Summary      Create a quiz
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     AdminKey
// @Param        request body QuizRequest true "Quiz data"
// @Success      201 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes [post]
func (h *AdminHandler) CreateQuiz(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	quiz, err := h.quizService.CreateQuiz(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// UpdateQuiz godoc
// @Summary      Update a quiz
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     AdminKey
// @Param        id path int true "Quiz ID"
// @Param        request body QuizRequest true "Quiz data"
// @Success      200 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id} [put]
func (h *AdminHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "id", "quiz")
	if !ok {
		return
	}

	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	quiz, err := h.quizService.UpdateQuiz(c.Request.Context(), quizID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary      Delete a quiz
// @Description  Soft delete; sessions and leaderboards are kept
// @Tags         admin
// @Produce      json
// @Security     AdminKey
// @Param        id path int true "Quiz ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id} [delete]
func (h *AdminHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "id", "quiz")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "quiz deleted"})
}

// Reconcile godoc
// @Summary      Recompute user totals
// @Description  Rebuilds total_score and quizzes_completed of every user from their sessions
// @Tags         admin
// @Produce      json
// @Security     AdminKey
// @Success      200 {object} ReconcileResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/admin/reconcile [post]
func (h *AdminHandler) Reconcile(c *gin.Context) {
	updated, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReconcileResponse{UpdatedUsers: updated})
}
