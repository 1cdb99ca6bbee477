package handlers

import (
	"net/http"

	"github.com/VincentGavrila07/Quizzy/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionRequest struct {
	Text        string                 `json:"text" binding:"required" example:"Capital of France?"`
	OrderNumber *int                   `json:"order_number" example:"1"`
	Answers     []services.AnswerInput `json:"answers" binding:"required,min=2,max=6,dive"`
}

func (r QuestionRequest) input() services.QuestionInput {
	return services.QuestionInput{
		Text:        r.Text,
		OrderNumber: r.OrderNumber,
		Answers:     r.Answers,
	}
}

// CreateQuestion godoc
// @Summary      Add a question to a quiz
// @Description  2 to 6 answers, exactly one of them correct. Without order_number the question goes last.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     AdminKey
// @Param        id path int true "Quiz ID"
// @Param        request body QuestionRequest true "Question data"
// @Success      201 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/quizzes/{id}/questions [post]
func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	quizID, ok := parseID(c, "id", "quiz")
	if !ok {
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	question, err := h.quizService.CreateQuestion(c.Request.Context(), quizID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary      Update a question
// @Description  Replaces the text, the order and all answers
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     AdminKey
// @Param        id path int true "Question ID"
// @Param        request body QuestionRequest true "Question data"
// @Success      200 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/questions/{id} [put]
func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := parseID(c, "id", "question")
	if !ok {
		return
	}

	var req QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	question, err := h.quizService.UpdateQuestion(c.Request.Context(), questionID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Tags         admin
// @Produce      json
// @Security     AdminKey
// @Param        id path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/questions/{id} [delete]
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := parseID(c, "id", "question")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}
