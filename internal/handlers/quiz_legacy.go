package handlers

import (
	"net/http"

	"github.com/VincentGavrila07/Quizzy/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// The single-path endpoints below predate the resource routes and are kept
// for older web clients. They share the services of the resource routes.

// ActionRequest carries the action name; the remaining fields depend on it:
// userSelections for check-answers, userId, quizId, userSelections,
// timeTaken and timeSpentPerQuestion for submit-quiz, quizId for
// get-correct-answers.
type ActionRequest struct {
	Action string `json:"action" binding:"required,oneof=check-answers submit-quiz get-correct-answers" example:"submit-quiz"`
}

type LegacyCheckResponse struct {
	CorrectCount int `json:"correctCount"`
}

type LegacyQuizHandler struct {
	quizzes  *QuizHandler
	sessions *SessionHandler
}

func NewLegacyQuizHandler(quizzes *QuizHandler, sessions *SessionHandler) *LegacyQuizHandler {
	return &LegacyQuizHandler{quizzes: quizzes, sessions: sessions}
}

// Get godoc
// @Summary      Quiz lookup (legacy)
// @Description  Without id lists quizzes; with id returns the quiz; with stats=true its statistics
// @Tags         legacy
// @Produce      json
// @Param        id query int false "Quiz ID"
// @Param        stats query bool false "Return statistics"
// @Success      200 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quiz [get]
func (h *LegacyQuizHandler) Get(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		h.quizzes.ListQuizzes(c)
		return
	}

	c.Params = append(c.Params, gin.Param{Key: "id", Value: id})
	if c.Query("stats") == "true" {
		h.quizzes.GetQuizStatistics(c)
		return
	}
	h.quizzes.GetQuiz(c)
}

// Dispatch godoc
// @Summary      Quiz actions (legacy)
// @Description  action is one of check-answers, submit-quiz, get-correct-answers
// @Tags         legacy
// @Accept       json
// @Produce      json
// @Param        request body ActionRequest true "Action payload"
// @Success      200 {object} LegacyCheckResponse
// @Success      201 {object} SubmitResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/quiz [post]
func (h *LegacyQuizHandler) Dispatch(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		bindError(c, err)
		return
	}

	switch req.Action {
	case "check-answers":
		h.checkAnswers(c)
	case "submit-quiz":
		h.submitQuiz(c)
	case "get-correct-answers":
		h.correctAnswers(c)
	}
}

func (h *LegacyQuizHandler) checkAnswers(c *gin.Context) {
	var req struct {
		UserSelections []services.Selection `json:"userSelections" binding:"required,dive"`
	}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.sessions.sessionService.CheckAnswers(c.Request.Context(), req.UserSelections)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LegacyCheckResponse{CorrectCount: result.CorrectCount})
}

func (h *LegacyQuizHandler) submitQuiz(c *gin.Context) {
	var req struct {
		UserID               uint                 `json:"userId"`
		QuizID               uint                 `json:"quizId"`
		UserSelections       []services.Selection `json:"userSelections" binding:"required,dive"`
		TimeTaken            *int                 `json:"timeTaken" binding:"omitempty,min=0"`
		TimeSpentPerQuestion map[uint]int         `json:"timeSpentPerQuestion"`
	}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		bindError(c, err)
		return
	}

	submit := SubmitRequest{
		UserID:               req.UserID,
		QuizID:               req.QuizID,
		Selections:           req.UserSelections,
		TimeTaken:            req.TimeTaken,
		TimeSpentPerQuestion: req.TimeSpentPerQuestion,
	}
	sub, err := h.sessions.sessionService.Submit(c.Request.Context(), submit.input(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSubmitResponse(sub))
}

func (h *LegacyQuizHandler) correctAnswers(c *gin.Context) {
	var req struct {
		QuizID uint `json:"quizId" binding:"required"`
	}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		bindError(c, err)
		return
	}

	answers, err := h.quizzes.quizService.GetCorrectAnswers(c.Request.Context(), req.QuizID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CorrectAnswersResponse{CorrectAnswers: answers})
}
