package handlers

import (
	"net/http"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/middleware"
	"github.com/VincentGavrila07/Quizzy/internal/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
}

func NewSessionHandler(sessionService *services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type CheckRequest struct {
	Selections []services.Selection `json:"selections" binding:"dive"`
}

type SubmitRequest struct {
	UserID     uint                 `json:"userId" example:"1"`
	QuizID     uint                 `json:"quizId" example:"1"`
	Selections []services.Selection `json:"selections" binding:"dive"`
	TimeTaken  *int                 `json:"timeTaken" binding:"omitempty,min=0" example:"95"`
	// Seconds spent per question id.
	TimeSpentPerQuestion map[uint]int `json:"timeSpentPerQuestion"`
}

// input prefers the user of a bearer token over the body's userId.
func (r SubmitRequest) input(c *gin.Context) services.SubmitInput {
	userID := r.UserID
	if id := c.GetUint(middleware.ContextUserID); id != 0 {
		userID = id
	}
	return services.SubmitInput{
		UserID:     userID,
		QuizID:     r.QuizID,
		Selections: r.Selections,
		TimeTaken:  r.TimeTaken,
		TimeSpent:  r.TimeSpentPerQuestion,
	}
}

type SubmitResult struct {
	services.ScoreResult
	Grade   string `json:"grade" example:"Very Good"`
	Message string `json:"message" example:"Great job!"`
}

type SubmitResponse struct {
	Success     bool         `json:"success"`
	SessionID   uint         `json:"sessionId"`
	Result      SubmitResult `json:"result"`
	TimeTaken   *int         `json:"timeTaken"`
	Rank        *int         `json:"rank"`
	CompletedAt time.Time    `json:"completedAt"`
}

func newSubmitResponse(sub *services.Submission) SubmitResponse {
	return SubmitResponse{
		Success:   true,
		SessionID: sub.Session.ID,
		Result: SubmitResult{
			ScoreResult: sub.Result,
			Grade:       sub.Grade.Grade,
			Message:     sub.Grade.Message,
		},
		TimeTaken:   sub.Session.TimeTaken,
		Rank:        sub.Rank,
		CompletedAt: sub.Session.CompletedAt,
	}
}

// CheckAnswers godoc
// @Summary      Check answers
// @Description  Grade selections without recording a session
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        request body CheckRequest true "Selections"
// @Success      200 {object} services.ScoreResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/quiz/check [post]
func (h *SessionHandler) CheckAnswers(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.sessionService.CheckAnswers(c.Request.Context(), req.Selections)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitQuiz godoc
// @Summary      Submit a quiz
// @Description  Record a completed attempt, update the user's totals and return the rank. A bearer token's user overrides userId.
// @Tags         play
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubmitRequest true "Attempt"
// @Success      201 {object} SubmitResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/quiz/submit [post]
func (h *SessionHandler) SubmitQuiz(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sub, err := h.sessionService.Submit(c.Request.Context(), req.input(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSubmitResponse(sub))
}
