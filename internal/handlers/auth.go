package handlers

import (
	"context"
	"net/http"

	"github.com/VincentGavrila07/Quizzy/internal/models"
	"github.com/VincentGavrila07/Quizzy/internal/services"

	"github.com/gin-gonic/gin"
)

// AuthHandler issues player tokens used by PATCH /users/:id and submissions.
type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type Credentials struct {
	Username string `json:"username" binding:"required,min=3,max=100" example:"quizmaster"`
	Password string `json:"password" binding:"required,min=6" example:"s3cret-pass"`
}

type SignUpRequest struct {
	Credentials
	Email *string `json:"email" binding:"omitempty,email,max=255" example:"quizmaster@example.com"`
}

// PlayerToken carries a 24h bearer token and the player it belongs to.
type PlayerToken struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type issueFunc func(ctx context.Context) (string, *models.User, error)

func (h *AuthHandler) issue(c *gin.Context, status int, fn issueFunc) {
	token, user, err := fn(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, PlayerToken{Token: token, User: user})
}

// Register godoc
// @Summary      Sign up a player
// @Description  Stores a bcrypt-hashed password and answers with a bearer token for the new player
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignUpRequest true "Player credentials"
// @Success      201 {object} PlayerToken
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.issue(c, http.StatusCreated, func(ctx context.Context) (string, *models.User, error) {
		return h.authService.Register(ctx, req.Username, req.Password, req.Email)
	})
}

// Login godoc
// @Summary      Player token
// @Description  Exchanges a username and password for a bearer token. Players created without a password cannot log in.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body Credentials true "Player credentials"
// @Success      200 {object} PlayerToken
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.issue(c, http.StatusOK, func(ctx context.Context) (string, *models.User, error) {
		return h.authService.Login(ctx, req.Username, req.Password)
	})
}
