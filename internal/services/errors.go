package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrNoSelections     = errors.New("no selections provided")
	ErrNothingAnswered  = errors.New("at least one question must be answered")
	ErrInvalidAnswerIDs = errors.New("invalid answer ids provided")
	ErrMissingIDs       = errors.New("userId and quizId are required")

	ErrInvalidQuestion    = errors.New("invalid question")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// isUniqueViolation reports a postgres unique constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
