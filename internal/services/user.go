package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/models"

	"gorm.io/gorm"
)

const DefaultActivityLimit = 5

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}
	return &user, nil
}

func (s *UserService) CreateUser(ctx context.Context, username string, email, avatarURL *string) (*models.User, error) {
	user := models.User{
		Username:  strings.TrimSpace(username),
		Email:     email,
		AvatarURL: avatarURL,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// UserPatch lists the profile fields a user may change. Aggregates are
// owned by the server and cannot be patched.
type UserPatch struct {
	Username  *string `json:"username" binding:"omitempty,min=1,max=100"`
	Email     *string `json:"email" binding:"omitempty,email,max=255"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

func (s *UserService) UpdateUser(ctx context.Context, userID uint, patch UserPatch) (*models.User, error) {
	updates := map[string]interface{}{}
	if patch.Username != nil {
		updates["username"] = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.AvatarURL != nil {
		updates["avatar_url"] = *patch.AvatarURL
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
		if result.Error != nil {
			if isUniqueViolation(result.Error) {
				return nil, ErrUsernameTaken
			}
			return nil, fmt.Errorf("update user %d: %w", userID, result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrUserNotFound
		}
	}
	return s.GetUser(ctx, userID)
}

type UserStatistics struct {
	UserID                 uint     `json:"user_id"`
	TotalAttempts          int64    `json:"total_attempts"`
	UniqueQuizzes          int64    `json:"unique_quizzes"`
	AverageScore           float64  `json:"average_score"`
	BestScore              int      `json:"best_score"`
	TotalCorrect           int64    `json:"total_correct"`
	TotalQuestionsAnswered int64    `json:"total_questions_answered"`
	AvgTimePerQuiz         *float64 `json:"avg_time_per_quiz"`
}

func (s *UserService) GetUserStatistics(ctx context.Context, userID uint) (*UserStatistics, error) {
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	stats := UserStatistics{UserID: userID}
	err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) AS total_attempts,
			COUNT(DISTINCT quiz_id) AS unique_quizzes,
			COALESCE(ROUND(AVG(score)::numeric, 2), 0)::float8 AS average_score,
			COALESCE(MAX(score), 0) AS best_score,
			COALESCE(SUM(correct_answers), 0) AS total_correct,
			COALESCE(SUM(total_questions), 0) AS total_questions_answered,
			ROUND(AVG(time_taken)::numeric, 2)::float8 AS avg_time_per_quiz
		FROM quiz_sessions WHERE user_id = ?`, userID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("statistics of user %d: %w", userID, err)
	}
	return &stats, nil
}

type Activity struct {
	SessionID      uint      `json:"session_id"`
	QuizID         uint      `json:"quiz_id"`
	QuizTitle      string    `json:"quiz_title"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      *int      `json:"time_taken"`
	CompletedAt    time.Time `json:"completed_at"`
}

// RecentActivity lists the user's sessions newest first, including sessions
// of quizzes that were deleted since.
func (s *UserService) RecentActivity(ctx context.Context, userID uint, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	activity := []Activity{}
	err := s.db.WithContext(ctx).
		Table("quiz_sessions").
		Select(`quiz_sessions.id AS session_id, quiz_sessions.quiz_id, quiz.title AS quiz_title,
			quiz_sessions.score, quiz_sessions.correct_answers, quiz_sessions.total_questions,
			quiz_sessions.time_taken, quiz_sessions.completed_at`).
		Joins("JOIN quiz ON quiz.id = quiz_sessions.quiz_id").
		Where("quiz_sessions.user_id = ?", userID).
		Order("quiz_sessions.completed_at DESC, quiz_sessions.id DESC").
		Limit(limit).
		Scan(&activity).Error
	if err != nil {
		return nil, fmt.Errorf("activity of user %d: %w", userID, err)
	}
	return activity, nil
}

// RecomputeAggregates overwrites total_score and quizzes_completed from the
// user's sessions. It is a read followed by a write, so two concurrent
// submissions by one user can lose an update; ReconcileAll repairs that.
func (s *UserService) RecomputeAggregates(ctx context.Context, userID uint) error {
	var scores []int
	if err := s.db.WithContext(ctx).
		Model(&models.QuizSession{}).
		Where("user_id = ?", userID).
		Pluck("score", &scores).Error; err != nil {
		return fmt.Errorf("load scores of user %d: %w", userID, err)
	}

	total := 0
	for _, sc := range scores {
		total += sc
	}

	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"total_score":       total,
		"quizzes_completed": len(scores),
		"last_active":       now,
	}).Error
	if err != nil {
		return fmt.Errorf("update aggregates of user %d: %w", userID, err)
	}
	return nil
}

// ReconcileAll recomputes the aggregates of every user in one statement and
// returns how many rows changed.
func (s *UserService) ReconcileAll(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Exec(`UPDATE users SET
			total_score = agg.total_score,
			quizzes_completed = agg.quizzes_completed
		FROM (
			SELECT users.id AS user_id,
				COALESCE(SUM(quiz_sessions.score), 0) AS total_score,
				COUNT(quiz_sessions.id) AS quizzes_completed
			FROM users
			LEFT JOIN quiz_sessions ON quiz_sessions.user_id = users.id
			GROUP BY users.id
		) AS agg
		WHERE users.id = agg.user_id
			AND (users.total_score <> agg.total_score OR users.quizzes_completed <> agg.quizzes_completed)`)
	if result.Error != nil {
		return 0, fmt.Errorf("reconcile aggregates: %w", result.Error)
	}
	return result.RowsAffected, nil
}
