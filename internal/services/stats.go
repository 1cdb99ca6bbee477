package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type SiteStatistics struct {
	TotalQuizzes      int64 `json:"totalQuizzes"`
	TotalAttempts     int64 `json:"totalAttempts"`
	TotalUsers        int64 `json:"totalUsers"`
	AvgCompletionRate int   `json:"avgCompletionRate"`
}

type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

func (s *StatsService) GetStatistics(ctx context.Context) (*SiteStatistics, error) {
	var stats SiteStatistics
	err := s.db.WithContext(ctx).Raw(`SELECT
			(SELECT COUNT(*) FROM quiz WHERE deleted_at IS NULL) AS total_quizzes,
			(SELECT COUNT(*) FROM quiz_sessions) AS total_attempts,
			(SELECT COUNT(*) FROM users) AS total_users,
			COALESCE((SELECT ROUND(AVG(score)) FROM quiz_sessions), 0)::int AS avg_completion_rate`).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("site statistics: %w", err)
	}
	return &stats, nil
}
