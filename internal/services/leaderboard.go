package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/VincentGavrila07/Quizzy/internal/cache"
	"github.com/VincentGavrila07/Quizzy/internal/metrics"
	"github.com/VincentGavrila07/Quizzy/internal/models"

	"gorm.io/gorm"
)

const (
	DefaultQuizLeaderboardLimit   = 10
	DefaultGlobalLeaderboardLimit = 20
	MaxLeaderboardLimit           = 100

	leaderboardKeyPrefix = "leaderboard:"
)

// ParseLimit turns a raw query value into a leaderboard limit. Anything that
// is not a positive integer falls back to def; large values are capped.
func ParseLimit(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return ClampLimit(n, def)
}

func ClampLimit(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return n
}

type LeaderboardService struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewLeaderboardService(db *gorm.DB, c cache.Cache) *LeaderboardService {
	if c == nil {
		c = cache.Noop{}
	}
	return &LeaderboardService{db: db, cache: c}
}

func (s *LeaderboardService) QuizLeaderboard(ctx context.Context, quizID uint, limit int) ([]models.QuizLeaderboardEntry, error) {
	limit = ClampLimit(limit, DefaultQuizLeaderboardLimit)
	key := fmt.Sprintf("%squiz:%d:%d", leaderboardKeyPrefix, quizID, limit)

	entries := []models.QuizLeaderboardEntry{}
	if s.fromCache(ctx, key, &entries) {
		return entries, nil
	}

	err := s.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("rank ASC, completed_at ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("quiz %d leaderboard: %w", quizID, err)
	}

	s.toCache(ctx, key, entries)
	return entries, nil
}

func (s *LeaderboardService) GlobalLeaderboard(ctx context.Context, limit int) ([]models.GlobalLeaderboardEntry, error) {
	limit = ClampLimit(limit, DefaultGlobalLeaderboardLimit)
	key := fmt.Sprintf("%sglobal:%d", leaderboardKeyPrefix, limit)

	entries := []models.GlobalLeaderboardEntry{}
	if s.fromCache(ctx, key, &entries) {
		return entries, nil
	}

	err := s.db.WithContext(ctx).
		Order("rank ASC, id ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("global leaderboard: %w", err)
	}

	s.toCache(ctx, key, entries)
	return entries, nil
}

// UserQuizRank returns the user's row of the quiz leaderboard, or nil when
// the user has no session for the quiz.
func (s *LeaderboardService) UserQuizRank(ctx context.Context, userID, quizID uint) (*models.QuizLeaderboardEntry, error) {
	var entry models.QuizLeaderboardEntry
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rank of user %d in quiz %d: %w", userID, quizID, err)
	}
	return &entry, nil
}

func (s *LeaderboardService) UserGlobalRank(ctx context.Context, userID uint) (*models.GlobalLeaderboardEntry, error) {
	var entry models.GlobalLeaderboardEntry
	err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("global rank of user %d: %w", userID, err)
	}
	return &entry, nil
}

// Invalidate drops every cached leaderboard. A new session can move ranks on
// both the quiz and the global board, so there is nothing narrower to drop.
func (s *LeaderboardService) Invalidate(ctx context.Context) error {
	return s.cache.DeletePrefix(ctx, leaderboardKeyPrefix)
}

func (s *LeaderboardService) fromCache(ctx context.Context, key string, dst any) bool {
	found, err := s.cache.Get(ctx, key, dst)
	switch {
	case err != nil:
		metrics.LeaderboardCache.WithLabelValues("error").Inc()
		log.Printf("leaderboard: cache read %s failed: %v", key, err)
		return false
	case found:
		metrics.LeaderboardCache.WithLabelValues("hit").Inc()
		return true
	default:
		metrics.LeaderboardCache.WithLabelValues("miss").Inc()
		return false
	}
}

func (s *LeaderboardService) toCache(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Printf("leaderboard: cache write %s failed: %v", key, err)
	}
}
