package database

import (
	"fmt"
	"log"
	"time"

	"github.com/VincentGavrila07/Quizzy/internal/config"
	"github.com/VincentGavrila07/Quizzy/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func DSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s application_name=quizzy",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode,
	)
}

// Open connects without exiting the process on failure.
func Open(dsn string, verbose bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: NewQueryLogger(200*time.Millisecond, verbose),
	})
	if err != nil {
		return nil, err
	}
	TunePool(db)
	return db, nil
}

func Connect(cfg *config.Config) *gorm.DB {
	db, err := Open(DSN(cfg), cfg.GinMode == "debug")
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	log.Println("database connected")
	return db
}

func TunePool(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("database: pool tune error: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func AutoMigrate(db *gorm.DB) {
	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	log.Println("database migrated")
}

// Migrate creates the tables and (re)creates the leaderboard views.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.QuizSession{},
		&models.UserAnswer{},
	)
	if err != nil {
		return err
	}

	for _, stmt := range []string{quizLeaderboardView, globalLeaderboardView} {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create view: %w", err)
		}
	}
	return nil
}

// Best session per user and quiz: highest score, then fastest, then earliest.
const quizLeaderboardView = `CREATE OR REPLACE VIEW quiz_leaderboard AS
SELECT b.user_id, b.quiz_id, u.username, u.avatar_url, b.score, b.correct_answers,
       b.total_questions, b.time_taken, b.completed_at,
       RANK() OVER (PARTITION BY b.quiz_id ORDER BY b.score DESC, b.time_taken ASC NULLS LAST)::int AS rank
FROM (
    SELECT DISTINCT ON (s.quiz_id, s.user_id)
           s.user_id, s.quiz_id, s.score, s.correct_answers, s.total_questions, s.time_taken, s.completed_at
    FROM quiz_sessions s
    ORDER BY s.quiz_id, s.user_id, s.score DESC, s.time_taken ASC NULLS LAST, s.completed_at ASC
) b
JOIN users u ON u.id = b.user_id`

const globalLeaderboardView = `CREATE OR REPLACE VIEW global_leaderboard AS
SELECT u.id, u.username, u.avatar_url, u.total_score, u.quizzes_completed,
       CASE WHEN u.quizzes_completed > 0
            THEN ROUND(u.total_score::numeric / u.quizzes_completed, 2)::float8
            ELSE 0 END AS avg_score_per_quiz,
       RANK() OVER (ORDER BY u.total_score DESC)::int AS rank
FROM users u
WHERE u.quizzes_completed > 0`
