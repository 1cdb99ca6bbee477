package models

import "time"

// QuizLeaderboardEntry is a row of the quiz_leaderboard view.
type QuizLeaderboardEntry struct {
	UserID         uint      `json:"user_id"`
	QuizID         uint      `json:"quiz_id"`
	Username       string    `json:"username"`
	AvatarURL      *string   `json:"avatar_url"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      *int      `json:"time_taken"`
	CompletedAt    time.Time `json:"completed_at"`
	Rank           int       `json:"rank"`
}

func (QuizLeaderboardEntry) TableName() string { return "quiz_leaderboard" }

// GlobalLeaderboardEntry is a row of the global_leaderboard view.
type GlobalLeaderboardEntry struct {
	ID               uint    `json:"id"`
	Username         string  `json:"username"`
	AvatarURL        *string `json:"avatar_url"`
	TotalScore       int     `json:"total_score"`
	QuizzesCompleted int     `json:"quizzes_completed"`
	AvgScorePerQuiz  float64 `json:"avg_score_per_quiz"`
	Rank             int     `json:"rank"`
}

func (GlobalLeaderboardEntry) TableName() string { return "global_leaderboard" }
