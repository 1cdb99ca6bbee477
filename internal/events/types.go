package events

import "time"

const (
	RoutingSessionCompleted = "quiz.session.completed"
	RoutingUserUpdated      = "user.aggregates.updated"
)

type SessionCompleted struct {
	SessionID      uint      `json:"session_id"`
	UserID         uint      `json:"user_id"`
	QuizID         uint      `json:"quiz_id"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	TimeTaken      *int      `json:"time_taken,omitempty"`
	Rank           *int      `json:"rank,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
}

type UserAggregatesUpdated struct {
	Users     int64     `json:"users"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Envelope is the message body put on the exchange.
type Envelope struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}
