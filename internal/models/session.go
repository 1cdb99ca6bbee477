package models

import "time"

// QuizSession is one completed attempt. Rows are inserted once and never updated.
type QuizSession struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	User           *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	QuizID         uint      `gorm:"not null;index" json:"quiz_id"`
	Quiz           *Quiz     `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Score          int       `gorm:"not null;check:score BETWEEN 0 AND 100" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	CorrectAnswers int       `gorm:"not null" json:"correct_answers"`
	TimeTaken      *int      `json:"time_taken"`
	CompletedAt    time.Time `gorm:"not null;default:now();index" json:"completed_at"`
}

// UserAnswer is a per-question analytics row of a session.
type UserAnswer struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	SessionID  uint         `gorm:"not null;index" json:"session_id"`
	Session    *QuizSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	QuestionID uint         `gorm:"not null;index" json:"question_id"`
	AnswerID   *uint        `json:"answer_id"`
	IsCorrect  bool         `gorm:"not null" json:"is_correct"`
	TimeSpent  *int         `json:"time_spent"`
	AnsweredAt time.Time    `gorm:"not null;default:now()" json:"answered_at"`
}
