package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	QuizID      uint           `gorm:"not null;index:idx_question_order" json:"quiz_id"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	OrderNumber int            `gorm:"not null;default:0;index:idx_question_order" json:"order_number"`
	Answers     []Answer       `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
