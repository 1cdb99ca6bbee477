package models

import "time"

type User struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Username         string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email            *string    `gorm:"size:255" json:"email"`
	AvatarURL        *string    `gorm:"size:500" json:"avatar_url"`
	PasswordHash     *string    `gorm:"size:255" json:"-"`
	TotalScore       int        `gorm:"not null;default:0" json:"total_score"`
	QuizzesCompleted int        `gorm:"not null;default:0" json:"quizzes_completed"`
	CreatedAt        time.Time  `json:"created_at"`
	LastActive       *time.Time `json:"last_active"`
}
