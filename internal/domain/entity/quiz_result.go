package entity

import (
	"time"
)

// QuizResult представляет итог завершённой попытки прохождения теста секции
type QuizResult struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AttemptID      string    `gorm:"size:36;not null;uniqueIndex" json:"attempt_id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	SectionID      uint      `gorm:"not null;index" json:"section_id"`
	Username       string    `gorm:"size:50;not null" json:"username"`
	CorrectAnswers int       `gorm:"not null;default:0" json:"correct_answers"`
	TotalQuestions int       `gorm:"not null;default:0" json:"total_questions"`
	Percentage     int       `gorm:"not null;default:0" json:"percentage"`
	Passed         bool      `gorm:"not null;default:false" json:"passed"`
	XPAwarded      int       `gorm:"not null;default:0" json:"xp_awarded"`
	CompletedAt    time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizResult) TableName() string {
	return "quiz_results"
}
