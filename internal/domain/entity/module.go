package entity

import "time"

// Module представляет учебный модуль курса (например, "Фишинг" или "Пароли").
// Модуль состоит из упорядоченных секций.
type Module struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:1000;not null;default:''" json:"description"`
	Position    int       `gorm:"not null;default:0;index" json:"position"`
	IsPublished bool      `gorm:"not null;default:false" json:"is_published"`
	Sections    []Section `gorm:"foreignKey:ModuleID" json:"sections,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Module) TableName() string {
	return "modules"
}
