package entity

import "time"

// Section представляет секцию модуля: учебный материал плюс тест по нему.
// Идентичность секции — ключ для черновиков незавершённых попыток.
type Section struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ModuleID    uint       `gorm:"not null;index" json:"module_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Body        string     `gorm:"type:text;not null;default:''" json:"body"` // Markdown-контент секции
	Position    int        `gorm:"not null;default:0" json:"position"`
	IsPublished bool       `gorm:"not null;default:false" json:"is_published"`
	Questions   []Question `gorm:"foreignKey:SectionID" json:"questions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Section) TableName() string {
	return "sections"
}

// HasQuiz возвращает true, если к секции привязан хотя бы один вопрос.
// Секция без вопросов — валидное состояние ("тест недоступен"), не ошибка.
func (s *Section) HasQuiz() bool {
	return len(s.Questions) > 0
}
