package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AnswerMap - пользовательский тип для JSONB-словаря ответов черновика.
// Ключ — ИСХОДНЫЙ индекс вопроса (до перемешивания), значение — выбранный текст.
// Именно исходный индекс позволяет сопоставить черновик с другой рандомизацией.
type AnswerMap map[int]string

// Scan реализует интерфейс sql.Scanner для AnswerMap
func (m *AnswerMap) Scan(value interface{}) error {
	if value == nil {
		*m = AnswerMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*m = AnswerMap{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

// Value реализует интерфейс driver.Valuer для AnswerMap
func (m AnswerMap) Value() (driver.Value, error) {
	if m == nil || len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// QuizDraft представляет сохранённый на сервере черновик незавершённой попытки.
// Это "удалённая" копия: восстановительным источником истины остаётся
// локальный кеш, удалённая запись нужна для продолжения с другого устройства.
type QuizDraft struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index;uniqueIndex:idx_draft_user_section" json:"user_id"`
	SectionID    uint      `gorm:"not null;index;uniqueIndex:idx_draft_user_section" json:"section_id"`
	Answers      AnswerMap `gorm:"type:jsonb;not null" json:"answers"`
	CurrentIndex int       `gorm:"not null;default:0" json:"current_index"` // Исходный индекс текущего вопроса
	SavedAt      time.Time `gorm:"not null" json:"saved_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizDraft) TableName() string {
	return "quiz_drafts"
}

// IsEmpty возвращает true, если в черновике нет ни одного ответа.
// Пустой черновик при загрузке считается отсутствующим.
func (d *QuizDraft) IsEmpty() bool {
	return len(d.Answers) == 0
}
