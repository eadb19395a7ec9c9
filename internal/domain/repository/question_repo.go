package repository

import (
	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(question *entity.Question) error
	CreateBatch(questions []entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetBySectionID возвращает вопросы секции, отсортированные по position.
	// Этот порядок — "исходный порядок" для движка попыток.
	GetBySectionID(sectionID uint) ([]entity.Question, error)
	Update(question *entity.Question) error
	Delete(id uint) error
}
