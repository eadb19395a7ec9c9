package repository

import (
	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// SectionRepository определяет методы для работы с секциями модулей
type SectionRepository interface {
	Create(section *entity.Section) error
	GetByID(id uint) (*entity.Section, error)
	// GetWithQuestions возвращает секцию вместе с вопросами в исходном порядке
	GetWithQuestions(id uint) (*entity.Section, error)
	ListByModule(moduleID uint) ([]entity.Section, error)
	Update(section *entity.Section) error
	Delete(id uint) error
}
