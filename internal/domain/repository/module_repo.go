package repository

import (
	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// ModuleRepository определяет методы для работы с учебными модулями
type ModuleRepository interface {
	Create(module *entity.Module) error
	GetByID(id uint) (*entity.Module, error)
	// GetWithSections возвращает модуль вместе с его секциями в исходном порядке
	GetWithSections(id uint) (*entity.Module, error)
	// ListPublished возвращает опубликованные модули в порядке position
	ListPublished() ([]entity.Module, error)
	List(limit, offset int) ([]entity.Module, int64, error)
	Update(module *entity.Module) error
	Delete(id uint) error
}
