package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
)

// ModuleRepo реализует repository.ModuleRepository
type ModuleRepo struct {
	db *gorm.DB
}

// NewModuleRepo создает новый репозиторий учебных модулей
func NewModuleRepo(db *gorm.DB) *ModuleRepo {
	return &ModuleRepo{db: db}
}

// Create создает новый модуль
func (r *ModuleRepo) Create(module *entity.Module) error {
	return r.db.Create(module).Error
}

// GetByID возвращает модуль по ID
func (r *ModuleRepo) GetByID(id uint) (*entity.Module, error) {
	var module entity.Module
	err := r.db.First(&module, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &module, nil
}

// GetWithSections возвращает модуль вместе с секциями в порядке position
func (r *ModuleRepo) GetWithSections(id uint) (*entity.Module, error) {
	var module entity.Module
	err := r.db.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("sections.position")
	}).First(&module, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &module, nil
}

// ListPublished возвращает опубликованные модули в порядке position
func (r *ModuleRepo) ListPublished() ([]entity.Module, error) {
	var modules []entity.Module
	err := r.db.Where("is_published = ?", true).
		Order("position").
		Find(&modules).Error
	if err != nil {
		return nil, err
	}
	return modules, nil
}

// List возвращает список модулей с пагинацией и total count
func (r *ModuleRepo) List(limit, offset int) ([]entity.Module, int64, error) {
	var modules []entity.Module
	var total int64

	if err := r.db.Model(&entity.Module{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Limit(limit).Offset(offset).Order("position").Find(&modules).Error
	if err != nil {
		return nil, 0, err
	}
	return modules, total, nil
}

// Update обновляет информацию о модуле
func (r *ModuleRepo) Update(module *entity.Module) error {
	return r.db.Save(module).Error
}

// Delete удаляет модуль
func (r *ModuleRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Module{}, id).Error
}
