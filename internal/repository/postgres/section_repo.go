package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
)

// SectionRepo реализует repository.SectionRepository
type SectionRepo struct {
	db *gorm.DB
}

// NewSectionRepo создает новый репозиторий секций
func NewSectionRepo(db *gorm.DB) *SectionRepo {
	return &SectionRepo{db: db}
}

// Create создает новую секцию
func (r *SectionRepo) Create(section *entity.Section) error {
	return r.db.Create(section).Error
}

// GetByID возвращает секцию по ID
func (r *SectionRepo) GetByID(id uint) (*entity.Section, error) {
	var section entity.Section
	err := r.db.First(&section, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// GetWithQuestions возвращает секцию вместе с вопросами в исходном порядке
func (r *SectionRepo) GetWithQuestions(id uint) (*entity.Section, error) {
	var section entity.Section
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.position")
	}).First(&section, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &section, nil
}

// ListByModule возвращает секции модуля в порядке position
func (r *SectionRepo) ListByModule(moduleID uint) ([]entity.Section, error) {
	var sections []entity.Section
	err := r.db.Where("module_id = ?", moduleID).
		Order("position").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// Update обновляет информацию о секции
func (r *SectionRepo) Update(section *entity.Section) error {
	return r.db.Save(section).Error
}

// Delete удаляет секцию
func (r *SectionRepo) Delete(id uint) error {
	return r.db.Delete(&entity.Section{}, id).Error
}
