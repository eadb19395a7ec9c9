package service

import (
	"fmt"
	"log"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	"github.com/yourusername/secaware-api/internal/domain/repository"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
)

// ModuleService предоставляет методы для работы с учебными модулями
type ModuleService struct {
	moduleRepo  repository.ModuleRepository
	sectionRepo repository.SectionRepository
}

// NewModuleService создает новый сервис модулей
func NewModuleService(moduleRepo repository.ModuleRepository, sectionRepo repository.SectionRepository) *ModuleService {
	return &ModuleService{
		moduleRepo:  moduleRepo,
		sectionRepo: sectionRepo,
	}
}

// ListPublished возвращает опубликованные модули курса в порядке position
func (s *ModuleService) ListPublished() ([]entity.Module, error) {
	modules, err := s.moduleRepo.ListPublished()
	if err != nil {
		log.Printf("[ModuleService] Ошибка получения списка модулей: %v", err)
		return nil, err
	}
	return modules, nil
}

// List возвращает пагинированный список всех модулей (для админки)
func (s *ModuleService) List(page, pageSize int) ([]entity.Module, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}
	return s.moduleRepo.List(pageSize, (page-1)*pageSize)
}

// GetWithSections возвращает модуль вместе с его секциями в исходном порядке
func (s *ModuleService) GetWithSections(moduleID uint) (*entity.Module, error) {
	return s.moduleRepo.GetWithSections(moduleID)
}

// Create создает новый модуль
func (s *ModuleService) Create(title, description string, position int) (*entity.Module, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: название модуля обязательно", apperrors.ErrValidation)
	}

	module := &entity.Module{
		Title:       title,
		Description: description,
		Position:    position,
	}
	if err := s.moduleRepo.Create(module); err != nil {
		log.Printf("[ModuleService] Ошибка создания модуля '%s': %v", title, err)
		return nil, err
	}

	log.Printf("[ModuleService] Создан модуль #%d '%s'", module.ID, module.Title)
	return module, nil
}

// Update обновляет поля модуля
func (s *ModuleService) Update(moduleID uint, title, description string, position int, isPublished bool) (*entity.Module, error) {
	module, err := s.moduleRepo.GetByID(moduleID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		module.Title = title
	}
	module.Description = description
	module.Position = position
	module.IsPublished = isPublished

	if err := s.moduleRepo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

// Delete удаляет модуль вместе с его секциями и вопросами (каскад в БД)
func (s *ModuleService) Delete(moduleID uint) error {
	if _, err := s.moduleRepo.GetByID(moduleID); err != nil {
		return err
	}
	return s.moduleRepo.Delete(moduleID)
}
