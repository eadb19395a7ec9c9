package service

import (
	"fmt"
	"log"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	"github.com/yourusername/secaware-api/internal/domain/repository"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
)

// SectionService предоставляет методы для работы с секциями и их вопросами
type SectionService struct {
	sectionRepo  repository.SectionRepository
	questionRepo repository.QuestionRepository
	moduleRepo   repository.ModuleRepository
}

// NewSectionService создает новый сервис секций
func NewSectionService(
	sectionRepo repository.SectionRepository,
	questionRepo repository.QuestionRepository,
	moduleRepo repository.ModuleRepository,
) *SectionService {
	return &SectionService{
		sectionRepo:  sectionRepo,
		questionRepo: questionRepo,
		moduleRepo:   moduleRepo,
	}
}

// GetSection возвращает секцию с учебным контентом и вопросами.
// Правильные ответы и объяснения скрываются на уровне сериализации entity.
func (s *SectionService) GetSection(sectionID uint) (*entity.Section, error) {
	return s.sectionRepo.GetWithQuestions(sectionID)
}

// ListByModule возвращает секции модуля в исходном порядке
func (s *SectionService) ListByModule(moduleID uint) ([]entity.Section, error) {
	if _, err := s.moduleRepo.GetByID(moduleID); err != nil {
		return nil, err
	}
	return s.sectionRepo.ListByModule(moduleID)
}

// Create создает секцию в модуле
func (s *SectionService) Create(moduleID uint, title, body string, position int) (*entity.Section, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: название секции обязательно", apperrors.ErrValidation)
	}
	// Модуль должен существовать
	if _, err := s.moduleRepo.GetByID(moduleID); err != nil {
		return nil, err
	}

	section := &entity.Section{
		ModuleID: moduleID,
		Title:    title,
		Body:     body,
		Position: position,
	}
	if err := s.sectionRepo.Create(section); err != nil {
		log.Printf("[SectionService] Ошибка создания секции '%s' в модуле #%d: %v", title, moduleID, err)
		return nil, err
	}

	log.Printf("[SectionService] Создана секция #%d '%s' (модуль #%d)", section.ID, section.Title, moduleID)
	return section, nil
}

// Update обновляет поля секции
func (s *SectionService) Update(sectionID uint, title, body string, position int, isPublished bool) (*entity.Section, error) {
	section, err := s.sectionRepo.GetByID(sectionID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		section.Title = title
	}
	section.Body = body
	section.Position = position
	section.IsPublished = isPublished

	if err := s.sectionRepo.Update(section); err != nil {
		return nil, err
	}
	return section, nil
}

// Delete удаляет секцию вместе с её вопросами (каскад в БД)
func (s *SectionService) Delete(sectionID uint) error {
	if _, err := s.sectionRepo.GetByID(sectionID); err != nil {
		return err
	}
	return s.sectionRepo.Delete(sectionID)
}

// AddQuestions добавляет пакет вопросов к секции.
// Каждый вопрос валидируется: правильный ответ обязан присутствовать
// среди вариантов, иначе его невозможно будет засчитать.
func (s *SectionService) AddQuestions(sectionID uint, questions []entity.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: список вопросов пуст", apperrors.ErrValidation)
	}

	section, err := s.sectionRepo.GetWithQuestions(sectionID)
	if err != nil {
		return err
	}

	// Продолжаем нумерацию позиций после существующих вопросов
	nextPosition := len(section.Questions)
	for i := range questions {
		q := &questions[i]
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: вопрос '%s' должен иметь минимум два варианта", apperrors.ErrValidation, q.Text)
		}
		if !q.HasOption(q.CorrectAnswer) {
			return fmt.Errorf("%w: правильный ответ вопроса '%s' отсутствует среди вариантов", apperrors.ErrValidation, q.Text)
		}
		q.SectionID = sectionID
		q.Position = nextPosition + i
	}

	if err := s.questionRepo.CreateBatch(questions); err != nil {
		log.Printf("[SectionService] Ошибка пакетного создания вопросов для секции #%d: %v", sectionID, err)
		return err
	}

	log.Printf("[SectionService] К секции #%d добавлено вопросов: %d", sectionID, len(questions))
	return nil
}

// UpdateQuestion обновляет вопрос с той же валидацией, что и при создании
func (s *SectionService) UpdateQuestion(questionID uint, question *entity.Question) (*entity.Question, error) {
	existing, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}

	if len(question.Options) < 2 {
		return nil, fmt.Errorf("%w: вопрос должен иметь минимум два варианта", apperrors.ErrValidation)
	}
	if !question.HasOption(question.CorrectAnswer) {
		return nil, fmt.Errorf("%w: правильный ответ отсутствует среди вариантов", apperrors.ErrValidation)
	}

	existing.Text = question.Text
	existing.Options = question.Options
	existing.CorrectAnswer = question.CorrectAnswer
	existing.Explanation = question.Explanation

	if err := s.questionRepo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteQuestion удаляет вопрос
func (s *SectionService) DeleteQuestion(questionID uint) error {
	if _, err := s.questionRepo.GetByID(questionID); err != nil {
		return err
	}
	return s.questionRepo.Delete(questionID)
}
