package dto

import (
	"time"

	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// SectionSummary представляет секцию в списке модуля (без контента)
type SectionSummary struct {
	ID          uint   `json:"id"`
	ModuleID    uint   `json:"module_id"`
	Title       string `json:"title"`
	Position    int    `json:"position"`
	IsPublished bool   `json:"is_published"`
	HasQuiz     bool   `json:"has_quiz"`
}

// ModuleResponse представляет модуль в формате для ответа клиенту
type ModuleResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Position    int              `json:"position"`
	IsPublished bool             `json:"is_published"`
	Sections    []SectionSummary `json:"sections,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// SectionResponse представляет секцию с учебным контентом.
// Вопросы отдаются без правильных ответов и объяснений: они раскрываются
// только движком попыток после отправки ответа.
type SectionResponse struct {
	ID            uint      `json:"id"`
	ModuleID      uint      `json:"module_id"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Position      int       `json:"position"`
	IsPublished   bool      `json:"is_published"`
	HasQuiz       bool      `json:"has_quiz"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewModuleResponse создает DTO для модуля
func NewModuleResponse(module *entity.Module, includeSections bool) *ModuleResponse {
	if module == nil {
		return nil
	}

	var sections []SectionSummary
	if includeSections {
		sections = make([]SectionSummary, len(module.Sections))
		for i, s := range module.Sections {
			sections[i] = SectionSummary{
				ID:          s.ID,
				ModuleID:    s.ModuleID,
				Title:       s.Title,
				Position:    s.Position,
				IsPublished: s.IsPublished,
				HasQuiz:     s.HasQuiz(),
			}
		}
	}

	return &ModuleResponse{
		ID:          module.ID,
		Title:       module.Title,
		Description: module.Description,
		Position:    module.Position,
		IsPublished: module.IsPublished,
		Sections:    sections,
		CreatedAt:   module.CreatedAt,
		UpdatedAt:   module.UpdatedAt,
	}
}

// NewListModuleResponse создает список DTO модулей
func NewListModuleResponse(modules []entity.Module) []*ModuleResponse {
	responses := make([]*ModuleResponse, len(modules))
	for i := range modules {
		responses[i] = NewModuleResponse(&modules[i], false)
	}
	return responses
}

// NewSectionResponse создает DTO для секции
func NewSectionResponse(section *entity.Section) *SectionResponse {
	if section == nil {
		return nil
	}
	return &SectionResponse{
		ID:            section.ID,
		ModuleID:      section.ModuleID,
		Title:         section.Title,
		Body:          section.Body,
		Position:      section.Position,
		IsPublished:   section.IsPublished,
		HasQuiz:       section.HasQuiz(),
		QuestionCount: len(section.Questions),
		CreatedAt:     section.CreatedAt,
		UpdatedAt:     section.UpdatedAt,
	}
}
