package dto

import (
	"time"

	"github.com/yourusername/secaware-api/internal/domain/entity"
)

// ResultResponse представляет результат теста в формате для ответа клиенту
type ResultResponse struct {
	ID             uint      `json:"id"`
	AttemptID      string    `json:"attempt_id"`
	UserID         uint      `json:"user_id"`
	SectionID      uint      `json:"section_id"`
	Username       string    `json:"username"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"`
	Passed         bool      `json:"passed"`
	XPAwarded      int       `json:"xp_awarded"`
	CompletedAt    time.Time `json:"completed_at"`
}

// PaginatedResultResponse представляет пагинированный список результатов
type PaginatedResultResponse struct {
	Results []*ResultResponse `json:"results"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

// NewResultResponse создает DTO для результата
func NewResultResponse(result *entity.QuizResult) *ResultResponse {
	if result == nil {
		return nil
	}
	return &ResultResponse{
		ID:             result.ID,
		AttemptID:      result.AttemptID,
		UserID:         result.UserID,
		SectionID:      result.SectionID,
		Username:       result.Username,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
		Percentage:     result.Percentage,
		Passed:         result.Passed,
		XPAwarded:      result.XPAwarded,
		CompletedAt:    result.CompletedAt,
	}
}

// NewPaginatedResultResponse создает пагинированный DTO результатов
func NewPaginatedResultResponse(results []entity.QuizResult, total int64, page, pageSize int) *PaginatedResultResponse {
	dtos := make([]*ResultResponse, len(results))
	for i := range results {
		dtos[i] = NewResultResponse(&results[i])
	}
	return &PaginatedResultResponse{
		Results: dtos,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}
}
