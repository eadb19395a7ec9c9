package dto

import (
	"github.com/yourusername/secaware-api/internal/service/attemptengine"
)

// AttemptQuestionDTO представляет текущий вопрос попытки.
// Индекс правильного варианта намеренно отсутствует: он раскрывается
// отдельным ответом только после отправки.
type AttemptQuestionDTO struct {
	ID      uint     `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// AttemptStateResponse представляет состояние попытки для клиента
type AttemptStateResponse struct {
	AttemptID       string              `json:"attempt_id"`
	SectionID       uint                `json:"section_id"`
	ModuleID        uint                `json:"module_id"`
	Status          string              `json:"status"`
	CurrentPosition int                 `json:"current_position"`
	TotalQuestions  int                 `json:"total_questions"`
	CorrectCount    int                 `json:"correct_count"`
	Question        *AttemptQuestionDTO `json:"question,omitempty"`
	SelectedAnswer  string              `json:"selected_answer,omitempty"`
}

// NewAttemptStateResponse создает DTO из снимка состояния попытки
func NewAttemptStateResponse(snap *attemptengine.AttemptSnapshot) *AttemptStateResponse {
	if snap == nil {
		return nil
	}

	resp := &AttemptStateResponse{
		AttemptID:       snap.AttemptID,
		SectionID:       snap.SectionID,
		ModuleID:        snap.ModuleID,
		Status:          string(snap.Status),
		CurrentPosition: snap.CurrentPosition,
		TotalQuestions:  snap.TotalQuestions,
		CorrectCount:    snap.CorrectCount,
	}

	if snap.CurrentPosition >= 0 && snap.CurrentPosition < len(snap.Questions) {
		current := snap.Questions[snap.CurrentPosition]
		resp.Question = &AttemptQuestionDTO{
			ID:      current.Question.ID,
			Text:    current.Question.Text,
			Options: current.Options,
		}
		resp.SelectedAnswer = snap.Answers[snap.CurrentPosition]
	}

	return resp
}

// SubmitAnswerResponse раскрывает итог отправки ответа
type SubmitAnswerResponse struct {
	Correct       bool   `json:"correct"`
	CorrectIndex  int    `json:"correct_index"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
	CorrectCount  int    `json:"correct_count"`
}

// NewSubmitAnswerResponse создает DTO из результата отправки
func NewSubmitAnswerResponse(result *attemptengine.SubmitResult) *SubmitAnswerResponse {
	if result == nil {
		return nil
	}
	return &SubmitAnswerResponse{
		Correct:       result.Correct,
		CorrectIndex:  result.CorrectIndex,
		CorrectAnswer: result.CorrectAnswer,
		Explanation:   result.Explanation,
		CorrectCount:  result.CorrectCount,
	}
}

// CompletionResponse представляет итог завершённой попытки
type CompletionResponse struct {
	AttemptID      string `json:"attempt_id"`
	ModuleID       uint   `json:"module_id"`
	Percentage     int    `json:"percentage"`
	Passed         bool   `json:"passed"`
	XPAwarded      int    `json:"xp_awarded"`
	CorrectAnswers int    `json:"correct_answers"`
	TotalQuestions int    `json:"total_questions"`
	Recorded       bool   `json:"recorded"`
	TotalXP        int64  `json:"total_xp,omitempty"`
	Level          int    `json:"level,omitempty"`
}

// NewCompletionResponse создает DTO из итога завершения
func NewCompletionResponse(completion *attemptengine.CompletionResult) *CompletionResponse {
	if completion == nil {
		return nil
	}
	return &CompletionResponse{
		AttemptID:      completion.AttemptID,
		ModuleID:       completion.ModuleID,
		Percentage:     completion.Summary.Percentage,
		Passed:         completion.Summary.Passed,
		XPAwarded:      completion.Summary.XPAwarded,
		CorrectAnswers: completion.CorrectAnswers,
		TotalQuestions: completion.TotalQuestions,
		Recorded:       completion.Recorded,
		TotalXP:        completion.TotalXP,
		Level:          completion.Level,
	}
}

// AdvanceResponse — либо следующий вопрос, либо итог завершения
type AdvanceResponse struct {
	Completed  bool                  `json:"completed"`
	State      *AttemptStateResponse `json:"state,omitempty"`
	Completion *CompletionResponse   `json:"completion,omitempty"`
}
