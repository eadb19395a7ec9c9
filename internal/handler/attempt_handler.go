package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/secaware-api/internal/handler/dto"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
	"github.com/yourusername/secaware-api/internal/service/attemptengine"
)

// AttemptHandler обрабатывает запросы попыток прохождения тестов
type AttemptHandler struct {
	engine *attemptengine.AttemptEngine
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(engine *attemptengine.AttemptEngine) *AttemptHandler {
	return &AttemptHandler{engine: engine}
}

// handleAttemptError переводит ошибки движка попыток в HTTP статусы.
// Нарушения порядка действий (повторная отправка, переход без отправки)
// — это конфликт состояния, а не внутренняя ошибка.
func (h *AttemptHandler) handleAttemptError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attemptengine.ErrNoActiveAttempt):
		c.JSON(http.StatusNotFound, gin.H{"error": "Активная попытка не найдена", "error_type": "no_active_attempt"})
	case errors.Is(err, attemptengine.ErrNoQuestions):
		c.JSON(http.StatusNotFound, gin.H{"error": "Для этой секции тест недоступен", "error_type": "no_questions"})
	case errors.Is(err, attemptengine.ErrAttemptCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Попытка уже завершена", "error_type": "attempt_completed"})
	case errors.Is(err, attemptengine.ErrAnswerAlreadySubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": "Ответ на текущий вопрос уже отправлен", "error_type": "answer_already_submitted"})
	case errors.Is(err, attemptengine.ErrNoAnswerSelected):
		c.JSON(http.StatusConflict, gin.H{"error": "Сначала выберите вариант ответа", "error_type": "no_answer_selected"})
	case errors.Is(err, attemptengine.ErrAnswerNotSubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": "Сначала отправьте ответ на текущий вопрос", "error_type": "answer_not_submitted"})
	case errors.Is(err, attemptengine.ErrUnknownOption):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Выбранный вариант отсутствует среди предложенных", "error_type": "unknown_option"})
	default:
		handleServiceError(c, err)
	}
}

// attemptContext извлекает пользователя и секцию текущего запроса
func (h *AttemptHandler) attemptContext(c *gin.Context) (userID, sectionID uint, ok bool) {
	userID, ok = currentUserID(c)
	if !ok {
		handleServiceError(c, apperrors.ErrUnauthorized)
		return 0, 0, false
	}
	sectionID = c.MustGet("sectionID").(uint)
	return userID, sectionID, true
}

// StartAttempt открывает (или пересоздаёт) попытку с восстановлением черновика
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	userID, sectionID, ok := h.attemptContext(c)
	if !ok {
		return
	}

	snap, err := h.engine.StartAttempt(userID, sectionID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptStateResponse(snap))
}

// GetAttempt возвращает состояние живой попытки
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	userID, sectionID, ok := h.attemptContext(c)
	if !ok {
		return
	}

	snap, err := h.engine.Get(userID, sectionID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptStateResponse(snap))
}

// SelectAnswerRequest представляет выбор варианта ответа
type SelectAnswerRequest struct {
	Answer string `json:"answer" binding:"required,max=500"`
}

// SelectAnswer записывает выбор ответа на текущем вопросе
func (h *AttemptHandler) SelectAnswer(c *gin.Context) {
	userID, sectionID, ok := h.attemptContext(c)
	if !ok {
		return
	}

	var req SelectAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.engine.SelectAnswer(userID, sectionID, req.Answer)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptStateResponse(snap))
}

// SubmitAnswer фиксирует ответ и раскрывает правильность с объяснением
func (h *AttemptHandler) SubmitAnswer(c *gin.Context) {
	userID, sectionID, ok := h.attemptContext(c)
	if !ok {
		return
	}

	result, err := h.engine.SubmitAnswer(userID, sectionID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSubmitAnswerResponse(result))
}

// Advance переходит к следующему вопросу либо завершает попытку
func (h *AttemptHandler) Advance(c *gin.Context) {
	userID, sectionID, ok := h.attemptContext(c)
	if !ok {
		return
	}

	result, err := h.engine.Advance(userID, sectionID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AdvanceResponse{
		Completed:  result.Completed,
		State:      dto.NewAttemptStateResponse(result.State),
		Completion: dto.NewCompletionResponse(result.Completion),
	})
}

// Retry начинает попытку заново: черновик и счётчики сбрасываются
func (h *AttemptHandler) Retry(c *gin.Context) {
	userID, sectionID, ok := h.attemptContext(c)
	if !ok {
		return
	}

	snap, err := h.engine.Retry(userID, sectionID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptStateResponse(snap))
}

// Suspend выгружает попытку со страховочной записью черновика
// (клиент вызывает при закрытии вкладки)
func (h *AttemptHandler) Suspend(c *gin.Context) {
	userID, sectionID, ok := h.attemptContext(c)
	if !ok {
		return
	}

	h.engine.Suspend(userID, sectionID)
	c.JSON(http.StatusOK, gin.H{"message": "Attempt suspended"})
}
