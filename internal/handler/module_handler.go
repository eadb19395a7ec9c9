package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	"github.com/yourusername/secaware-api/internal/handler/dto"
	"github.com/yourusername/secaware-api/internal/service"
)

// ModuleHandler обрабатывает запросы каталога модулей и секций
type ModuleHandler struct {
	moduleService  *service.ModuleService
	sectionService *service.SectionService
}

// NewModuleHandler создает новый обработчик каталога
func NewModuleHandler(moduleService *service.ModuleService, sectionService *service.SectionService) *ModuleHandler {
	return &ModuleHandler{
		moduleService:  moduleService,
		sectionService: sectionService,
	}
}

// ListModules возвращает опубликованные модули курса
func (h *ModuleHandler) ListModules(c *gin.Context) {
	modules, err := h.moduleService.ListPublished()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListModuleResponse(modules))
}

// ListAllModules возвращает пагинированный список всех модулей (админка)
func (h *ModuleHandler) ListAllModules(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	modules, total, err := h.moduleService.List(page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"modules": dto.NewListModuleResponse(modules),
		"total":   total,
		"page":    page,
		"size":    pageSize,
	})
}

// GetModule возвращает модуль вместе с его секциями
func (h *ModuleHandler) GetModule(c *gin.Context) {
	moduleID := c.MustGet("moduleID").(uint) // Получаем из контекста

	module, err := h.moduleService.GetWithSections(moduleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewModuleResponse(module, true))
}

// GetSection возвращает секцию с учебным контентом
func (h *ModuleHandler) GetSection(c *gin.Context) {
	sectionID := c.MustGet("sectionID").(uint) // Получаем из контекста

	section, err := h.sectionService.GetSection(sectionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSectionResponse(section))
}

// CreateModuleRequest представляет запрос на создание модуля
type CreateModuleRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Position    int    `json:"position" binding:"omitempty,min=0"`
}

// CreateModule обрабатывает запрос на создание модуля
func (h *ModuleHandler) CreateModule(c *gin.Context) {
	var req CreateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	module, err := h.moduleService.Create(req.Title, req.Description, req.Position)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewModuleResponse(module, false))
}

// UpdateModuleRequest представляет запрос на обновление модуля
type UpdateModuleRequest struct {
	Title       string `json:"title" binding:"omitempty,min=3,max=200"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Position    int    `json:"position" binding:"omitempty,min=0"`
	IsPublished bool   `json:"is_published"`
}

// UpdateModule обрабатывает запрос на обновление модуля
func (h *ModuleHandler) UpdateModule(c *gin.Context) {
	moduleID := c.MustGet("moduleID").(uint)

	var req UpdateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	module, err := h.moduleService.Update(moduleID, req.Title, req.Description, req.Position, req.IsPublished)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewModuleResponse(module, false))
}

// DeleteModule обрабатывает запрос на удаление модуля
func (h *ModuleHandler) DeleteModule(c *gin.Context) {
	moduleID := c.MustGet("moduleID").(uint)

	if err := h.moduleService.Delete(moduleID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Module deleted successfully"})
}

// CreateSectionRequest представляет запрос на создание секции
type CreateSectionRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=200"`
	Body     string `json:"body" binding:"omitempty"`
	Position int    `json:"position" binding:"omitempty,min=0"`
}

// CreateSection обрабатывает запрос на создание секции в модуле
func (h *ModuleHandler) CreateSection(c *gin.Context) {
	moduleID := c.MustGet("moduleID").(uint)

	var req CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.sectionService.Create(moduleID, req.Title, req.Body, req.Position)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSectionResponse(section))
}

// UpdateSectionRequest представляет запрос на обновление секции
type UpdateSectionRequest struct {
	Title       string `json:"title" binding:"omitempty,min=3,max=200"`
	Body        string `json:"body" binding:"omitempty"`
	Position    int    `json:"position" binding:"omitempty,min=0"`
	IsPublished bool   `json:"is_published"`
}

// UpdateSection обрабатывает запрос на обновление секции
func (h *ModuleHandler) UpdateSection(c *gin.Context) {
	sectionID := c.MustGet("sectionID").(uint)

	var req UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, err := h.sectionService.Update(sectionID, req.Title, req.Body, req.Position, req.IsPublished)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSectionResponse(section))
}

// DeleteSection обрабатывает запрос на удаление секции
func (h *ModuleHandler) DeleteSection(c *gin.Context) {
	sectionID := c.MustGet("sectionID").(uint)

	if err := h.sectionService.Delete(sectionID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Section deleted successfully"})
}

// AddQuestionsRequest представляет запрос на добавление вопросов к секции
type AddQuestionsRequest struct {
	Questions []struct {
		Text          string   `json:"text" binding:"required,min=3,max=1000"`
		Options       []string `json:"options" binding:"required,min=2,max=6"`
		CorrectAnswer string   `json:"correct_answer" binding:"required,max=500"`
		Explanation   string   `json:"explanation" binding:"omitempty,max=2000"`
	} `json:"questions" binding:"required,min=1"`
}

// AddQuestions обрабатывает запрос на добавление вопросов к секции
func (h *ModuleHandler) AddQuestions(c *gin.Context) {
	sectionID := c.MustGet("sectionID").(uint)

	var req AddQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Преобразуем данные в формат для сервиса
	questions := make([]entity.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, entity.Question{
			Text:          q.Text,
			Options:       entity.StringArray(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	if err := h.sectionService.AddQuestions(sectionID, questions); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Questions added successfully"})
}

// UpdateQuestionRequest представляет запрос на обновление вопроса
type UpdateQuestionRequest struct {
	Text          string   `json:"text" binding:"required,min=3,max=1000"`
	Options       []string `json:"options" binding:"required,min=2,max=6"`
	CorrectAnswer string   `json:"correct_answer" binding:"required,max=500"`
	Explanation   string   `json:"explanation" binding:"omitempty,max=2000"`
}

// UpdateQuestion обрабатывает запрос на обновление вопроса
func (h *ModuleHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.sectionService.UpdateQuestion(questionID, &entity.Question{
		Text:          req.Text,
		Options:       entity.StringArray(req.Options),
		CorrectAnswer: req.CorrectAnswer,
		Explanation:   req.Explanation,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion обрабатывает запрос на удаление вопроса
func (h *ModuleHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.sectionService.DeleteQuestion(questionID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted successfully"})
}
