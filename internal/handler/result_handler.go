package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/secaware-api/internal/domain/entity"
	"github.com/yourusername/secaware-api/internal/handler/dto"
	apperrors "github.com/yourusername/secaware-api/internal/pkg/errors"
	"github.com/yourusername/secaware-api/internal/service"
)

// ResultHandler обрабатывает запросы результатов тестов
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler создает новый обработчик результатов
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// GetMyResults возвращает пагинированную историю результатов пользователя
func (h *ResultHandler) GetMyResults(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		handleServiceError(c, apperrors.ErrUnauthorized)
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	results, total, err := h.resultService.GetUserResults(userID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResultResponse(results, total, page, pageSize))
}

// GetMyBestResult возвращает лучший результат пользователя по секции
func (h *ResultHandler) GetMyBestResult(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		handleServiceError(c, apperrors.ErrUnauthorized)
		return
	}
	sectionID := c.MustGet("sectionID").(uint)

	result, err := h.resultService.GetBestUserResult(userID, sectionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResultResponse(result))
}

// GetSectionResults возвращает все результаты секции (админка)
func (h *ResultHandler) GetSectionResults(c *gin.Context) {
	sectionID := c.MustGet("sectionID").(uint)

	results, _, err := h.resultService.GetSectionResults(sectionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response := make([]*dto.ResultResponse, len(results))
	for i := range results {
		response[i] = dto.NewResultResponse(&results[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"results": response,
		"total":   len(results),
	})
}

// ExportSectionResults экспортирует результаты секции в CSV или Excel формате
// GET /api/admin/sections/:id/results/export?format=csv|xlsx
func (h *ResultHandler) ExportSectionResults(c *gin.Context) {
	sectionID := c.MustGet("sectionID").(uint)
	format := c.DefaultQuery("format", "csv")

	results, _, err := h.resultService.GetSectionResults(sectionID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("section_%d_results_%s", sectionID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	default:
		h.exportCSV(c, results, filename)
	}
}

var exportHeaders = []string{"Пользователь", "Правильных", "Всего вопросов", "Процент", "Сдан", "Начислено XP", "Завершено"}

// exportRow собирает строку экспорта для одного результата
func exportRow(r *entity.QuizResult) []string {
	passed := "Нет"
	if r.Passed {
		passed = "Да"
	}
	return []string{
		sanitizeForExcel(r.Username),
		strconv.Itoa(r.CorrectAnswers),
		strconv.Itoa(r.TotalQuestions),
		strconv.Itoa(r.Percentage),
		passed,
		strconv.Itoa(r.XPAwarded),
		r.CompletedAt.Format(time.RFC3339),
	}
}

// exportCSV экспортирует результаты в CSV с правильным экранированием спецсимволов
func (h *ResultHandler) exportCSV(c *gin.Context, results []entity.QuizResult, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range results {
		writer.Write(exportRow(&results[i]))
	}
}

// exportXLSX экспортирует результаты в Excel с использованием StreamWriter
func (h *ResultHandler) exportXLSX(c *gin.Context, results []entity.QuizResult, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ResultHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, hdr := range exportHeaders {
		headers[i] = hdr
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ResultHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range results {
		rowNum := i + 2 // Начинаем со 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		cols := exportRow(&results[i])
		row := make([]interface{}, len(cols))
		for j, v := range cols {
			row[j] = v
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ResultHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ResultHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ResultHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
