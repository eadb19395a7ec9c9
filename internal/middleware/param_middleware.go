package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam извлекает числовой параметр URL и кладет его в контекст Gin.
// paramName — имя параметра маршрута (например, "id"), contextKey — ключ
// контекста, под которым хендлеры заберут значение.
// Невалидное значение обрывает цепочку с ответом 400.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", paramName)})
			c.Abort()
			return
		}
		// Хендлеры ожидают uint, а не uint64
		c.Set(contextKey, uint(parsed))
		c.Next()
	}
}
