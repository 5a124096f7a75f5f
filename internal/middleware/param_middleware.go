package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExtractUintParam разбирает числовой параметр пути и кладет его в контекст
// Gin под ключом contextKey как uint. Нечисловое или отрицательное значение
// обрывает запрос с 400 до входа в обработчик.
func ExtractUintParam(paramName, contextKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Param(paramName)
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid %s: %q is not a positive integer", paramName, raw),
			})
			return
		}
		c.Set(contextKey, uint(id))
		c.Next()
	}
}
