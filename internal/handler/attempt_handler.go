package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	"github.com/yourusername/elearning-api/internal/handler/dto"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
	"github.com/yourusername/elearning-api/internal/service"
	"github.com/yourusername/elearning-api/pkg/auth"
)

// AttemptHandler обрабатывает запросы прохождения тестов
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// SubmitAttempt принимает и оценивает попытку прохождения
// POST /api/quizzes/:id/attempts
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req dto.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attempt, err := h.attemptService.SubmitAttempt(quizID, userID, req.ToEntity(), req.StartedAt)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewAttemptResponse(attempt, true))
}

// GetMyAttempts возвращает попытки текущего пользователя для теста
// GET /api/quizzes/:id/attempts/my
func (h *AttemptHandler) GetMyAttempts(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	userID := c.MustGet("user_id").(uint)

	attempts, err := h.attemptService.GetUserAttempts(quizID, userID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	remaining, err := h.attemptService.RemainingAttempts(quizID, userID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	items := make([]dto.AttemptResponse, 0, len(attempts))
	for i := range attempts {
		items = append(items, dto.NewAttemptResponse(&attempts[i], true))
	}

	c.JSON(http.StatusOK, gin.H{
		"attempts":  items,
		"remaining": remaining,
	})
}

// ListQuizAttempts возвращает попытки теста с пагинацией (админский обзор)
// GET /api/quizzes/:id/attempts?page=1&per_page=20
func (h *AttemptHandler) ListQuizAttempts(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	page, perPage := paginationParams(c)

	attempts, total, err := h.attemptService.ListQuizAttempts(quizID, page, perPage)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedAttemptResponse(attempts, total, page, perPage))
}

// GetAttempt возвращает одну попытку по публичному UUID
// GET /api/attempts/:public_id
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	publicID := c.Param("public_id")

	attempt, err := h.attemptService.GetAttempt(publicID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	// Ученик видит только собственные попытки
	if c.GetString("role") != auth.RoleAdmin && attempt.UserID != c.MustGet("user_id").(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt, true))
}

// ExportAttempts экспортирует попытки теста в CSV или Excel формате
// GET /api/quizzes/:id/attempts/export?format=csv|xlsx
func (h *AttemptHandler) ExportAttempts(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	format := c.DefaultQuery("format", "csv")

	// Все попытки без пагинации
	attempts, err := h.attemptService.GetQuizAttemptsAll(quizID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz_%d_attempts_%s", quizID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, attempts, filename)
	default:
		h.exportCSV(c, attempts, filename)
	}
}

// exportCSV экспортирует попытки в CSV с правильным экранированием спецсимволов
func (h *AttemptHandler) exportCSV(c *gin.Context, attempts []entity.QuizAttempt, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Попытка", "Пользователь", "Результат (%)", "Пройден", "Начата", "Завершена"})

	for _, a := range attempts {
		passed := "Нет"
		if a.Passed {
			passed = "Да"
		}
		writer.Write([]string{
			sanitizeForExcel(a.PublicID),
			strconv.FormatUint(uint64(a.UserID), 10),
			strconv.Itoa(a.Score),
			passed,
			a.StartedAt.Format(time.RFC3339),
			a.CompletedAt.Format(time.RFC3339),
		})
	}
}

// exportXLSX экспортирует попытки в Excel с использованием StreamWriter
func (h *AttemptHandler) exportXLSX(c *gin.Context, attempts []entity.QuizAttempt, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Попытки"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AttemptHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Попытка", "Пользователь", "Результат (%)", "Пройден", "Начата", "Завершена"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[AttemptHandler] Ошибка записи заголовков: %v", err)
	}

	for i, a := range attempts {
		rowNum := i + 2
		cell := fmt.Sprintf("A%d", rowNum)

		passed := "Нет"
		if a.Passed {
			passed = "Да"
		}

		row := []interface{}{
			sanitizeForExcel(a.PublicID),
			a.UserID,
			a.Score,
			passed,
			a.StartedAt.Format(time.RFC3339),
			a.CompletedAt.Format(time.RFC3339),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[AttemptHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AttemptHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AttemptHandler] Ошибка записи Excel в response: %v", err)
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

// handleAttemptError обрабатывает ошибки сервиса попыток и отправляет HTTP ответ
func (h *AttemptHandler) handleAttemptError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in AttemptHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
