package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/elearning-api/internal/handler/dto"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
	"github.com/yourusername/elearning-api/internal/service"
	"github.com/yourusername/elearning-api/internal/service/ordering"
)

// LessonHandler обрабатывает запросы порядка уроков
type LessonHandler struct {
	lessonService *service.LessonService
}

// NewLessonHandler создает новый обработчик уроков
func NewLessonHandler(lessonService *service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// GetChapterLessons возвращает уроки главы в порядке позиций
// GET /api/chapters/:id/lessons
func (h *LessonHandler) GetChapterLessons(c *gin.Context) {
	chapterID := c.MustGet("chapterID").(uint)

	lessons, err := h.lessonService.GetChapterLessons(chapterID)
	if err != nil {
		h.handleLessonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

// ReorderLessons переставляет уроки главы.
// Тело: ordered_ids, positions или policy — ровно один способ.
// PUT /api/chapters/:id/lessons/order
func (h *LessonHandler) ReorderLessons(c *gin.Context) {
	chapterID := c.MustGet("chapterID").(uint)

	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var siblings []ordering.Sibling
	var err error
	switch {
	case len(req.OrderedIDs) > 0:
		siblings, err = h.lessonService.ReorderLessons(chapterID, req.OrderedIDs)
	case len(req.Positions) > 0:
		siblings, err = h.lessonService.ReorderLessonsWithPositions(chapterID, req.Positions)
	case req.Policy != "":
		var policy ordering.Policy
		policy, err = ordering.ParsePolicy(req.Policy)
		if err == nil {
			siblings, err = h.lessonService.ApplyLessonPolicy(chapterID, policy)
		}
	default:
		err = fmt.Errorf("%w: one of ordered_ids, positions or policy is required", apperrors.ErrValidation)
	}
	if err != nil {
		h.handleLessonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lessons": dto.NewReorderResponse(siblings)})
}

// handleLessonError обрабатывает ошибки сервиса уроков и отправляет HTTP ответ
func (h *LessonHandler) handleLessonError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in LessonHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
