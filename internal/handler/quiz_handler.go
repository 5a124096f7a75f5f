package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/elearning-api/internal/handler/dto"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
	"github.com/yourusername/elearning-api/internal/service"
	"github.com/yourusername/elearning-api/internal/service/ordering"
	"github.com/yourusername/elearning-api/internal/service/validation"
	"github.com/yourusername/elearning-api/pkg/auth"
)

// QuizHandler обрабатывает авторские запросы к тестам
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler создает новый обработчик тестов
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// CreateQuiz создает тест для урока
// POST /api/lessons/:id/quiz
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	lessonID := c.MustGet("lessonID").(uint)

	var req dto.QuizInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quiz := req.ToEntity()
	result, err := h.quizService.CreateQuiz(lessonID, quiz)
	if err != nil {
		h.handleQuizError(c, err, result)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"quiz":     dto.NewQuizResponse(quiz, true),
		"warnings": result.Warnings,
	})
}

// GetQuiz возвращает тест без вопросов
// GET /api/quizzes/:id
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetQuiz(quizID)
	if err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, false))
}

// GetQuizWithQuestions возвращает тест с вопросами и ответами.
// Правильность ответов и объяснения видны только администратору.
// GET /api/quizzes/:id/with-questions
func (h *QuizHandler) GetQuizWithQuestions(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	quiz, err := h.quizService.GetQuizWithQuestions(quizID)
	if err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	revealCorrect := c.GetString("role") == auth.RoleAdmin
	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, revealCorrect))
}

// GetLessonQuiz возвращает тест, прикрепленный к уроку
// GET /api/lessons/:id/quiz
func (h *QuizHandler) GetLessonQuiz(c *gin.Context) {
	lessonID := c.MustGet("lessonID").(uint)

	quiz, err := h.quizService.GetQuizByLessonID(lessonID)
	if err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, false))
}

// ListQuizzes возвращает список тестов с пагинацией
// GET /api/quizzes?page=1&per_page=20
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	page, perPage := paginationParams(c)

	quizzes, total, err := h.quizService.ListQuizzes(page, perPage)
	if err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedQuizResponse(quizzes, total, page, perPage))
}

// ReplaceQuiz атомарно заменяет поля и структуру теста
// PUT /api/quizzes/:id
func (h *QuizHandler) ReplaceQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req dto.QuizInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields := req.ToEntity()
	result, err := h.quizService.ReplaceQuiz(quizID, fields, fields.Questions)
	if err != nil {
		h.handleQuizError(c, err, result)
		return
	}

	quiz, err := h.quizService.GetQuizWithQuestions(quizID)
	if err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quiz":     dto.NewQuizResponse(quiz, true),
		"warnings": result.Warnings,
	})
}

// DeleteQuiz удаляет тест
// DELETE /api/quizzes/:id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	if err := h.quizService.DeleteQuiz(quizID); err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}

// ValidatePublication прогоняет проверки готовности к публикации
// POST /api/quizzes/:id/validate-publication
func (h *QuizHandler) ValidatePublication(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	result, err := h.quizService.ValidateForPublication(quizID)
	if err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddQuestion добавляет вопрос в конец теста
// POST /api/quizzes/:id/questions
func (h *QuizHandler) AddQuestion(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req dto.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := req.ToEntity()
	result, err := h.quizService.AddQuestion(quizID, question)
	if err != nil {
		h.handleQuizError(c, err, result)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"question": dto.NewQuestionResponse(question, true),
		"warnings": result.Warnings,
	})
}

// ReplaceQuestion заменяет поля и ответы вопроса
// PUT /api/questions/:id
func (h *QuizHandler) ReplaceQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req dto.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quizService.ReplaceQuestion(questionID, req.ToEntity())
	if err != nil {
		h.handleQuizError(c, err, result)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Question replaced",
		"warnings": result.Warnings,
	})
}

// DeleteQuestion удаляет вопрос
// DELETE /api/questions/:id
func (h *QuizHandler) DeleteQuestion(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	if err := h.quizService.DeleteQuestion(questionID); err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// ReplaceAnswersRequest представляет запрос на замену набора ответов
type ReplaceAnswersRequest struct {
	Answers []dto.AnswerInput `json:"answers" binding:"required,max=10,dive"`
}

// ReplaceAnswers заменяет набор ответов вопроса
// PUT /api/questions/:id/answers
func (h *QuizHandler) ReplaceAnswers(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req ReplaceAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quizService.ReplaceAnswers(questionID, dto.AnswersToEntity(req.Answers))
	if err != nil {
		h.handleQuizError(c, err, result)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Answers replaced",
		"warnings": result.Warnings,
	})
}

// DeleteAnswer удаляет один вариант ответа
// DELETE /api/answers/:id
func (h *QuizHandler) DeleteAnswer(c *gin.Context) {
	answerID := c.MustGet("answerID").(uint)

	if err := h.quizService.DeleteAnswer(answerID); err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer deleted"})
}

// ReorderQuestions переставляет вопросы теста.
// Тело: ordered_ids, positions или policy — ровно один способ.
// PUT /api/quizzes/:id/questions/order
func (h *QuizHandler) ReorderQuestions(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	siblings, err := h.dispatchReorder(req,
		func(ids []uint) ([]ordering.Sibling, error) { return h.quizService.ReorderQuestions(quizID, ids) },
		func(pos []ordering.IDPosition) ([]ordering.Sibling, error) {
			return h.quizService.ReorderQuestionsWithPositions(quizID, pos)
		},
		func(p ordering.Policy) ([]ordering.Sibling, error) { return h.quizService.ApplyQuestionPolicy(quizID, p) },
	)
	if err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": dto.NewReorderResponse(siblings)})
}

// ReorderAnswers переставляет ответы вопроса
// PUT /api/questions/:id/answers/order
func (h *QuizHandler) ReorderAnswers(c *gin.Context) {
	questionID := c.MustGet("questionID").(uint)

	var req dto.ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	siblings, err := h.dispatchReorder(req,
		func(ids []uint) ([]ordering.Sibling, error) { return h.quizService.ReorderAnswers(questionID, ids) },
		func(pos []ordering.IDPosition) ([]ordering.Sibling, error) {
			return h.quizService.ReorderAnswersWithPositions(questionID, pos)
		},
		func(p ordering.Policy) ([]ordering.Sibling, error) {
			return h.quizService.ApplyAnswerPolicy(questionID, p)
		},
	)
	if err != nil {
		h.handleQuizError(c, err, validation.Result{})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answers": dto.NewReorderResponse(siblings)})
}

// dispatchReorder выбирает способ перестановки по заполненному полю запроса
func (h *QuizHandler) dispatchReorder(
	req dto.ReorderRequest,
	byIDs func([]uint) ([]ordering.Sibling, error),
	byPositions func([]ordering.IDPosition) ([]ordering.Sibling, error),
	byPolicy func(ordering.Policy) ([]ordering.Sibling, error),
) ([]ordering.Sibling, error) {
	switch {
	case len(req.OrderedIDs) > 0:
		return byIDs(req.OrderedIDs)
	case len(req.Positions) > 0:
		return byPositions(req.Positions)
	case req.Policy != "":
		policy, err := ordering.ParsePolicy(req.Policy)
		if err != nil {
			return nil, err
		}
		return byPolicy(policy)
	default:
		return nil, fmt.Errorf("%w: one of ordered_ids, positions or policy is required", apperrors.ErrValidation)
	}
}

// paginationParams извлекает page и per_page из query string
func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

// handleQuizError обрабатывает ошибки сервиса авторинга и отправляет HTTP ответ.
// Нарушения бизнес-правил отдаются с кодом 422 и полным списком ошибок.
func (h *QuizHandler) handleQuizError(c *gin.Context, err error, result validation.Result) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrValidation) {
		body := gin.H{"error": err.Error()}
		if len(result.Errors) > 0 {
			body["validation"] = result
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	} else if errors.Is(err, apperrors.ErrUnauthorized) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	} else {
		log.Printf("ERROR: Internal server error in QuizHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
