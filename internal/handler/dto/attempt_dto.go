package dto

import (
	"time"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	"github.com/yourusername/elearning-api/internal/service/ordering"
)

// AttemptAnswerInput представляет ответ ученика на один вопрос
type AttemptAnswerInput struct {
	QuestionID        uint   `json:"question_id" binding:"required"`
	SelectedAnswerIDs []uint `json:"selected_answer_ids,omitempty"`
	TextResponse      string `json:"text_response,omitempty"`
}

// SubmitAttemptRequest представляет отправку попытки прохождения
type SubmitAttemptRequest struct {
	StartedAt time.Time            `json:"started_at" binding:"required"`
	Answers   []AttemptAnswerInput `json:"answers"`
}

// ToEntity преобразует отправленные ответы в сущности
func (r *SubmitAttemptRequest) ToEntity() []entity.AttemptAnswer {
	answers := make([]entity.AttemptAnswer, 0, len(r.Answers))
	for _, a := range r.Answers {
		answers = append(answers, entity.AttemptAnswer{
			QuestionID:        a.QuestionID,
			SelectedAnswerIDs: a.SelectedAnswerIDs,
			TextResponse:      a.TextResponse,
		})
	}
	return answers
}

// AttemptResponse представляет оцененную попытку в формате для клиента.
// Наружу отдается только публичный UUID, не внутренний ID.
type AttemptResponse struct {
	PublicID    string                    `json:"public_id"`
	QuizID      uint                      `json:"quiz_id"`
	UserID      uint                      `json:"user_id"`
	Score       int                       `json:"score"`
	Passed      bool                      `json:"passed"`
	Answers     entity.AttemptAnswerArray `json:"answers,omitempty"`
	StartedAt   time.Time                 `json:"started_at"`
	CompletedAt time.Time                 `json:"completed_at"`
}

// PaginatedAttemptResponse представляет пагинированный список попыток
type PaginatedAttemptResponse struct {
	Attempts []AttemptResponse `json:"attempts"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PerPage  int               `json:"per_page"`
}

// NewAttemptResponse создает DTO для попытки.
// При includeAnswers=false сырые ответы не отдаются (списки для обзора).
func NewAttemptResponse(a *entity.QuizAttempt, includeAnswers bool) AttemptResponse {
	resp := AttemptResponse{
		PublicID:    a.PublicID,
		QuizID:      a.QuizID,
		UserID:      a.UserID,
		Score:       a.Score,
		Passed:      a.Passed,
		StartedAt:   a.StartedAt,
		CompletedAt: a.CompletedAt,
	}
	if includeAnswers {
		resp.Answers = a.Answers
	}
	return resp
}

// NewPaginatedAttemptResponse создает пагинированный список попыток
func NewPaginatedAttemptResponse(attempts []entity.QuizAttempt, total int64, page, perPage int) PaginatedAttemptResponse {
	items := make([]AttemptResponse, 0, len(attempts))
	for i := range attempts {
		items = append(items, NewAttemptResponse(&attempts[i], false))
	}
	return PaginatedAttemptResponse{
		Attempts: items,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}
}

// ReorderRequest представляет запрос на перестановку записей.
// Ровно один из способов должен быть задан: явный порядок ID, явные позиции
// или именованная политика.
type ReorderRequest struct {
	OrderedIDs []uint                `json:"ordered_ids,omitempty"`
	Positions  []ordering.IDPosition `json:"positions,omitempty"`
	Policy     string                `json:"policy,omitempty"`
}

// SiblingResponse представляет запись с присвоенной позицией
type SiblingResponse struct {
	ID       uint `json:"id"`
	Position int  `json:"position"`
}

// NewReorderResponse создает список записей в новом порядке
func NewReorderResponse(siblings []ordering.Sibling) []SiblingResponse {
	items := make([]SiblingResponse, 0, len(siblings))
	for _, s := range siblings {
		items = append(items, SiblingResponse{ID: s.ID, Position: s.Position})
	}
	return items
}
