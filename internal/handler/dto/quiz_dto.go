package dto

import (
	"time"

	"github.com/yourusername/elearning-api/internal/domain/entity"
)

// AnswerInput представляет вариант ответа в авторском запросе
type AnswerInput struct {
	AnswerText string `json:"answer_text" binding:"required,max=500"`
	IsCorrect  bool   `json:"is_correct"`
}

// QuestionInput представляет вопрос в авторском запросе.
// Порядок answers в массиве — канонический порядок позиций.
type QuestionInput struct {
	QuestionType string        `json:"question_type" binding:"required"`
	Text         string        `json:"text" binding:"required,max=500"`
	Points       int           `json:"points" binding:"required,min=1"`
	Explanation  string        `json:"explanation" binding:"omitempty,max=1000"`
	Answers      []AnswerInput `json:"answers" binding:"omitempty,max=10,dive"`
}

// QuizInput представляет тест в авторском запросе.
// Порядок questions в массиве — канонический порядок позиций.
type QuizInput struct {
	Title        string          `json:"title" binding:"required,min=3,max=150"`
	Description  string          `json:"description" binding:"omitempty,max=500"`
	PassingScore int             `json:"passing_score" binding:"min=0,max=100"`
	MaxAttempts  int             `json:"max_attempts" binding:"required,min=1,max=10"`
	Questions    []QuestionInput `json:"questions" binding:"required,min=1,max=50,dive"`
}

// ToEntity преобразует запрос в дерево сущностей (без ID и позиций)
func (in *QuizInput) ToEntity() *entity.Quiz {
	return &entity.Quiz{
		Title:        in.Title,
		Description:  in.Description,
		PassingScore: in.PassingScore,
		MaxAttempts:  in.MaxAttempts,
		Questions:    QuestionsToEntity(in.Questions),
	}
}

// QuestionsToEntity преобразует вопросы запроса в сущности
func QuestionsToEntity(inputs []QuestionInput) []entity.Question {
	questions := make([]entity.Question, 0, len(inputs))
	for _, q := range inputs {
		questions = append(questions, *q.ToEntity())
	}
	return questions
}

// ToEntity преобразует вопрос запроса в сущность
func (in *QuestionInput) ToEntity() *entity.Question {
	return &entity.Question{
		QuestionType: in.QuestionType,
		Text:         in.Text,
		Points:       in.Points,
		Explanation:  in.Explanation,
		Answers:      AnswersToEntity(in.Answers),
	}
}

// AnswersToEntity преобразует ответы запроса в сущности
func AnswersToEntity(inputs []AnswerInput) []entity.Answer {
	answers := make([]entity.Answer, 0, len(inputs))
	for _, a := range inputs {
		answers = append(answers, entity.Answer{
			AnswerText: a.AnswerText,
			IsCorrect:  a.IsCorrect,
		})
	}
	return answers
}

// AnswerResponse представляет вариант ответа в формате для клиента.
// is_correct отдается только авторским запросам: ученик не должен видеть ключ.
type AnswerResponse struct {
	ID         uint   `json:"id"`
	AnswerText string `json:"answer_text"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
	Position   int    `json:"position"`
}

// QuestionResponse представляет вопрос в формате для клиента
type QuestionResponse struct {
	ID           uint             `json:"id"`
	QuizID       uint             `json:"quiz_id"`
	QuestionType string           `json:"question_type"`
	Text         string           `json:"text"`
	Points       int              `json:"points"`
	Position     int              `json:"position"`
	Explanation  string           `json:"explanation,omitempty"`
	Answers      []AnswerResponse `json:"answers,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// QuizResponse представляет тест в формате для клиента
type QuizResponse struct {
	ID           uint               `json:"id"`
	LessonID     uint               `json:"lesson_id"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	PassingScore int                `json:"passing_score"`
	MaxAttempts  int                `json:"max_attempts"`
	TotalPoints  int                `json:"total_points,omitempty"`
	Questions    []QuestionResponse `json:"questions,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// PaginatedQuizResponse представляет пагинированный список тестов
type PaginatedQuizResponse struct {
	Quizzes []QuizResponse `json:"quizzes"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// NewAnswerResponse создает DTO для варианта ответа.
// При revealCorrect=false флаг правильности не сериализуется вовсе.
func NewAnswerResponse(a *entity.Answer, revealCorrect bool) AnswerResponse {
	resp := AnswerResponse{
		ID:         a.ID,
		AnswerText: a.AnswerText,
		Position:   a.Position,
	}
	if revealCorrect {
		isCorrect := a.IsCorrect
		resp.IsCorrect = &isCorrect
	}
	return resp
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question, revealCorrect bool) QuestionResponse {
	answers := make([]AnswerResponse, 0, len(q.Answers))
	for i := range q.Answers {
		answers = append(answers, NewAnswerResponse(&q.Answers[i], revealCorrect))
	}
	explanation := q.Explanation
	if !revealCorrect {
		// Объяснение показывается ученику только после попытки, не при прохождении
		explanation = ""
	}
	return QuestionResponse{
		ID:           q.ID,
		QuizID:       q.QuizID,
		QuestionType: q.QuestionType,
		Text:         q.Text,
		Points:       q.Points,
		Position:     q.Position,
		Explanation:  explanation,
		Answers:      answers,
		CreatedAt:    q.CreatedAt,
		UpdatedAt:    q.UpdatedAt,
	}
}

// NewQuizResponse создает DTO для теста
func NewQuizResponse(quiz *entity.Quiz, revealCorrect bool) QuizResponse {
	questions := make([]QuestionResponse, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		questions = append(questions, NewQuestionResponse(&quiz.Questions[i], revealCorrect))
	}
	resp := QuizResponse{
		ID:           quiz.ID,
		LessonID:     quiz.LessonID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		PassingScore: quiz.PassingScore,
		MaxAttempts:  quiz.MaxAttempts,
		Questions:    questions,
		CreatedAt:    quiz.CreatedAt,
		UpdatedAt:    quiz.UpdatedAt,
	}
	if len(quiz.Questions) > 0 {
		resp.TotalPoints = quiz.TotalPoints()
	}
	return resp
}

// NewPaginatedQuizResponse создает пагинированный список тестов
func NewPaginatedQuizResponse(quizzes []entity.Quiz, total int64, page, perPage int) PaginatedQuizResponse {
	items := make([]QuizResponse, 0, len(quizzes))
	for i := range quizzes {
		items = append(items, NewQuizResponse(&quizzes[i], false))
	}
	return PaginatedQuizResponse{
		Quizzes: items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}
