package entity

import (
	"time"
)

// Типы вопросов. Закрытое множество: валидация и скоринг
// диспетчеризуются по типу через switch, неизвестный тип — ошибка валидации.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeOpenEnded      = "open_ended"
)

// IsKnownQuestionType проверяет, что тип вопроса входит в поддерживаемое множество
func IsKnownQuestionType(questionType string) bool {
	switch questionType {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeOpenEnded:
		return true
	default:
		return false
	}
}

// Question представляет вопрос теста.
// Position — плотная нумерация 1..N внутри теста, уникальная в паре (quiz_id, position).
type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuizID       uint      `gorm:"not null;index;uniqueIndex:idx_quiz_question_position" json:"quiz_id"`
	QuestionType string    `gorm:"size:20;not null" json:"question_type"`
	Text         string    `gorm:"size:500;not null" json:"text"`
	Points       int       `gorm:"not null;default:1" json:"points"`
	Position     int       `gorm:"not null;uniqueIndex:idx_quiz_question_position" json:"position"`
	Explanation  string    `gorm:"size:1000;not null;default:''" json:"explanation"`
	Answers      []Answer  `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// IsAutoScored возвращает true, если вопрос оценивается автоматически.
// open_ended исключен из автоматического скоринга: его предложенные ответы —
// только подсказки для ручной проверки.
func (q *Question) IsAutoScored() bool {
	switch q.QuestionType {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse:
		return true
	default:
		return false
	}
}

// CorrectAnswerIDs возвращает ID ответов, помеченных как правильные
func (q *Question) CorrectAnswerIDs() []uint {
	ids := make([]uint, 0, len(q.Answers))
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			ids = append(ids, q.Answers[i].ID)
		}
	}
	return ids
}

// IsExactMatch проверяет, что выбранное множество ID ответов в точности совпадает
// с множеством правильных ответов. Сравнение как множеств: порядок и дубликаты
// в selected не влияют, но подмножество правильных ответов не засчитывается.
func (q *Question) IsExactMatch(selected []uint) bool {
	correct := make(map[uint]bool, len(q.Answers))
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			correct[q.Answers[i].ID] = true
		}
	}

	seen := make(map[uint]bool, len(selected))
	for _, id := range selected {
		if !correct[id] {
			return false
		}
		seen[id] = true
	}
	return len(seen) == len(correct) && len(correct) > 0
}
