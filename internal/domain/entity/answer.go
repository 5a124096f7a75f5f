package entity

import (
	"time"
)

// Answer представляет вариант ответа на вопрос.
// Position — плотная нумерация 1..N внутри вопроса, уникальная в паре (question_id, position).
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index;uniqueIndex:idx_question_answer_position" json:"question_id"`
	AnswerText string    `gorm:"size:500;not null" json:"answer_text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	Position   int       `gorm:"not null;uniqueIndex:idx_question_answer_position" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}
