package entity

import (
	"time"
)

// Границы значений для полей викторины.
// Используются валидатором и биндингом запросов.
const (
	MinPassingScore = 0
	MaxPassingScore = 100
	MinMaxAttempts  = 1
	MaxMaxAttempts  = 10
)

// Quiz представляет оцениваемый тест, прикрепленный к уроку.
// На один урок может быть прикреплен ровно один тест (unique index по lesson_id).
// Структура теста заморожена, как только существует хотя бы одна попытка (Mutation Guard).
type Quiz struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	LessonID     uint       `gorm:"not null;uniqueIndex" json:"lesson_id"`
	Title        string     `gorm:"size:150;not null" json:"title"`
	Description  string     `gorm:"size:500;not null;default:''" json:"description"`
	PassingScore int        `gorm:"not null;default:70" json:"passing_score"` // Процент от суммы баллов
	MaxAttempts  int        `gorm:"not null;default:3" json:"max_attempts"`
	Questions    []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Quiz) TableName() string {
	return "quizzes"
}

// TotalPoints возвращает сумму баллов всех вопросов теста
func (q *Quiz) TotalPoints() int {
	total := 0
	for i := range q.Questions {
		total += q.Questions[i].Points
	}
	return total
}

// AutoScorablePoints возвращает сумму баллов вопросов, которые оцениваются автоматически.
// open_ended вопросы исключаются — они требуют ручной проверки.
func (q *Quiz) AutoScorablePoints() int {
	total := 0
	for i := range q.Questions {
		if q.Questions[i].IsAutoScored() {
			total += q.Questions[i].Points
		}
	}
	return total
}

// RequiredPoints возвращает минимальное количество баллов для достижения PassingScore.
// Округление вверх: набрать нужно не меньше, чем PassingScore% от суммы.
func (q *Quiz) RequiredPoints() int {
	total := q.TotalPoints()
	if total == 0 {
		return 0
	}
	// ceil(total * passingScore / 100) без float
	return (total*q.PassingScore + 99) / 100
}

// QuestionByID находит вопрос теста по ID. Возвращает nil, если вопрос не найден.
func (q *Quiz) QuestionByID(questionID uint) *Question {
	for i := range q.Questions {
		if q.Questions[i].ID == questionID {
			return &q.Questions[i]
		}
	}
	return nil
}
