package repository

import (
	"github.com/yourusername/elearning-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	// Create сохраняет вопрос вместе с ответами в одной транзакции
	Create(question *entity.Question) error
	GetByID(id uint) (*entity.Question, error)
	// GetWithAnswers возвращает вопрос с ответами, отсортированными по position
	GetWithAnswers(id uint) (*entity.Question, error)
	GetByQuizID(quizID uint) ([]entity.Question, error)
	CountByQuizID(quizID uint) (int64, error)
	// ReplaceAnswers атомарно заменяет набор ответов вопроса:
	// удаляет все ответы → вставляет новый набор в переданном порядке
	ReplaceAnswers(questionID uint, answers []entity.Answer) error
	// ReplaceWithAnswers атомарно заменяет поля вопроса и его набор ответов
	// одной транзакцией: частичное применение (новые поля при старых ответах)
	// невозможно
	ReplaceWithAnswers(question *entity.Question, answers []entity.Answer) error
	// Delete удаляет вопрос и уплотняет позиции оставшихся в той же транзакции
	Delete(id uint) error

	// Методы упорядочивания (ordering.Store для вопросов внутри теста)
	Siblings(quizID uint) ([]entity.Question, error)
	// ApplyPositions двухфазно присваивает позиции вопросам внутри одной транзакции
	ApplyPositions(quizID uint, positions map[uint]int) error
}
