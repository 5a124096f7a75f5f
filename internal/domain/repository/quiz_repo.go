package repository

import (
	"github.com/yourusername/elearning-api/internal/domain/entity"
)

// QuizRepository определяет методы для работы с тестами
type QuizRepository interface {
	// Create сохраняет тест вместе с вложенными вопросами и ответами в одной транзакции
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	GetByLessonID(lessonID uint) (*entity.Quiz, error)
	// GetWithQuestions возвращает тест с вопросами и ответами,
	// отсортированными по position
	GetWithQuestions(id uint) (*entity.Quiz, error)
	// ReplaceStructure атомарно заменяет структуру теста: обновляет поля,
	// удаляет все ответы → все вопросы → вставляет новый набор в переданном порядке.
	// Единственный способ структурной замены (см. Mutation Guard в сервисе).
	ReplaceStructure(quiz *entity.Quiz, questions []entity.Question) error
	Update(quiz *entity.Quiz) error
	List(limit, offset int) ([]entity.Quiz, int64, error)
	Delete(id uint) error
}
