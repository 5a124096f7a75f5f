package repository

import (
	"github.com/yourusername/elearning-api/internal/domain/entity"
)

// AnswerRepository определяет методы для работы с вариантами ответов
type AnswerRepository interface {
	GetByID(id uint) (*entity.Answer, error)
	GetByQuestionID(questionID uint) ([]entity.Answer, error)
	// Delete удаляет ответ и уплотняет позиции оставшихся в той же транзакции
	Delete(id uint) error

	// Методы упорядочивания (ordering.Store для ответов внутри вопроса)
	Siblings(questionID uint) ([]entity.Answer, error)
	// ApplyPositions двухфазно присваивает позиции ответам внутри одной транзакции
	ApplyPositions(questionID uint, positions map[uint]int) error
}
