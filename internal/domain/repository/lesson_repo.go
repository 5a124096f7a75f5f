package repository

import (
	"github.com/yourusername/elearning-api/internal/domain/entity"
)

// LessonRepository определяет методы для работы с уроками
type LessonRepository interface {
	GetByID(id uint) (*entity.Lesson, error)
	GetByChapterID(chapterID uint) ([]entity.Lesson, error)

	// Методы упорядочивания (ordering.Store для уроков внутри главы)
	Siblings(chapterID uint) ([]entity.Lesson, error)
	// ApplyPositions двухфазно присваивает позиции урокам внутри одной транзакции
	ApplyPositions(chapterID uint, positions map[uint]int) error
}
