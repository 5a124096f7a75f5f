package repository

import (
	"github.com/yourusername/elearning-api/internal/domain/entity"
)

// AttemptRepository определяет методы для работы с попытками прохождения.
// Попытки write-once: обновления и удаления не предусмотрены.
type AttemptRepository interface {
	Create(attempt *entity.QuizAttempt) error
	GetByID(id uint) (*entity.QuizAttempt, error)
	GetByPublicID(publicID string) (*entity.QuizAttempt, error)
	// CountByQuiz возвращает общее количество попыток для теста.
	// Ненулевой результат замораживает структуру теста (Mutation Guard).
	CountByQuiz(quizID uint) (int64, error)
	CountByQuizAndUser(quizID, userID uint) (int64, error)
	ListByQuiz(quizID uint, limit, offset int) ([]entity.QuizAttempt, int64, error)
	ListByQuizAndUser(quizID, userID uint) ([]entity.QuizAttempt, error)
}
