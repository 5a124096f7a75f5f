package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository.
// Попытки write-once: репозиторий сознательно не предоставляет Update/Delete.
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create сохраняет новую попытку
func (r *AttemptRepo) Create(attempt *entity.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

// GetByID возвращает попытку по внутреннему ID
func (r *AttemptRepo) GetByID(id uint) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	err := r.db.First(&attempt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// GetByPublicID возвращает попытку по публичному UUID
func (r *AttemptRepo) GetByPublicID(publicID string) (*entity.QuizAttempt, error) {
	var attempt entity.QuizAttempt
	err := r.db.Where("public_id = ?", publicID).First(&attempt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// CountByQuiz возвращает общее количество попыток для теста (Mutation Guard)
func (r *AttemptRepo) CountByQuiz(quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.QuizAttempt{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

// CountByQuizAndUser возвращает количество попыток пользователя для теста
func (r *AttemptRepo) CountByQuizAndUser(quizID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	return count, err
}

// ListByQuiz возвращает попытки теста с пагинацией и total count
func (r *AttemptRepo) ListByQuiz(quizID uint, limit, offset int) ([]entity.QuizAttempt, int64, error) {
	var attempts []entity.QuizAttempt
	var total int64

	query := r.db.Model(&entity.QuizAttempt{}).Where("quiz_id = ?", quizID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Limit(limit).Offset(offset).Order("completed_at DESC").Find(&attempts).Error
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// ListByQuizAndUser возвращает все попытки пользователя для теста (новые первыми)
func (r *AttemptRepo) ListByQuizAndUser(quizID, userID uint) ([]entity.QuizAttempt, error) {
	var attempts []entity.QuizAttempt
	err := r.db.
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("completed_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
