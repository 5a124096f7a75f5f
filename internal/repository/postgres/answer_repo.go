package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий вариантов ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// GetByID возвращает вариант ответа по ID
func (r *AnswerRepo) GetByID(id uint) (*entity.Answer, error) {
	var answer entity.Answer
	err := r.db.First(&answer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &answer, nil
}

// GetByQuestionID возвращает все ответы вопроса в порядке позиций
func (r *AnswerRepo) GetByQuestionID(questionID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.Where("question_id = ?", questionID).Order("position").Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// Delete удаляет вариант ответа и уплотняет позиции оставшихся ответов
// вопроса в той же транзакции
func (r *AnswerRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var answer entity.Answer
		if err := tx.First(&answer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&entity.Answer{}, id).Error; err != nil {
			return err
		}

		return compactPositionsTx(tx, &entity.Answer{}, "question_id", answer.QuestionID)
	})
}

// Siblings возвращает ответы вопроса для упорядочивания
func (r *AnswerRepo) Siblings(questionID uint) ([]entity.Answer, error) {
	return r.GetByQuestionID(questionID)
}

// ApplyPositions двухфазно присваивает позиции ответам внутри одной транзакции
func (r *AnswerRepo) ApplyPositions(questionID uint, positions map[uint]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return applyPositionsTx(tx, &entity.Answer{}, "question_id", questionID, positions)
	})
}
