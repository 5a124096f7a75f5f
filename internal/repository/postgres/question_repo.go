package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create сохраняет вопрос вместе с ответами (одна транзакция через GORM associations)
func (r *QuestionRepo) Create(question *entity.Question) error {
	return r.db.Create(question).Error
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetWithAnswers возвращает вопрос с ответами, отсортированными по position
func (r *QuestionRepo) GetWithAnswers(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.position")
		}).
		First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByQuizID возвращает все вопросы теста в порядке позиций
func (r *QuestionRepo) GetByQuizID(quizID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("quiz_id = ?", quizID).Order("position").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// CountByQuizID возвращает количество вопросов теста
func (r *QuestionRepo) CountByQuizID(quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

// ReplaceAnswers атомарно заменяет набор ответов вопроса:
// удаление всех ответов → вставка нового набора в переданном порядке
func (r *QuestionRepo) ReplaceAnswers(questionID uint, answers []entity.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&entity.Answer{}).Error; err != nil {
			return fmt.Errorf("delete answers of question #%d: %w", questionID, err)
		}

		for i := range answers {
			answers[i].ID = 0
			answers[i].QuestionID = questionID
			answers[i].Position = i + 1
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return fmt.Errorf("insert answers of question #%d: %w", questionID, err)
			}
		}

		return nil
	})
}

// ReplaceWithAnswers атомарно заменяет поля вопроса и его набор ответов.
// Обе части — один коммит: вопрос не должен пережить смену типа со старым
// набором ответов, если вставка нового набора сорвалась.
func (r *QuestionRepo) ReplaceWithAnswers(question *entity.Question, answers []entity.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Question{}).Where("id = ?", question.ID).Updates(map[string]interface{}{
			"question_type": question.QuestionType,
			"text":          question.Text,
			"points":        question.Points,
			"explanation":   question.Explanation,
		})
		if result.Error != nil {
			return fmt.Errorf("update question #%d: %w", question.ID, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}

		if err := tx.Where("question_id = ?", question.ID).Delete(&entity.Answer{}).Error; err != nil {
			return fmt.Errorf("delete answers of question #%d: %w", question.ID, err)
		}

		for i := range answers {
			answers[i].ID = 0
			answers[i].QuestionID = question.ID
			answers[i].Position = i + 1
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return fmt.Errorf("insert answers of question #%d: %w", question.ID, err)
			}
		}

		return nil
	})
}

// Delete удаляет вопрос и уплотняет позиции оставшихся вопросов теста
// в той же транзакции: откат не оставляет ни удаления без перенумерации,
// ни разрыва в нумерации. Ответы удаляются каскадом.
func (r *QuestionRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var question entity.Question
		if err := tx.First(&question, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&entity.Question{}, id).Error; err != nil {
			return err
		}

		return compactPositionsTx(tx, &entity.Question{}, "quiz_id", question.QuizID)
	})
}

// Siblings возвращает вопросы теста для упорядочивания
func (r *QuestionRepo) Siblings(quizID uint) ([]entity.Question, error) {
	return r.GetByQuizID(quizID)
}

// ApplyPositions двухфазно присваивает позиции вопросам внутри одной транзакции
func (r *QuestionRepo) ApplyPositions(quizID uint, positions map[uint]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return applyPositionsTx(tx, &entity.Question{}, "quiz_id", quizID, positions)
	})
}
