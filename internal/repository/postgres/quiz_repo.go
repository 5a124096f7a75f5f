package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий тестов
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create сохраняет тест вместе с вложенным деревом вопросов и ответов.
// GORM вставляет ассоциации в одной транзакции; позиции проставляются
// сервисом до вызова.
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	err := r.db.Create(quiz).Error
	if err != nil && isUniqueViolation(err) {
		// lesson_id уникален: второй тест для урока — конфликт, не внутренняя ошибка
		return fmt.Errorf("%w: quiz already exists for lesson #%d", apperrors.ErrConflict, quiz.LessonID)
	}
	return err
}

// GetByID возвращает тест по ID
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetByLessonID возвращает тест, прикрепленный к уроку
func (r *QuizRepo) GetByLessonID(lessonID uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.Where("lesson_id = ?", lessonID).First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetWithQuestions возвращает тест с вопросами и ответами, отсортированными по position
func (r *QuizRepo) GetWithQuestions(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.position")
		}).
		First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// ReplaceStructure атомарно заменяет структуру теста.
// Порядок удаления фиксирован: сначала все ответы, затем все вопросы,
// затем вставка нового набора в переданном порядке — чтобы не оставить
// частично несогласованное состояние. Откат транзакции отменяет все шаги.
func (r *QuizRepo) ReplaceStructure(quiz *entity.Quiz, questions []entity.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 1. Удаляем ответы всех вопросов теста
		subQuery := tx.Model(&entity.Question{}).Select("id").Where("quiz_id = ?", quiz.ID)
		if err := tx.Where("question_id IN (?)", subQuery).Delete(&entity.Answer{}).Error; err != nil {
			return fmt.Errorf("delete answers of quiz #%d: %w", quiz.ID, err)
		}

		// 2. Удаляем вопросы
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&entity.Question{}).Error; err != nil {
			return fmt.Errorf("delete questions of quiz #%d: %w", quiz.ID, err)
		}

		// 3. Обновляем поля теста
		if err := tx.Model(&entity.Quiz{}).Where("id = ?", quiz.ID).Updates(map[string]interface{}{
			"title":         quiz.Title,
			"description":   quiz.Description,
			"passing_score": quiz.PassingScore,
			"max_attempts":  quiz.MaxAttempts,
		}).Error; err != nil {
			return fmt.Errorf("update quiz #%d: %w", quiz.ID, err)
		}

		// 4. Вставляем новый набор вопросов с ответами в переданном порядке
		for i := range questions {
			questions[i].ID = 0
			questions[i].QuizID = quiz.ID
			questions[i].Position = i + 1
			for j := range questions[i].Answers {
				questions[i].Answers[j].ID = 0
				questions[i].Answers[j].Position = j + 1
			}
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return fmt.Errorf("insert questions of quiz #%d: %w", quiz.ID, err)
			}
		}

		return nil
	})
}

// Update обновляет поля теста без структурных изменений
func (r *QuizRepo) Update(quiz *entity.Quiz) error {
	return r.db.Save(quiz).Error
}

// List возвращает список тестов с пагинацией и total count
func (r *QuizRepo) List(limit, offset int) ([]entity.Quiz, int64, error) {
	var quizzes []entity.Quiz
	var total int64

	if err := r.db.Model(&entity.Quiz{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Limit(limit).Offset(offset).Order("id DESC").Find(&quizzes).Error
	if err != nil {
		return nil, 0, err
	}
	return quizzes, total, nil
}

// Delete удаляет тест. Вопросы и ответы удаляются каскадом (FK ON DELETE CASCADE);
// попытки не каскадируются — они ссылаются на тест слабо и остаются для аудита.
func (r *QuizRepo) Delete(id uint) error {
	result := r.db.Delete(&entity.Quiz{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
