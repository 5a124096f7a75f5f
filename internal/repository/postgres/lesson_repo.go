package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
)

// LessonRepo реализует repository.LessonRepository
type LessonRepo struct {
	db *gorm.DB
}

// NewLessonRepo создает новый репозиторий уроков
func NewLessonRepo(db *gorm.DB) *LessonRepo {
	return &LessonRepo{db: db}
}

// GetByID возвращает урок по ID
func (r *LessonRepo) GetByID(id uint) (*entity.Lesson, error) {
	var lesson entity.Lesson
	err := r.db.First(&lesson, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

// GetByChapterID возвращает все уроки главы в порядке позиций
func (r *LessonRepo) GetByChapterID(chapterID uint) ([]entity.Lesson, error) {
	var lessons []entity.Lesson
	err := r.db.Where("chapter_id = ?", chapterID).Order("position").Find(&lessons).Error
	if err != nil {
		return nil, err
	}
	return lessons, nil
}

// Siblings возвращает уроки главы для упорядочивания
func (r *LessonRepo) Siblings(chapterID uint) ([]entity.Lesson, error) {
	return r.GetByChapterID(chapterID)
}

// ApplyPositions двухфазно присваивает позиции урокам внутри одной транзакции
func (r *LessonRepo) ApplyPositions(chapterID uint, positions map[uint]int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return applyPositionsTx(tx, &entity.Lesson{}, "chapter_id", chapterID, positions)
	})
}
