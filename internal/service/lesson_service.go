package service

import (
	"github.com/yourusername/elearning-api/internal/domain/entity"
	"github.com/yourusername/elearning-api/internal/domain/repository"
	"github.com/yourusername/elearning-api/internal/service/ordering"
)

// LessonService отвечает за порядок уроков внутри главы.
// Уроки — родительская последовательность для тестов: их перестановка
// использует тот же Maintainer, что вопросы и ответы.
type LessonService struct {
	lessonRepo  repository.LessonRepository
	lessonOrder *ordering.Maintainer
}

// NewLessonService создает новый сервис уроков
func NewLessonService(lessonRepo repository.LessonRepository) *LessonService {
	return &LessonService{
		lessonRepo:  lessonRepo,
		lessonOrder: ordering.NewMaintainer(NewLessonStore(lessonRepo)),
	}
}

// GetLesson возвращает урок по ID
func (s *LessonService) GetLesson(lessonID uint) (*entity.Lesson, error) {
	return s.lessonRepo.GetByID(lessonID)
}

// GetChapterLessons возвращает уроки главы в порядке позиций
func (s *LessonService) GetChapterLessons(chapterID uint) ([]entity.Lesson, error) {
	return s.lessonRepo.GetByChapterID(chapterID)
}

// ReorderLessons переставляет уроки главы по явному порядку ID
func (s *LessonService) ReorderLessons(chapterID uint, orderedIDs []uint) ([]ordering.Sibling, error) {
	return s.lessonOrder.Reorder(chapterID, orderedIDs)
}

// ReorderLessonsWithPositions переставляет уроки по явно заданным позициям
func (s *LessonService) ReorderLessonsWithPositions(chapterID uint, positions []ordering.IDPosition) ([]ordering.Sibling, error) {
	return s.lessonOrder.ReorderWithPositions(chapterID, positions)
}

// ApplyLessonPolicy переставляет уроки главы по именованной политике
func (s *LessonService) ApplyLessonPolicy(chapterID uint, policy ordering.Policy) ([]ordering.Sibling, error) {
	return s.lessonOrder.ApplyPolicy(chapterID, policy)
}
