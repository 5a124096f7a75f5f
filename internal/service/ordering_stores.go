package service

import (
	"github.com/yourusername/elearning-api/internal/domain/repository"
	"github.com/yourusername/elearning-api/internal/service/ordering"
)

// Адаптеры репозиториев к ordering.Store.
// Каждый адаптер решает, чем наполнить поля Sibling для политик:
// Label — для alphabetical, SortValue — для by_value, Published — для published_first.

// answerStore упорядочивает ответы внутри вопроса
type answerStore struct {
	repo repository.AnswerRepository
}

// NewAnswerStore создает ordering.Store поверх репозитория ответов
func NewAnswerStore(repo repository.AnswerRepository) ordering.Store {
	return &answerStore{repo: repo}
}

func (s *answerStore) Siblings(questionID uint) ([]ordering.Sibling, error) {
	answers, err := s.repo.Siblings(questionID)
	if err != nil {
		return nil, err
	}
	siblings := make([]ordering.Sibling, len(answers))
	for i, a := range answers {
		siblings[i] = ordering.Sibling{
			ID:       a.ID,
			Position: a.Position,
			Label:    a.AnswerText,
		}
	}
	return siblings, nil
}

func (s *answerStore) ApplyPositions(questionID uint, positions map[uint]int) error {
	return s.repo.ApplyPositions(questionID, positions)
}

// questionStore упорядочивает вопросы внутри теста
type questionStore struct {
	repo repository.QuestionRepository
}

// NewQuestionStore создает ordering.Store поверх репозитория вопросов
func NewQuestionStore(repo repository.QuestionRepository) ordering.Store {
	return &questionStore{repo: repo}
}

func (s *questionStore) Siblings(quizID uint) ([]ordering.Sibling, error) {
	questions, err := s.repo.Siblings(quizID)
	if err != nil {
		return nil, err
	}
	siblings := make([]ordering.Sibling, len(questions))
	for i, q := range questions {
		siblings[i] = ordering.Sibling{
			ID:        q.ID,
			Position:  q.Position,
			Label:     q.Text,
			SortValue: q.Points,
		}
	}
	return siblings, nil
}

func (s *questionStore) ApplyPositions(quizID uint, positions map[uint]int) error {
	return s.repo.ApplyPositions(quizID, positions)
}

// lessonStore упорядочивает уроки внутри главы
type lessonStore struct {
	repo repository.LessonRepository
}

// NewLessonStore создает ordering.Store поверх репозитория уроков
func NewLessonStore(repo repository.LessonRepository) ordering.Store {
	return &lessonStore{repo: repo}
}

func (s *lessonStore) Siblings(chapterID uint) ([]ordering.Sibling, error) {
	lessons, err := s.repo.Siblings(chapterID)
	if err != nil {
		return nil, err
	}
	siblings := make([]ordering.Sibling, len(lessons))
	for i, l := range lessons {
		siblings[i] = ordering.Sibling{
			ID:        l.ID,
			Position:  l.Position,
			Label:     l.Title,
			SortValue: l.DurationMin,
			Published: l.Published,
		}
	}
	return siblings, nil
}

func (s *lessonStore) ApplyPositions(chapterID uint, positions map[uint]int) error {
	return s.repo.ApplyPositions(chapterID, positions)
}

var _ ordering.Store = (*answerStore)(nil)
var _ ordering.Store = (*questionStore)(nil)
var _ ordering.Store = (*lessonStore)(nil)
