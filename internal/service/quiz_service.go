package service

import (
	"fmt"
	"log"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	"github.com/yourusername/elearning-api/internal/domain/repository"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
	"github.com/yourusername/elearning-api/internal/service/ordering"
	"github.com/yourusername/elearning-api/internal/service/validation"
)

// QuizService предоставляет методы для авторинга тестов.
// Все структурные изменения проходят через ensureMutable: структура теста
// замораживается после первой записанной попытки.
type QuizService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	attemptRepo  repository.AttemptRepository
	lessonRepo   repository.LessonRepository

	questionOrder *ordering.Maintainer
	answerOrder   *ordering.Maintainer
}

// NewQuizService создает новый сервис авторинга тестов
func NewQuizService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	attemptRepo repository.AttemptRepository,
	lessonRepo repository.LessonRepository,
) *QuizService {
	return &QuizService{
		quizRepo:      quizRepo,
		questionRepo:  questionRepo,
		answerRepo:    answerRepo,
		attemptRepo:   attemptRepo,
		lessonRepo:    lessonRepo,
		questionOrder: ordering.NewMaintainer(NewQuestionStore(questionRepo)),
		answerOrder:   ordering.NewMaintainer(NewAnswerStore(answerRepo)),
	}
}

// ensureMutable проверяет Mutation Guard: структурные изменения запрещены,
// как только у теста есть хотя бы одна записанная попытка. Иначе уже выставленные
// оценки перестали бы соответствовать структуре, по которой они считались.
func (s *QuizService) ensureMutable(quizID uint) error {
	count, err := s.attemptRepo.CountByQuiz(quizID)
	if err != nil {
		return fmt.Errorf("failed to count attempts for quiz #%d: %w", quizID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: quiz #%d has %d recorded attempts, its structure is frozen; create a new quiz instead", apperrors.ErrConflict, quizID, count)
	}
	return nil
}

// normalizeTree проставляет плотные позиции 1..N вопросам и ответам
// в порядке, в котором их прислал автор
func normalizeTree(questions []entity.Question) {
	for i := range questions {
		questions[i].Position = i + 1
		for j := range questions[i].Answers {
			questions[i].Answers[j].Position = j + 1
		}
	}
}

// CreateQuiz создает тест для урока вместе с деревом вопросов и ответов.
// Урок должен существовать, на урок допускается только один тест.
func (s *QuizService) CreateQuiz(lessonID uint, quiz *entity.Quiz) (validation.Result, error) {
	// Урок — точка прикрепления, без него тест не имеет смысла
	if _, err := s.lessonRepo.GetByID(lessonID); err != nil {
		return validation.Result{}, fmt.Errorf("lesson #%d: %w", lessonID, err)
	}

	quiz.LessonID = lessonID
	normalizeTree(quiz.Questions)

	result := validation.CheckQuiz(quiz)
	if !result.Valid {
		return result, fmt.Errorf("%w: quiz failed validation", apperrors.ErrValidation)
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		return result, err
	}

	log.Printf("[QuizService] Создан тест ID=%d для урока ID=%d (%d вопросов)", quiz.ID, lessonID, len(quiz.Questions))
	return result, nil
}

// GetQuiz возвращает тест по ID
func (s *QuizService) GetQuiz(quizID uint) (*entity.Quiz, error) {
	return s.quizRepo.GetByID(quizID)
}

// GetQuizWithQuestions возвращает тест с вопросами и ответами в порядке позиций
func (s *QuizService) GetQuizWithQuestions(quizID uint) (*entity.Quiz, error) {
	return s.quizRepo.GetWithQuestions(quizID)
}

// GetQuizByLessonID возвращает тест, прикрепленный к уроку
func (s *QuizService) GetQuizByLessonID(lessonID uint) (*entity.Quiz, error) {
	return s.quizRepo.GetByLessonID(lessonID)
}

// ListQuizzes возвращает список тестов с пагинацией
func (s *QuizService) ListQuizzes(page, pageSize int) ([]entity.Quiz, int64, error) {
	offset := (page - 1) * pageSize
	return s.quizRepo.List(pageSize, offset)
}

// ReplaceQuiz атомарно заменяет поля и всю структуру теста.
// Кандидат валидируется целиком до записи: частично сохраненных структур не бывает.
func (s *QuizService) ReplaceQuiz(quizID uint, fields *entity.Quiz, questions []entity.Question) (validation.Result, error) {
	existing, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return validation.Result{}, err
	}

	if err := s.ensureMutable(quizID); err != nil {
		return validation.Result{}, err
	}

	candidate := &entity.Quiz{
		ID:           existing.ID,
		LessonID:     existing.LessonID,
		Title:        fields.Title,
		Description:  fields.Description,
		PassingScore: fields.PassingScore,
		MaxAttempts:  fields.MaxAttempts,
		Questions:    questions,
	}
	normalizeTree(candidate.Questions)

	result := validation.CheckQuiz(candidate)
	if !result.Valid {
		return result, fmt.Errorf("%w: quiz failed validation", apperrors.ErrValidation)
	}

	if err := s.quizRepo.ReplaceStructure(candidate, candidate.Questions); err != nil {
		return result, err
	}

	log.Printf("[QuizService] Структура теста ID=%d заменена (%d вопросов)", quizID, len(questions))
	return result, nil
}

// DeleteQuiz удаляет тест. Запрещено после первой попытки.
func (s *QuizService) DeleteQuiz(quizID uint) error {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return err
	}
	if err := s.ensureMutable(quizID); err != nil {
		return err
	}
	return s.quizRepo.Delete(quizID)
}

// ValidateForPublication прогоняет расширенные проверки публикации.
// Ничего не изменяет: результат показывается автору как чеклист.
func (s *QuizService) ValidateForPublication(quizID uint) (validation.Result, error) {
	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		return validation.Result{}, err
	}
	return validation.CheckQuizForPublication(quiz), nil
}

// AddQuestion добавляет вопрос в конец теста.
// Кандидатная структура (существующие вопросы + новый) валидируется целиком.
func (s *QuizService) AddQuestion(quizID uint, question *entity.Question) (validation.Result, error) {
	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		return validation.Result{}, err
	}

	if err := s.ensureMutable(quizID); err != nil {
		return validation.Result{}, err
	}

	question.QuizID = quizID
	question.Position = len(quiz.Questions) + 1
	for j := range question.Answers {
		question.Answers[j].Position = j + 1
	}

	candidate := *quiz
	candidate.Questions = append(append([]entity.Question{}, quiz.Questions...), *question)

	result := validation.CheckQuiz(&candidate)
	if !result.Valid {
		return result, fmt.Errorf("%w: question failed validation", apperrors.ErrValidation)
	}

	if err := s.questionRepo.Create(question); err != nil {
		return result, err
	}

	log.Printf("[QuizService] Вопрос ID=%d добавлен в тест ID=%d на позицию %d", question.ID, quizID, question.Position)
	return result, nil
}

// ReplaceQuestion заменяет поля и ответы существующего вопроса.
// Позиция вопроса сохраняется; кандидатная структура валидируется целиком.
func (s *QuizService) ReplaceQuestion(questionID uint, updated *entity.Question) (validation.Result, error) {
	existing, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return validation.Result{}, err
	}

	if err := s.ensureMutable(existing.QuizID); err != nil {
		return validation.Result{}, err
	}

	quiz, err := s.quizRepo.GetWithQuestions(existing.QuizID)
	if err != nil {
		return validation.Result{}, err
	}

	candidate := *quiz
	candidate.Questions = make([]entity.Question, len(quiz.Questions))
	copy(candidate.Questions, quiz.Questions)
	replaced := false
	for i := range candidate.Questions {
		if candidate.Questions[i].ID == questionID {
			candidate.Questions[i] = entity.Question{
				ID:           questionID,
				QuizID:       existing.QuizID,
				QuestionType: updated.QuestionType,
				Text:         updated.Text,
				Points:       updated.Points,
				Position:     existing.Position,
				Explanation:  updated.Explanation,
				Answers:      updated.Answers,
			}
			for j := range candidate.Questions[i].Answers {
				candidate.Questions[i].Answers[j].Position = j + 1
			}
			replaced = true
		}
	}
	if !replaced {
		return validation.Result{}, fmt.Errorf("question #%d: %w", questionID, apperrors.ErrNotFound)
	}

	result := validation.CheckQuiz(&candidate)
	if !result.Valid {
		return result, fmt.Errorf("%w: question failed validation", apperrors.ErrValidation)
	}

	existing.QuestionType = updated.QuestionType
	existing.Text = updated.Text
	existing.Points = updated.Points
	existing.Explanation = updated.Explanation
	existing.Answers = nil
	// Поля и ответы уходят одной транзакцией: вопрос со сменой типа
	// не должен закоммититься со старым набором ответов
	if err := s.questionRepo.ReplaceWithAnswers(existing, updated.Answers); err != nil {
		return result, err
	}

	log.Printf("[QuizService] Вопрос ID=%d теста ID=%d заменен", questionID, existing.QuizID)
	return result, nil
}

// DeleteQuestion удаляет вопрос и чинит разрывы нумерации оставшихся.
// Последний вопрос удалить нельзя: тест без вопросов не проходим.
func (s *QuizService) DeleteQuestion(questionID uint) error {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return err
	}

	if err := s.ensureMutable(question.QuizID); err != nil {
		return err
	}

	count, err := s.questionRepo.CountByQuizID(question.QuizID)
	if err != nil {
		return fmt.Errorf("failed to count questions of quiz #%d: %w", question.QuizID, err)
	}
	if count <= 1 {
		return fmt.Errorf("%w: cannot delete the last question of quiz #%d; delete the quiz instead", apperrors.ErrConflict, question.QuizID)
	}

	// Удаление и перенумерация оставшихся — одна транзакция на уровне репозитория
	if err := s.questionRepo.Delete(questionID); err != nil {
		return err
	}

	log.Printf("[QuizService] Вопрос ID=%d удален из теста ID=%d", questionID, question.QuizID)
	return nil
}

// ReplaceAnswers заменяет набор ответов вопроса в переданном порядке
func (s *QuizService) ReplaceAnswers(questionID uint, answers []entity.Answer) (validation.Result, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return validation.Result{}, err
	}

	if err := s.ensureMutable(question.QuizID); err != nil {
		return validation.Result{}, err
	}

	result := validation.CheckAnswers(question.QuestionType, answers)
	if !result.Valid {
		return result, fmt.Errorf("%w: answers failed validation", apperrors.ErrValidation)
	}

	if err := s.questionRepo.ReplaceAnswers(questionID, answers); err != nil {
		return result, err
	}

	log.Printf("[QuizService] Ответы вопроса ID=%d заменены (%d шт.)", questionID, len(answers))
	return result, nil
}

// DeleteAnswer удаляет один вариант ответа.
// Удаление, после которого оставшийся набор нарушает правила типа вопроса
// (например, пропадает последний правильный ответ), отклоняется как конфликт.
func (s *QuizService) DeleteAnswer(answerID uint) error {
	answer, err := s.answerRepo.GetByID(answerID)
	if err != nil {
		return err
	}

	question, err := s.questionRepo.GetWithAnswers(answer.QuestionID)
	if err != nil {
		return err
	}

	if err := s.ensureMutable(question.QuizID); err != nil {
		return err
	}

	remaining := make([]entity.Answer, 0, len(question.Answers)-1)
	for _, a := range question.Answers {
		if a.ID != answerID {
			remaining = append(remaining, a)
		}
	}

	if result := validation.CheckAnswers(question.QuestionType, remaining); !result.Valid {
		return fmt.Errorf("%w: deleting answer #%d would leave question #%d invalid: %s",
			apperrors.ErrConflict, answerID, question.ID, result.Errors[0])
	}

	// Удаление и перенумерация оставшихся — одна транзакция на уровне репозитория
	if err := s.answerRepo.Delete(answerID); err != nil {
		return err
	}

	log.Printf("[QuizService] Ответ ID=%d удален из вопроса ID=%d", answerID, question.ID)
	return nil
}

// ReorderQuestions переставляет вопросы теста по явному порядку ID
func (s *QuizService) ReorderQuestions(quizID uint, orderedIDs []uint) ([]ordering.Sibling, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	if err := s.ensureMutable(quizID); err != nil {
		return nil, err
	}
	return s.questionOrder.Reorder(quizID, orderedIDs)
}

// ReorderQuestionsWithPositions переставляет вопросы по явно заданным позициям
func (s *QuizService) ReorderQuestionsWithPositions(quizID uint, positions []ordering.IDPosition) ([]ordering.Sibling, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	if err := s.ensureMutable(quizID); err != nil {
		return nil, err
	}
	return s.questionOrder.ReorderWithPositions(quizID, positions)
}

// ApplyQuestionPolicy переставляет вопросы теста по именованной политике
func (s *QuizService) ApplyQuestionPolicy(quizID uint, policy ordering.Policy) ([]ordering.Sibling, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	if err := s.ensureMutable(quizID); err != nil {
		return nil, err
	}
	return s.questionOrder.ApplyPolicy(quizID, policy)
}

// ReorderAnswers переставляет ответы вопроса по явному порядку ID
func (s *QuizService) ReorderAnswers(questionID uint, orderedIDs []uint) ([]ordering.Sibling, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMutable(question.QuizID); err != nil {
		return nil, err
	}
	return s.answerOrder.Reorder(questionID, orderedIDs)
}

// ReorderAnswersWithPositions переставляет ответы по явно заданным позициям
func (s *QuizService) ReorderAnswersWithPositions(questionID uint, positions []ordering.IDPosition) ([]ordering.Sibling, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMutable(question.QuizID); err != nil {
		return nil, err
	}
	return s.answerOrder.ReorderWithPositions(questionID, positions)
}

// ApplyAnswerPolicy переставляет ответы вопроса по именованной политике
func (s *QuizService) ApplyAnswerPolicy(questionID uint, policy ordering.Policy) ([]ordering.Sibling, error) {
	question, err := s.questionRepo.GetByID(questionID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureMutable(question.QuizID); err != nil {
		return nil, err
	}
	return s.answerOrder.ApplyPolicy(questionID, policy)
}
