package service

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	"github.com/yourusername/elearning-api/internal/domain/repository"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
)

// attemptCountTTL — время жизни кешированного счетчика попыток
const attemptCountTTL = 5 * time.Minute

// AttemptService принимает и оценивает попытки прохождения тестов.
// Скоринг читает авторитетное дерево вопросов и пишет одну неизменяемую
// запись попытки; блокировок на тест не берется.
type AttemptService struct {
	attemptRepo repository.AttemptRepository
	quizRepo    repository.QuizRepository
	cacheRepo   repository.CacheRepository
}

// NewAttemptService создает новый сервис попыток
func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	quizRepo repository.QuizRepository,
	cacheRepo repository.CacheRepository,
) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		cacheRepo:   cacheRepo,
	}
}

// attemptCountKey — ключ кеша счетчика использованных попыток
func attemptCountKey(quizID, userID uint) string {
	return fmt.Sprintf("attempts:used:%d:%d", quizID, userID)
}

// SubmitAttempt оценивает ответы ученика и сохраняет неизменяемую запись попытки.
// Лимит maxAttempts проверяется до скоринга. Сырые ответы сохраняются как есть:
// open_ended вопросы проверяются вручную по этой записи.
func (s *AttemptService) SubmitAttempt(quizID, userID uint, answers []entity.AttemptAnswer, startedAt time.Time) (*entity.QuizAttempt, error) {
	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		return nil, err
	}

	used, err := s.attemptRepo.CountByQuizAndUser(quizID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count attempts of user #%d for quiz #%d: %w", userID, quizID, err)
	}
	if used >= int64(quiz.MaxAttempts) {
		return nil, fmt.Errorf("%w: attempt limit reached (%d of %d) for quiz #%d", apperrors.ErrForbidden, used, quiz.MaxAttempts, quizID)
	}

	if err := checkAttemptAnswers(quiz, answers); err != nil {
		return nil, err
	}

	percentage := scoreAttempt(quiz, answers)

	attempt := &entity.QuizAttempt{
		PublicID:    uuid.New().String(),
		QuizID:      quizID,
		UserID:      userID,
		Answers:     answers,
		Score:       percentage,
		Passed:      percentage >= quiz.PassingScore,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
	}

	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, fmt.Errorf("failed to save attempt for quiz #%d: %w", quizID, err)
	}

	// Кешированный счетчик попыток устарел
	if err := s.cacheRepo.Delete(attemptCountKey(quizID, userID)); err != nil {
		log.Printf("[AttemptService] Не удалось инвалидировать счетчик попыток quiz=%d user=%d: %v", quizID, userID, err)
	}

	log.Printf("[AttemptService] Попытка %s: пользователь %d, тест %d, результат %d%%, passed=%v",
		attempt.PublicID, userID, quizID, attempt.Score, attempt.Passed)
	return attempt, nil
}

// checkAttemptAnswers проверяет, что каждый ответ ссылается на существующий
// вопрос теста и на вопрос дан не более одного ответа. Чужой или
// повторяющийся questionID — ошибка валидации, а не "неправильный ответ".
func checkAttemptAnswers(quiz *entity.Quiz, answers []entity.AttemptAnswer) error {
	seen := make(map[uint]bool, len(answers))
	for _, a := range answers {
		if quiz.QuestionByID(a.QuestionID) == nil {
			return fmt.Errorf("%w: question #%d does not belong to quiz #%d", apperrors.ErrValidation, a.QuestionID, quiz.ID)
		}
		if seen[a.QuestionID] {
			return fmt.Errorf("%w: duplicate answer for question #%d", apperrors.ErrValidation, a.QuestionID)
		}
		seen[a.QuestionID] = true
	}
	return nil
}

// scoreAttempt вычисляет процент набранных баллов.
// Автооцениваемый вопрос засчитывается полностью при точном совпадении
// множества выбранных ID с множеством правильных; частичного зачета нет.
// open_ended дает 0 в числитель, но его баллы остаются в знаменателе:
// автоматический максимум такого теста ниже 100% до ручной проверки.
func scoreAttempt(quiz *entity.Quiz, answers []entity.AttemptAnswer) int {
	totalPoints := quiz.TotalPoints()
	if totalPoints == 0 {
		return 0
	}

	byQuestion := make(map[uint]*entity.AttemptAnswer, len(answers))
	for i := range answers {
		byQuestion[answers[i].QuestionID] = &answers[i]
	}

	earned := 0
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		if !q.IsAutoScored() {
			continue
		}
		answer, ok := byQuestion[q.ID]
		if !ok {
			continue // пропущенный вопрос — 0 баллов
		}
		if q.IsExactMatch(answer.SelectedAnswerIDs) {
			earned += q.Points
		}
	}

	// round(earned/total*100) без float. Усечение totalPoints/2 безобидно:
	// при нечетном total точная половина недостижима (earned*200 четно,
	// total*(2k+1) нечетно), так что результат совпадает с round-half-up.
	return (earned*100 + totalPoints/2) / totalPoints
}

// GetAttempt возвращает попытку по публичному UUID
func (s *AttemptService) GetAttempt(publicID string) (*entity.QuizAttempt, error) {
	return s.attemptRepo.GetByPublicID(publicID)
}

// ListQuizAttempts возвращает попытки теста с пагинацией (админский обзор)
func (s *AttemptService) ListQuizAttempts(quizID uint, page, pageSize int) ([]entity.QuizAttempt, int64, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * pageSize
	return s.attemptRepo.ListByQuiz(quizID, pageSize, offset)
}

// GetQuizAttemptsAll возвращает все попытки теста без пагинации (для экспорта)
func (s *AttemptService) GetQuizAttemptsAll(quizID uint) ([]entity.QuizAttempt, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	// отрицательный limit отменяет LIMIT в GORM
	attempts, _, err := s.attemptRepo.ListByQuiz(quizID, -1, 0)
	return attempts, err
}

// GetUserAttempts возвращает попытки пользователя для теста (новые первыми)
func (s *AttemptService) GetUserAttempts(quizID, userID uint) ([]entity.QuizAttempt, error) {
	if _, err := s.quizRepo.GetByID(quizID); err != nil {
		return nil, err
	}
	return s.attemptRepo.ListByQuizAndUser(quizID, userID)
}

// RemainingAttempts возвращает, сколько попыток осталось у пользователя
func (s *AttemptService) RemainingAttempts(quizID, userID uint) (int, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return 0, err
	}
	used, err := s.usedAttempts(quizID, userID)
	if err != nil {
		return 0, err
	}
	remaining := quiz.MaxAttempts - int(used)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// usedAttempts возвращает количество использованных попыток, сначала из кеша.
// Кеш ускоряет только чтение: лимит при отправке проверяется по БД напрямую.
// Ошибка кеша не фатальна — источник истины всегда БД.
func (s *AttemptService) usedAttempts(quizID, userID uint) (int64, error) {
	key := attemptCountKey(quizID, userID)
	if cached, err := s.cacheRepo.Get(key); err == nil {
		if used, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
			return used, nil
		}
	}

	used, err := s.attemptRepo.CountByQuizAndUser(quizID, userID)
	if err != nil {
		return 0, err
	}
	if err := s.cacheRepo.Set(key, used, attemptCountTTL); err != nil {
		log.Printf("[AttemptService] Не удалось закешировать счетчик попыток %s: %v", key, err)
	}
	return used, nil
}
