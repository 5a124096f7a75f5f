package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/elearning-api/internal/domain/entity"
	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
)

// newAttemptServiceForTest создает сервис с прозрачным кешем:
// чтение промахивается, запись и инвалидация успешны. Тесты, проверяющие
// поведение кеша, настраивают собственный MockCacheRepo.
func newAttemptServiceForTest(attemptRepo *MockAttemptRepo, quizRepo *MockQuizRepo) (*AttemptService, *MockCacheRepo) {
	cache := new(MockCacheRepo)
	cache.On("Get", mock.Anything).Return("", apperrors.ErrNotFound).Maybe()
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cache.On("Delete", mock.Anything).Return(nil).Maybe()
	return NewAttemptService(attemptRepo, quizRepo, cache), cache
}

// trueFalseQuiz — тест из одного true_false вопроса: правильный ответ ID=2 ("Неверно"),
// проходной балл 70%
func trueFalseQuiz() *entity.Quiz {
	return &entity.Quiz{
		ID:           1,
		LessonID:     5,
		Title:        "Мини-тест",
		PassingScore: 70,
		MaxAttempts:  3,
		Questions: []entity.Question{
			{
				ID:           10,
				QuizID:       1,
				QuestionType: entity.QuestionTypeTrueFalse,
				Text:         "Дважды два равно пяти",
				Points:       1,
				Position:     1,
				Answers: []entity.Answer{
					{ID: 1, QuestionID: 10, AnswerText: "Верно", IsCorrect: false, Position: 1},
					{ID: 2, QuestionID: 10, AnswerText: "Неверно", IsCorrect: true, Position: 2},
				},
			},
		},
	}
}

func TestAttemptService_SubmitAttempt_CorrectAnswerPasses(t *testing.T) {
	// Arrange
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)

	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(trueFalseQuiz(), nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(0), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.QuizAttempt")).Return(nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)
	started := time.Now().Add(-2 * time.Minute)

	// Act
	attempt, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{
		{QuestionID: 10, SelectedAnswerIDs: []uint{2}},
	}, started)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 100, attempt.Score, "Точный правильный ответ дает 100%")
	assert.True(t, attempt.Passed, "100 >= 70")
	assert.NotEmpty(t, attempt.PublicID, "Попытка получает публичный UUID")
	assert.Equal(t, started, attempt.StartedAt)
	assert.False(t, attempt.CompletedAt.IsZero())
	mockAttemptRepo.AssertExpectations(t)
}

func TestAttemptService_SubmitAttempt_WrongAnswerFails(t *testing.T) {
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)

	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(trueFalseQuiz(), nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(1), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.QuizAttempt")).Return(nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	attempt, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{
		{QuestionID: 10, SelectedAnswerIDs: []uint{1}},
	}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
	assert.False(t, attempt.Passed)
}

func TestAttemptService_SubmitAttempt_EmptySubmissionScoresZero(t *testing.T) {
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)

	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(trueFalseQuiz(), nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(0), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.QuizAttempt")).Return(nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	attempt, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{}, time.Now())

	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score, "Пустая отправка — 0% при ненулевой сумме баллов")
	assert.False(t, attempt.Passed)
}

func TestAttemptService_SubmitAttempt_AttemptLimitEnforced(t *testing.T) {
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)

	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(trueFalseQuiz(), nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(3), nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	_, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{
		{QuestionID: 10, SelectedAnswerIDs: []uint{2}},
	}, time.Now())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "Лимит попыток исчерпан")
	mockAttemptRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAttemptService_SubmitAttempt_UnknownQuestionRejected(t *testing.T) {
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)

	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(trueFalseQuiz(), nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(0), nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	_, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{
		{QuestionID: 999, SelectedAnswerIDs: []uint{2}},
	}, time.Now())

	assert.ErrorIs(t, err, apperrors.ErrValidation, "Ответ на чужой вопрос — ошибка валидации, а не 0 баллов")
	mockAttemptRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAttemptService_SubmitAttempt_DuplicateAnswerRejected(t *testing.T) {
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)

	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(trueFalseQuiz(), nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(0), nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	_, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{
		{QuestionID: 10, SelectedAnswerIDs: []uint{2}},
		{QuestionID: 10, SelectedAnswerIDs: []uint{1}},
	}, time.Now())

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAttemptService_SubmitAttempt_NoPartialCreditForSubset(t *testing.T) {
	// Arrange: multiple_choice с двумя правильными вариантами
	quiz := &entity.Quiz{
		ID:           1,
		Title:        "Тест",
		PassingScore: 50,
		MaxAttempts:  3,
		Questions: []entity.Question{
			{
				ID:           10,
				QuizID:       1,
				QuestionType: entity.QuestionTypeMultipleChoice,
				Text:         "Выберите все правильные",
				Points:       4,
				Position:     1,
				Answers: []entity.Answer{
					{ID: 1, IsCorrect: true, Position: 1},
					{ID: 2, IsCorrect: true, Position: 2},
					{ID: 3, IsCorrect: false, Position: 3},
				},
			},
		},
	}

	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(quiz, nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(0), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.QuizAttempt")).Return(nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	// Act: выбрано подмножество правильных ответов
	attempt, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{
		{QuestionID: 10, SelectedAnswerIDs: []uint{1}},
	}, time.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score, "Частичного зачета за подмножество нет")
}

func TestAttemptService_SubmitAttempt_OpenEndedStaysInDenominator(t *testing.T) {
	// Arrange: mc на 2 балла (отвечен правильно) + open_ended на 1 балл.
	// Автоматический максимум: 2 из 3 = 67%
	quiz := &entity.Quiz{
		ID:           1,
		Title:        "Смешанный тест",
		PassingScore: 70,
		MaxAttempts:  3,
		Questions: []entity.Question{
			{
				ID:           10,
				QuestionType: entity.QuestionTypeMultipleChoice,
				Text:         "Автооцениваемый",
				Points:       2,
				Position:     1,
				Answers: []entity.Answer{
					{ID: 1, IsCorrect: true, Position: 1},
					{ID: 2, IsCorrect: false, Position: 2},
				},
			},
			{
				ID:           11,
				QuestionType: entity.QuestionTypeOpenEnded,
				Text:         "Развернутый ответ",
				Points:       1,
				Position:     2,
			},
		},
	}

	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(quiz, nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(0), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.QuizAttempt")).Return(nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	// Act
	attempt, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{
		{QuestionID: 10, SelectedAnswerIDs: []uint{1}},
		{QuestionID: 11, TextResponse: "Свободный текст для ручной проверки"},
	}, time.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 67, attempt.Score, "Баллы open_ended остаются в знаменателе: round(2/3*100)=67")
	assert.False(t, attempt.Passed, "67 < 70: без ручной проверки тест не пройден")
	// Сырой текстовый ответ сохранен для ручной проверки
	saved := attempt.AnswerForQuestion(11)
	require.NotNil(t, saved)
	assert.Equal(t, "Свободный текст для ручной проверки", saved.TextResponse)
}

func TestAttemptService_SubmitAttempt_HalfPercentRoundsUp(t *testing.T) {
	// Arrange: 3 из 8 баллов = 37.5% — округляется вверх до 38
	quiz := &entity.Quiz{
		ID:           1,
		Title:        "Тест на округление",
		PassingScore: 70,
		MaxAttempts:  3,
		Questions: []entity.Question{
			{
				ID:           10,
				QuestionType: entity.QuestionTypeTrueFalse,
				Text:         "Первый",
				Points:       3,
				Position:     1,
				Answers: []entity.Answer{
					{ID: 1, IsCorrect: true, Position: 1},
					{ID: 2, IsCorrect: false, Position: 2},
				},
			},
			{
				ID:           11,
				QuestionType: entity.QuestionTypeTrueFalse,
				Text:         "Второй",
				Points:       5,
				Position:     2,
				Answers: []entity.Answer{
					{ID: 3, IsCorrect: true, Position: 1},
					{ID: 4, IsCorrect: false, Position: 2},
				},
			},
		},
	}

	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(quiz, nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(0), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.QuizAttempt")).Return(nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	// Act: правильный ответ только на первый вопрос
	attempt, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{
		{QuestionID: 10, SelectedAnswerIDs: []uint{1}},
		{QuestionID: 11, SelectedAnswerIDs: []uint{4}},
	}, time.Now())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 38, attempt.Score, "round(3/8*100) = round(37.5) = 38, половина уходит вверх")
}

func TestAttemptService_RemainingAttempts(t *testing.T) {
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)

	mockQuizRepo.On("GetByID", uint(1)).Return(&entity.Quiz{ID: 1, MaxAttempts: 3}, nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(2), nil)

	svc, _ := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	remaining, err := svc.RemainingAttempts(1, 7)

	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}

func TestAttemptService_RemainingAttempts_ServedFromCache(t *testing.T) {
	// Arrange: счетчик уже в кеше — БД не трогаем
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)
	cache := new(MockCacheRepo)

	mockQuizRepo.On("GetByID", uint(1)).Return(&entity.Quiz{ID: 1, MaxAttempts: 3}, nil)
	cache.On("Get", "attempts:used:1:7").Return("2", nil)

	svc := NewAttemptService(mockAttemptRepo, mockQuizRepo, cache)

	// Act
	remaining, err := svc.RemainingAttempts(1, 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, remaining, "Счетчик из кеша: 3 - 2 = 1")
	mockAttemptRepo.AssertNotCalled(t, "CountByQuizAndUser", mock.Anything, mock.Anything)
}

func TestAttemptService_RemainingAttempts_CacheMissFallsBackToDB(t *testing.T) {
	// Arrange: промах кеша — считаем по БД и кладем результат обратно
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)
	cache := new(MockCacheRepo)

	mockQuizRepo.On("GetByID", uint(1)).Return(&entity.Quiz{ID: 1, MaxAttempts: 3}, nil)
	cache.On("Get", "attempts:used:1:7").Return("", apperrors.ErrNotFound)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(3), nil)
	cache.On("Set", "attempts:used:1:7", int64(3), attemptCountTTL).Return(nil)

	svc := NewAttemptService(mockAttemptRepo, mockQuizRepo, cache)

	// Act
	remaining, err := svc.RemainingAttempts(1, 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	cache.AssertExpectations(t)
}

func TestAttemptService_SubmitAttempt_InvalidatesCachedCount(t *testing.T) {
	// Arrange
	mockAttemptRepo := new(MockAttemptRepo)
	mockQuizRepo := new(MockQuizRepo)

	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(trueFalseQuiz(), nil)
	mockAttemptRepo.On("CountByQuizAndUser", uint(1), uint(7)).Return(int64(0), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.QuizAttempt")).Return(nil)

	svc, cache := newAttemptServiceForTest(mockAttemptRepo, mockQuizRepo)

	// Act
	_, err := svc.SubmitAttempt(1, 7, []entity.AttemptAnswer{
		{QuestionID: 10, SelectedAnswerIDs: []uint{2}},
	}, time.Now())

	// Assert: после новой попытки кешированный счетчик сброшен
	require.NoError(t, err)
	cache.AssertCalled(t, "Delete", "attempts:used:1:7")
}
