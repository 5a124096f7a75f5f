package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yourusername/elearning-api/internal/domain/entity"
)

func validQuiz() *entity.Quiz {
	return &entity.Quiz{
		LessonID:     1,
		Title:        "Контрольная по главе 1",
		Description:  "Проверка усвоения материала",
		PassingScore: 70,
		MaxAttempts:  3,
		Questions: []entity.Question{
			{
				QuestionType: entity.QuestionTypeMultipleChoice,
				Text:         "Столица Франции?",
				Points:       2,
				Explanation:  "Париж — столица Франции с 987 года.",
				Answers:      answerSet([]string{"Париж", "Лондон", "Берлин"}, 0),
			},
			{
				QuestionType: entity.QuestionTypeTrueFalse,
				Text:         "Земля плоская.",
				Points:       1,
				Explanation:  "Земля имеет форму геоида.",
				Answers:      answerSet([]string{"Правда", "Ложь"}, 1),
			},
			{
				QuestionType: entity.QuestionTypeTrueFalse,
				Text:         "Вода кипит при 100°C на уровне моря.",
				Points:       1,
				Explanation:  "При нормальном атмосферном давлении.",
				Answers:      answerSet([]string{"Правда", "Ложь"}, 0),
			},
		},
	}
}

func TestCheckQuiz_Valid(t *testing.T) {
	// Act
	result := CheckQuiz(validQuiz())

	// Assert
	assert.True(t, result.Valid, "Корректный тест должен проходить проверку: %v", result.Errors)
	assert.Empty(t, result.Errors)
}

func TestCheckQuiz_FieldViolations(t *testing.T) {
	// Arrange: несколько нарушений полей одновременно
	quiz := validQuiz()
	quiz.Title = "ab"
	quiz.PassingScore = 120
	quiz.MaxAttempts = 0

	// Act
	result := CheckQuiz(quiz)

	// Assert: все нарушения в одном списке
	assert.False(t, result.Valid)
	joined := strings.Join(result.Errors, "; ")
	assert.Contains(t, joined, "title must be at least")
	assert.Contains(t, joined, "passing score must be between")
	assert.Contains(t, joined, "max attempts must be between")
}

func TestCheckQuiz_NoQuestions(t *testing.T) {
	// Arrange
	quiz := validQuiz()
	quiz.Questions = nil

	// Act
	result := CheckQuiz(quiz)

	// Assert
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "at least one question")
}

func TestCheckQuiz_QuestionErrorsAreTagged(t *testing.T) {
	// Arrange: второй вопрос сломан
	quiz := validQuiz()
	quiz.Questions[1].Answers = answerSet([]string{"Правда", "Ложь", "Не знаю"}, 0)

	// Act
	result := CheckQuiz(quiz)

	// Assert: ошибка привязана к индексу вопроса для UI
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "question 2:")
}

func TestCheckQuiz_ZeroPoints(t *testing.T) {
	// Arrange
	quiz := validQuiz()
	for i := range quiz.Questions {
		quiz.Questions[i].Points = 0
	}

	// Act
	result := CheckQuiz(quiz)

	// Assert: и ошибки points на вопросах, и невозможность набрать баллы
	assert.False(t, result.Valid)
	joined := strings.Join(result.Errors, "; ")
	assert.Contains(t, joined, "points must be at least 1")
	assert.Contains(t, joined, "greater than zero")
}

func TestCheckQuiz_OpenEndedCapsAutomaticScore(t *testing.T) {
	// Arrange: open_ended несет половину баллов, порог 70% недостижим автоматически
	quiz := validQuiz()
	quiz.Questions = append(quiz.Questions, entity.Question{
		QuestionType: entity.QuestionTypeOpenEnded,
		Text:         "Объясните фотосинтез.",
		Points:       4,
		Explanation:  "Световая и темновая фазы.",
	})

	// Act
	result := CheckQuiz(quiz)

	// Assert: сохранить можно, но автор предупрежден о ручной проверке
	assert.True(t, result.Valid, "Ошибки: %v", result.Errors)
	joined := strings.Join(result.Warnings, "; ")
	assert.Contains(t, joined, "manual grading")
}

func TestCheckQuiz_PointDistributionAdvisory(t *testing.T) {
	// Arrange: первый вопрос несет больше половины баллов
	quiz := validQuiz()
	quiz.Questions[0].Points = 10

	// Act
	result := CheckQuiz(quiz)

	// Assert
	assert.True(t, result.Valid)
	joined := strings.Join(result.Warnings, "; ")
	assert.Contains(t, joined, "more than half of the total points")
}

func TestCheckQuizForPublication_RequiresExplanations(t *testing.T) {
	// Arrange
	quiz := validQuiz()
	quiz.Questions[0].Explanation = ""

	// Act
	saveResult := CheckQuiz(quiz)
	pubResult := CheckQuizForPublication(quiz)

	// Assert: сохранять можно, публиковать нельзя
	assert.True(t, saveResult.Valid)
	assert.False(t, pubResult.Valid)
	assert.Contains(t, pubResult.Errors[0], "question 1: explanation is required")
}

func TestCheckQuizForPublication_OpenEndedWithoutSuggestionsWarns(t *testing.T) {
	// Arrange
	quiz := validQuiz()
	quiz.Questions = append(quiz.Questions, entity.Question{
		QuestionType: entity.QuestionTypeOpenEnded,
		Text:         "Опишите круговорот воды.",
		Points:       1,
		Explanation:  "Испарение, конденсация, осадки.",
	})

	// Act
	result := CheckQuizForPublication(quiz)

	// Assert: предупреждение, не ошибка
	assert.True(t, result.Valid, "Ошибки: %v", result.Errors)
	joined := strings.Join(result.Warnings, "; ")
	assert.Contains(t, joined, "manual grading")
}
