package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestion_IsExactMatch_ExactSet(t *testing.T) {
	// Arrange
	question := &Question{
		ID:           1,
		QuestionType: QuestionTypeMultipleChoice,
		Answers: []Answer{
			{ID: 10, IsCorrect: true},
			{ID: 11, IsCorrect: false},
			{ID: 12, IsCorrect: true},
			{ID: 13, IsCorrect: false},
		},
	}

	// Act & Assert: точное множество правильных ответов
	assert.True(t, question.IsExactMatch([]uint{10, 12}), "Точное множество должно быть засчитано")
	assert.True(t, question.IsExactMatch([]uint{12, 10}), "Порядок выбора не должен влиять")
	assert.True(t, question.IsExactMatch([]uint{10, 12, 12}), "Дубликаты в выборе не должны влиять (сравнение множеств)")
}

func TestQuestion_IsExactMatch_PartialOrWrong(t *testing.T) {
	// Arrange
	question := &Question{
		ID:           1,
		QuestionType: QuestionTypeMultipleChoice,
		Answers: []Answer{
			{ID: 10, IsCorrect: true},
			{ID: 11, IsCorrect: false},
			{ID: 12, IsCorrect: true},
		},
	}

	// Act & Assert: частичный выбор не засчитывается
	assert.False(t, question.IsExactMatch([]uint{10}), "Подмножество правильных ответов не засчитывается")
	assert.False(t, question.IsExactMatch([]uint{10, 11, 12}), "Лишний неправильный ответ не засчитывается")
	assert.False(t, question.IsExactMatch([]uint{11}), "Неправильный ответ не засчитывается")
	assert.False(t, question.IsExactMatch(nil), "Пустой выбор не засчитывается")
}

func TestQuestion_IsExactMatch_NoCorrectAnswers(t *testing.T) {
	// Arrange: вопрос без правильных ответов (невалидное состояние, но скоринг не должен паниковать)
	question := &Question{
		ID:           1,
		QuestionType: QuestionTypeMultipleChoice,
		Answers: []Answer{
			{ID: 10, IsCorrect: false},
		},
	}

	// Act & Assert
	assert.False(t, question.IsExactMatch(nil), "Без правильных ответов ничего не засчитывается")
	assert.False(t, question.IsExactMatch([]uint{10}))
}

func TestQuestion_IsAutoScored(t *testing.T) {
	// Act & Assert
	assert.True(t, (&Question{QuestionType: QuestionTypeMultipleChoice}).IsAutoScored())
	assert.True(t, (&Question{QuestionType: QuestionTypeTrueFalse}).IsAutoScored())
	assert.False(t, (&Question{QuestionType: QuestionTypeOpenEnded}).IsAutoScored(), "open_ended оценивается вручную")
	assert.False(t, (&Question{QuestionType: "essay"}).IsAutoScored(), "Неизвестный тип не оценивается автоматически")
}

func TestIsKnownQuestionType(t *testing.T) {
	assert.True(t, IsKnownQuestionType(QuestionTypeMultipleChoice))
	assert.True(t, IsKnownQuestionType(QuestionTypeTrueFalse))
	assert.True(t, IsKnownQuestionType(QuestionTypeOpenEnded))
	assert.False(t, IsKnownQuestionType("matching"))
	assert.False(t, IsKnownQuestionType(""))
}

func TestQuiz_TotalPoints(t *testing.T) {
	// Arrange
	quiz := &Quiz{
		Questions: []Question{
			{QuestionType: QuestionTypeMultipleChoice, Points: 5},
			{QuestionType: QuestionTypeTrueFalse, Points: 3},
			{QuestionType: QuestionTypeOpenEnded, Points: 2},
		},
	}

	// Act & Assert
	assert.Equal(t, 10, quiz.TotalPoints())
	assert.Equal(t, 8, quiz.AutoScorablePoints(), "open_ended не входит в автоматически оцениваемые баллы")
}

func TestQuiz_RequiredPoints(t *testing.T) {
	// Arrange: 10 баллов, проходной порог 70% → нужно минимум 7 баллов
	quiz := &Quiz{
		PassingScore: 70,
		Questions: []Question{
			{QuestionType: QuestionTypeMultipleChoice, Points: 10},
		},
	}

	// Act & Assert
	assert.Equal(t, 7, quiz.RequiredPoints())

	// Порог 67% от 3 баллов → ceil(2.01) = 3
	quiz.PassingScore = 67
	quiz.Questions = []Question{{QuestionType: QuestionTypeTrueFalse, Points: 3}}
	assert.Equal(t, 3, quiz.RequiredPoints())

	// Пустой тест
	quiz.Questions = nil
	assert.Equal(t, 0, quiz.RequiredPoints())
}

func TestQuizAttempt_AnswerForQuestion(t *testing.T) {
	// Arrange
	attempt := &QuizAttempt{
		Answers: AttemptAnswerArray{
			{QuestionID: 1, SelectedAnswerIDs: []uint{2}},
			{QuestionID: 2, TextResponse: "свободный ответ"},
		},
	}

	// Act & Assert
	found := attempt.AnswerForQuestion(2)
	assert.NotNil(t, found)
	assert.Equal(t, "свободный ответ", found.TextResponse)
	assert.Nil(t, attempt.AnswerForQuestion(99), "Пропущенный вопрос — nil")
}
