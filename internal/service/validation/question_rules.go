package validation

import (
	"strings"

	"github.com/yourusername/elearning-api/internal/domain/entity"
)

// Лимиты авторинга. Ограничивают сложность форм и размер дерева теста.
const (
	MinChoiceAnswers      = 2
	TrueFalseAnswerCount  = 2
	MaxAnswersPerQuestion = 10
	MaxAnswerTextLen      = 500
)

// CheckAnswers проверяет структурную валидность набора ответов для заданного
// типа вопроса. Чистая функция без I/O: вызывается до любой записи в БД.
// Правила зависят от типа (закрытое множество, диспетчеризация через switch):
//   - multiple_choice: ≥2 ответов, ≥1 правильный
//   - true_false: ровно 2 ответа, ровно 1 правильный
//   - open_ended: 0+ предложенных ответов; если они есть, ≥1 правильный
//
// Дубликаты текста (без учета регистра и пробелов по краям) запрещены для всех
// типов: неоднозначный текст делает ответ неразличимым при проверке.
func CheckAnswers(questionType string, answers []entity.Answer) Result {
	result := newResult()

	correctCount := 0
	for i := range answers {
		text := strings.TrimSpace(answers[i].AnswerText)
		if text == "" {
			result.addError("answer %d: text must not be empty", i+1)
		}
		if len([]rune(answers[i].AnswerText)) > MaxAnswerTextLen {
			result.addError("answer %d: text exceeds %d characters", i+1, MaxAnswerTextLen)
		}
		if answers[i].IsCorrect {
			correctCount++
		}
	}

	if len(answers) > MaxAnswersPerQuestion {
		result.addError("at most %d answers are allowed, got %d", MaxAnswersPerQuestion, len(answers))
	}

	checkDuplicateTexts(answers, &result)

	switch questionType {
	case entity.QuestionTypeMultipleChoice:
		if len(answers) < MinChoiceAnswers {
			result.addError("multiple choice question requires at least %d answers, got %d", MinChoiceAnswers, len(answers))
		}
		if correctCount < 1 {
			result.addError("multiple choice question requires at least one correct answer")
		}

	case entity.QuestionTypeTrueFalse:
		if len(answers) != TrueFalseAnswerCount {
			result.addError("true/false question requires exactly %d answers, got %d", TrueFalseAnswerCount, len(answers))
		}
		if correctCount != 1 {
			result.addError("true/false question requires exactly one correct answer, got %d", correctCount)
		}

	case entity.QuestionTypeOpenEnded:
		// Предложенные ответы опциональны — это только подсказки для ручной
		// проверки. Но если они есть, хотя бы один должен быть помечен правильным.
		if len(answers) > 0 && correctCount < 1 {
			result.addError("open ended question with suggested answers requires at least one marked correct")
		}

	default:
		result.addError("unknown question type %q", questionType)
	}

	return result
}

// checkDuplicateTexts находит повторяющиеся тексты ответов.
// Сравнение case-insensitive по обрезанному тексту; каждая пара
// дубликатов сообщается один раз.
func checkDuplicateTexts(answers []entity.Answer, result *Result) {
	seen := make(map[string]int, len(answers))
	reported := make(map[string]bool)

	for i := range answers {
		key := strings.ToLower(strings.TrimSpace(answers[i].AnswerText))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok && !reported[key] {
			result.addError("duplicate answer text %q", strings.TrimSpace(answers[i].AnswerText))
			reported[key] = true
			continue
		}
		seen[key] = i
	}
}
