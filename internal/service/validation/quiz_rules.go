package validation

import (
	"fmt"
	"strings"

	"github.com/yourusername/elearning-api/internal/domain/entity"
)

// Лимиты уровня теста
const (
	MinTitleLen         = 3
	MaxTitleLen         = 150
	MaxDescriptionLen   = 500
	MaxQuestionTextLen  = 500
	MaxExplanationLen   = 1000
	MaxQuestionsPerQuiz = 50

	// Советуемый минимум вопросов — меньше дает статистически шумную оценку
	advisoryMinQuestions = 3
	// Доля баллов одного вопроса, выше которой выдается предупреждение
	advisoryMaxPointShare = 0.5
)

// CheckQuiz проверяет тест целиком: поля теста, каждый вопрос через CheckAnswers
// (ошибки помечаются индексом вопроса для UI), затем проверки уровня теста —
// достижимость проходного балла и советы по распределению баллов.
// Никогда не изменяет состояние; вызывается перед каждым create/replace.
func CheckQuiz(quiz *entity.Quiz) Result {
	result := newResult()

	checkQuizFields(quiz, &result)
	checkQuestions(quiz, &result)
	checkQuizTotals(quiz, &result)

	return result
}

// CheckQuizForPublication — более строгая проверка "готов к публикации":
// дополнительно каждый вопрос обязан иметь непустое объяснение, а open_ended
// вопрос без предложенных ответов получает предупреждение о ручной проверке.
func CheckQuizForPublication(quiz *entity.Quiz) Result {
	result := CheckQuiz(quiz)

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		tag := fmt.Sprintf("question %d", i+1)

		if strings.TrimSpace(q.Explanation) == "" {
			result.addError("%s: explanation is required for publication", tag)
		}
		if q.QuestionType == entity.QuestionTypeOpenEnded && len(q.Answers) == 0 {
			result.addWarning("%s: open ended question has no suggested answers and will require manual grading", tag)
		}
	}

	return result
}

func checkQuizFields(quiz *entity.Quiz, result *Result) {
	title := strings.TrimSpace(quiz.Title)
	if len([]rune(title)) < MinTitleLen {
		result.addError("title must be at least %d characters", MinTitleLen)
	}
	if len([]rune(title)) > MaxTitleLen {
		result.addError("title exceeds %d characters", MaxTitleLen)
	}
	if len([]rune(quiz.Description)) > MaxDescriptionLen {
		result.addError("description exceeds %d characters", MaxDescriptionLen)
	}
	if quiz.PassingScore < entity.MinPassingScore || quiz.PassingScore > entity.MaxPassingScore {
		result.addError("passing score must be between %d and %d, got %d",
			entity.MinPassingScore, entity.MaxPassingScore, quiz.PassingScore)
	}
	if quiz.MaxAttempts < entity.MinMaxAttempts || quiz.MaxAttempts > entity.MaxMaxAttempts {
		result.addError("max attempts must be between %d and %d, got %d",
			entity.MinMaxAttempts, entity.MaxMaxAttempts, quiz.MaxAttempts)
	}
}

func checkQuestions(quiz *entity.Quiz, result *Result) {
	if len(quiz.Questions) == 0 {
		result.addError("quiz must contain at least one question")
		return
	}
	if len(quiz.Questions) > MaxQuestionsPerQuiz {
		result.addError("at most %d questions are allowed, got %d", MaxQuestionsPerQuiz, len(quiz.Questions))
	}

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		tag := fmt.Sprintf("question %d", i+1)

		if strings.TrimSpace(q.Text) == "" {
			result.addError("%s: text must not be empty", tag)
		}
		if len([]rune(q.Text)) > MaxQuestionTextLen {
			result.addError("%s: text exceeds %d characters", tag, MaxQuestionTextLen)
		}
		if len([]rune(q.Explanation)) > MaxExplanationLen {
			result.addError("%s: explanation exceeds %d characters", tag, MaxExplanationLen)
		}
		if q.Points < 1 {
			result.addError("%s: points must be at least 1, got %d", tag, q.Points)
		}

		result.mergeTagged(tag, CheckAnswers(q.QuestionType, q.Answers))
	}
}

// checkQuizTotals выполняет проверки достижимости на уровне теста.
// Проходной балл недостижим, если требуемые баллы превышают сумму доступных;
// если они превышают автоматически оцениваемые баллы — пройти можно только
// после ручной проверки open_ended вопросов (предупреждение, не ошибка).
func checkQuizTotals(quiz *entity.Quiz, result *Result) {
	if len(quiz.Questions) == 0 {
		return
	}

	total := quiz.TotalPoints()
	if total <= 0 {
		result.addError("total question points must be greater than zero")
		return
	}

	required := quiz.RequiredPoints()
	if required > total {
		result.addError("passing score of %d%% requires %d points but only %d are available",
			quiz.PassingScore, required, total)
	} else if required > quiz.AutoScorablePoints() {
		result.addWarning("passing score of %d%% cannot be reached by automatic scoring alone: open ended questions require manual grading", quiz.PassingScore)
	}

	if len(quiz.Questions) < advisoryMinQuestions {
		result.addWarning("quiz has only %d question(s); consider adding more for a reliable assessment", len(quiz.Questions))
	}

	for i := range quiz.Questions {
		if float64(quiz.Questions[i].Points) > advisoryMaxPointShare*float64(total) {
			result.addWarning("question %d carries more than half of the total points", i+1)
		}
	}
}
