package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AttemptAnswer хранит сырой ответ ученика на один вопрос.
// Для multiple_choice/true_false заполняется SelectedAnswerIDs,
// для open_ended — TextResponse. Сохраняется как есть для аудита
// и ручной проверки open_ended вопросов.
type AttemptAnswer struct {
	QuestionID        uint   `json:"question_id"`
	SelectedAnswerIDs []uint `json:"selected_answer_ids,omitempty"`
	TextResponse      string `json:"text_response,omitempty"`
}

// AttemptAnswerArray - пользовательский тип для работы с JSONB
type AttemptAnswerArray []AttemptAnswer

// Scan реализует интерфейс sql.Scanner для AttemptAnswerArray
// Используется GORM для чтения JSONB данных из базы
func (a *AttemptAnswerArray) Scan(value interface{}) error {
	if value == nil {
		*a = AttemptAnswerArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = AttemptAnswerArray{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для AttemptAnswerArray
// Используется GORM для записи AttemptAnswerArray в JSONB в базе
func (a AttemptAnswerArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil // Возвращаем пустой JSON массив вместо null
	}
	return json.Marshal(a)
}

// QuizAttempt представляет неизменяемую запись одной попытки прохождения теста.
// Ссылается на тест по ID без каскадного удаления: попытки переживают
// структурную историю теста, целостность обеспечивает Mutation Guard.
// Запись создается один раз после скоринга и никогда не изменяется.
type QuizAttempt struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	PublicID    string             `gorm:"size:36;not null;uniqueIndex" json:"public_id"`
	QuizID      uint               `gorm:"not null;index:idx_attempt_quiz_user" json:"quiz_id"`
	UserID      uint               `gorm:"not null;index:idx_attempt_quiz_user" json:"user_id"`
	Answers     AttemptAnswerArray `gorm:"type:jsonb;not null" json:"answers"`
	Score       int                `gorm:"not null;default:0" json:"score"` // Процент 0..100
	Passed      bool               `gorm:"not null;default:false" json:"passed"`
	StartedAt   time.Time          `gorm:"not null" json:"started_at"`
	CompletedAt time.Time          `gorm:"not null" json:"completed_at"`
	CreatedAt   time.Time          `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// AnswerForQuestion возвращает ответ попытки на заданный вопрос (nil, если вопрос пропущен)
func (qa *QuizAttempt) AnswerForQuestion(questionID uint) *AttemptAnswer {
	for i := range qa.Answers {
		if qa.Answers[i].QuestionID == questionID {
			return &qa.Answers[i]
		}
	}
	return nil
}
