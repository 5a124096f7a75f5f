package entity

import (
	"time"
)

// Lesson представляет урок внутри главы курса.
// Position — плотная нумерация 1..N внутри главы, уникальная в паре (chapter_id, position).
// Урок — точка прикрепления теста (см. Quiz.LessonID) и участник
// той же схемы упорядочивания, что вопросы и ответы.
type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChapterID   uint      `gorm:"not null;index;uniqueIndex:idx_chapter_lesson_position" json:"chapter_id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Position    int       `gorm:"not null;uniqueIndex:idx_chapter_lesson_position" json:"position"`
	Published   bool      `gorm:"not null;default:false" json:"published"`
	DurationMin int       `gorm:"not null;default:0" json:"duration_min"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Lesson) TableName() string {
	return "lessons"
}
