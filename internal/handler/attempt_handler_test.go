package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/elearning-api/internal/domain/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newExportContext создает *gin.Context для тестов экспорта
func newExportContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/quizzes/1/attempts/export", nil)
	return c, w
}

func exportFixtures() []entity.QuizAttempt {
	started := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return []entity.QuizAttempt{
		{
			PublicID:    "6f1c2a30-0000-4000-8000-000000000001",
			QuizID:      1,
			UserID:      42,
			Score:       80,
			Passed:      true,
			StartedAt:   started,
			CompletedAt: started.Add(5 * time.Minute),
		},
		{
			PublicID:    "=2+2", // злонамеренный идентификатор не должен стать формулой
			QuizID:      1,
			UserID:      43,
			Score:       30,
			Passed:      false,
			StartedAt:   started,
			CompletedAt: started.Add(3 * time.Minute),
		},
	}
}

// ============================================================================
// Экспорт CSV: заголовки, BOM, экранирование формул
// ============================================================================

func TestExportCSV_HeadersAndRows(t *testing.T) {
	// Arrange
	handler := &AttemptHandler{} // exportCSV не обращается к сервису
	c, w := newExportContext()

	// Act
	handler.exportCSV(c, exportFixtures(), "quiz_1_attempts_2026-03-10")

	// Assert
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "quiz_1_attempts_2026-03-10.csv")

	body := w.Body.Bytes()
	require.True(t, len(body) > 3, "Тело экспорта не должно быть пустым")
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, body[:3], "CSV должен начинаться с UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(string(body[3:])), "\n")
	require.Len(t, lines, 3, "Заголовок и две строки данных")
	assert.Equal(t, "Попытка,Пользователь,Результат (%),Пройден,Начата,Завершена", strings.TrimSpace(lines[0]))
	assert.Contains(t, lines[1], "6f1c2a30-0000-4000-8000-000000000001")
	assert.Contains(t, lines[1], "Да")
	assert.Contains(t, lines[2], "Нет")
}

func TestExportCSV_EscapesFormulaInjection(t *testing.T) {
	// Arrange
	handler := &AttemptHandler{}
	c, w := newExportContext()

	// Act
	handler.exportCSV(c, exportFixtures(), "export")

	// Assert: значение, начинающееся с '=', получает префикс-апостроф
	assert.Contains(t, w.Body.String(), "'=2+2")
	assert.NotContains(t, w.Body.String(), "\n=2+2")
}

func TestSanitizeForExcel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@cmd", "'@cmd"},
		{"\tx", "'\tx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeForExcel(tt.in), "Вход %q", tt.in)
	}
}
