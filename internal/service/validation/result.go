package validation

import "fmt"

// Result — результат проверки бизнес-правил.
// Валидаторы не возвращают error для ожидаемых нарушений: все нарушения
// накапливаются в Errors, чтобы автор видел полный список проблем сразу.
// Warnings не блокируют сохранение.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

func newResult() Result {
	return Result{Valid: true, Errors: []string{}, Warnings: []string{}}
}

func (r *Result) addError(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// mergeTagged добавляет ошибки и предупреждения другого результата,
// помечая каждую строку префиксом (например, "question 3"). Префикс нужен
// UI, чтобы сопоставить ошибку с конкретным вопросом формы.
func (r *Result) mergeTagged(tag string, other Result) {
	for _, e := range other.Errors {
		r.addError("%s: %s", tag, e)
	}
	for _, w := range other.Warnings {
		r.addWarning("%s: %s", tag, w)
	}
}
