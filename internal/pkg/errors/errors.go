package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия
	// (в том числе исчерпан лимит попыток прохождения теста).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния: структурное изменение
	// теста с существующими попытками, удаление последнего вопроса/ответа,
	// повторное создание теста для урока. Не устраняется повтором того же запроса.
	ErrConflict = errors.New("resource state conflict")
)
