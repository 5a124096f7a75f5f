package repository

import "errors"

var (
	// ErrPositionConflict означает, что присвоение позиций нарушило
	// уникальный индекс (parent, position). При корректной двухфазной записи
	// внутри транзакции эта ошибка не должна возникать — она сигнализирует
	// о конкурирующей записи вне транзакции.
	ErrPositionConflict = errors.New("sibling position conflict")
)
