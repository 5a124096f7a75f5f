package postgres

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/yourusername/elearning-api/internal/domain/repository"
)

// applyPositionsTx двухфазно присваивает позиции sibling-записям внутри
// уже открытой транзакции. Наивное однопроходное обновление ломается об
// уникальный индекс (parent, position): при перестановке промежуточное
// состояние содержит дубликаты позиций.
//
// Фаза 1: каждой записи — уникальная временная позиция из отрицательного
// диапазона, который не пересекается ни с одной финальной позицией.
// Фаза 2: финальные позиции 1..N. Откат транзакции отменяет обе фазы.
func applyPositionsTx(tx *gorm.DB, model interface{}, parentColumn string, parentID uint, positions map[uint]int) error {
	// Детерминированный порядок обновлений: стабильность и предсказуемость
	// при разборе конфликтов в логах
	ids := make([]uint, 0, len(positions))
	for id := range positions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// Фаза 1: временные отрицательные позиции
	for i, id := range ids {
		result := tx.Model(model).
			Where(parentColumn+" = ? AND id = ?", parentID, id).
			Update("position", -(i + 1))
		if result.Error != nil {
			return fmt.Errorf("phase 1 for id %d: %w", id, classifyPositionError(result.Error))
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("phase 1: record %d not found under parent %d", id, parentID)
		}
	}

	// Фаза 2: финальные позиции
	for _, id := range ids {
		result := tx.Model(model).
			Where(parentColumn+" = ? AND id = ?", parentID, id).
			Update("position", positions[id])
		if result.Error != nil {
			return fmt.Errorf("phase 2 for id %d: %w", id, classifyPositionError(result.Error))
		}
	}

	return nil
}

// compactPositionsTx перенумеровывает sibling-записи родителя плотно 1..N,
// сохраняя относительный порядок. Вызывается внутри транзакции удаления,
// чтобы разрыв нумерации не пережил коммит.
func compactPositionsTx(tx *gorm.DB, model interface{}, parentColumn string, parentID uint) error {
	var rows []struct {
		ID       uint
		Position int
	}
	err := tx.Model(model).
		Where(parentColumn+" = ?", parentID).
		Order("position").
		Select("id", "position").
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("load siblings of parent %d: %w", parentID, err)
	}

	positions := make(map[uint]int, len(rows))
	dense := true
	for i, row := range rows {
		positions[row.ID] = i + 1
		if row.Position != i+1 {
			dense = false
		}
	}
	if dense {
		return nil
	}

	return applyPositionsTx(tx, model, parentColumn, parentID, positions)
}

// classifyPositionError переводит unique violation (23505) в доменную ошибку
func classifyPositionError(err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", repository.ErrPositionConflict, err)
	}
	return err
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
