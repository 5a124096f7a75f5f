package ordering

import (
	"fmt"
	"sort"

	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
)

// Sibling — снимок одной упорядочиваемой записи внутри родителя.
// Одна и та же схема обслуживает ответы внутри вопроса, вопросы внутри теста
// и уроки внутри главы: контракт одинаковый, меняется только Store.
type Sibling struct {
	ID       uint
	Position int
	// Label используется политикой alphabetical
	Label string
	// SortValue — вторичное числовое поле для политики by_value
	SortValue int
	// Published используется политикой published_first
	Published bool
}

// Store абстрагирует хранилище одного вида sibling-записей.
// ApplyPositions обязан выполнять двухфазную запись (временные отрицательные
// позиции, затем финальные) внутри одной транзакции: наивное однопроходное
// обновление ломается об уникальный индекс (parent, position) при перестановке.
type Store interface {
	Siblings(parentID uint) ([]Sibling, error)
	ApplyPositions(parentID uint, positions map[uint]int) error
}

// IDPosition — явно заданная целевая позиция записи
type IDPosition struct {
	ID       uint `json:"id"`
	Position int  `json:"position"`
}

// Maintainer поддерживает плотную нумерацию 1..N для sibling-записей.
// Все проверки выполняются до единственной записи в Store: невалидный ввод
// не оставляет побочных эффектов.
type Maintainer struct {
	store Store
}

// NewMaintainer создает Maintainer поверх заданного хранилища
func NewMaintainer(store Store) *Maintainer {
	return &Maintainer{store: store}
}

// Reorder присваивает записям позиции 1..N в порядке orderedIDs.
// orderedIDs обязан быть точной перестановкой текущих ID внутри родителя:
// отсутствующий, чужой или повторяющийся ID — ошибка валидации без записи.
// Возвращает записи в новом порядке.
func (m *Maintainer) Reorder(parentID uint, orderedIDs []uint) ([]Sibling, error) {
	siblings, err := m.store.Siblings(parentID)
	if err != nil {
		return nil, fmt.Errorf("load siblings of parent #%d: %w", parentID, err)
	}

	positions, err := permutationPositions(siblings, orderedIDs)
	if err != nil {
		return nil, err
	}

	if !positionsChanged(siblings, positions) {
		// Целевой порядок уже на месте — повторный вызов идемпотентен
		return sortedByTarget(siblings, positions), nil
	}

	if err := m.store.ApplyPositions(parentID, positions); err != nil {
		return nil, fmt.Errorf("apply positions for parent #%d: %w", parentID, err)
	}

	return sortedByTarget(siblings, positions), nil
}

// ReorderWithPositions принимает явные целевые позиции вместо порядка массива.
// Позиции обязаны образовывать плотную последовательность 1..N без дубликатов
// и разрывов: проверяется сортировкой и сравнением position[i] == i+1.
func (m *Maintainer) ReorderWithPositions(parentID uint, declared []IDPosition) ([]Sibling, error) {
	sorted := make([]IDPosition, len(declared))
	copy(sorted, declared)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	orderedIDs := make([]uint, 0, len(sorted))
	for i, p := range sorted {
		if p.Position != i+1 {
			return nil, fmt.Errorf("%w: declared positions must form a dense 1..%d sequence", apperrors.ErrValidation, len(sorted))
		}
		orderedIDs = append(orderedIDs, p.ID)
	}

	return m.Reorder(parentID, orderedIDs)
}

// permutationPositions проверяет, что orderedIDs — точная перестановка
// текущего множества ID, и строит отображение id → позиция 1..N
func permutationPositions(siblings []Sibling, orderedIDs []uint) (map[uint]int, error) {
	existing := make(map[uint]bool, len(siblings))
	for _, s := range siblings {
		existing[s.ID] = true
	}

	if len(orderedIDs) != len(siblings) {
		return nil, fmt.Errorf("%w: expected %d ids, got %d", apperrors.ErrValidation, len(siblings), len(orderedIDs))
	}

	positions := make(map[uint]int, len(orderedIDs))
	for i, id := range orderedIDs {
		if !existing[id] {
			return nil, fmt.Errorf("%w: id %d does not belong to this parent", apperrors.ErrValidation, id)
		}
		if _, dup := positions[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d in ordered list", apperrors.ErrValidation, id)
		}
		positions[id] = i + 1
	}

	return positions, nil
}

func positionsChanged(siblings []Sibling, positions map[uint]int) bool {
	for _, s := range siblings {
		if positions[s.ID] != s.Position {
			return true
		}
	}
	return false
}

func sortedByTarget(siblings []Sibling, positions map[uint]int) []Sibling {
	result := make([]Sibling, len(siblings))
	copy(result, siblings)
	for i := range result {
		result[i].Position = positions[result[i].ID]
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result
}
