package ordering

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/yourusername/elearning-api/internal/pkg/errors"
)

// Policy names an automatic reordering strategy. Each policy computes a target
// permutation from the current sibling state and delegates to Reorder, so the
// two-phase write path is shared with explicit reorders.
type Policy string

const (
	// PolicyAlphabetical orders by label, case-insensitive.
	PolicyAlphabetical Policy = "alphabetical"
	// PolicyReverse flips the current order.
	PolicyReverse Policy = "reverse"
	// PolicyByValue orders by the secondary numeric field, ascending.
	PolicyByValue Policy = "by_value"
	// PolicyPublishedFirst moves published records up, stable on ties.
	PolicyPublishedFirst Policy = "published_first"
	// PolicyRepairGaps renumbers 1..N preserving relative order without reshuffling.
	PolicyRepairGaps Policy = "repair_gaps"
)

// ParsePolicy validates a policy name coming from a request.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(name) {
	case PolicyAlphabetical, PolicyReverse, PolicyByValue, PolicyPublishedFirst, PolicyRepairGaps:
		return Policy(name), nil
	default:
		return "", fmt.Errorf("%w: unknown ordering policy %q", apperrors.ErrValidation, name)
	}
}

// ApplyPolicy reorders the siblings of parentID according to the policy.
func (m *Maintainer) ApplyPolicy(parentID uint, policy Policy) ([]Sibling, error) {
	siblings, err := m.store.Siblings(parentID)
	if err != nil {
		return nil, fmt.Errorf("load siblings of parent #%d: %w", parentID, err)
	}

	// Start from the current relative order; every policy below is a stable
	// sort on top of it, so ties keep their existing order.
	current := make([]Sibling, len(siblings))
	copy(current, siblings)
	sort.SliceStable(current, func(i, j int) bool { return current[i].Position < current[j].Position })

	switch policy {
	case PolicyAlphabetical:
		sort.SliceStable(current, func(i, j int) bool {
			return strings.ToLower(current[i].Label) < strings.ToLower(current[j].Label)
		})
	case PolicyReverse:
		for i, j := 0, len(current)-1; i < j; i, j = i+1, j-1 {
			current[i], current[j] = current[j], current[i]
		}
	case PolicyByValue:
		sort.SliceStable(current, func(i, j int) bool {
			return current[i].SortValue < current[j].SortValue
		})
	case PolicyPublishedFirst:
		sort.SliceStable(current, func(i, j int) bool {
			return current[i].Published && !current[j].Published
		})
	case PolicyRepairGaps:
		// Relative order already established above; renumbering happens in Reorder.
	default:
		return nil, fmt.Errorf("%w: unknown ordering policy %q", apperrors.ErrValidation, string(policy))
	}

	orderedIDs := make([]uint, len(current))
	for i := range current {
		orderedIDs[i] = current[i].ID
	}

	return m.Reorder(parentID, orderedIDs)
}
