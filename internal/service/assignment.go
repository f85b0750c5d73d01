package service

import (
	"fmt"
	"sort"

	"github.com/zivgin/canonical-product-builder/internal/models"
	"github.com/zivgin/canonical-product-builder/internal/utils"
)

// AssignmentState is the working set of one canonical-product-building
// workflow: at most one chosen listing per sub-chain. The exclusion set used
// by search is always exactly the set of assigned keys; there is no separate
// set that could drift out of sync.
//
// AssignmentState is not safe for concurrent use; the session manager
// serializes access per session.
type AssignmentState struct {
	selected map[string]models.Listing
}

// NewAssignmentState returns an empty assignment state.
func NewAssignmentState() *AssignmentState {
	return &AssignmentState{selected: make(map[string]models.Listing)}
}

// Assign records listing as the chosen representative for the sub-chain.
// Assigning an already-assigned sub-chain is a conflict: the original choice
// is preserved and ErrAssignmentConflict is returned, so an operator's
// earlier pick is never lost without signal. Unassign first to replace.
func (s *AssignmentState) Assign(key string, listing models.Listing) error {
	if _, ok := s.selected[key]; ok {
		return fmt.Errorf("%w: sub-chain %s already has a selection", utils.ErrAssignmentConflict, key)
	}
	s.selected[key] = listing
	return nil
}

// Unassign removes the selection for the sub-chain. Unassigning a sub-chain
// with no selection is a no-op.
func (s *AssignmentState) Unassign(key string) {
	delete(s.selected, key)
}

// Reset clears every selection. Used after a successful save or when the
// operator switches to a new source product.
func (s *AssignmentState) Reset() {
	s.selected = make(map[string]models.Listing)
}

// Selected returns a copy of the current selections.
func (s *AssignmentState) Selected() map[string]models.Listing {
	out := make(map[string]models.Listing, len(s.selected))
	for k, v := range s.selected {
		out[k] = v
	}
	return out
}

// ExcludedKeys returns the set of sub-chains that already have a selection,
// in the shape Search expects.
func (s *AssignmentState) ExcludedKeys() map[string]struct{} {
	out := make(map[string]struct{}, len(s.selected))
	for k := range s.selected {
		out[k] = struct{}{}
	}
	return out
}

// Remaining returns the keys from allKeys that have no selection yet, sorted.
func (s *AssignmentState) Remaining(allKeys []string) []string {
	out := make([]string, 0, len(allKeys))
	for _, k := range allKeys {
		if _, ok := s.selected[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// IsComplete reports whether every required key has a selection. The save
// workflow does not demand full coverage, only a non-empty selection; this is
// informational for the operator.
func (s *AssignmentState) IsComplete(requiredKeys []string) bool {
	for _, k := range requiredKeys {
		if _, ok := s.selected[k]; !ok {
			return false
		}
	}
	return true
}

// Len returns the number of assigned sub-chains.
func (s *AssignmentState) Len() int {
	return len(s.selected)
}
