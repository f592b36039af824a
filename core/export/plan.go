package export

import (
	"fmt"
	"sort"
)

// Planner partitions an entity collection into size-bounded export chunks.
type Planner struct {
	// BatchSize is the maximum chunk length. Must be positive.
	BatchSize int

	// DependsOnSibling reports whether an entity references another entity of
	// its own kind. When set, independent entities are ordered ahead of
	// dependent ones before chunking. This is a single-level heuristic, not a
	// topological sort; correctness is delivered by the two-phase protocol,
	// not by this ordering.
	DependsOnSibling func(Entity) bool
}

// Plan slices the entities into chunks of at most BatchSize, preserving input
// order apart from the optional single-level dependency reorder. The last
// chunk may be smaller. An empty input yields no chunks, meaning zero API
// calls rather than one empty call.
func (p Planner) Plan(entities []Entity) ([][]Entity, error) {
	if p.BatchSize <= 0 {
		return nil, &PlanningError{Reason: fmt.Sprintf("batch size must be positive, got %d", p.BatchSize)}
	}
	if len(entities) == 0 {
		return nil, nil
	}

	ordered := entities
	if p.DependsOnSibling != nil {
		ordered = make([]Entity, len(entities))
		copy(ordered, entities)
		sort.SliceStable(ordered, func(i, j int) bool {
			return !p.DependsOnSibling(ordered[i]) && p.DependsOnSibling(ordered[j])
		})
	}

	chunks := make([][]Entity, 0, (len(ordered)+p.BatchSize-1)/p.BatchSize)
	for start := 0; start < len(ordered); start += p.BatchSize {
		end := start + p.BatchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		chunks = append(chunks, ordered[start:end])
	}

	return chunks, nil
}

// SiblingPredicate builds a DependsOnSibling predicate from the relation-type
// names that point back at the entity's own kind.
func SiblingPredicate(selfRelationNames ...string) func(Entity) bool {
	names := make(map[string]struct{}, len(selfRelationNames))
	for _, n := range selfRelationNames {
		names[n] = struct{}{}
	}
	return func(e Entity) bool {
		for name, targets := range e.Relations {
			if _, ok := names[name]; ok && len(targets) > 0 {
				return true
			}
		}
		return false
	}
}
