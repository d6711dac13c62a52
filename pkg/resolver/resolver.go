package resolver

import (
	"fmt"
	"sort"

	"opsmith/pkg/types"
)

// CycleError reports a dependency cycle found before execution. No operation
// runs once a cycle is detected.
type CycleError struct {
	Targets []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected involving %v", e.Targets)
}

// Resolve orders operations so every declared dependency is satisfied by an
// earlier operation. Writes are scheduled ahead of edits regardless of
// declaration order; within the same tier, priority then input order break
// ties. Dependencies on targets not produced by any operation in the list are
// assumed to be satisfied externally and checked at execution time.
func Resolve(ops []types.Operation) ([]types.Operation, error) {
	if len(ops) <= 1 {
		return ops, nil
	}

	producers := make(map[string]int, len(ops))
	for i, op := range ops {
		producers[op.Target] = i
	}

	if err := detectCycles(ops, producers); err != nil {
		return nil, err
	}

	// Producers-before-consumers default: write first, then by priority,
	// keeping input order stable.
	order := make([]int, len(ops))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		oa, ob := ops[order[a]], ops[order[b]]
		wa, wb := oa.Intent == types.IntentWrite, ob.Intent == types.IntentWrite
		if wa != wb {
			return wa
		}
		return oa.Priority < ob.Priority
	})

	// Kahn's algorithm keyed on target, seeded with the tier-sorted order so
	// the result stays deterministic when chains run longer than two.
	indegree := make([]int, len(ops))
	dependents := make(map[int][]int)
	for i, op := range ops {
		for _, dep := range op.Dependencies {
			if p, ok := producers[dep]; ok && p != i {
				indegree[i]++
				dependents[p] = append(dependents[p], i)
			}
		}
	}

	var ready []int
	for _, i := range order {
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	resolved := make([]types.Operation, 0, len(ops))
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		resolved = append(resolved, ops[i])
		for _, d := range dependents[i] {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}

	if len(resolved) != len(ops) {
		var stuck []string
		for i, op := range ops {
			if indegree[i] > 0 {
				stuck = append(stuck, op.Target)
			}
		}
		return nil, &CycleError{Targets: stuck}
	}
	return resolved, nil
}

// detectCycles walks dependency edges with a DFS, reporting a descriptive
// error for any cycle, including the direct two-operation case where each
// depends on the other's target.
func detectCycles(ops []types.Operation, producers map[string]int) error {
	visited := make(map[int]bool)
	inStack := make(map[int]bool)

	var visit func(i int, trail []string) error
	visit = func(i int, trail []string) error {
		if inStack[i] {
			return &CycleError{Targets: append(trail, ops[i].Target)}
		}
		if visited[i] {
			return nil
		}
		visited[i] = true
		inStack[i] = true
		for _, dep := range ops[i].Dependencies {
			if p, ok := producers[dep]; ok && p != i {
				if err := visit(p, append(trail, ops[i].Target)); err != nil {
					return err
				}
			}
		}
		inStack[i] = false
		return nil
	}

	for i := range ops {
		if !visited[i] {
			if err := visit(i, nil); err != nil {
				return err
			}
		}
	}
	return nil
}
