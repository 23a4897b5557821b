package infer

import (
	"fmt"
	"sort"

	"github.com/cool-lang/coolc/internal/types"
)

// Candidate computes the committed type for inference id i once the
// constraint store has reached a fixed point (spec.md §4.5 step 1-4).
//
// Spec.md describes the candidate as "the greatest lower bound (most-
// derived type) of conforms_to[i] ... intersect the ancestor chains of all
// upper bounds ... select the one with maximum depth." Concretely, because
// COOL's hierarchy is a tree (single inheritance), a type that conforms to
// every name in conforms_to[i] can only exist if those names themselves
// form a chain under conforms-to — and when they do, the chain's own
// deepest (most specific) member already conforms to every shallower one,
// so it *is* the greatest lower bound. This resolves directly against the
// named bounds rather than scanning every declared type in the Context.
//
// SELF_TYPE lower bounds are recorded by internal/checker as the enclosing
// class's own name (SELF_TYPE(C) behaves identically to C for conformance
// purposes), so ConformedBy names are always resolvable Context types.
func Candidate(ctx *types.Context, m *Manager, id int) (*types.Type, error) {
	upper, err := resolveNames(ctx, m.ConformsTo(id))
	if err != nil {
		return nil, err
	}
	if len(upper) == 0 {
		return nil, fmt.Errorf("empty candidate set for inference id %d", id)
	}

	sort.Slice(upper, func(i, j int) bool { return depth(upper[i]) > depth(upper[j]) })

	deepestDepth := depth(upper[0])
	var tiedAtMax []*types.Type
	for _, t := range upper {
		if depth(t) == deepestDepth {
			tiedAtMax = append(tiedAtMax, t)
		}
	}
	if len(tiedAtMax) > 1 {
		for _, t := range tiedAtMax[1:] {
			if t != tiedAtMax[0] {
				return nil, fmt.Errorf("ambiguous candidate set for inference id %d: %s", id, namesOf(tiedAtMax))
			}
		}
	}
	candidate := tiedAtMax[0]

	for _, u := range upper {
		if !candidate.ConformsTo(u) {
			return nil, fmt.Errorf("empty candidate set for inference id %d: no type conforms to both %s and %s", id, candidate.Name, u.Name)
		}
	}

	lower, err := resolveNames(ctx, m.ConformedBy(id))
	if err != nil {
		return nil, err
	}
	if len(lower) > 0 {
		lowerJoin := lower[0]
		for _, l := range lower[1:] {
			lowerJoin = types.Join(lowerJoin, l)
		}
		if !lowerJoin.ConformsTo(candidate) {
			return nil, fmt.Errorf("empty candidate set for inference id %d: %s does not conform to %s", id, lowerJoin.Name, candidate.Name)
		}
	}

	return candidate, nil
}

func resolveNames(ctx *types.Context, names map[string]bool) ([]*types.Type, error) {
	out := make([]*types.Type, 0, len(names))
	for n := range names {
		t, ok := ctx.GetType(n)
		if !ok {
			return nil, fmt.Errorf("unknown type %q in inference constraint", n)
		}
		out = append(out, t)
	}
	return out, nil
}

func depth(t *types.Type) int {
	d := 0
	for p := t.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

func namesOf(ts []*types.Type) string {
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		s += t.Name
	}
	return s
}
