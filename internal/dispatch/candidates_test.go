package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// chainOracle maps values to string type tokens and type tokens to their
// parents, so precedence can be tested without the real object model.
type chainOracle struct {
	types   map[any]string
	parents map[string]string
}

func (o chainOracle) TypeOf(v any) any { return o.types[v] }

func (o chainOracle) IsInstance(v any, typ any) bool {
	want, ok := typ.(string)
	if !ok {
		return false
	}
	for t := o.types[v]; t != ""; t = o.parents[t] {
		if t == want {
			return true
		}
	}
	return false
}

func TestSelectCandidate(t *testing.T) {
	oracle := chainOracle{
		types: map[any]string{
			"p1": "Parent", "p2": "Parent",
			"c1": "Child", "c2": "Child",
			"g1": "Grandchild",
			"x1": "Unrelated",
		},
		parents: map[string]string{
			"Child":      "Parent",
			"Grandchild": "Child",
		},
	}

	mk := func(values ...string) []candidate {
		cands := make([]candidate, len(values))
		for i, v := range values {
			cands[i] = candidate{value: v, position: i}
		}
		return cands
	}

	t.Run("leftmost wins among unrelated types", func(t *testing.T) {
		assert.Equal(t, 0, selectCandidate(mk("p1", "x1"), oracle))
	})

	t.Run("leftmost wins among same type", func(t *testing.T) {
		assert.Equal(t, 0, selectCandidate(mk("p1", "p2"), oracle))
	})

	t.Run("subclass to the right defers the superclass", func(t *testing.T) {
		assert.Equal(t, 1, selectCandidate(mk("p1", "c1"), oracle))
	})

	t.Run("grandchild defers both ancestors", func(t *testing.T) {
		assert.Equal(t, 2, selectCandidate(mk("p1", "c1", "g1"), oracle))
	})

	t.Run("same-type siblings do not defer each other", func(t *testing.T) {
		assert.Equal(t, 0, selectCandidate(mk("c1", "c2"), oracle))
	})

	t.Run("tried candidates are skipped", func(t *testing.T) {
		cands := mk("p1", "c1")
		cands[1].tried = true
		assert.Equal(t, 0, selectCandidate(cands, oracle))
	})

	t.Run("tried subclass no longer defers the superclass", func(t *testing.T) {
		cands := mk("p1", "c1", "x1")
		cands[1].tried = true
		assert.Equal(t, 0, selectCandidate(cands, oracle))
	})

	t.Run("all tried yields no selection", func(t *testing.T) {
		cands := mk("p1", "c1")
		cands[0].tried = true
		cands[1].tried = true
		assert.Equal(t, -1, selectCandidate(cands, oracle))
	})

	t.Run("empty set yields no selection", func(t *testing.T) {
		assert.Equal(t, -1, selectCandidate(nil, oracle))
	})
}
