package dispatch

// candidate is an operand that may supply an override: not the native
// array type, not a native scalar, and exposing the capability.
type candidate struct {
	value    any
	position int  // original index in the argument list
	tried    bool // hooks are invoked at most once per Resolve
}

// discover scans args left to right and collects candidates in positional
// order. Exact native arrays and native scalars are never candidates.
func (d *Dispatcher) discover(args []any) []candidate {
	var cands []candidate
	for i, v := range args {
		if d.isNativeArray(v) || d.isNativeScalar(v) {
			continue
		}
		if _, ok := v.(Overrider); ok {
			cands = append(cands, candidate{value: v, position: i})
		}
	}
	return cands
}

// selectCandidate picks the next hook to try, or -1 if none remains.
//
// The rule, subclasses before superclasses and otherwise left to right:
// walk untried candidates left to right; a candidate is deferred while any
// untried candidate to its right is a strict subclass instance of its
// runtime type (type tokens differ AND is-instance holds); the first
// non-deferred candidate wins.
//
// A finite candidate list cannot defer everyone (subclass chains are
// acyclic), but exhaustion is reported rather than assumed.
//
// Pure function over (candidates, oracle): no dispatcher state involved.
func selectCandidate(cands []candidate, oracle TypeOracle) int {
	for i := range cands {
		if cands[i].tried {
			continue
		}
		selfType := oracle.TypeOf(cands[i].value)
		deferred := false
		for j := i + 1; j < len(cands); j++ {
			if cands[j].tried {
				continue
			}
			other := cands[j].value
			if oracle.TypeOf(other) != selfType && oracle.IsInstance(other, selfType) {
				deferred = true
				break
			}
		}
		if !deferred {
			return i
		}
	}
	return -1
}
