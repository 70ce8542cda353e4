package dispatch

import (
	"fmt"
	"maps"
	"slices"
)

// normalizedCall is the canonical (positional, keyword) pair passed to
// whichever hook is invoked. Built once per dispatch attempt and shared,
// read-only, by every candidate tried.
type normalizedCall struct {
	inputs   []any
	keywords map[string]any
}

// normalizeCall builds the canonical call form.
//
// Inputs are the first nin arguments; trailing arguments are output slots
// and become the "out" keyword - the value itself for a single slot, a
// slice for several. The original keyword map is copied, never mutated.
//
// An explicit "out" keyword combined with trailing positional outputs is
// ambiguous (one would silently clobber the other) and fails construction.
func normalizeCall(args []any, kwds map[string]any, nin int) (*normalizedCall, error) {
	call := &normalizedCall{
		inputs:   slices.Clone(args[:nin]),
		keywords: make(map[string]any, len(kwds)+1),
	}
	maps.Copy(call.keywords, kwds)

	if len(args) > nin {
		if _, exists := call.keywords["out"]; exists {
			return nil, fmt.Errorf("%d trailing positional output(s) conflict with explicit \"out\" keyword", len(args)-nin)
		}
		if len(args)-nin == 1 {
			call.keywords["out"] = args[len(args)-1]
		} else {
			call.keywords["out"] = slices.Clone(args[nin:])
		}
	}

	return call, nil
}

// outDetail describes the synthesized out entry for trace output.
func (c *normalizedCall) outDetail() string {
	out, ok := c.keywords["out"]
	if !ok {
		return fmt.Sprintf("inputs=%d", len(c.inputs))
	}
	if outs, isSlice := out.([]any); isSlice {
		return fmt.Sprintf("inputs=%d out=%d", len(c.inputs), len(outs))
	}
	return fmt.Sprintf("inputs=%d out=1", len(c.inputs))
}
