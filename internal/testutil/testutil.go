// Package testutil provides shared fixtures for deterministic tests.
package testutil

import (
	"fmt"

	"github.com/tensile-ml/tensile/internal/trace"
)

// Tokens builds a fixed token generator with n sequential tokens of the
// form "resolve-0001", "resolve-0002", ...
func Tokens(n int) *trace.FixedGenerator {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = Token(i + 1)
	}
	return trace.NewFixedGenerator(tokens...)
}

// Token formats the i-th fixed token.
func Token(i int) string {
	return fmt.Sprintf("resolve-%04d", i)
}
