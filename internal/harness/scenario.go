package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one dispatch conformance case.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are named
	// after it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// UFunc is the standard ufunc name to dispatch ("add", "negative", ...).
	UFunc string `yaml:"ufunc"`

	// Method is the ufunc method name. Defaults to "__call__".
	Method string `yaml:"method,omitempty"`

	// NIn overrides the input count passed to the dispatcher. When nil,
	// the ufunc's declared nin is used. Values outside the valid range
	// exercise the caller-contract error path.
	NIn *int `yaml:"nin,omitempty"`

	// Classes declares the runtime class hierarchy for override operands.
	Classes []ClassDef `yaml:"classes,omitempty"`

	// Operands is the positional argument list.
	Operands []OperandDef `yaml:"operands"`

	// Keywords are extra keyword arguments for the call. Values are
	// strings; a key of "out" exercises the explicit-out conflict path.
	Keywords map[string]string `yaml:"keywords,omitempty"`

	// Expect states what the dispatch must do.
	Expect Expectation `yaml:"expect"`
}

// ClassDef declares a class, optionally deriving from an earlier one.
type ClassDef struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent,omitempty"`
}

// OperandDef describes one positional operand.
type OperandDef struct {
	// Kind is one of "array", "scalar", "plain", "override".
	Kind string `yaml:"kind"`

	// Data is the element data for array operands.
	Data []float64 `yaml:"data,omitempty"`

	// Value is the value for scalar operands.
	Value float64 `yaml:"value,omitempty"`

	// Class names the declared class of an override operand.
	Class string `yaml:"class,omitempty"`

	// Behavior is accept, decline, or fail (override operands only).
	Behavior string `yaml:"behavior,omitempty"`

	// Result is the value an accepting hook returns.
	Result string `yaml:"result,omitempty"`

	// Error is the message a failing hook returns.
	Error string `yaml:"error,omitempty"`

	// BrokenHook makes hook resolution itself fail.
	BrokenHook bool `yaml:"broken_hook,omitempty"`
}

// Expectation states the required dispatch behavior.
type Expectation struct {
	// Outcome is "result", "no-override", or "error".
	Outcome string `yaml:"outcome"`

	// Value is the expected result for outcome "result".
	Value string `yaml:"value,omitempty"`

	// ErrorCode is the expected dispatch error code for outcome "error".
	ErrorCode string `yaml:"error_code,omitempty"`

	// Calls is the exact ordered list of hook invocations.
	Calls []ExpectedCall `yaml:"calls,omitempty"`
}

// ExpectedCall is one hook invocation: which operand, and how it ended.
type ExpectedCall struct {
	Position int    `yaml:"position"`
	Status   string `yaml:"status"` // declined | accepted | failed
}

// LoadScenario reads, schema-validates, and decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario schema-validates and decodes scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := ValidateScenarioBytes(data); err != nil {
		return nil, err
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if sc.Method == "" {
		sc.Method = "__call__"
	}
	return &sc, nil
}
