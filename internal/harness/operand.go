package harness

import (
	"errors"
	"fmt"

	"github.com/tensile-ml/tensile/internal/dispatch"
	"github.com/tensile-ml/tensile/internal/object"
)

// Operand behaviors for scripted override operands.
const (
	BehaviorAccept  = "accept"
	BehaviorDecline = "decline"
	BehaviorFail    = "fail"
)

// ObservedCall is what a scripted hook saw when it was invoked.
type ObservedCall struct {
	Position int    // the position argument the hook received
	Method   string // the method name the hook received
	Inputs   int    // number of normalized inputs
	HasOut   bool   // whether the keywords carried an "out" entry
}

// plainOperand is non-native and exposes no override capability.
// Discovery must skip it without making it a candidate.
type plainOperand struct{}

func (plainOperand) String() string { return "plain" }

// scriptedOperand is an override-capable operand driven by a scenario.
type scriptedOperand struct {
	class      *object.Class
	behavior   string
	result     string
	errMsg     string
	brokenHook bool

	observed *[]ObservedCall
}

// Class implements object.Classed.
func (o *scriptedOperand) Class() *object.Class {
	return o.class
}

// UFuncOverride implements dispatch.Overrider.
func (o *scriptedOperand) UFuncOverride() (dispatch.OverrideFunc, error) {
	if o.brokenHook {
		return nil, fmt.Errorf("class %s: override hook table is corrupted", o.class.Name())
	}

	return func(_ any, method string, pos int, inputs []any, kw map[string]any) (any, bool, error) {
		_, hasOut := kw["out"]
		*o.observed = append(*o.observed, ObservedCall{
			Position: pos,
			Method:   method,
			Inputs:   len(inputs),
			HasOut:   hasOut,
		})

		switch o.behavior {
		case BehaviorFail:
			msg := o.errMsg
			if msg == "" {
				msg = "override hook failed"
			}
			return nil, false, errors.New(msg)
		case BehaviorAccept:
			return o.result, true, nil
		default:
			return nil, false, nil
		}
	}, nil
}

// buildOperand materializes an operand definition.
func buildOperand(od OperandDef, classes map[string]*object.Class, observed *[]ObservedCall) (any, error) {
	switch od.Kind {
	case "array":
		return object.NewArray(od.Data)

	case "scalar":
		return od.Value, nil

	case "plain":
		return plainOperand{}, nil

	case "override":
		if od.Class == "" {
			return nil, fmt.Errorf("override operand needs a class")
		}
		cls, ok := classes[od.Class]
		if !ok {
			return nil, fmt.Errorf("unknown class %q", od.Class)
		}
		behavior := od.Behavior
		if behavior == "" {
			behavior = BehaviorDecline
		}
		return &scriptedOperand{
			class:      cls,
			behavior:   behavior,
			result:     od.Result,
			errMsg:     od.Error,
			brokenHook: od.BrokenHook,
			observed:   observed,
		}, nil

	default:
		return nil, fmt.Errorf("unknown operand kind %q", od.Kind)
	}
}
