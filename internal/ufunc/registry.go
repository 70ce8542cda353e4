package ufunc

import "github.com/tensile-ml/tensile/internal/kernels"

// Standard ufuncs.
var (
	Add      = New("add", 2, 1, kernels.OpAdd)
	Subtract = New("subtract", 2, 1, kernels.OpSub)
	Multiply = New("multiply", 2, 1, kernels.OpMul)
	Divide   = New("divide", 2, 1, kernels.OpDiv)
	Maximum  = New("maximum", 2, 1, kernels.OpMax)
	Minimum  = New("minimum", 2, 1, kernels.OpMin)
	Negative = New("negative", 1, 1, kernels.OpNeg)
	Absolute = New("absolute", 1, 1, kernels.OpAbs)
)

var registry = map[string]*UFunc{
	Add.Name():      Add,
	Subtract.Name(): Subtract,
	Multiply.Name(): Multiply,
	Divide.Name():   Divide,
	Maximum.Name():  Maximum,
	Minimum.Name():  Minimum,
	Negative.Name(): Negative,
	Absolute.Name(): Absolute,
}

// Lookup returns the standard ufunc with the given name.
func Lookup(name string) (*UFunc, bool) {
	u, ok := registry[name]
	return u, ok
}

// Names returns the registered ufunc names. Order is unspecified.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
