package llvm

import (
	"tinygo.org/x/go-llvm"
)

// Calls need the function type next to the function value
type Function struct {
	Fn llvm.Value
	Ty llvm.Type
}

func NewFunctionValue(fn llvm.Value, ty llvm.Type) *Function {
	return &Function{Fn: fn, Ty: ty}
}
