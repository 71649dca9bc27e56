package scope

import (
	"fmt"
	"strings"
)

type Type interface {
	String() string
	typeNode()
}

type VoidType struct{}

func (void VoidType) String() string { return "void" }
func (void VoidType) typeNode()      {}

type NamedType struct {
	Name string
}

func (named NamedType) String() string { return named.Name }
func (named NamedType) typeNode()      {}

type FunctionParam struct {
	Label string // empty when the parameter has no label
	Name  string
	Type  Type
}

type FunctionType struct {
	Params []FunctionParam
	Return Type
}

func (fn *FunctionType) String() string {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = param.Type.String()
	}
	return fmt.Sprintf("fun(%s) -> %s", strings.Join(params, ", "), fn.Return)
}
func (fn *FunctionType) typeNode() {}

var (
	VOID Type = VoidType{}
	F64  Type = NamedType{Name: "f64"}
	BOOL Type = NamedType{Name: "bool"}
)

// Structural equality, function types compare by parameter and return types
func Equal(a, b Type) bool {
	switch a := a.(type) {
	case VoidType:
		_, ok := b.(VoidType)
		return ok
	case NamedType:
		other, ok := b.(NamedType)
		return ok && a.Name == other.Name
	case *FunctionType:
		other, ok := b.(*FunctionType)
		if !ok || len(a.Params) != len(other.Params) {
			return false
		}
		for i := range a.Params {
			if a.Params[i].Label != other.Params[i].Label || !Equal(a.Params[i].Type, other.Params[i].Type) {
				return false
			}
		}
		return Equal(a.Return, other.Return)
	}
	return false
}
