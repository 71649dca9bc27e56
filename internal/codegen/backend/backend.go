// Package backend describes what the lowering pass needs from a code
// generator. Handles are opaque to the caller and only ever handed back to the
// Unit that created them.
package backend

type (
	Value    any
	Block    any
	Function any
)

// Kind of a value flowing through a phi node
type Kind int

const (
	KIND_FLOAT Kind = iota
	KIND_BOOL
)

func (kind Kind) String() string {
	switch kind {
	case KIND_FLOAT:
		return "double"
	case KIND_BOOL:
		return "i1"
	}
	return "unknown"
}

type Incoming struct {
	Value Value
	Block Block
}

// A Unit owns the module being built for a single source file
type Unit interface {
	// Parameters are doubles, the return type is double when hasReturn is set
	// and void otherwise
	DeclareFunction(name string, paramCount int, hasReturn bool) Function
	Param(fn Function, i int) Value

	CreateBlock(fn Function, name string) Block
	PositionAt(block Block)
	CurrentBlock() Block

	CondBr(cond Value, then, els Block)
	Br(block Block)
	Phi(kind Kind, incoming []Incoming) Value

	Call(fn Function, args []Value) Value
	Add(left, right Value) Value
	Sub(left, right Value) Value
	Mul(left, right Value) Value
	Div(left, right Value) Value

	Ret(value Value)
	RetVoid()

	ConstFloat(value float64) Value
	ConstBool(value bool) Value

	VerifyFunction(fn Function) error
	Dump() string
	EmitObject(path string) error
	Dispose()
}

// Creates a fresh Unit for the source file called name
type Factory func(name string) (Unit, error)
