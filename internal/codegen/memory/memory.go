// Package memory is a backend that records the SSA it is given as plain Go
// values. It can print the result and run it, which makes it the backend of
// choice for tests and for "ember check".
package memory

import (
	"fmt"
	"os"

	"github.com/HicaroD/ember/internal/codegen/backend"
)

type Op int

const (
	OP_PARAM Op = iota
	OP_CONST_FLOAT
	OP_CONST_BOOL
	OP_ADD
	OP_SUB
	OP_MUL
	OP_DIV
	OP_CALL
	OP_PHI
	OP_BR
	OP_COND_BR
	OP_RET
	OP_RET_VOID
)

func (op Op) IsTerminator() bool {
	return op == OP_BR || op == OP_COND_BR || op == OP_RET || op == OP_RET_VOID
}

type Incoming struct {
	Value *Instr
	Block *Block
}

// Instr is both an instruction and the value it produces. Constants and
// parameters are values that live outside of any block.
type Instr struct {
	Op   Op
	Kind backend.Kind
	// Calls to functions without a return value produce no value
	Void bool

	// Value number inside the owning function, -1 for constants and
	// terminators
	ID int

	Args     []*Instr
	Float    float64
	Bool     bool
	Index    int // parameter index
	Callee   *Function
	Incoming []Incoming
	Targets  []*Block
}

type Block struct {
	Name   string
	Fn     *Function
	Instrs []*Instr
}

func (block *Block) Terminator() *Instr {
	if len(block.Instrs) == 0 {
		return nil
	}
	last := block.Instrs[len(block.Instrs)-1]
	if !last.Op.IsTerminator() {
		return nil
	}
	return last
}

type Function struct {
	Name      string
	HasReturn bool
	Params    []*Instr
	Blocks    []*Block

	nextID     int
	blockNames map[string]int
}

// A function without blocks is only declared
func (fn *Function) IsDeclaration() bool { return len(fn.Blocks) == 0 }

func (fn *Function) Phis() []*Instr {
	var phis []*Instr
	for _, block := range fn.Blocks {
		for _, instr := range block.Instrs {
			if instr.Op == OP_PHI {
				phis = append(phis, instr)
			}
		}
	}
	return phis
}

type Unit struct {
	Name      string
	Functions []*Function
	Disposed  bool

	current *Block
}

func New(name string) *Unit {
	return &Unit{Name: name}
}

// Fits backend.Factory
func NewUnit(name string) (backend.Unit, error) {
	return New(name), nil
}

func (u *Unit) Function(name string) (*Function, bool) {
	for _, fn := range u.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

func (u *Unit) DeclareFunction(name string, paramCount int, hasReturn bool) backend.Function {
	fn := &Function{
		Name:       name,
		HasReturn:  hasReturn,
		Params:     make([]*Instr, paramCount),
		blockNames: make(map[string]int),
	}
	for i := 0; i < paramCount; i++ {
		fn.Params[i] = &Instr{Op: OP_PARAM, Kind: backend.KIND_FLOAT, Index: i, ID: fn.nextID}
		fn.nextID++
	}
	u.Functions = append(u.Functions, fn)
	return fn
}

func (u *Unit) Param(fn backend.Function, i int) backend.Value {
	return fn.(*Function).Params[i]
}

// Block names are made unique per function by adding a numeric suffix
func (u *Unit) CreateBlock(fn backend.Function, name string) backend.Block {
	function := fn.(*Function)

	unique := name
	if count, ok := function.blockNames[name]; ok {
		unique = fmt.Sprintf("%s%d", name, count)
	}
	function.blockNames[name]++

	block := &Block{Name: unique, Fn: function}
	function.Blocks = append(function.Blocks, block)
	return block
}

func (u *Unit) PositionAt(block backend.Block) {
	u.current = block.(*Block)
}

func (u *Unit) CurrentBlock() backend.Block {
	if u.current == nil {
		return nil
	}
	return u.current
}

func (u *Unit) CondBr(cond backend.Value, then, els backend.Block) {
	u.emit(&Instr{
		Op:      OP_COND_BR,
		Args:    []*Instr{cond.(*Instr)},
		Targets: []*Block{then.(*Block), els.(*Block)},
	}, false)
}

func (u *Unit) Br(block backend.Block) {
	u.emit(&Instr{Op: OP_BR, Targets: []*Block{block.(*Block)}}, false)
}

func (u *Unit) Phi(kind backend.Kind, incoming []backend.Incoming) backend.Value {
	phi := &Instr{Op: OP_PHI, Kind: kind}
	for _, in := range incoming {
		phi.Incoming = append(phi.Incoming, Incoming{
			Value: in.Value.(*Instr),
			Block: in.Block.(*Block),
		})
	}
	return u.emit(phi, true)
}

func (u *Unit) Call(fn backend.Function, args []backend.Value) backend.Value {
	callee := fn.(*Function)
	call := &Instr{Op: OP_CALL, Kind: backend.KIND_FLOAT, Callee: callee, Void: !callee.HasReturn}
	for _, arg := range args {
		call.Args = append(call.Args, arg.(*Instr))
	}
	return u.emit(call, callee.HasReturn)
}

func (u *Unit) Add(left, right backend.Value) backend.Value { return u.arith(OP_ADD, left, right) }
func (u *Unit) Sub(left, right backend.Value) backend.Value { return u.arith(OP_SUB, left, right) }
func (u *Unit) Mul(left, right backend.Value) backend.Value { return u.arith(OP_MUL, left, right) }
func (u *Unit) Div(left, right backend.Value) backend.Value { return u.arith(OP_DIV, left, right) }

func (u *Unit) arith(op Op, left, right backend.Value) backend.Value {
	return u.emit(&Instr{
		Op:   op,
		Kind: backend.KIND_FLOAT,
		Args: []*Instr{left.(*Instr), right.(*Instr)},
	}, true)
}

func (u *Unit) Ret(value backend.Value) {
	u.emit(&Instr{Op: OP_RET, Args: []*Instr{value.(*Instr)}}, false)
}

func (u *Unit) RetVoid() {
	u.emit(&Instr{Op: OP_RET_VOID}, false)
}

func (u *Unit) ConstFloat(value float64) backend.Value {
	return &Instr{Op: OP_CONST_FLOAT, Kind: backend.KIND_FLOAT, Float: value, ID: -1}
}

func (u *Unit) ConstBool(value bool) backend.Value {
	return &Instr{Op: OP_CONST_BOOL, Kind: backend.KIND_BOOL, Bool: value, ID: -1}
}

func (u *Unit) emit(instr *Instr, hasValue bool) *Instr {
	if u.current == nil {
		panic("memory: no insertion block")
	}
	instr.ID = -1
	if hasValue {
		instr.ID = u.current.Fn.nextID
		u.current.Fn.nextID++
	}
	u.current.Instrs = append(u.current.Instrs, instr)
	return instr
}

// Checks the structural rules a real backend would enforce: every block ends
// in exactly one terminator, phis lead their block, returns match the
// signature and arithmetic only sees doubles.
func (u *Unit) VerifyFunction(fn backend.Function) error {
	function := fn.(*Function)
	if function.IsDeclaration() {
		return nil
	}

	for _, block := range function.Blocks {
		if block.Terminator() == nil {
			return fmt.Errorf("%s: block '%s' has no terminator", function.Name, block.Name)
		}

		phisDone := false
		for i, instr := range block.Instrs {
			if instr.Op.IsTerminator() && i != len(block.Instrs)-1 {
				return fmt.Errorf("%s: terminator in the middle of block '%s'", function.Name, block.Name)
			}
			if instr.Op == OP_PHI {
				if phisDone {
					return fmt.Errorf("%s: phi is not at the start of block '%s'", function.Name, block.Name)
				}
			} else {
				phisDone = true
			}

			switch instr.Op {
			case OP_ADD, OP_SUB, OP_MUL, OP_DIV:
				for _, arg := range instr.Args {
					if arg.Kind != backend.KIND_FLOAT || arg.Void {
						return fmt.Errorf("%s: arithmetic on non-double operand", function.Name)
					}
				}
			case OP_COND_BR:
				if instr.Args[0].Kind != backend.KIND_BOOL {
					return fmt.Errorf("%s: branch condition is not i1", function.Name)
				}
			case OP_RET:
				if !function.HasReturn {
					return fmt.Errorf("%s: value returned from void function", function.Name)
				}
				if instr.Args[0].Kind != backend.KIND_FLOAT || instr.Args[0].Void {
					return fmt.Errorf("%s: returned value is not double", function.Name)
				}
			case OP_RET_VOID:
				if function.HasReturn {
					return fmt.Errorf("%s: missing return value", function.Name)
				}
			case OP_CALL:
				if len(instr.Args) != len(instr.Callee.Params) {
					return fmt.Errorf("%s: wrong argument count calling '%s'", function.Name, instr.Callee.Name)
				}
			case OP_PHI:
				for _, in := range instr.Incoming {
					if in.Value.Kind != instr.Kind {
						return fmt.Errorf("%s: phi incoming value does not match phi type", function.Name)
					}
				}
			}
		}
	}
	return nil
}

func (u *Unit) EmitObject(path string) error {
	return os.WriteFile(path, []byte(u.Dump()), 0644)
}

func (u *Unit) Dispose() {
	u.Disposed = true
	u.current = nil
}
