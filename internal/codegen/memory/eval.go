package memory

import (
	"errors"
	"fmt"
)

const MAX_CALL_DEPTH = 1024

var ErrCallDepthExceeded = errors.New("call depth exceeded")

// Eval runs the function called name. The result is a float64, a bool, or nil
// for functions without a return value.
func (u *Unit) Eval(name string, args ...float64) (any, error) {
	fn, ok := u.Function(name)
	if !ok {
		return nil, fmt.Errorf("function '%s' not found", name)
	}

	values := make([]any, len(args))
	for i, arg := range args {
		values[i] = arg
	}
	return u.call(fn, values, 0)
}

func (u *Unit) call(fn *Function, args []any, depth int) (any, error) {
	if depth > MAX_CALL_DEPTH {
		return nil, ErrCallDepthExceeded
	}
	if fn.IsDeclaration() {
		return nil, fmt.Errorf("unable to evaluate external function '%s'", fn.Name)
	}
	if len(args) != len(fn.Params) {
		return nil, fmt.Errorf("function '%s' expects %d argument(s), but got %d", fn.Name, len(fn.Params), len(args))
	}

	env := make(map[*Instr]any)
	for i, param := range fn.Params {
		env[param] = args[i]
	}

	value := func(instr *Instr) any {
		switch instr.Op {
		case OP_CONST_FLOAT:
			return instr.Float
		case OP_CONST_BOOL:
			return instr.Bool
		}
		return env[instr]
	}

	var prev *Block
	block := fn.Blocks[0]
	for {
		var next *Block

		for _, instr := range block.Instrs {
			switch instr.Op {
			case OP_ADD, OP_SUB, OP_MUL, OP_DIV:
				left, lok := value(instr.Args[0]).(float64)
				right, rok := value(instr.Args[1]).(float64)
				if !lok || !rok {
					return nil, fmt.Errorf("%s: arithmetic on non-double operand", fn.Name)
				}
				switch instr.Op {
				case OP_ADD:
					env[instr] = left + right
				case OP_SUB:
					env[instr] = left - right
				case OP_MUL:
					env[instr] = left * right
				case OP_DIV:
					env[instr] = left / right
				}
			case OP_CALL:
				callArgs := make([]any, len(instr.Args))
				for i, arg := range instr.Args {
					callArgs[i] = value(arg)
				}
				result, err := u.call(instr.Callee, callArgs, depth+1)
				if err != nil {
					return nil, err
				}
				env[instr] = result
			case OP_PHI:
				found := false
				for _, in := range instr.Incoming {
					if in.Block == prev {
						env[instr] = value(in.Value)
						found = true
						break
					}
				}
				if !found {
					return nil, fmt.Errorf("%s: phi has no incoming value for predecessor", fn.Name)
				}
			case OP_BR:
				next = instr.Targets[0]
			case OP_COND_BR:
				cond, ok := value(instr.Args[0]).(bool)
				if !ok {
					return nil, fmt.Errorf("%s: branch condition is not a bool", fn.Name)
				}
				next = instr.Targets[1]
				if cond {
					next = instr.Targets[0]
				}
			case OP_RET:
				return value(instr.Args[0]), nil
			case OP_RET_VOID:
				return nil, nil
			}
		}

		if next == nil {
			return nil, fmt.Errorf("%s: block '%s' fell through without a terminator", fn.Name, block.Name)
		}
		prev, block = block, next
	}
}
