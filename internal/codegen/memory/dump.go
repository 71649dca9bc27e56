package memory

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump prints the unit in an LLVM-like textual form
func (u *Unit) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "; unit '%s'\n", u.Name)
	for _, fn := range u.Functions {
		b.WriteByte('\n')
		dumpFunction(&b, fn)
	}
	return b.String()
}

func dumpFunction(b *strings.Builder, fn *Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		if fn.IsDeclaration() {
			params[i] = "double"
		} else {
			params[i] = "double " + operand(param)
		}
	}

	if fn.IsDeclaration() {
		fmt.Fprintf(b, "declare %s @%s(%s)\n", returnType(fn), fn.Name, strings.Join(params, ", "))
		return
	}

	fmt.Fprintf(b, "define %s @%s(%s) {\n", returnType(fn), fn.Name, strings.Join(params, ", "))
	for i, block := range fn.Blocks {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(b, "%s:\n", block.Name)
		for _, instr := range block.Instrs {
			fmt.Fprintf(b, "  %s\n", instruction(instr))
		}
	}
	b.WriteString("}\n")
}

func returnType(fn *Function) string {
	if fn.HasReturn {
		return "double"
	}
	return "void"
}

func operand(instr *Instr) string {
	switch instr.Op {
	case OP_CONST_FLOAT:
		return strconv.FormatFloat(instr.Float, 'g', -1, 64)
	case OP_CONST_BOOL:
		return strconv.FormatBool(instr.Bool)
	}
	return fmt.Sprintf("%%%d", instr.ID)
}

func typed(instr *Instr) string {
	return fmt.Sprintf("%s %s", instr.Kind, operand(instr))
}

func instruction(instr *Instr) string {
	switch instr.Op {
	case OP_ADD, OP_SUB, OP_MUL, OP_DIV:
		names := map[Op]string{OP_ADD: "fadd", OP_SUB: "fsub", OP_MUL: "fmul", OP_DIV: "fdiv"}
		return fmt.Sprintf(
			"%s = %s double %s, %s",
			operand(instr),
			names[instr.Op],
			operand(instr.Args[0]),
			operand(instr.Args[1]),
		)
	case OP_CALL:
		args := make([]string, len(instr.Args))
		for i, arg := range instr.Args {
			args[i] = typed(arg)
		}
		call := fmt.Sprintf("call %s @%s(%s)", returnType(instr.Callee), instr.Callee.Name, strings.Join(args, ", "))
		if instr.Void {
			return call
		}
		return fmt.Sprintf("%s = %s", operand(instr), call)
	case OP_PHI:
		incoming := make([]string, len(instr.Incoming))
		for i, in := range instr.Incoming {
			incoming[i] = fmt.Sprintf("[ %s, %%%s ]", operand(in.Value), in.Block.Name)
		}
		return fmt.Sprintf("%s = phi %s %s", operand(instr), instr.Kind, strings.Join(incoming, ", "))
	case OP_BR:
		return fmt.Sprintf("br label %%%s", instr.Targets[0].Name)
	case OP_COND_BR:
		return fmt.Sprintf(
			"br %s, label %%%s, label %%%s",
			typed(instr.Args[0]),
			instr.Targets[0].Name,
			instr.Targets[1].Name,
		)
	case OP_RET:
		return "ret " + typed(instr.Args[0])
	case OP_RET_VOID:
		return "ret void"
	}
	return fmt.Sprintf("; unknown op %d", instr.Op)
}
