package codegen

import (
	"errors"
	"fmt"
	"log"
	"reflect"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/codegen/backend"
	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/lexer/token"
)

const ENTRY_NAME = ast.ENTRY_NAME

var (
	ErrUnresolvedCallee = errors.New("unresolved callee")
	ErrArityMismatch    = errors.New("arity mismatch")
	ErrUnresolvedName   = errors.New("unresolved name")
	ErrNilValue         = errors.New("nil has no value")
	ErrEmptyTuple       = errors.New("empty tuple has no value")
	ErrVoidValue        = errors.New("void value used as operand")
	ErrInvalidOperand   = errors.New("invalid operand")
	ErrInvalidReturn    = errors.New("invalid return value")
	ErrRedefinition     = errors.New("function redefined")
	ErrReservedName     = errors.New("reserved name")
)

type function struct {
	name       string
	paramCount int
	hasReturn  bool
	fn         backend.Function
}

// A backend value plus what the lowering needs to know about it
type value struct {
	v    backend.Value
	kind backend.Kind
	void bool
}

type codegen struct {
	unit backend.Unit

	// Innermost function scope last
	functionScopes []map[string]*function
	// Every FunDecl seen so far and its backend function
	decls map[*ast.FunDecl]*function
	// Every function with a body, in lowering order, for verification
	bodies []*function

	current *function
	named   map[string]value
}

// Generate lowers file into unit and verifies every function it created. It
// stops at the first lowering error.
func Generate(unit backend.Unit, file *ast.SourceFile) error {
	c := &codegen{
		unit:  unit,
		decls: make(map[*ast.FunDecl]*function),
	}

	config.Trace("lowering %s", file.Name)

	c.pushFunctionScope()
	defer c.popFunctionScope()

	err := c.generateDeclarations(file.Block.Items, "")
	if err != nil {
		return err
	}
	err = c.generateBodies(file.Block.Items)
	if err != nil {
		return err
	}

	for _, fn := range c.bodies {
		err := unit.VerifyFunction(fn.fn)
		if err != nil {
			return fmt.Errorf("function '%s' failed verification: %w", fn.name, err)
		}
	}
	return nil
}

func (c *codegen) pushFunctionScope() {
	c.functionScopes = append(c.functionScopes, make(map[string]*function))
}

func (c *codegen) popFunctionScope() {
	c.functionScopes = c.functionScopes[:len(c.functionScopes)-1]
}

func (c *codegen) lookupFunction(name string) (*function, bool) {
	for i := len(c.functionScopes) - 1; i >= 0; i-- {
		if fn, ok := c.functionScopes[i][name]; ok {
			return fn, true
		}
	}
	return nil, false
}

// Declares every function and extern found directly in items. Functions
// nested in another one get the parent's name as prefix, externs keep theirs
// since they name a symbol defined elsewhere.
func (c *codegen) generateDeclarations(items []ast.Node, prefix string) error {
	innermost := c.functionScopes[len(c.functionScopes)-1]

	for _, item := range items {
		var name *token.Token
		switch decl := item.(type) {
		case *ast.FunDecl:
			name = decl.Name
		case *ast.ExternDecl:
			name = decl.Name
		default:
			continue
		}

		if prefix == "" && name.Name() == ENTRY_NAME {
			return fmt.Errorf("%s: %w: '%s' is reserved for top-level code", name.Pos, ErrReservedName, ENTRY_NAME)
		}
		if _, ok := innermost[name.Name()]; ok {
			return fmt.Errorf("%s: %w: '%s'", name.Pos, ErrRedefinition, name.Name())
		}

		switch decl := item.(type) {
		case *ast.FunDecl:
			fn := c.declare(prefix+decl.Name.Name(), decl.Sig)
			innermost[decl.Name.Name()] = fn
			c.decls[decl] = fn
		case *ast.ExternDecl:
			innermost[decl.Name.Name()] = c.declare(decl.Name.Name(), decl.Sig)
		}
	}
	return nil
}

func (c *codegen) declare(name string, sig *ast.Signature) *function {
	paramCount := len(sig.Params)
	hasReturn := sig.HasReturn()
	return &function{
		name:       name,
		paramCount: paramCount,
		hasReturn:  hasReturn,
		fn:         c.unit.DeclareFunction(name, paramCount, hasReturn),
	}
}

func (c *codegen) generateBodies(items []ast.Node) error {
	var loose []ast.Node

	for _, item := range items {
		switch n := item.(type) {
		case *ast.FunDecl:
			err := c.generateFunction(c.decls[n], n.Sig, n.Body)
			if err != nil {
				return err
			}
		case *ast.ExternDecl, *ast.EnumDecl, *ast.TypeDecl:
			continue
		case *ast.VarDecl, ast.Expr:
			loose = append(loose, n)
		default:
			log.Fatalf("unimplemented item on codegen: %s", reflect.TypeOf(n))
		}
	}

	if len(loose) == 0 {
		return nil
	}
	return c.generateEntry(loose)
}

// Loose top-level items become the body of ENTRY_NAME, which returns the last
// item when it is an expression producing a number
func (c *codegen) generateEntry(items []ast.Node) error {
	last, isExpr := items[len(items)-1].(ast.Expr)
	hasReturn := isExpr && c.isNumeric(last, items[:len(items)-1])

	entry := &function{
		name:       ENTRY_NAME,
		paramCount: 0,
		hasReturn:  hasReturn,
		fn:         c.unit.DeclareFunction(ENTRY_NAME, 0, hasReturn),
	}
	return c.generateFunction(entry, &ast.Signature{}, &ast.CodeBlock{Items: items})
}

func (c *codegen) generateFunction(fn *function, sig *ast.Signature, body *ast.CodeBlock) error {
	config.Trace("lowering function %s", fn.name)

	prevFunction, prevNamed := c.current, c.named
	defer func() { c.current, c.named = prevFunction, prevNamed }()

	c.current = fn
	c.named = make(map[string]value)
	c.bodies = append(c.bodies, fn)

	entry := c.unit.CreateBlock(fn.fn, "entry")
	c.unit.PositionAt(entry)

	for i, param := range sig.Params {
		c.named[param.Name.Name()] = value{v: c.unit.Param(fn.fn, i), kind: backend.KIND_FLOAT}
	}

	c.pushFunctionScope()
	defer c.popFunctionScope()
	err := c.generateDeclarations(body.Items, fn.name+".")
	if err != nil {
		return err
	}

	var last value
	lastIsExpr := false
	for _, item := range body.Items {
		v, isExpr, err := c.generateItem(item)
		if err != nil {
			return err
		}
		last, lastIsExpr = v, isExpr
	}

	if !fn.hasReturn {
		c.unit.RetVoid()
		return nil
	}
	if !lastIsExpr {
		c.unit.Ret(c.unit.ConstFloat(0))
		return nil
	}
	if last.void || last.kind != backend.KIND_FLOAT {
		return fmt.Errorf("%w: function '%s' must return a number", ErrInvalidReturn, fn.name)
	}
	c.unit.Ret(last.v)
	return nil
}

// Returns the value of item and whether item is an expression at all
func (c *codegen) generateItem(item ast.Node) (value, bool, error) {
	switch n := item.(type) {
	case *ast.VarDecl:
		v, err := c.generateExpr(n.Value)
		if err != nil {
			return value{}, false, err
		}
		if v.void {
			return value{}, false, fmt.Errorf("%s: %w: '%s' is bound to a void value", n.Name.Pos, ErrVoidValue, n.Name.Name())
		}
		c.named[n.Name.Name()] = v
		return value{}, false, nil
	case *ast.FunDecl:
		// Nested function, lowered on its own and the builder goes back to
		// where it was
		block := c.unit.CurrentBlock()
		err := c.generateFunction(c.decls[n], n.Sig, n.Body)
		c.unit.PositionAt(block)
		return value{}, false, err
	case *ast.ExternDecl, *ast.EnumDecl, *ast.TypeDecl:
		return value{}, false, nil
	case ast.Expr:
		v, err := c.generateExpr(n)
		return v, true, err
	default:
		log.Fatalf("unimplemented item on codegen: %s", reflect.TypeOf(n))
		return value{}, false, nil
	}
}

func (c *codegen) generateExpr(expr ast.Expr) (value, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return value{v: c.unit.ConstFloat(e.Value), kind: backend.KIND_FLOAT}, nil
	case *ast.BoolLit:
		return value{v: c.unit.ConstBool(e.Value), kind: backend.KIND_BOOL}, nil
	case *ast.NilLit:
		return value{}, fmt.Errorf("%s: %w", e.Position(), ErrNilValue)
	case *ast.IdExpr:
		v, ok := c.named[e.Name.Name()]
		if !ok {
			return value{}, fmt.Errorf("%s: %w '%s'", e.Position(), ErrUnresolvedName, e.Name.Name())
		}
		return v, nil
	case *ast.TupleExpr:
		if len(e.Exprs) == 0 {
			return value{}, fmt.Errorf("%s: %w", e.Position(), ErrEmptyTuple)
		}
		return c.generateExpr(e.Exprs[0])
	case *ast.BinaryExpr:
		return c.generateBinary(e)
	case *ast.IfExpr:
		return c.generateIf(e)
	case *ast.CallExpr:
		return c.generateCall(e)
	default:
		log.Fatalf("unimplemented expression on codegen: %s", reflect.TypeOf(e))
		return value{}, nil
	}
}

func (c *codegen) generateBinary(binary *ast.BinaryExpr) (value, error) {
	left, err := c.generateNumber(binary.Left)
	if err != nil {
		return value{}, err
	}
	right, err := c.generateNumber(binary.Right)
	if err != nil {
		return value{}, err
	}

	var result backend.Value
	switch binary.Op.Kind {
	case token.PLUS:
		result = c.unit.Add(left, right)
	case token.MINUS:
		result = c.unit.Sub(left, right)
	case token.STAR:
		result = c.unit.Mul(left, right)
	case token.SLASH:
		result = c.unit.Div(left, right)
	default:
		log.Fatalf("unimplemented binary operator on codegen: %s", binary.Op.Kind)
	}
	return value{v: result, kind: backend.KIND_FLOAT}, nil
}

// Lowers expr and fails unless it produced a double
func (c *codegen) generateNumber(expr ast.Expr) (backend.Value, error) {
	v, err := c.generateExpr(expr)
	if err != nil {
		return nil, err
	}
	if v.void {
		return nil, fmt.Errorf("%s: %w", expr.Position(), ErrVoidValue)
	}
	if v.kind != backend.KIND_FLOAT {
		return nil, fmt.Errorf("%s: %w: expected a number, got %s", expr.Position(), ErrInvalidOperand, v.kind)
	}
	return v.v, nil
}

func (c *codegen) generateIf(ifExpr *ast.IfExpr) (value, error) {
	cond, err := c.generateExpr(ifExpr.Cond)
	if err != nil {
		return value{}, err
	}
	if cond.void || cond.kind != backend.KIND_BOOL {
		return value{}, fmt.Errorf("%s: %w: condition is not a bool", ifExpr.Cond.Position(), ErrInvalidOperand)
	}

	thenBlock := c.unit.CreateBlock(c.current.fn, "then")
	elseBlock := c.unit.CreateBlock(c.current.fn, "else")
	mergeBlock := c.unit.CreateBlock(c.current.fn, "merge")

	c.unit.CondBr(cond.v, thenBlock, elseBlock)

	c.unit.PositionAt(thenBlock)
	thenValue, err := c.generateExpr(ifExpr.Then)
	if err != nil {
		return value{}, err
	}
	c.unit.Br(mergeBlock)
	// Nested conditionals move the builder, the phi needs the block the arm
	// actually ended in
	thenEnd := c.unit.CurrentBlock()

	c.unit.PositionAt(elseBlock)
	elseValue, err := c.generateExpr(ifExpr.Else)
	if err != nil {
		return value{}, err
	}
	c.unit.Br(mergeBlock)
	elseEnd := c.unit.CurrentBlock()

	c.unit.PositionAt(mergeBlock)

	if thenValue.void || elseValue.void {
		return value{}, fmt.Errorf("%s: %w", ifExpr.Position(), ErrVoidValue)
	}
	if thenValue.kind != elseValue.kind {
		return value{}, fmt.Errorf(
			"%s: %w: if arms produce %s and %s",
			ifExpr.Position(),
			ErrInvalidOperand,
			thenValue.kind,
			elseValue.kind,
		)
	}

	phi := c.unit.Phi(thenValue.kind, []backend.Incoming{
		{Value: thenValue.v, Block: thenEnd},
		{Value: elseValue.v, Block: elseEnd},
	})
	return value{v: phi, kind: thenValue.kind}, nil
}

func (c *codegen) generateCall(call *ast.CallExpr) (value, error) {
	name := call.Name.Name()

	fn, ok := c.lookupFunction(name)
	if !ok {
		return value{}, fmt.Errorf("%s: %w '%s'", call.Position(), ErrUnresolvedCallee, name)
	}
	if len(call.Args.Exprs) != fn.paramCount {
		return value{}, fmt.Errorf(
			"%s: %w: '%s' expects %d argument(s), but got %d",
			call.Position(),
			ErrArityMismatch,
			name,
			fn.paramCount,
			len(call.Args.Exprs),
		)
	}

	args := make([]backend.Value, len(call.Args.Exprs))
	for i, arg := range call.Args.Exprs {
		v, err := c.generateNumber(arg)
		if err != nil {
			return value{}, err
		}
		args[i] = v
	}

	result := c.unit.Call(fn.fn, args)
	return value{v: result, kind: backend.KIND_FLOAT, void: !fn.hasReturn}, nil
}

// Reports whether expr, evaluated after items, lowers to a double. Only used
// to pick the signature of ENTRY_NAME before its body exists.
func (c *codegen) isNumeric(expr ast.Expr, items []ast.Node) bool {
	switch e := expr.(type) {
	case *ast.NumberLit, *ast.BinaryExpr:
		return true
	case *ast.CallExpr:
		fn, ok := c.lookupFunction(e.Name.Name())
		return !ok || fn.hasReturn
	case *ast.IfExpr:
		return c.isNumeric(e.Then, items)
	case *ast.TupleExpr:
		return len(e.Exprs) > 0 && c.isNumeric(e.Exprs[0], items)
	case *ast.IdExpr:
		for i := len(items) - 1; i >= 0; i-- {
			if varDecl, ok := items[i].(*ast.VarDecl); ok && varDecl.Name.Name() == e.Name.Name() {
				return c.isNumeric(varDecl.Value, items[:i])
			}
		}
		return true
	}
	return false
}
