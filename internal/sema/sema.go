package sema

import (
	"log"
	"reflect"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/scope"
)

type sema struct {
	ctx       *scope.Context
	collector *diagnostics.Collector

	// Errors already in the collector before this checker ran
	baseErrors int
}

func New(ctx *scope.Context, collector *diagnostics.Collector) *sema {
	return &sema{ctx, collector, collector.ErrorCount()}
}

// Declare registers every top-level function, extern, enum and type name in
// the global scope so later passes can resolve forward references.
func (s *sema) Declare(file *ast.SourceFile) {
	config.Trace("declaring names of %s", file.Name)
	s.declareBlock(file.Block.Items)
}

// Check walks the whole file and never stops at the first problem. It
// returns COMPILER_ERROR_FOUND if this checker reported at least one error,
// Declare included.
func (s *sema) Check(file *ast.SourceFile) error {
	config.Trace("checking %s", file.Name)

	s.checkBlock(file.Block)
	if s.collector.ErrorCount() > s.baseErrors {
		return diagnostics.COMPILER_ERROR_FOUND
	}
	return nil
}

// Hoists the names declared directly in a block into the current scope
func (s *sema) declareBlock(items []ast.Node) {
	for _, item := range items {
		switch decl := item.(type) {
		case *ast.FunDecl:
			s.registerFunction(decl.Name, FunctionType(decl.Sig))
		case *ast.ExternDecl:
			s.registerFunction(decl.Name, FunctionType(decl.Sig))
		case *ast.EnumDecl:
			s.register(decl.Name, scope.NamedType{Name: decl.Name.Name()})
		case *ast.TypeDecl:
			s.register(decl.Name, scope.NamedType{Name: decl.Name.Name()})
		}
	}
}

func (s *sema) register(name *token.Token, t scope.Type) {
	ok := s.ctx.Register(scope.Symbol{Name: name.Name(), Type: t})
	if !ok {
		s.collector.Warning(name.Pos, "symbol '%s' already registered", name.Name())
	}
}

// Two functions with one name in the same scope are an error, whatever their
// signatures, since calls are resolved by name only
func (s *sema) registerFunction(name *token.Token, fn *scope.FunctionType) {
	if s.ctx.Depth() == 1 && name.Name() == ast.ENTRY_NAME {
		s.collector.Error(name.Pos, "'%s' is reserved for top-level code", ast.ENTRY_NAME)
		return
	}
	if existing, ok := s.ctx.LookupLocal(name.Name()); ok {
		if _, isFunction := existing.Type.(*scope.FunctionType); isFunction {
			s.collector.Error(name.Pos, "function '%s' already defined", name.Name())
			return
		}
	}
	s.register(name, fn)
}

// Returns the type of the last item when it is an expression, void otherwise
func (s *sema) checkBlock(block *ast.CodeBlock) scope.Type {
	last := scope.VOID
	for _, item := range block.Items {
		last = s.checkItem(item)
	}
	return last
}

func (s *sema) checkItem(item ast.Node) scope.Type {
	switch n := item.(type) {
	case *ast.VarDecl:
		s.checkVarDecl(n)
		return scope.VOID
	case *ast.FunDecl:
		s.checkFunDecl(n)
		return scope.VOID
	case *ast.ExternDecl:
		return scope.VOID
	case *ast.EnumDecl:
		s.checkMembers(n.Members)
		return scope.VOID
	case *ast.TypeDecl:
		s.checkMembers(n.Members)
		return scope.VOID
	case ast.Expr:
		return s.CheckExpr(n)
	default:
		log.Fatalf("unimplemented item on sema: %s", reflect.TypeOf(n))
		return nil
	}
}

func (s *sema) checkVarDecl(varDecl *ast.VarDecl) {
	t := s.CheckExpr(varDecl.Value)
	s.register(varDecl.Name, t)
}

func (s *sema) checkFunDecl(fun *ast.FunDecl) {
	s.withFunctionScope(fun.Sig, fun.Body, func() {
		bodyType := s.checkBlock(fun.Body)
		if !fun.Sig.HasReturn() {
			return
		}

		last, isExpr := fun.Body.Last().(ast.Expr)
		if !isExpr {
			return
		}
		retType := typeFromName(fun.Sig.RetType)
		if !scope.Equal(bodyType, retType) {
			s.collector.Warning(
				last.Position(),
				"function '%s' declared to return %s, but its last expression is %s",
				fun.Name.Name(),
				retType,
				bodyType,
			)
		}
	})
}

func (s *sema) checkMembers(members *ast.MemberBlock) {
	s.withMemberScope(members, func() {
		for _, member := range members.Members {
			s.checkItem(member)
		}
	})
}

func (s *sema) CheckExpr(expr ast.Expr) scope.Type {
	switch e := expr.(type) {
	case *ast.NumberLit:
		return scope.F64
	case *ast.BoolLit:
		return scope.BOOL
	case *ast.NilLit:
		return scope.VOID
	case *ast.IdExpr:
		sym, ok := s.ctx.Lookup(e.Name.Name())
		if !ok {
			s.collector.Error(e.Position(), "undeclared identifier '%s'", e.Name.Name())
			return scope.VOID
		}
		return sym.Type
	case *ast.CallExpr:
		return s.checkCall(e)
	case *ast.BinaryExpr:
		left := s.CheckExpr(e.Left)
		right := s.CheckExpr(e.Right)
		if !scope.Equal(left, right) {
			s.collector.Error(
				e.Position(),
				"mismatched types %s and %s for '%s'",
				left,
				right,
				e.Op.Kind,
			)
		}
		return left
	case *ast.IfExpr:
		cond := s.CheckExpr(e.Cond)
		if !scope.Equal(cond, scope.BOOL) {
			s.collector.Error(e.Cond.Position(), "if condition must be bool, not %s", cond)
		}
		then := s.CheckExpr(e.Then)
		els := s.CheckExpr(e.Else)
		if !scope.Equal(then, els) {
			s.collector.Error(e.Position(), "if arms have different types: %s and %s", then, els)
		}
		return then
	case *ast.TupleExpr:
		if len(e.Exprs) == 1 {
			return s.CheckExpr(e.Exprs[0])
		}
		for _, elem := range e.Exprs {
			s.CheckExpr(elem)
		}
		return scope.VOID
	default:
		log.Fatalf("unimplemented expression on sema: %s", reflect.TypeOf(e))
		return nil
	}
}

func (s *sema) checkCall(call *ast.CallExpr) scope.Type {
	name := call.Name.Name()

	for _, arg := range call.Args.Exprs {
		s.CheckExpr(arg)
	}

	sym, ok := s.ctx.Lookup(name)
	if !ok {
		s.collector.Error(call.Position(), "undeclared function '%s'", name)
		return scope.VOID
	}

	fn, ok := sym.Type.(*scope.FunctionType)
	if !ok {
		s.collector.Error(call.Position(), "'%s' is not a function, its type is %s", name, sym.Type)
		return scope.VOID
	}

	if len(call.Args.Exprs) != len(fn.Params) {
		s.collector.Error(
			call.Position(),
			"function '%s' expects %d argument(s), but got %d",
			name,
			len(fn.Params),
			len(call.Args.Exprs),
		)
	}
	return fn.Return
}
