package sema

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/scope"
)

// Runs body inside a fresh scope holding the parameters and the names
// declared directly in the function body. Every pass entering a function goes
// through here so they all see the same scopes.
func (s *sema) withFunctionScope(sig *ast.Signature, block *ast.CodeBlock, body func()) {
	s.ctx.EnterScope()
	defer s.ctx.ExitScope()

	for _, param := range sig.Params {
		s.register(param.Name, typeFromParam(param))
	}
	s.declareBlock(block.Items)

	body()
}

// Same as withFunctionScope for the members of an enum or type declaration
func (s *sema) withMemberScope(members *ast.MemberBlock, body func()) {
	s.ctx.EnterScope()
	defer s.ctx.ExitScope()

	items := make([]ast.Node, len(members.Members))
	for i, member := range members.Members {
		items[i] = member
	}
	s.declareBlock(items)

	body()
}

func FunctionType(sig *ast.Signature) *scope.FunctionType {
	fn := &scope.FunctionType{
		Params: make([]scope.FunctionParam, len(sig.Params)),
		Return: typeFromName(sig.RetType),
	}
	for i, param := range sig.Params {
		fn.Params[i] = scope.FunctionParam{
			Name: param.Name.Name(),
			Type: typeFromParam(param),
		}
		if param.Label != nil {
			fn.Params[i].Label = param.Label.Name()
		}
	}
	return fn
}

// Untyped parameters are numbers, the only kind a parameter can be lowered to
func typeFromParam(param *ast.Param) scope.Type {
	if param.Type == nil {
		return scope.F64
	}
	return typeFromName(param.Type)
}

func typeFromName(name *token.Token) scope.Type {
	if name == nil {
		return scope.VOID
	}
	return scope.NamedType{Name: name.Name()}
}
