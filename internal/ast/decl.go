package ast

import (
	"fmt"
	"strings"

	"github.com/HicaroD/ember/internal/lexer/token"
)

type Decl interface {
	Node
	declNode()
}

type VarDecl struct {
	Name  *token.Token
	Value Expr
}

func (varDecl VarDecl) String() string {
	return fmt.Sprintf("(let %s %s)", varDecl.Name.Name(), varDecl.Value)
}
func (varDecl VarDecl) astNode()  {}
func (varDecl VarDecl) declNode() {}

type FunDecl struct {
	Name *token.Token
	Sig  *Signature
	Body *CodeBlock
}

func (fun FunDecl) String() string {
	body := fun.Body.String()
	if body == "" {
		return fmt.Sprintf("(fun %s %s)", fun.Name.Name(), fun.Sig)
	}
	return fmt.Sprintf("(fun %s %s %s)", fun.Name.Name(), fun.Sig, strings.ReplaceAll(body, "\n", " "))
}
func (fun FunDecl) astNode()  {}
func (fun FunDecl) declNode() {}

type ExternDecl struct {
	Name *token.Token
	Sig  *Signature
}

func (extern ExternDecl) String() string {
	return fmt.Sprintf("(extern %s %s)", extern.Name.Name(), extern.Sig)
}
func (extern ExternDecl) astNode()  {}
func (extern ExternDecl) declNode() {}

// Members are restricted to *VarDecl and *FunDecl by the parser
type MemberBlock struct {
	Members []Decl
}

func (block MemberBlock) String() string {
	members := make([]string, len(block.Members))
	for i, member := range block.Members {
		members[i] = member.String()
	}
	return strings.Join(members, " ")
}

type EnumDecl struct {
	Name    *token.Token
	Members *MemberBlock
}

func (enum EnumDecl) String() string {
	return memberDeclString("enum", enum.Name, enum.Members)
}
func (enum EnumDecl) astNode()  {}
func (enum EnumDecl) declNode() {}

type TypeDecl struct {
	Name    *token.Token
	Members *MemberBlock
}

func (typeDecl TypeDecl) String() string {
	return memberDeclString("type", typeDecl.Name, typeDecl.Members)
}
func (typeDecl TypeDecl) astNode()  {}
func (typeDecl TypeDecl) declNode() {}

func memberDeclString(keyword string, name *token.Token, members *MemberBlock) string {
	if len(members.Members) == 0 {
		return fmt.Sprintf("(%s %s)", keyword, name.Name())
	}
	return fmt.Sprintf("(%s %s %s)", keyword, name.Name(), members)
}
