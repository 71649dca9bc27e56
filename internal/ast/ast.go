// Package ast defines the syntax tree produced by the parser. Every variant
// set is closed: items are either a Decl or an Expr, and passes walk them with
// exhaustive type switches.
package ast

import (
	"strings"

	"github.com/HicaroD/ember/internal/lexer/token"
)

// Name of the function holding the loose top-level items of a file, user code
// cannot declare it at global scope
const ENTRY_NAME = "__entry"

type Node interface {
	String() string
	astNode()
}

type SourceFile struct {
	Name  string
	Block *CodeBlock
}

func (file SourceFile) String() string {
	return file.Block.String()
}

type CodeBlock struct {
	Items []Node
}

func (block CodeBlock) String() string {
	items := make([]string, len(block.Items))
	for i, item := range block.Items {
		items[i] = item.String()
	}
	return strings.Join(items, "\n")
}

// Last returns the final item of the block, nil if the block is empty
func (block CodeBlock) Last() Node {
	if len(block.Items) == 0 {
		return nil
	}
	return block.Items[len(block.Items)-1]
}

type Signature struct {
	Params []*Param
	// nil when no return type is declared
	RetType *token.Token
}

func (sig Signature) HasReturn() bool { return sig.RetType != nil }

func (sig Signature) String() string {
	params := make([]string, len(sig.Params))
	for i, param := range sig.Params {
		params[i] = param.String()
	}
	str := "(" + strings.Join(params, ", ") + ")"
	if sig.RetType != nil {
		str += " -> " + sig.RetType.Name()
	}
	return str
}

type Param struct {
	Label *token.Token // optional
	Name  *token.Token
	Type  *token.Token // optional
}

func (param Param) String() string {
	var b strings.Builder
	if param.Label != nil {
		b.WriteString(param.Label.Name())
		b.WriteByte(' ')
	}
	b.WriteString(param.Name.Name())
	if param.Type != nil {
		b.WriteString(": ")
		b.WriteString(param.Type.Name())
	}
	return b.String()
}
