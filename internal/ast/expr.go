package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/HicaroD/ember/internal/lexer/token"
)

// Binding power of each binary operator, higher binds tighter
var PRECEDENCE map[token.Kind]int = map[token.Kind]int{
	token.PLUS:  10,
	token.MINUS: 10,
	token.STAR:  20,
	token.SLASH: 20,
}

type Expr interface {
	Node
	Position() token.Pos
	exprNode()
}

type IdExpr struct {
	Name *token.Token
}

func (idExpr IdExpr) String() string      { return idExpr.Name.Name() }
func (idExpr IdExpr) Position() token.Pos { return idExpr.Name.Pos }
func (idExpr IdExpr) astNode()            {}
func (idExpr IdExpr) exprNode()           {}

type NumberLit struct {
	Tok   *token.Token
	Value float64
}

func (number NumberLit) String() string {
	return strconv.FormatFloat(number.Value, 'g', -1, 64)
}
func (number NumberLit) Position() token.Pos { return number.Tok.Pos }
func (number NumberLit) astNode()            {}
func (number NumberLit) exprNode()           {}

type BoolLit struct {
	Pos   token.Pos
	Value bool
}

func (boolean BoolLit) String() string      { return strconv.FormatBool(boolean.Value) }
func (boolean BoolLit) Position() token.Pos { return boolean.Pos }
func (boolean BoolLit) astNode()            {}
func (boolean BoolLit) exprNode()           {}

type NilLit struct {
	Pos token.Pos
}

func (nilLit NilLit) String() string      { return "nil" }
func (nilLit NilLit) Position() token.Pos { return nilLit.Pos }
func (nilLit NilLit) astNode()            {}
func (nilLit NilLit) exprNode()           {}

type TupleExpr struct {
	Open  token.Pos
	Exprs []Expr
}

func (tuple TupleExpr) String() string {
	exprs := make([]string, len(tuple.Exprs))
	for i, expr := range tuple.Exprs {
		exprs[i] = expr.String()
	}
	if len(exprs) == 0 {
		return "(tuple)"
	}
	return fmt.Sprintf("(tuple %s)", strings.Join(exprs, " "))
}
func (tuple TupleExpr) Position() token.Pos { return tuple.Open }
func (tuple TupleExpr) astNode()            {}
func (tuple TupleExpr) exprNode()           {}

type BinaryExpr struct {
	Op    *token.Token
	Left  Expr
	Right Expr
}

func (binary BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", binary.Op.Kind, binary.Left, binary.Right)
}
func (binary BinaryExpr) Position() token.Pos { return binary.Op.Pos }
func (binary BinaryExpr) astNode()            {}
func (binary BinaryExpr) exprNode()           {}

type IfExpr struct {
	Pos  token.Pos
	Cond Expr
	Then Expr
	Else Expr
}

func (ifExpr IfExpr) String() string {
	return fmt.Sprintf("(if %s %s %s)", ifExpr.Cond, ifExpr.Then, ifExpr.Else)
}
func (ifExpr IfExpr) Position() token.Pos { return ifExpr.Pos }
func (ifExpr IfExpr) astNode()            {}
func (ifExpr IfExpr) exprNode()           {}

type CallExpr struct {
	Name *token.Token
	Args *TupleExpr
}

func (call CallExpr) String() string {
	args := make([]string, len(call.Args.Exprs))
	for i, arg := range call.Args.Exprs {
		args[i] = arg.String()
	}
	if len(args) == 0 {
		return fmt.Sprintf("(%s)", call.Name.Name())
	}
	return fmt.Sprintf("(%s %s)", call.Name.Name(), strings.Join(args, " "))
}
func (call CallExpr) Position() token.Pos { return call.Name.Pos }
func (call CallExpr) astNode()            {}
func (call CallExpr) exprNode()           {}
