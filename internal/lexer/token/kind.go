package token

import (
	"fmt"
)

type Kind int

const (
	// EOF
	EOF Kind = iota
	INVALID

	// Identifier
	ID

	// Literals
	NUMBER_LITERAL

	// Keywords
	LET
	FUN
	EXTERN
	ENUM
	TYPE
	IF
	ELSE
	LOOP
	MATCH
	RETURN
	BREAK
	CONTINUE
	TRUE
	FALSE
	NIL

	// \n
	NEWLINE

	// (
	OPEN_PAREN
	// )
	CLOSE_PAREN

	// {
	OPEN_CURLY
	// }
	CLOSE_CURLY

	// [
	OPEN_BRACKET
	// ]
	CLOSE_BRACKET

	// ,
	COMMA
	// .
	DOT
	// :
	COLON
	// :=
	COLON_EQUAL
	// ->
	ARROW
	// _
	WILDCARD

	// =
	EQUAL
	// ~
	TILDE
	// ~=
	TILDE_EQUAL

	// +
	PLUS
	// -
	MINUS
	// *
	STAR
	// /
	SLASH
)

var KEYWORDS map[string]Kind = map[string]Kind{
	"let":      LET,
	"fun":      FUN,
	"extern":   EXTERN,
	"enum":     ENUM,
	"type":     TYPE,
	"if":       IF,
	"else":     ELSE,
	"loop":     LOOP,
	"match":    MATCH,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
	"nil":      NIL,
}

var STATEMENT_KEYWORDS map[Kind]bool = map[Kind]bool{
	LOOP:     true,
	RETURN:   true,
	BREAK:    true,
	CONTINUE: true,
}

func (kind Kind) IsKeyword() bool {
	return kind >= LET && kind <= NIL
}

func (kind Kind) String() string {
	switch kind {
	case EOF:
		return "end of file"
	case INVALID:
		return "INVALID"
	case ID:
		return "identifier"
	case NUMBER_LITERAL:
		return "number literal"
	case LET:
		return "let"
	case FUN:
		return "fun"
	case EXTERN:
		return "extern"
	case ENUM:
		return "enum"
	case TYPE:
		return "type"
	case IF:
		return "if"
	case ELSE:
		return "else"
	case LOOP:
		return "loop"
	case MATCH:
		return "match"
	case RETURN:
		return "return"
	case BREAK:
		return "break"
	case CONTINUE:
		return "continue"
	case TRUE:
		return "true"
	case FALSE:
		return "false"
	case NIL:
		return "nil"
	case NEWLINE:
		return "newline"
	case OPEN_PAREN:
		return "("
	case CLOSE_PAREN:
		return ")"
	case OPEN_CURLY:
		return "{"
	case CLOSE_CURLY:
		return "}"
	case OPEN_BRACKET:
		return "["
	case CLOSE_BRACKET:
		return "]"
	case COMMA:
		return ","
	case DOT:
		return "."
	case COLON:
		return ":"
	case COLON_EQUAL:
		return ":="
	case ARROW:
		return "->"
	case WILDCARD:
		return "_"
	case EQUAL:
		return "="
	case TILDE:
		return "~"
	case TILDE_EQUAL:
		return "~="
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case STAR:
		return "*"
	case SLASH:
		return "/"
	default:
		return fmt.Sprintf("Kind(%d)", int(kind))
	}
}
