package parser

import (
	"fmt"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer"
	"github.com/HicaroD/ember/internal/lexer/token"
)

func (p *Parser) expect(expectedKind token.Kind) (*token.Token, bool) {
	tok := p.lex.Peek(true)
	if tok.Kind != expectedKind {
		return tok, false
	}
	p.lex.Skip()
	return tok, true
}

// Reports the token under the cursor as unexpected
func (p *Parser) unexpected(expected string) error {
	tok := p.lex.Peek(true)
	p.collector.Error(tok.Pos, "expected %s, not %s", expected, describe(tok))
	return diagnostics.COMPILER_ERROR_FOUND
}

func describe(tok *token.Token) string {
	switch tok.Kind {
	case token.ID:
		return fmt.Sprintf("identifier '%s'", tok.Name())
	case token.NUMBER_LITERAL:
		return fmt.Sprintf("number literal '%s'", tok.Name())
	case token.EOF:
		return tok.Kind.String()
	}
	return fmt.Sprintf("'%s'", tok.Kind)
}

// Useful for testing
func ParseFrom(src, filename string) (*ast.SourceFile, *diagnostics.Collector, error) {
	collector := diagnostics.New()
	collector.Out = nil

	lex := lexer.New(filename, []byte(src), collector)
	file, err := New(lex, collector).Parse()
	return file, collector, err
}

// Useful for testing
func ParseExprFrom(expr, filename string) (ast.Expr, error) {
	collector := diagnostics.New()
	collector.Out = nil

	lex := lexer.New(filename, []byte(expr), collector)
	p := New(lex, collector)

	exprAst, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !lex.NextIs(token.EOF) {
		return exprAst, p.unexpected("end of expression")
	}
	return exprAst, nil
}
