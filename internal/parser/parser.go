package parser

import (
	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer"
	"github.com/HicaroD/ember/internal/lexer/token"
)

type Parser struct {
	lex       *lexer.Lexer
	collector *diagnostics.Collector
}

func New(lex *lexer.Lexer, collector *diagnostics.Collector) *Parser {
	parser := new(Parser)
	parser.lex = lex
	parser.collector = collector
	return parser
}

// Parse always returns the tree built so far. On failure the block stops at
// the first item that could not be parsed and COMPILER_ERROR_FOUND is
// returned alongside it.
func (p *Parser) Parse() (*ast.SourceFile, error) {
	config.Trace("parsing %s", p.lex.Filename())

	file := &ast.SourceFile{Name: p.lex.Filename()}

	block, err := p.parseCodeBlock()
	file.Block = block
	if err != nil {
		return file, err
	}

	tok := p.lex.Peek(true)
	if tok.Kind != token.EOF {
		p.collector.Error(tok.Pos, "unexpected %s on global scope", describe(tok))
		return file, diagnostics.COMPILER_ERROR_FOUND
	}

	if p.collector.HasErrors() {
		return file, diagnostics.COMPILER_ERROR_FOUND
	}
	return file, nil
}

func (p *Parser) parseCodeBlock() (*ast.CodeBlock, error) {
	config.Trace("parseCodeBlock")

	block := new(ast.CodeBlock)
	for {
		tok := p.lex.Peek(true)
		if tok.Kind == token.EOF || tok.Kind == token.CLOSE_CURLY {
			break
		}

		item, err := p.parseItem()
		if err != nil {
			return block, err
		}
		block.Items = append(block.Items, item)
	}
	return block, nil
}

func (p *Parser) parseItem() (ast.Node, error) {
	tok := p.lex.Peek(true)

	switch tok.Kind {
	case token.LET:
		return p.parseVarDecl()
	case token.FUN:
		return p.parseFunDecl()
	case token.EXTERN:
		return p.parseExternDecl()
	case token.ENUM, token.TYPE:
		return p.parseMemberDecl()
	default:
		if token.STATEMENT_KEYWORDS[tok.Kind] {
			p.collector.Error(tok.Pos, "'%s' statements are not supported", tok.Kind)
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		return p.parseExpr()
	}
}

func (p *Parser) parseVarDecl() (*ast.VarDecl, error) {
	config.Trace("parseVarDecl")

	_, ok := p.expect(token.LET)
	if !ok {
		return nil, p.unexpected("let")
	}

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected("variable name")
	}

	_, ok = p.expect(token.COLON_EQUAL)
	if !ok {
		return nil, p.unexpected(":=")
	}

	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &ast.VarDecl{Name: name, Value: value}, nil
}

func (p *Parser) parseFunDecl() (*ast.FunDecl, error) {
	config.Trace("parseFunDecl")

	_, ok := p.expect(token.FUN)
	if !ok {
		return nil, p.unexpected("fun")
	}

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected("function name")
	}

	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}

	_, ok = p.expect(token.OPEN_CURLY)
	if !ok {
		return nil, p.unexpected("{")
	}

	body, err := p.parseCodeBlock()
	if err != nil {
		return nil, err
	}

	_, ok = p.expect(token.CLOSE_CURLY)
	if !ok {
		return nil, p.unexpected("}")
	}

	return &ast.FunDecl{Name: name, Sig: sig, Body: body}, nil
}

func (p *Parser) parseExternDecl() (*ast.ExternDecl, error) {
	config.Trace("parseExternDecl")

	_, ok := p.expect(token.EXTERN)
	if !ok {
		return nil, p.unexpected("extern")
	}

	_, ok = p.expect(token.FUN)
	if !ok {
		return nil, p.unexpected("fun")
	}

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected("function name")
	}

	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}

	return &ast.ExternDecl{Name: name, Sig: sig}, nil
}

// Parses both enum and type declarations, they only differ in the keyword
func (p *Parser) parseMemberDecl() (ast.Decl, error) {
	config.Trace("parseMemberDecl")

	keyword := p.lex.Next(true)

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected("type name")
	}

	_, ok = p.expect(token.OPEN_CURLY)
	if !ok {
		return nil, p.unexpected("{")
	}

	members := new(ast.MemberBlock)
	for {
		tok := p.lex.Peek(true)
		if tok.Kind == token.CLOSE_CURLY {
			break
		}

		var member ast.Decl
		var err error

		switch tok.Kind {
		case token.LET:
			member, err = p.parseVarDecl()
		case token.FUN:
			member, err = p.parseFunDecl()
		default:
			p.collector.Error(
				tok.Pos,
				"expected 'let' or 'fun' inside %s declaration, not %s",
				keyword.Kind,
				describe(tok),
			)
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
		if err != nil {
			return nil, err
		}
		members.Members = append(members.Members, member)
	}

	p.lex.Skip() // }

	if keyword.Kind == token.ENUM {
		return &ast.EnumDecl{Name: name, Members: members}, nil
	}
	return &ast.TypeDecl{Name: name, Members: members}, nil
}

func (p *Parser) parseSignature() (*ast.Signature, error) {
	config.Trace("parseSignature")

	sig := new(ast.Signature)

	_, ok := p.expect(token.OPEN_PAREN)
	if !ok {
		return nil, p.unexpected("(")
	}

	if !p.lex.NextIs(token.CLOSE_PAREN) {
		for {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			sig.Params = append(sig.Params, param)

			if !p.lex.NextIs(token.COMMA) {
				break
			}
			p.lex.Skip() // ,
		}
	}

	_, ok = p.expect(token.CLOSE_PAREN)
	if !ok {
		return nil, p.unexpected(")")
	}

	if p.lex.NextIs(token.ARROW) {
		p.lex.Skip() // ->

		retType, ok := p.expect(token.ID)
		if !ok {
			return nil, p.unexpected("return type")
		}
		sig.RetType = retType
	}

	return sig, nil
}

func (p *Parser) parseParam() (*ast.Param, error) {
	param := new(ast.Param)

	name, ok := p.expect(token.ID)
	if !ok {
		return nil, p.unexpected("parameter name")
	}
	param.Name = name

	// Two identifiers in a row are "label name"
	if p.lex.NextIs(token.ID) {
		param.Label = name
		param.Name = p.lex.Next(true)
	}

	if p.lex.NextIs(token.COLON) {
		p.lex.Skip() // :

		paramType, ok := p.expect(token.ID)
		if !ok {
			return nil, p.unexpected("parameter type")
		}
		param.Type = paramType
	}

	return param, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	config.Trace("parseExpr")

	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseBinary(left, 1)
}

// Precedence climbing, folds to the left while the operator binds at least as
// tight as minPrec
func (p *Parser) parseBinary(left ast.Expr, minPrec int) (ast.Expr, error) {
	for {
		op := p.lex.Peek(true)
		prec, ok := ast.PRECEDENCE[op.Kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		p.lex.Skip()

		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		next := p.lex.Peek(true)
		if nextPrec, ok := ast.PRECEDENCE[next.Kind]; ok && nextPrec > prec {
			right, err = p.parseBinary(right, prec+1)
			if err != nil {
				return nil, err
			}
		}

		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.lex.Peek(true)

	switch tok.Kind {
	case token.ID:
		p.lex.Skip()
		if !p.lex.NextIs(token.OPEN_PAREN) {
			return &ast.IdExpr{Name: tok}, nil
		}

		args, err := p.parseTuple()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{Name: tok, Args: args}, nil
	case token.NUMBER_LITERAL:
		p.lex.Skip()
		return &ast.NumberLit{Tok: tok, Value: tok.Value}, nil
	case token.TRUE, token.FALSE:
		p.lex.Skip()
		return &ast.BoolLit{Pos: tok.Pos, Value: tok.Kind == token.TRUE}, nil
	case token.NIL:
		p.lex.Skip()
		return &ast.NilLit{Pos: tok.Pos}, nil
	case token.IF:
		return p.parseIfExpr()
	case token.OPEN_PAREN:
		return p.parseTuple()
	default:
		p.collector.Error(tok.Pos, "expected expression, not %s", describe(tok))
		return nil, diagnostics.COMPILER_ERROR_FOUND
	}
}

func (p *Parser) parseIfExpr() (*ast.IfExpr, error) {
	config.Trace("parseIfExpr")

	ifTok, ok := p.expect(token.IF)
	if !ok {
		return nil, p.unexpected("if")
	}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	then, err := p.parseArm()
	if err != nil {
		return nil, err
	}

	_, ok = p.expect(token.ELSE)
	if !ok {
		return nil, p.unexpected("else")
	}

	els, err := p.parseArm()
	if err != nil {
		return nil, err
	}

	return &ast.IfExpr{Pos: ifTok.Pos, Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseArm() (ast.Expr, error) {
	_, ok := p.expect(token.OPEN_CURLY)
	if !ok {
		return nil, p.unexpected("{")
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	_, ok = p.expect(token.CLOSE_CURLY)
	if !ok {
		return nil, p.unexpected("}")
	}
	return expr, nil
}

// Parses "(a, b, ...)", used by both tuples and call arguments
func (p *Parser) parseTuple() (*ast.TupleExpr, error) {
	config.Trace("parseTuple")

	open, ok := p.expect(token.OPEN_PAREN)
	if !ok {
		return nil, p.unexpected("(")
	}

	tuple := &ast.TupleExpr{Open: open.Pos}
	if p.lex.NextIs(token.CLOSE_PAREN) {
		p.lex.Skip() // )
		return tuple, nil
	}

	for {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		tuple.Exprs = append(tuple.Exprs, expr)

		tok := p.lex.Next(true)
		switch tok.Kind {
		case token.COMMA:
			continue
		case token.CLOSE_PAREN:
			return tuple, nil
		default:
			p.collector.Error(tok.Pos, "expected ',' or ')', not %s", describe(tok))
			return nil, diagnostics.COMPILER_ERROR_FOUND
		}
	}
}
