package lexer

import (
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer/token"
)

type Lexer struct {
	Collector *diagnostics.Collector

	src    []byte
	offset int
	pos    token.Pos

	// Offsets already reported, lookahead scans the same bytes more than once
	reported map[int]bool
}

func New(filename string, src []byte, collector *diagnostics.Collector) *Lexer {
	lexer := new(Lexer)

	lexer.Collector = collector
	lexer.pos = token.NewPosition(filename, 1, 1)
	lexer.src = src
	lexer.offset = 0
	lexer.reported = make(map[int]bool)

	return lexer
}

func NewFromFilePath(path string, collector *diagnostics.Collector) (*Lexer, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l := New(path, src, collector)
	return l, nil
}

func (lex *Lexer) Filename() string { return lex.pos.Filename }

func (lex *Lexer) Peek(ignoreNewline bool) *token.Token {
	prevPos := lex.pos
	prevOffset := lex.offset

	token := lex.Next(ignoreNewline)

	lex.pos = prevPos
	lex.offset = prevOffset
	return token
}

func (lex *Lexer) Skip() {
	lex.Next(true)
}

func (lex *Lexer) NextIs(expectedKind token.Kind) bool {
	token := lex.Peek(true)
	return token.Kind == expectedKind
}

func (lex *Lexer) Next(ignoreNewline bool) *token.Token {
	for {
		lex.skipWhitespace(ignoreNewline)

		tok := &token.Token{}
		tok.Kind = token.INVALID

		if lex.atEOF() {
			lex.consumeTokenNoLex(tok, token.EOF)
			return tok
		}

		if lex.getToken(tok, lex.peekChar()) {
			return tok
		}
	}
}

// Useful for testing
func (lex *Lexer) Tokenize() ([]*token.Token, error) {
	var tokens []*token.Token
	for {
		tok := lex.Next(false)
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if lex.Collector.HasErrors() {
		return tokens, diagnostics.COMPILER_ERROR_FOUND
	}
	return tokens, nil
}

// Returns false when the character was skipped and no token was produced
func (lex *Lexer) getToken(tok *token.Token, ch byte) bool {
	switch ch {
	case '\n':
		lex.consumeTokenNoLex(tok, token.NEWLINE)
		lex.nextChar()
	case '(':
		lex.consumeTokenNoLex(tok, token.OPEN_PAREN)
		lex.nextChar()
	case ')':
		lex.consumeTokenNoLex(tok, token.CLOSE_PAREN)
		lex.nextChar()
	case '{':
		lex.consumeTokenNoLex(tok, token.OPEN_CURLY)
		lex.nextChar()
	case '}':
		lex.consumeTokenNoLex(tok, token.CLOSE_CURLY)
		lex.nextChar()
	case '[':
		lex.consumeTokenNoLex(tok, token.OPEN_BRACKET)
		lex.nextChar()
	case ']':
		lex.consumeTokenNoLex(tok, token.CLOSE_BRACKET)
		lex.nextChar()
	case ',':
		lex.consumeTokenNoLex(tok, token.COMMA)
		lex.nextChar()
	case '.':
		lex.consumeTokenNoLex(tok, token.DOT)
		lex.nextChar()
	case '+':
		lex.consumeTokenNoLex(tok, token.PLUS)
		lex.nextChar()
	case '*':
		lex.consumeTokenNoLex(tok, token.STAR)
		lex.nextChar()
	case '/':
		lex.consumeTokenNoLex(tok, token.SLASH)
		lex.nextChar()
	case '=':
		lex.consumeTokenNoLex(tok, token.EQUAL)
		lex.nextChar()
	case '-':
		lex.consumeTokenNoLex(tok, token.MINUS)
		lex.nextChar() // -

		if lex.peekChar() == '>' {
			lex.nextChar() // >
			tok.Kind = token.ARROW
		}
	case ':':
		lex.consumeTokenNoLex(tok, token.COLON)
		lex.nextChar() // :

		if lex.peekChar() == '=' {
			lex.nextChar() // =
			tok.Kind = token.COLON_EQUAL
		}
	case '~':
		lex.consumeTokenNoLex(tok, token.TILDE)
		lex.nextChar() // ~

		if lex.peekChar() == '=' {
			lex.nextChar() // =
			tok.Kind = token.TILDE_EQUAL
		}
	default:
		if isIdentStart(ch) {
			lex.getIdOrKeyword(tok)
		} else if isDigit(ch) {
			lex.getNumberLit(tok)
		} else {
			lex.skipInvalidChar()
			return false
		}
	}
	return true
}

func (lex *Lexer) getNumberLit(tok *token.Token) {
	tok.Pos = lex.pos
	start := lex.offset

	number := lex.readWhile(
		func(chr byte) bool { return isDigit(chr) || chr == '.' },
	)

	tok.Kind = token.NUMBER_LITERAL
	tok.Lexeme = number

	value, err := strconv.ParseFloat(string(number), 64)
	if err != nil {
		lex.report(start, tok.Pos, "invalid number literal '%s'", number)
		value = 0
	}
	tok.Value = value
}

func (lex *Lexer) getIdOrKeyword(tok *token.Token) {
	tok.Pos = lex.pos
	identifier := lex.readWhile(
		func(chr byte) bool { return isIdentStart(chr) || isDigit(chr) },
	)
	tok.Kind = token.ID
	tok.Lexeme = identifier

	if string(identifier) == "_" {
		tok.Kind = token.WILDCARD
		return
	}
	keyword, ok := token.KEYWORDS[string(identifier)]
	if ok {
		tok.Kind = keyword
	}
}

func (lex *Lexer) consumeTokenNoLex(tok *token.Token, kind token.Kind) {
	tok.Lexeme = nil
	tok.Kind = kind
	tok.Pos = lex.pos
}

// Reports and skips the whole UTF-8 sequence under the cursor, so a
// multibyte character is a single column and a single diagnostic
func (lex *Lexer) skipInvalidChar() {
	r, size := utf8.DecodeRune(lex.src[lex.offset:])
	lex.report(lex.offset, lex.pos, "invalid character %q", r)
	lex.pos.Move(r)
	lex.offset += size
}

func (lex *Lexer) report(offset int, pos token.Pos, format string, args ...any) {
	if lex.reported[offset] {
		return
	}
	lex.reported[offset] = true
	lex.Collector.Error(pos, format, args...)
}

func (lex *Lexer) skipWhitespace(ignoreNewline bool) {
	for {
		lex.readWhile(func(ch byte) bool {
			return ch == ' ' || ch == '\t' || ch == '\r' || (ch == '\n' && ignoreNewline)
		})
		if lex.peekChar() != '/' || lex.peekCharAt(1) != '/' {
			return
		}
		// Comment runs until the end of the line, the newline itself is
		// still a token
		lex.readWhile(func(ch byte) bool { return ch != '\n' })
	}
}

func (lex *Lexer) readWhile(isValid func(byte) bool) []byte {
	var start, end int
	start = lex.offset

	for {
		if lex.atEOF() {
			break
		}

		if isValid(lex.peekChar()) {
			lex.nextChar()
		} else {
			break
		}
	}

	end = lex.offset

	return lex.src[start:end]
}

func (lex *Lexer) atEOF() bool {
	return lex.offset >= len(lex.src)
}

func (lex *Lexer) nextChar() byte {
	if lex.atEOF() {
		return 0
	}
	character := lex.src[lex.offset]
	lex.pos.Move(rune(character))
	lex.offset++
	return character
}

func (lex *Lexer) peekChar() byte {
	return lex.peekCharAt(0)
}

// Returns 0 past the end of input, atEOF tells it apart from a NUL byte
func (lex *Lexer) peekCharAt(n int) byte {
	if lex.offset+n >= len(lex.src) {
		return 0
	}
	return lex.src[lex.offset+n]
}

// Identifiers are ASCII only
func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
