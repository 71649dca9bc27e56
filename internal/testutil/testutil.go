package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer"
	"github.com/HicaroD/ember/internal/lexer/token"
	"github.com/HicaroD/ember/internal/parser"
	"github.com/HicaroD/ember/internal/scope"
	"github.com/HicaroD/ember/internal/sema"
)

const DefaultFilename = "test.em"

func NewCollector() *diagnostics.Collector {
	collector := diagnostics.New()
	collector.Out = nil
	return collector
}

func NewLexer(src []byte, filename string) (*lexer.Lexer, *diagnostics.Collector) {
	if filename == "" {
		filename = DefaultFilename
	}
	collector := NewCollector()
	return lexer.New(filename, src, collector), collector
}

// Parses, registers and checks src, failing the test on any error
func Analyze(t *testing.T, src string) *ast.SourceFile {
	t.Helper()

	lex, collector := NewLexer([]byte(src), "")
	file, err := parser.New(lex, collector).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v %v", err, collector.Diags)
	}

	checker := sema.New(scope.NewContext(), collector)
	checker.Declare(file)
	err = checker.Check(file)
	if err != nil {
		t.Fatalf("unexpected semantic error: %v %v", err, collector.Diags)
	}
	return file
}

// Writes src to a fresh temporary directory and returns its path
func WriteSource(t *testing.T, name, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(src), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func NewIdExpr(name string, filename string) *ast.IdExpr {
	if filename == "" {
		filename = DefaultFilename
	}
	return &ast.IdExpr{
		Name: token.New([]byte(name), token.ID, token.NewPosition(filename, 1, 1)),
	}
}

func NewNumberLit(value float64) *ast.NumberLit {
	tok := token.New(nil, token.NUMBER_LITERAL, token.NewPosition(DefaultFilename, 1, 1))
	tok.Value = value
	return &ast.NumberLit{Tok: tok, Value: value}
}

func NewBinaryExpr(left ast.Expr, op token.Kind, right ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{
		Op:    token.New(nil, op, token.NewPosition(DefaultFilename, 1, 1)),
		Left:  left,
		Right: right,
	}
}
