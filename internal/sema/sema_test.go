package sema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/parser"
	"github.com/HicaroD/ember/internal/scope"
)

const filename = "test.em"

func parseAndCheck(t *testing.T, src string) (*diagnostics.Collector, error) {
	t.Helper()

	file, collector, err := parser.ParseFrom(src, filename)
	if err != nil {
		t.Fatalf("unexpected parse error: %v %v", err, collector.Diags)
	}

	sema := New(scope.NewContext(), collector)
	sema.Declare(file)
	return collector, sema.Check(file)
}

func diagsWith(diags []diagnostics.Diag, severity diagnostics.Severity) []diagnostics.Diag {
	var result []diagnostics.Diag
	for _, diag := range diags {
		if diag.Severity == severity {
			result = append(result, diag)
		}
	}
	return result
}

func containsDiag(diags []diagnostics.Diag, substr string) bool {
	for _, d := range diags {
		if strings.Contains(d.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidPrograms(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"function call", "fun add(x: f64, y: f64) -> f64 { x + y }\nadd(10, 20)"},
		{"forward reference", "twice(2)\nfun twice(x: f64) -> f64 { x * 2 }"},
		{"extern call", "extern fun sin(x: f64) -> f64\nsin(1) + 2"},
		{"untyped parameter is a number", "fun inc(x) -> f64 { x + 1 }"},
		{"let shadowing", "let a := 1\nlet a := true\nif a { 1 } else { 2 }"},
		{"bool comparison free if", "let ok := true\nif ok { 1.5 } else { 2.5 } * 2"},
		{"nested function", "fun outer() -> f64 {\n fun inner() -> f64 { 1 }\n inner()\n}"},
		{"mutual recursion", "fun a(x: f64) -> f64 { b(x) }\nfun b(x: f64) -> f64 { a(x) }"},
		{"type members", "type P {\n let a := 1\n fun get() -> f64 { a + helper() }\n fun helper() -> f64 { 2 }\n}"},
		{"enum members", "enum Color { let red := 0\n let green := red + 1 }"},
		{"single element tuple", "let t := (1)\nt + 2"},
		{"labeled parameter", "fun move(to x: f64) -> f64 { x }\nmove(1)"},
		{"same nested name in sibling functions", "fun a() { fun h() {} }\nfun b() { fun h() {} }"},
		{"nested function shadows global", "fun h() {}\nfun a() { fun h() {} }"},
		{"entry name inside a function", "fun outer() -> f64 {\n fun __entry() -> f64 { 1 }\n __entry()\n}"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestValidPrograms(%s)", test.name), func(t *testing.T) {
			collector, err := parseAndCheck(t, test.src)
			if err != nil {
				t.Fatalf("unexpected error: %v %v", err, collector.Diags)
			}
			if len(collector.Diags) != 0 {
				t.Fatalf("expected no diagnostics, got %v", collector.Diags)
			}
		})
	}
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"undeclared identifier", "x + 1", "undeclared identifier 'x'"},
		{"undeclared function", "f(1)", "undeclared function 'f'"},
		{"call on non-function", "let a := 1\na(2)", "'a' is not a function, its type is f64"},
		{"too many arguments", "fun f(x: f64) -> f64 { x }\nf(1, 2)", "function 'f' expects 1 argument(s), but got 2"},
		{"too few arguments", "fun f(x: f64, y: f64) -> f64 { x }\nf(1)", "function 'f' expects 2 argument(s), but got 1"},
		{"binary mismatch", "1 + true", "mismatched types f64 and bool for '+'"},
		{"non-bool condition", "if 1 { 2 } else { 3 }", "if condition must be bool, not f64"},
		{"if arm mismatch", "if true { 1 } else { false }", "if arms have different types: f64 and bool"},
		{"parameter out of scope", "fun f(x: f64) -> f64 { x }\nx", "undeclared identifier 'x'"},
		{"nested function out of scope", "fun outer() { fun inner() {} }\ninner()", "undeclared function 'inner'"},
		{"member out of scope", "type P { let a := 1 }\na", "undeclared identifier 'a'"},
		{"let used before declaration", "a\nlet a := 1", "undeclared identifier 'a'"},
		{"error inside argument", "fun f(x: f64) -> f64 { x }\nf(y)", "undeclared identifier 'y'"},
		{"duplicate function", "fun f() -> f64 { 1 }\nfun f() -> f64 { 2 }\nf()", "function 'f' already defined"},
		{"duplicate function with another signature", "fun f() {}\nfun f(x: f64) {}", "function 'f' already defined"},
		{"function named like an extern", "extern fun f(x: f64) -> f64\nfun f() {}", "function 'f' already defined"},
		{"duplicate nested function", "fun outer() {\n fun g() {}\n fun g() {}\n}", "function 'g' already defined"},
		{"reserved entry name", "fun __entry() -> f64 { 5 }\n1 + 1", "'__entry' is reserved for top-level code"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestSemanticErrors(%s)", test.name), func(t *testing.T) {
			collector, err := parseAndCheck(t, test.src)
			if err != diagnostics.COMPILER_ERROR_FOUND {
				t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
			}
			errors := diagsWith(collector.Diags, diagnostics.ERROR)
			if !containsDiag(errors, test.message) {
				t.Fatalf("expected error containing %q, got %v", test.message, collector.Diags)
			}
		})
	}
}

func TestSemanticWarnings(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"duplicate let", "let a := 1\nlet a := 2", "symbol 'a' already registered"},
		{"duplicate parameter", "fun f(x: f64, x: f64) {}", "symbol 'x' already registered"},
		{"return mismatch", "fun f() -> f64 { true }", "function 'f' declared to return f64, but its last expression is bool"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestSemanticWarnings(%s)", test.name), func(t *testing.T) {
			collector, err := parseAndCheck(t, test.src)
			if err != nil {
				t.Fatalf("warnings must not fail the check, got %v", err)
			}
			if collector.HasErrors() {
				t.Fatalf("expected no errors, got %v", collector.Diags)
			}
			warnings := diagsWith(collector.Diags, diagnostics.WARNING)
			if len(warnings) != 1 || !containsDiag(warnings, test.message) {
				t.Fatalf("expected a single warning containing %q, got %v", test.message, collector.Diags)
			}
		})
	}
}

func TestUndeclaredIdentifierIsVoid(t *testing.T) {
	collector := diagnostics.New()
	collector.Out = nil

	expr, err := parser.ParseExprFrom("x + 1", filename)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	sema := New(scope.NewContext(), collector)
	exprType := sema.CheckExpr(expr)
	if !scope.Equal(exprType, scope.VOID) {
		t.Fatalf("expected void, got %s", exprType)
	}
	if !containsDiag(collector.Diags, "undeclared identifier 'x'") {
		t.Fatalf("expected undeclared diagnostic, got %v", collector.Diags)
	}
}

func TestCheckContinuesAfterErrors(t *testing.T) {
	collector, err := parseAndCheck(t, "x + 1\ny\nfun f() -> f64 { z }")
	if err != diagnostics.COMPILER_ERROR_FOUND {
		t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
	}
	for _, name := range []string{"x", "y", "z"} {
		if !containsDiag(collector.Diags, fmt.Sprintf("undeclared identifier '%s'", name)) {
			t.Errorf("expected diagnostic for %s, got %v", name, collector.Diags)
		}
	}
}

func TestExpressionTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected scope.Type
	}{
		{"1", scope.F64},
		{"true", scope.BOOL},
		{"nil", scope.VOID},
		{"1 * 2 + 3", scope.F64},
		{"(true)", scope.BOOL},
		{"(1, true)", scope.VOID},
		{"if true { false } else { true }", scope.BOOL},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestExpressionTypes('%s')", test.input), func(t *testing.T) {
			collector := diagnostics.New()
			collector.Out = nil

			expr, err := parser.ParseExprFrom(test.input, filename)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}

			exprType := New(scope.NewContext(), collector).CheckExpr(expr)
			if !scope.Equal(exprType, test.expected) {
				t.Fatalf("expected %s, got %s", test.expected, exprType)
			}
			if collector.HasErrors() {
				t.Fatalf("unexpected diagnostics: %v", collector.Diags)
			}
		})
	}
}
