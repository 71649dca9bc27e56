package parser

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/HicaroD/ember/internal/ast"
	"github.com/HicaroD/ember/internal/diagnostics"
)

const filename = "test.em"

type exprTest struct {
	input string
	sexpr string
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []exprTest{
		{"1", "1"},
		{"x", "x"},
		{"2 + 3 * 4", "(+ 2 (* 3 4))"},
		{"2 * 3 + 4", "(+ (* 2 3) 4)"},
		{"2 - 3 - 4", "(- (- 2 3) 4)"},
		{"8 / 4 / 2", "(/ (/ 8 4) 2)"},
		{"1 + 2 * 3 - 4", "(- (+ 1 (* 2 3)) 4)"},
		{"1 * 2 + 3 * 4", "(+ (* 1 2) (* 3 4))"},
		{"(1 + 2) * 3", "(* (tuple (+ 1 2)) 3)"},
		{"a + b\n+ c", "(+ (+ a b) c)"},
		{"2.5 * x", "(* 2.5 x)"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestExpressionPrecedence('%s')", test.input), func(t *testing.T) {
			expr, err := ParseExprFrom(test.input, filename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if expr.String() != test.sexpr {
				t.Fatalf("\nexpected: %s\ngot: %s\n", test.sexpr, expr)
			}
		})
	}
}

func TestPrimaryExpressions(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, expr ast.Expr)
	}{
		{"true", func(t *testing.T, expr ast.Expr) {
			boolean, ok := expr.(*ast.BoolLit)
			if !ok || !boolean.Value {
				t.Fatalf("expected true literal, got %#v", expr)
			}
		}},
		{"false", func(t *testing.T, expr ast.Expr) {
			boolean, ok := expr.(*ast.BoolLit)
			if !ok || boolean.Value {
				t.Fatalf("expected false literal, got %#v", expr)
			}
		}},
		{"nil", func(t *testing.T, expr ast.Expr) {
			if _, ok := expr.(*ast.NilLit); !ok {
				t.Fatalf("expected nil literal, got %#v", expr)
			}
		}},
		{"()", func(t *testing.T, expr ast.Expr) {
			tuple, ok := expr.(*ast.TupleExpr)
			if !ok || len(tuple.Exprs) != 0 {
				t.Fatalf("expected empty tuple, got %#v", expr)
			}
		}},
		{"(1, x, 2 + 3)", func(t *testing.T, expr ast.Expr) {
			tuple, ok := expr.(*ast.TupleExpr)
			if !ok || len(tuple.Exprs) != 3 {
				t.Fatalf("expected tuple with three elements, got %#v", expr)
			}
			if tuple.String() != "(tuple 1 x (+ 2 3))" {
				t.Fatalf("unexpected tuple: %s", tuple)
			}
		}},
		{"add(10, 20)", func(t *testing.T, expr ast.Expr) {
			call, ok := expr.(*ast.CallExpr)
			if !ok {
				t.Fatalf("expected call, got %#v", expr)
			}
			if call.Name.Name() != "add" || len(call.Args.Exprs) != 2 {
				t.Fatalf("unexpected call: %s", call)
			}
		}},
		{"f()", func(t *testing.T, expr ast.Expr) {
			call, ok := expr.(*ast.CallExpr)
			if !ok || len(call.Args.Exprs) != 0 {
				t.Fatalf("expected call without arguments, got %#v", expr)
			}
		}},
		{"if true { 1 } else { 2 }", func(t *testing.T, expr ast.Expr) {
			ifExpr, ok := expr.(*ast.IfExpr)
			if !ok {
				t.Fatalf("expected if expression, got %#v", expr)
			}
			if ifExpr.String() != "(if true 1 2)" {
				t.Fatalf("unexpected if expression: %s", ifExpr)
			}
		}},
		{"if c { a + 1 } else { f(a) } * 2", func(t *testing.T, expr ast.Expr) {
			if expr.String() != "(* (if c (+ a 1) (f a)) 2)" {
				t.Fatalf("unexpected expression: %s", expr)
			}
		}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestPrimaryExpressions('%s')", test.input), func(t *testing.T) {
			expr, err := ParseExprFrom(test.input, filename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			test.check(t, expr)
		})
	}
}

func TestDeclarations(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, file *ast.SourceFile)
	}{
		{"let x := 1 + 2", func(t *testing.T, file *ast.SourceFile) {
			varDecl, ok := file.Block.Items[0].(*ast.VarDecl)
			if !ok {
				t.Fatalf("expected variable declaration, got %#v", file.Block.Items[0])
			}
			if varDecl.Name.Name() != "x" || varDecl.Value.String() != "(+ 1 2)" {
				t.Fatalf("unexpected variable declaration: %s", varDecl)
			}
		}},
		{"fun add(x: f64, y: f64) -> f64 { x + y }", func(t *testing.T, file *ast.SourceFile) {
			fun, ok := file.Block.Items[0].(*ast.FunDecl)
			if !ok {
				t.Fatalf("expected function declaration, got %#v", file.Block.Items[0])
			}
			if len(fun.Sig.Params) != 2 {
				t.Fatalf("expected two parameters, got %d", len(fun.Sig.Params))
			}
			if !fun.Sig.HasReturn() || fun.Sig.RetType.Name() != "f64" {
				t.Fatalf("expected f64 return type, got %s", fun.Sig)
			}
			if fun.String() != "(fun add (x: f64, y: f64) -> f64 (+ x y))" {
				t.Fatalf("unexpected function: %s", fun)
			}
		}},
		{"fun greet(to name: str) {}", func(t *testing.T, file *ast.SourceFile) {
			fun := file.Block.Items[0].(*ast.FunDecl)
			param := fun.Sig.Params[0]
			if param.Label == nil || param.Label.Name() != "to" {
				t.Fatalf("expected label 'to', got %v", param.Label)
			}
			if param.Name.Name() != "name" || param.Type.Name() != "str" {
				t.Fatalf("unexpected parameter: %s", param)
			}
			if fun.Sig.HasReturn() {
				t.Fatalf("expected no return type")
			}
			if len(fun.Body.Items) != 0 {
				t.Fatalf("expected empty body")
			}
		}},
		{"fun id(x) { x }", func(t *testing.T, file *ast.SourceFile) {
			fun := file.Block.Items[0].(*ast.FunDecl)
			if fun.Sig.Params[0].Type != nil || fun.Sig.Params[0].Label != nil {
				t.Fatalf("expected untyped, unlabeled parameter, got %s", fun.Sig.Params[0])
			}
		}},
		{"extern fun sin(x: f64) -> f64", func(t *testing.T, file *ast.SourceFile) {
			extern, ok := file.Block.Items[0].(*ast.ExternDecl)
			if !ok {
				t.Fatalf("expected extern declaration, got %#v", file.Block.Items[0])
			}
			if extern.String() != "(extern sin (x: f64) -> f64)" {
				t.Fatalf("unexpected extern: %s", extern)
			}
		}},
		{"enum Color { let red := 0\n let green := 1 }", func(t *testing.T, file *ast.SourceFile) {
			enum, ok := file.Block.Items[0].(*ast.EnumDecl)
			if !ok {
				t.Fatalf("expected enum declaration, got %#v", file.Block.Items[0])
			}
			if len(enum.Members.Members) != 2 {
				t.Fatalf("expected two members, got %d", len(enum.Members.Members))
			}
		}},
		{"type Point { let x := 0\n fun norm() -> f64 { x } }", func(t *testing.T, file *ast.SourceFile) {
			typeDecl, ok := file.Block.Items[0].(*ast.TypeDecl)
			if !ok {
				t.Fatalf("expected type declaration, got %#v", file.Block.Items[0])
			}
			if _, ok := typeDecl.Members.Members[1].(*ast.FunDecl); !ok {
				t.Fatalf("expected second member to be a function")
			}
		}},
		{"fun outer() -> f64 {\n fun inner() -> f64 { 1 }\n inner()\n}\nouter()", func(t *testing.T, file *ast.SourceFile) {
			if len(file.Block.Items) != 2 {
				t.Fatalf("expected two items, got %d", len(file.Block.Items))
			}
			outer := file.Block.Items[0].(*ast.FunDecl)
			if _, ok := outer.Body.Items[0].(*ast.FunDecl); !ok {
				t.Fatalf("expected nested function declaration")
			}
		}},
		{"// only a comment\n", func(t *testing.T, file *ast.SourceFile) {
			if len(file.Block.Items) != 0 {
				t.Fatalf("expected no items, got %d", len(file.Block.Items))
			}
		}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestDeclarations('%s')", test.input), func(t *testing.T) {
			file, _, err := ParseFrom(test.input, filename)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			test.check(t, file)
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	src := `
fun add(x: f64, y: f64) -> f64 { x + y }
extern fun cos(x: f64) -> f64
let a := add(1, 2) * 3
if true { a } else { cos(a) }
`
	first, _, err := ParseFrom(src, filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _, err := ParseFrom(src, filename)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical trees\nfirst: %s\nsecond: %s", first, second)
	}
}

type syntaxErrorTest struct {
	input     string
	items     int
	diagnosis string
}

func TestSyntaxErrors(t *testing.T) {
	tests := []syntaxErrorTest{
		{"let x 1", 0, "test.em:1:7: error: expected :=, not number literal '1'"},
		{"let := 1", 0, "test.em:1:5: error: expected variable name, not ':='"},
		{"let a := 1\nfun f(x: f64 { x }", 1, "test.em:2:14: error: expected ), not '{'"},
		{"(1, 2 3)", 0, "test.em:1:7: error: expected ',' or ')', not number literal '3'"},
		{"f(1, 2", 0, "test.em:1:7: error: expected ',' or ')', not end of file"},
		{"1 +", 0, "test.em:1:4: error: expected expression, not end of file"},
		{"if x { 1 }", 0, "test.em:1:11: error: expected else, not end of file"},
		{"let a := 1\nreturn a", 1, "test.em:2:1: error: 'return' statements are not supported"},
		{"enum E { 1 }", 0, "test.em:1:10: error: expected 'let' or 'fun' inside enum declaration, not number literal '1'"},
		{"extern sin(x)", 0, "test.em:1:8: error: expected fun, not identifier 'sin'"},
		{"1 }", 1, "test.em:1:3: error: unexpected '}' on global scope"},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("TestSyntaxErrors('%s')", test.input), func(t *testing.T) {
			file, collector, err := ParseFrom(test.input, filename)
			if err != diagnostics.COMPILER_ERROR_FOUND {
				t.Fatalf("expected COMPILER_ERROR_FOUND, got %v", err)
			}
			if file == nil || file.Block == nil {
				t.Fatalf("expected partial tree")
			}
			if len(file.Block.Items) != test.items {
				t.Fatalf("expected %d item(s) before the failure, got %d", test.items, len(file.Block.Items))
			}
			if len(collector.Diags) != 1 {
				t.Fatalf("expected a single diagnostic, got %v", collector.Diags)
			}
			if collector.Diags[0].String() != test.diagnosis {
				t.Fatalf("\nexpected: %s\ngot: %s\n", test.diagnosis, collector.Diags[0])
			}
		})
	}
}
