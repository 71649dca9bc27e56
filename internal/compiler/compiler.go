package compiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HicaroD/ember/internal/codegen"
	"github.com/HicaroD/ember/internal/codegen/backend"
	"github.com/HicaroD/ember/internal/config"
	"github.com/HicaroD/ember/internal/diagnostics"
	"github.com/HicaroD/ember/internal/lexer"
	"github.com/HicaroD/ember/internal/parser"
	"github.com/HicaroD/ember/internal/scope"
	"github.com/HicaroD/ember/internal/sema"
)

type Options struct {
	Factory backend.Factory

	// Writes <stem>.o next to the source file
	EmitObject bool
	// Writes the textual IR to <stem>.ll next to the source file
	DumpIR bool
	// Receives the textual IR of every compiled file, nil means nowhere
	IROut io.Writer
	// Where diagnostics are printed, nil means stderr
	Diagnostics io.Writer
}

type Result struct {
	Path       string
	ObjectPath string
	IRPath     string
	Diags      []diagnostics.Diag
}

// CompileFiles compiles every file on its own, a failing file never stops the
// others. The returned error joins the failure of each file.
func CompileFiles(paths []string, opts Options) error {
	var errs []error
	for _, path := range paths {
		_, err := CompileFile(path, opts)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func CompileFile(path string, opts Options) (*Result, error) {
	config.Trace("compiling %s", path)

	result := &Result{Path: path}

	collector := diagnostics.New()
	if opts.Diagnostics != nil {
		collector.Out = opts.Diagnostics
	}
	defer func() { result.Diags = collector.Diags }()

	lex, err := lexer.NewFromFilePath(path, collector)
	if err != nil {
		return result, err
	}

	file, err := parser.New(lex, collector).Parse()
	if err != nil {
		return result, fmt.Errorf("%s: %w", path, err)
	}

	checker := sema.New(scope.NewContext(), collector)
	checker.Declare(file)
	checker.Check(file)
	if collector.HasErrors() {
		return result, fmt.Errorf(
			"%s: %w: %d error(s)",
			path,
			diagnostics.COMPILER_ERROR_FOUND,
			collector.ErrorCount(),
		)
	}

	unit, err := opts.Factory(path)
	if err != nil {
		return result, fmt.Errorf("%s: %w", path, err)
	}
	defer unit.Dispose()

	err = codegen.Generate(unit, file)
	if err != nil {
		return result, fmt.Errorf("%s: %w", path, err)
	}

	ir := ""
	if opts.IROut != nil || opts.DumpIR {
		ir = unit.Dump()
	}
	if opts.IROut != nil {
		fmt.Fprint(opts.IROut, ir)
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))

	if opts.DumpIR {
		result.IRPath = stem + config.IR_EXT
		err := os.WriteFile(result.IRPath, []byte(ir), 0644)
		if err != nil {
			return result, err
		}
	}

	if opts.EmitObject {
		result.ObjectPath = stem + config.OBJECT_EXT
		err := unit.EmitObject(result.ObjectPath)
		if err != nil {
			return result, fmt.Errorf("%s: %w", path, err)
		}
	}

	return result, nil
}
