package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/HicaroD/ember/internal/lexer/token"
)

var (
	COMPILER_ERROR_FOUND = errors.New("compiler error found")
)

type Severity int

const (
	ERROR Severity = iota
	WARNING
)

func (s Severity) String() string {
	switch s {
	case ERROR:
		return "error"
	case WARNING:
		return "warning"
	}
	return "unknown"
}

type Diag struct {
	Pos      token.Pos
	Severity Severity
	Message  string
}

func (diag Diag) String() string {
	return fmt.Sprintf("%s: %s: %s", diag.Pos, diag.Severity, diag.Message)
}

type Collector struct {
	Diags []Diag

	// Where reported diagnostics are printed, nil means nowhere
	Out io.Writer
}

func New() *Collector {
	return &Collector{
		Diags: nil,
		Out:   os.Stderr,
	}
}

func (collector *Collector) ReportAndSave(diag Diag) {
	if collector.Out != nil {
		fmt.Fprintln(collector.Out, diag)
	}
	collector.Diags = append(collector.Diags, diag)
}

func (collector *Collector) Error(pos token.Pos, format string, args ...any) {
	collector.ReportAndSave(Diag{
		Pos:      pos,
		Severity: ERROR,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (collector *Collector) Warning(pos token.Pos, format string, args ...any) {
	collector.ReportAndSave(Diag{
		Pos:      pos,
		Severity: WARNING,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (collector *Collector) ErrorCount() int {
	count := 0
	for _, diag := range collector.Diags {
		if diag.Severity == ERROR {
			count++
		}
	}
	return count
}

func (collector *Collector) HasErrors() bool {
	return collector.ErrorCount() > 0
}
