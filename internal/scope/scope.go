package scope

import (
	"errors"
	"fmt"
)

var (
	SYMBOL_ALREADY_DEFINED_ON_SCOPE error = errors.New("symbol already defined on scope")
	SYMBOL_NOT_FOUND_ON_SCOPE       error = errors.New("symbol not found on scope")
)

type Symbol struct {
	Name string
	Type Type
}

func (sym Symbol) String() string {
	return fmt.Sprintf("%s: %s", sym.Name, sym.Type)
}

// Symbols are kept in registration order, a later symbol with the same name
// shadows an earlier one
type Scope struct {
	Parent  *Scope
	Symbols []Symbol
}

func New(parent *Scope) *Scope {
	return &Scope{Parent: parent, Symbols: nil}
}

// Only an identical name and type pair counts as already defined
func (scope *Scope) Insert(sym Symbol) error {
	for _, existing := range scope.Symbols {
		if existing.Name == sym.Name && Equal(existing.Type, sym.Type) {
			return fmt.Errorf("%w: %s", SYMBOL_ALREADY_DEFINED_ON_SCOPE, sym.Name)
		}
	}
	scope.Symbols = append(scope.Symbols, sym)
	return nil
}

// LookupLocal ignores the parents
func (scope *Scope) LookupLocal(name string) (Symbol, bool) {
	for i := len(scope.Symbols) - 1; i >= 0; i-- {
		if scope.Symbols[i].Name == name {
			return scope.Symbols[i], true
		}
	}
	return Symbol{}, false
}

func (scope *Scope) Lookup(name string) (Symbol, error) {
	for i := len(scope.Symbols) - 1; i >= 0; i-- {
		if scope.Symbols[i].Name == name {
			return scope.Symbols[i], nil
		}
	}
	if scope.Parent == nil {
		return Symbol{}, fmt.Errorf("%w: %s", SYMBOL_NOT_FOUND_ON_SCOPE, name)
	}
	return scope.Parent.Lookup(name)
}

func (scope Scope) String() string {
	return fmt.Sprintf("Scope:\nParent: %v\nCurrent: %v\n", scope.Parent, scope.Symbols)
}
