package scope

import (
	"errors"
	"log"
)

// Stack of scopes, the global scope at the bottom is never popped
type Context struct {
	Global  *Scope
	current *Scope
	depth   int
}

func NewContext() *Context {
	global := New(nil)
	return &Context{Global: global, current: global, depth: 1}
}

func (ctx *Context) EnterScope() {
	ctx.current = New(ctx.current)
	ctx.depth++
}

func (ctx *Context) ExitScope() {
	if ctx.current.Parent == nil {
		log.Panic("unable to exit the global scope")
	}
	ctx.current = ctx.current.Parent
	ctx.depth--
}

// Register adds sym to the innermost scope and reports false if an identical
// symbol is already there
func (ctx *Context) Register(sym Symbol) bool {
	err := ctx.current.Insert(sym)
	if err != nil {
		if errors.Is(err, SYMBOL_ALREADY_DEFINED_ON_SCOPE) {
			return false
		}
		log.Fatal(err)
	}
	return true
}

func (ctx *Context) Lookup(name string) (Symbol, bool) {
	sym, err := ctx.current.Lookup(name)
	if err != nil {
		return Symbol{}, false
	}
	return sym, true
}

// Only looks at the innermost scope
func (ctx *Context) LookupLocal(name string) (Symbol, bool) {
	return ctx.current.LookupLocal(name)
}

func (ctx *Context) Depth() int { return ctx.depth }
