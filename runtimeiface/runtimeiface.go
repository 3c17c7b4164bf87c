// Package runtimeiface defines the external-call interface (spec.md
// section 6): a logical library name plus function name plus arity,
// resolved at compile time and bound to an implementation at run time.
//
// Grounded on the dispatch-by-name-and-arity convention the teacher's
// syscall layer uses to route VM traps to host functions, generalised
// from a fixed VM syscall table to Comal's open set of EXTERNAL
// libraries (Intrinsics, FileManager, PrintManager, Runtime).
package runtimeiface

import (
	"fmt"

	"github.com/stevewpalmer/jcom/variant"
)

// Signature describes one callable function: its name and the minimum and
// maximum number of arguments it accepts.
type Signature struct {
	Name     string
	MinArgs  int
	MaxArgs  int // -1 means unbounded
}

// Library groups related functions under one EXTERNAL name.
type Library struct {
	Name      string
	Functions map[string]Signature
}

// Func is the Go-side implementation bound to one (library, function)
// pair at run time.
type Func func(args []variant.Value) (variant.Value, error)

// Runtime is the resolved (library, function) -> Func table consulted by
// the compiled program's ExtCall nodes.
type Runtime struct {
	libraries map[string]map[string]Func
	sigs      map[string]Library
}

// New creates an empty runtime with the standard libraries' signatures
// registered but no implementations bound.
func New() *Runtime {
	r := &Runtime{
		libraries: make(map[string]map[string]Func),
		sigs:      make(map[string]Library),
	}
	r.registerSignatures()
	return r
}

func (r *Runtime) registerSignatures() {
	r.sigs["Intrinsics"] = Library{Name: "Intrinsics", Functions: map[string]Signature{
		"IDIV": {Name: "IDIV", MinArgs: 2, MaxArgs: 2},
		"IMOD": {Name: "IMOD", MinArgs: 2, MaxArgs: 2},
		"ABS":  {Name: "ABS", MinArgs: 1, MaxArgs: 1},
		"SGN":  {Name: "SGN", MinArgs: 1, MaxArgs: 1},
		"INT":  {Name: "INT", MinArgs: 1, MaxArgs: 1},
		"RND":  {Name: "RND", MinArgs: 0, MaxArgs: 1},
	}}
	r.sigs["FileManager"] = Library{Name: "FileManager", Functions: map[string]Signature{
		"OPEN":   {Name: "OPEN", MinArgs: 2, MaxArgs: 3},
		"CLOSE":  {Name: "CLOSE", MinArgs: 1, MaxArgs: 1},
		"CREATE": {Name: "CREATE", MinArgs: 1, MaxArgs: 2},
		"DELETE": {Name: "DELETE", MinArgs: 1, MaxArgs: 1},
		"WRITE":  {Name: "WRITE", MinArgs: 1, MaxArgs: -1},
		"EOF":    {Name: "EOF", MinArgs: 1, MaxArgs: 1},
	}}
	r.sigs["PrintManager"] = Library{Name: "PrintManager", Functions: map[string]Signature{
		"Print": {Name: "Print", MinArgs: 0, MaxArgs: -1},
		"Input": {Name: "Input", MinArgs: 0, MaxArgs: -1},
	}}
	r.sigs["Runtime"] = Library{Name: "Runtime", Functions: map[string]Signature{
		"TIME":    {Name: "TIME", MinArgs: 0, MaxArgs: 0},
		"FREEFILE": {Name: "FREEFILE", MinArgs: 0, MaxArgs: 0},
		"KEY$":    {Name: "KEY$", MinArgs: 0, MaxArgs: 0},
	}}
}

// Bind registers the Go implementation for library.function.
func (r *Runtime) Bind(library, function string, fn Func) {
	if r.libraries[library] == nil {
		r.libraries[library] = make(map[string]Func)
	}
	r.libraries[library][function] = fn
}

// Lookup validates arity against the registered Signature and returns the
// bound Func, or an error if the pair is unknown or unbound.
func (r *Runtime) Lookup(library, function string, argc int) (Func, error) {
	lib, ok := r.sigs[library]
	if !ok {
		return nil, fmt.Errorf("runtimeiface: unknown library %q", library)
	}
	sig, ok := lib.Functions[function]
	if !ok {
		return nil, fmt.Errorf("runtimeiface: unknown function %s.%s", library, function)
	}
	if argc < sig.MinArgs || (sig.MaxArgs >= 0 && argc > sig.MaxArgs) {
		return nil, fmt.Errorf("runtimeiface: %s.%s expects %d-%d args, got %d",
			library, function, sig.MinArgs, sig.MaxArgs, argc)
	}
	fn, ok := r.libraries[library][function]
	if !ok {
		return nil, fmt.Errorf("runtimeiface: %s.%s has no bound implementation", library, function)
	}
	return fn, nil
}

// Call is a convenience wrapper around Lookup followed by invocation.
func (r *Runtime) Call(library, function string, args []variant.Value) (variant.Value, error) {
	fn, err := r.Lookup(library, function, len(args))
	if err != nil {
		return variant.Value{}, err
	}
	return fn(args)
}
