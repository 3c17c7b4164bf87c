// Package compiler implements the two-pass driver (spec.md section 4.7):
// Pass 0 pre-scans every PROC/FUNC header into the global scope so forward
// calls resolve, Pass 1 compiles each routine body with a fresh local
// scope and checks its GOTO targets and unused variables, and a
// post-validation walk checks exported routines once the whole program is
// known.
//
// Grounded on parser.Parser.Parse()'s existing Pass-0/Pass-1/post-validate
// shape, and on its post-pass fixup precedent (countLiteralsPerPool /
// adjustAddressesForDynamicPools) for the idea of a dedicated pass over
// the finished tree rather than folding every check into the first pass.
package compiler

import (
	"fmt"

	"github.com/stevewpalmer/jcom/ast"
	"github.com/stevewpalmer/jcom/diag"
	"github.com/stevewpalmer/jcom/linestore"
	"github.com/stevewpalmer/jcom/stmtparser"
	"github.com/stevewpalmer/jcom/symtab"
	"github.com/stevewpalmer/jcom/token"
)

// Options configures a compilation run, mirroring the CLI flags of
// spec.md section 6.
type Options struct {
	WarnLevel   int // --warn:N, 0-4
	WarnAsError bool
	Strict      bool
	// ReRaisePanics disables Compile's panic recovery, letting an internal
	// compiler panic propagate instead of being reported as CompilerFailure.
	// Wired to the CLI's --debug flag.
	ReRaisePanics bool
}

// Compiler drives the two passes over a linestore.Store.
type Compiler struct {
	store *linestore.Store
	bag   *diag.Bag
	scope *symtab.Stack
	opts  Options
	main  *symtab.Symbol

	// topState carries the block-state machine (spec.md section 4.6.1)
	// across passOne's per-top-level-line Parser reconstruction, so
	// TokenNotPermitted is enforced across the whole program rather than
	// reset to StateProgram on every line.
	topState stmtparser.BlockState
}

// New creates a Compiler for store.
func New(store *linestore.Store, opts Options) *Compiler {
	return &Compiler{
		store:    store,
		bag:      diag.NewBag(opts.WarnLevel, opts.WarnAsError),
		scope:    symtab.NewStack(),
		opts:     opts,
		topState: stmtparser.StateProgram,
	}
}

// Diagnostics returns the diagnostic bag accumulated across both passes.
func (c *Compiler) Diagnostics() *diag.Bag { return c.bag }

// Compile runs Pass 0, Pass 1, and post-validation, returning the
// compiled program. Partial results are returned even when errors were
// recorded, so callers (e.g. --dump) can still inspect what compiled. An
// internal panic is caught and reported as CompilerFailure unless
// Options.ReRaisePanics is set, in which case it propagates (--debug).
func (c *Compiler) Compile() (prog *ast.Program) {
	if !c.opts.ReRaisePanics {
		defer func() {
			if r := recover(); r != nil {
				if prog == nil {
					prog = &ast.Program{}
				}
				c.bag.Add(diag.CompilerFailure, diag.Position{},
					fmt.Sprintf("internal compiler error: %v", r))
			}
		}()
	}
	c.passZero()
	prog = c.passOne()
	c.postValidate(prog)
	return prog
}

// passZero pre-scans every PROC/FUNC header so forward references resolve
// during Pass 1, and injects an implicit Main entry point when no symbol
// named Main has been declared.
func (c *Compiler) passZero() {
	cur := c.store.NewCursor()
	var depthStack []string
	for l := cur.Next(); l != nil; l = cur.Next() {
		for i, t := range l.Tokens {
			switch t.Type {
			case token.PROC, token.FUNC:
				name := headerName(l.Tokens, i)
				if name == "" {
					continue
				}
				class := symtab.ClassProc
				if t.Type == token.FUNC {
					class = symtab.ClassFunc
				}
				sym := &symtab.Symbol{Name: name, Class: class}
				sym.Closed = hasKeywordBefore(l.Tokens, len(l.Tokens), token.CLOSED)
				sym.Exported = hasKeywordBefore(l.Tokens, i, token.EXPORT)
				sym.External = externalLibrary(l.Tokens)
				if !c.scope.Declare(sym) {
					c.bag.Add(diag.SubFuncDefined,
						diag.Position{Line: l.Number, Column: t.Pos.Column},
						fmt.Sprintf("%q already defined", name))
				}
				depthStack = append(depthStack, name)
			case token.ENDPROC, token.ENDFUNC:
				if len(depthStack) > 0 {
					depthStack = depthStack[:len(depthStack)-1]
				}
			}
		}
	}
	if c.scope.Resolve("MAIN") == nil {
		c.main = &symtab.Symbol{Name: "Main", Class: symtab.ClassProc}
		c.scope.Declare(c.main)
	}
}

func headerName(toks []token.Token, at int) string {
	if at+1 < len(toks) && toks[at+1].Type == token.Identifier {
		return toks[at+1].Literal
	}
	return ""
}

func hasKeywordBefore(toks []token.Token, at int, kw token.Type) bool {
	for i := 0; i < at; i++ {
		if toks[i].Type == kw {
			return true
		}
	}
	return false
}

func externalLibrary(toks []token.Token) string {
	for i, t := range toks {
		if t.Type == token.EXTERNAL && i+1 < len(toks) && toks[i+1].Type == token.StringLit {
			return toks[i+1].Literal
		}
	}
	return ""
}

// passOne drives stmtparser over the whole store. Top-level statements
// (outside any PROC/FUNC) become the program's Statements; each PROC/FUNC
// body is compiled in a fresh local scope and collected into Routines.
func (c *Compiler) passOne() *ast.Program {
	prog := &ast.Program{}
	cursor := c.store.NewCursor()
	labels := symtab.NewLabelTable()

	for {
		peek := cursor.Next()
		if peek == nil {
			break
		}
		if len(peek.Tokens) > 0 && (peek.Tokens[0].Type == token.PROC || peek.Tokens[0].Type == token.FUNC) {
			routine := c.compileRoutine(cursor, peek)
			prog.Routines = append(prog.Routines, routine)
			continue
		}
		// Re-drive a single-line statement parser positioned on just
		// this one line by wrapping it in a throwaway single-line store.
		stmts := c.compileSingleLine(peek, labels)
		prog.Statements = append(prog.Statements, stmts...)
	}
	return prog
}

func (c *Compiler) compileSingleLine(l *linestore.Line, labels *symtab.LabelTable) []*ast.Node {
	tmp := linestore.New()
	tmp.Put(l)
	sp := stmtparser.New(tmp.NewCursor(), c.bag, c.scope, labels)
	sp.SetState(c.topState)
	stmts := sp.CompileBlock(nil)
	c.topState = sp.State()
	return stmts
}

func (c *Compiler) compileRoutine(cursor *linestore.Cursor, header *linestore.Line) *ast.Node {
	isFunc := header.Tokens[0].Type == token.FUNC
	name := headerName(header.Tokens, 0)
	closed := hasKeywordBefore(header.Tokens, len(header.Tokens), token.CLOSED)

	sym := c.scope.Resolve(name)
	node := &ast.Node{
		Kind:     ast.Procedure,
		Name:     name,
		Closed:   closed,
		Pos:      token.Position{Line: header.Number},
	}
	if sym != nil {
		node.Exported = sym.Exported
		node.External = sym.External
	}

	c.scope.Push(name, closed)
	defer c.scope.Pop()

	labels := symtab.NewLabelTable()
	endTokens := map[token.Type]bool{token.ENDPROC: true}
	if isFunc {
		endTokens = map[token.Type]bool{token.ENDFUNC: true}
	}

	// The shared cursor already sits right after the header line, so
	// CompileBlock walks the routine body and stops at its ENDPROC/ENDFUNC.
	body := stmtparser.New(cursor, c.bag, c.scope, labels)
	node.Body = body.CompileBlock(endTokens)

	// GOTOINTOBLOCK (spec.md section 4.4 invariant 8): a GOTO whose target
	// label sits at a strictly greater block-nesting depth than the GOTO
	// itself would jump into a construct the GOTO never entered.
	for _, g := range body.Gotos() {
		if labelDepth, ok := body.LabelDepth(g.Name); ok && labelDepth > g.Depth {
			c.bag.Add(diag.GotoIntoBlock,
				diag.Position{Line: g.Pos.Line, Column: g.Pos.Column},
				fmt.Sprintf("GOTO %q jumps into a nested block it never entered", g.Name))
		}
	}

	if isFunc {
		if !containsReturn(node.Body) {
			c.bag.Add(diag.IllegalReturn,
				diag.Position{Line: header.Number},
				fmt.Sprintf("function %q has no RETURN statement", name))
		}
	}
	for _, undef := range labels.Undefined() {
		c.bag.Add(diag.UndefinedLabel,
			diag.Position{Line: header.Number},
			fmt.Sprintf("undefined label %q in %q", undef.Name, name))
	}
	for _, s := range c.scope.Current().Symbols.All() {
		if !s.Referenced && s.Class == symtab.ClassVariable {
			c.bag.Add(diag.UnusedVariable,
				diag.Position{Line: header.Number},
				fmt.Sprintf("%q is declared but never used", s.Name))
		}
	}
	return node
}

func containsReturn(body []*ast.Node) bool {
	for _, n := range body {
		if n.Kind == ast.Return && n.Expr != nil {
			return true
		}
		if n.Kind == ast.Conditional {
			if containsReturn(n.Then) || containsReturn(n.Else) {
				return true
			}
			for _, e := range n.ElseIfs {
				if containsReturn(e.Then) {
					return true
				}
			}
		}
	}
	return false
}

// postValidate runs the cross-routine checks that need the whole program:
// it reports MissingExport for an exported routine whose compiled body is
// empty. An EXPORT naming a routine that has no PROC/FUNC header at all is
// not reported.
func (c *Compiler) postValidate(prog *ast.Program) {
	for _, r := range prog.Routines {
		if r.Exported && len(r.Body) == 0 {
			c.bag.Add(diag.MissingExport, diag.Position{Line: r.Pos.Line, Column: r.Pos.Column}, fmt.Sprintf("exported routine %q has no body", r.Name))
		}
	}
}
