// Package stmtparser implements the statement parser (spec.md section
// 4.6): a block-state machine over a linestore.Store that compiles each
// line's statement into ast.Node form, dispatching by leading keyword.
//
// Grounded on parser/parser.go's firstPass/parseDirective/handleDirective
// switch-on-keyword dispatch, generalised from assembler directives to
// Comal's full statement grammar, and on its error-recovery idiom: log,
// consume to end of line, continue rather than abort the whole pass.
package stmtparser

import (
	"fmt"
	"strings"

	"github.com/stevewpalmer/jcom/ast"
	"github.com/stevewpalmer/jcom/diag"
	"github.com/stevewpalmer/jcom/exprparse"
	"github.com/stevewpalmer/jcom/linestore"
	"github.com/stevewpalmer/jcom/symtab"
	"github.com/stevewpalmer/jcom/token"
)

// BlockState classifies what kind of construct the parser currently sits
// inside, mirroring spec.md section 4.6's classification table.
type BlockState int

const (
	StateNone BlockState = iota
	StateProgram
	StateSubfunc
	StateSpecification
	StateStatement
	StateUnordered
)

// Parser drives one routine body (or the top-level program) through
// CompileBlock, producing ast.Node statements and recording diagnostics.
type Parser struct {
	cursor *linestore.Cursor
	bag    *diag.Bag
	scope  *symtab.Stack
	labels *symtab.LabelTable
	line   *linestore.Line
	toks   []token.Token
	pos    int
	state  BlockState

	// blockDepth counts lexical block nesting (IF/CASE/FOR/WHILE/REPEAT/
	// LOOP/TRAP bodies), independent of symtab's scope-stack depth, which
	// only changes at PROC/FUNC boundaries. Used by the GOTOINTOBLOCK walk.
	blockDepth int
	// loopDepth counts nesting inside LOOP bodies specifically; EXIT is
	// only legal while this is nonzero (spec.md section 4.6.3).
	loopDepth int

	gotos       []GotoRef
	labelDepths map[string]int // upper-cased label name -> block depth at its LABEL statement
	lastLineNo  int
}

// New creates a statement parser walking store from its current cursor
// position.
func New(cursor *linestore.Cursor, bag *diag.Bag, scope *symtab.Stack, labels *symtab.LabelTable) *Parser {
	return &Parser{
		cursor:      cursor,
		bag:         bag,
		scope:       scope,
		labels:      labels,
		state:       StateProgram,
		labelDepths: make(map[string]int),
	}
}

// State returns the block-state machine's current state. The top-level
// compile driver rebuilds a Parser per line (see compiler.compileSingleLine)
// and must thread this across those calls to enforce spec.md section 4.6.1
// across the whole program, not just within one line.
func (p *Parser) State() BlockState { return p.state }

// SetState seeds the block-state machine, used by the top-level compile
// driver to carry state across the one-Parser-per-line boundary.
func (p *Parser) SetState(s BlockState) { p.state = s }

// GotoRef records one GOTO statement's target label and the block-nesting
// depth of the GOTO itself, for the post-compile GOTOINTOBLOCK walk (spec.md
// section 4.4 invariant 8).
type GotoRef struct {
	Name  string
	Depth int
	Pos   token.Position
}

// Gotos returns every GOTO this Parser has parsed so far.
func (p *Parser) Gotos() []GotoRef { return p.gotos }

// LabelDepth returns the block-nesting depth at which name was declared via
// LABEL, and whether it has been declared at all.
func (p *Parser) LabelDepth(name string) (int, bool) {
	d, ok := p.labelDepths[strings.ToUpper(name)]
	return d, ok
}

func (p *Parser) nextLine() bool {
	p.line = p.cursor.Next()
	if p.line == nil {
		return false
	}
	p.toks = p.line.Tokens
	p.pos = 0
	p.lastLineNo = p.line.Number
	return true
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Type: token.EOL}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) atEndOfStatement() bool {
	return p.cur().IsEndOfLine()
}

// Resolve implements exprparse.Resolver so the expression parser can be
// handed this Parser's scope directly.
func (p *Parser) Resolve(name string) *symtab.Symbol {
	sym := p.scope.Resolve(name)
	if sym != nil {
		sym.Referenced = true
	}
	return sym
}

func (p *Parser) parseExpr() *ast.Node {
	ep := exprparse.New(p.toks[p.pos:], p.bag, p)
	n := ep.Parse()
	p.pos += ep.Pos()
	return n
}

func (p *Parser) error(code diag.Code, msg string) {
	p.bag.Add(code, diag.Position{Line: p.cur().Pos.Line, Column: p.cur().Pos.Column}, msg)
}

// recoverToEOL implements the teacher's error-recovery idiom: on a parse
// failure, skip the remainder of the current line and keep going rather
// than aborting the whole pass.
func (p *Parser) recoverToEOL() {
	for !p.atEndOfStatement() {
		p.advance()
	}
}

// CompileBlock parses lines until a token from endTokens is seen as the
// leading keyword of a line (the ENDPROC/ENDIF/UNTIL/etc. that closes the
// current construct), returning the parsed statements. The closing line
// itself is consumed but not included in the result.
func (p *Parser) CompileBlock(endTokens map[token.Type]bool) []*ast.Node {
	var stmts []*ast.Node
	for p.nextLine() {
		if len(p.toks) > 0 && endTokens[p.toks[0].Type] {
			p.pos = 1
			return stmts
		}
		for !p.atEndOfStatement() {
			stmt := p.parseStatement()
			if stmt != nil {
				stmts = append(stmts, stmt)
			}
			if !p.atEndOfStatement() && p.cur().Type != token.Semicolon {
				p.error(diag.EndOfStatement, "expected end of statement")
				p.recoverToEOL()
				break
			}
			if p.cur().Type == token.Semicolon {
				p.advance()
			}
		}
	}
	if len(endTokens) > 0 {
		p.bag.Add(diag.MissingEndStatement,
			diag.Position{Line: p.lastLineNo},
			"unexpected end of input: missing closing statement")
	}
	return stmts
}

// compileNestedBlock is CompileBlock plus block-nesting-depth bookkeeping,
// used by every construct that opens a nested body (IF/CASE/FOR/WHILE/
// REPEAT/LOOP/TRAP). The routine-body-level CompileBlock call in
// compiler.compileRoutine bypasses this, so depth 0 means "directly in the
// routine body."
func (p *Parser) compileNestedBlock(endTokens map[token.Type]bool) []*ast.Node {
	p.blockDepth++
	stmts := p.CompileBlock(endTokens)
	p.blockDepth--
	return stmts
}

// parseStatement dispatches by leading keyword, the direct analogue of
// the teacher's handleDirective switch.
func (p *Parser) parseStatement() *ast.Node {
	pos := p.cur().Pos
	p.checkState(p.cur().Type, pos)
	switch p.cur().Type {
	case token.LET:
		p.advance()
		return p.parseAssignment(pos)
	case token.Identifier:
		return p.parseAssignment(pos)
	case token.DIM:
		return p.parseDim(pos)
	case token.MODULE:
		return p.parseModule(pos)
	case token.EXPORT:
		return p.parseExport(pos)
	case token.IMPORT:
		return p.parseImport(pos)
	case token.IF:
		return p.parseIf(pos)
	case token.CASE:
		return p.parseCase(pos)
	case token.FOR:
		return p.parseFor(pos)
	case token.WHILE:
		return p.parseWhile(pos)
	case token.REPEAT:
		return p.parseRepeat(pos)
	case token.LOOP:
		return p.parseLoop(pos)
	case token.EXIT:
		p.advance()
		var when *ast.Node
		if p.cur().Type == token.WHEN {
			p.advance()
			when = p.parseExpr()
		}
		if p.loopDepth == 0 {
			p.error(diag.BadExit, "EXIT is only legal inside a LOOP")
		}
		return &ast.Node{Kind: ast.Break, Cond: when, Pos: pos}
	case token.RETURN:
		p.advance()
		var expr *ast.Node
		if !p.atEndOfStatement() {
			expr = p.parseExpr()
		}
		return &ast.Node{Kind: ast.Return, Expr: expr, Pos: pos}
	case token.GOTO:
		p.advance()
		name := p.advance().Literal
		p.labels.GetOrMake(name, p.currentDepth())
		p.gotos = append(p.gotos, GotoRef{Name: name, Depth: p.blockDepth, Pos: pos})
		return &ast.Node{Kind: ast.Goto, Label: name, Pos: pos}
	case token.LABEL:
		p.advance()
		name := p.advance().Literal
		if _, declared := p.LabelDepth(name); declared {
			p.error(diag.LabelAlreadyDeclared, fmt.Sprintf("label %q already declared", name))
		}
		p.labelDepths[strings.ToUpper(name)] = p.blockDepth
		p.labels.MarkDefined(name, p.currentDepth())
		return &ast.Node{Kind: ast.MarkLabel, Label: name, Pos: pos}
	case token.TRAP:
		return p.parseTrap(pos)
	case token.DATA:
		return p.parseData(pos)
	case token.READ:
		return p.parseRead(pos)
	case token.RESTORE:
		p.advance()
		return &ast.Node{Kind: ast.MarkLabel, Label: "RESTORE", Pos: pos}
	case token.PRINT:
		return p.parsePrint(pos)
	case token.INPUT:
		return p.parseInput(pos)
	case token.STOP, token.END:
		p.advance()
		return &ast.Node{Kind: ast.Return, Pos: pos}
	case token.EOL, token.Comment:
		return nil
	default:
		p.error(diag.UnexpectedToken, fmt.Sprintf("unexpected token %s at start of statement", p.cur().Type))
		p.recoverToEOL()
		return nil
	}
}

// currentDepth reports the scope stack's nesting depth, recorded in the
// label table. GOTOINTOBLOCK validation uses blockDepth instead.
func (p *Parser) currentDepth() int {
	return p.scope.Current().Depth
}

// classify assigns a leading statement token to one of spec.md section
// 4.6.1's classifications. EOL/Comment are not statements at all.
func classify(tt token.Type) (BlockState, bool) {
	switch tt {
	case token.EOL, token.Comment:
		return StateNone, false
	case token.MODULE, token.EXPORT:
		return StateProgram, true
	case token.PROC, token.FUNC:
		return StateSubfunc, true
	default:
		return StateStatement, true
	}
}

// checkState enforces spec.md section 4.6.1: a statement is legal only if
// its classification is not earlier than the state already reached,
// Subfunc transitions (PROC/FUNC) always being legal.
func (p *Parser) checkState(tt token.Type, pos token.Position) {
	class, ok := classify(tt)
	if !ok {
		return
	}
	if class == StateSubfunc {
		if p.state < StateSubfunc {
			p.state = StateSubfunc
		}
		return
	}
	if class < p.state {
		p.bag.Add(diag.TokenNotPermitted,
			diag.Position{Line: pos.Line, Column: pos.Column},
			fmt.Sprintf("%s is not permitted after the program has reached a later section", tt))
		return
	}
	p.state = class
}

func (p *Parser) parseModule(pos token.Position) *ast.Node {
	p.advance() // MODULE
	name := ""
	if p.cur().Type == token.Identifier {
		name = p.advance().Literal
	}
	return &ast.Node{Kind: ast.Module, Name: name, Pos: pos}
}

// expectIdent consumes an Identifier token, reporting ExpectedToken and
// returning the zero Token otherwise.
func (p *Parser) expectIdent() token.Token {
	if p.cur().Type != token.Identifier {
		p.error(diag.ExpectedToken, fmt.Sprintf("expected identifier, found %s", p.cur().Type))
		return token.Token{}
	}
	return p.advance()
}

func (p *Parser) parseExport(pos token.Position) *ast.Node {
	p.advance() // EXPORT
	var targets []*ast.Node
	for {
		t := p.expectIdent()
		if t.Literal == "" {
			break
		}
		if sym := p.scope.Resolve(t.Literal); sym != nil {
			if sym.Exported {
				p.error(diag.AlreadyExported, fmt.Sprintf("%q already exported", t.Literal))
			}
			sym.Exported = true
		}
		targets = append(targets, &ast.Node{Kind: ast.Ident, Name: t.Literal, Pos: t.Pos})
		if p.cur().Type != token.Comma {
			break
		}
		p.advance()
	}
	return &ast.Node{Kind: ast.Export, Params: targets, Pos: pos}
}

// parseImport implements the CLOSED-routine import rule (spec.md section
// 4.4): IMPORT is only legal inside a CLOSED routine, and each name may be
// imported at most once.
func (p *Parser) parseImport(pos token.Position) *ast.Node {
	p.advance() // IMPORT
	closed := p.scope.Current().Closed
	if !closed {
		p.error(diag.NotInClosed, "IMPORT is only legal inside a CLOSED routine")
	}
	var targets []*ast.Node
	for {
		t := p.expectIdent()
		if t.Literal == "" {
			break
		}
		if closed {
			if p.scope.Current().Imports[strings.ToUpper(t.Literal)] {
				p.error(diag.AlreadyImported, fmt.Sprintf("%q already imported", t.Literal))
			} else {
				p.scope.Import(t.Literal)
			}
		}
		targets = append(targets, &ast.Node{Kind: ast.Ident, Name: t.Literal, Pos: t.Pos})
		if p.cur().Type != token.Comma {
			break
		}
		p.advance()
	}
	return &ast.Node{Kind: ast.Import, Params: targets, Pos: pos}
}

func (p *Parser) parseAssignment(pos token.Position) *ast.Node {
	// An assignment to a name that does not resolve declares it as a plain
	// variable in the current scope, typed by its sigil.
	if t := p.cur(); t.Type == token.Identifier && p.pos+1 < len(p.toks) {
		switch p.toks[p.pos+1].Type {
		case token.Assign, token.CompAdd, token.CompSub:
			if p.scope.Resolve(t.Literal) == nil {
				p.scope.Declare(&symtab.Symbol{Name: t.Literal, Class: symtab.ClassVariable, Type: sigilType(t.Literal)})
			}
		}
	}
	target := p.parseExpr()
	op := p.cur().Type
	if op != token.Assign && op != token.CompAdd && op != token.CompSub {
		p.error(diag.ExpectedToken, "expected assignment operator")
		return target
	}
	p.advance()
	expr := p.parseExpr()
	return &ast.Node{
		Kind:     ast.Assignment,
		Target:   target,
		Expr:     expr,
		Compound: op != token.Assign,
		Op:       op,
		Pos:      pos,
	}
}

// sigilType classifies a name's default scalar type from its trailing
// sigil, per spec.md section 3 invariant 3: '#' -> Integer, '$' -> String,
// no sigil -> Float.
func sigilType(name string) symtab.FullType {
	if name == "" {
		return symtab.TypeFloat
	}
	switch name[len(name)-1] {
	case '#':
		return symtab.TypeInteger
	case '$':
		return symtab.TypeString
	default:
		return symtab.TypeFloat
	}
}

func (p *Parser) parseDim(pos token.Position) *ast.Node {
	p.advance() // DIM
	var targets []*ast.Node
	for {
		name := p.advance()
		sym := &symtab.Symbol{Name: name.Literal, Class: symtab.ClassVariable, Type: sigilType(name.Literal)}
		if p.cur().Type == token.LParen {
			sym.Class = symtab.ClassArray
			p.advance()
			for p.cur().Type != token.RParen && !p.atEndOfStatement() {
				bound := p.parseExpr()
				size := 0
				if bound.IsLiteral() {
					size = int(bound.Value.AsInt32())
					if size <= 0 {
						p.error(diag.ArrayIllegalBounds,
							fmt.Sprintf("array bound for %q must be a positive integer", name.Literal))
					}
				}
				sym.Dimensions = append(sym.Dimensions, size)
				if p.cur().Type == token.Comma {
					p.advance()
				}
			}
			p.expect(token.RParen)
		}
		if p.cur().Type == token.OF {
			p.advance()
			widthExpr := p.parseExpr()
			if widthExpr.IsLiteral() {
				sym.FixedWidth = int(widthExpr.Value.AsInt32())
			} else {
				p.error(diag.ConstantExpected, "OF width must be a constant integer expression")
			}
			if sym.Type != symtab.TypeString {
				p.error(diag.InvalidOf, fmt.Sprintf("OF is only legal for string variables, not %q", name.Literal))
			}
			sym.Type = symtab.TypeFixedString
		}
		if !p.scope.Declare(sym) {
			p.error(diag.ParameterDefined, fmt.Sprintf("%q already declared", name.Literal))
		}
		targets = append(targets, &ast.Node{Kind: ast.Ident, Name: name.Literal, Sym: sym, Pos: name.Pos})
		if p.cur().Type != token.Comma {
			break
		}
		p.advance()
	}
	return &ast.Node{Kind: ast.Parameters, Params: targets, Pos: pos}
}

func (p *Parser) expect(tt token.Type) (token.Token, bool) {
	if p.cur().Type != tt {
		p.error(diag.ExpectedToken, fmt.Sprintf("expected %s, found %s", tt, p.cur().Type))
		return token.Token{}, false
	}
	return p.advance(), true
}

var endIf = map[token.Type]bool{token.ENDIF: true, token.ELIF: true, token.ELSE: true}

func (p *Parser) parseIf(pos token.Position) *ast.Node {
	p.advance() // IF
	cond := p.parseExpr()
	p.expect(token.THEN)
	node := &ast.Node{Kind: ast.Conditional, Cond: cond, Pos: pos}

	if !p.atEndOfStatement() {
		// Single-line IF ... THEN stmt: no block, no ENDIF required.
		stmt := p.parseStatement()
		if stmt != nil {
			node.Then = []*ast.Node{stmt}
		}
		return node
	}

	node.Then = p.compileNestedBlock(endIf)
	for len(p.toks) > 0 && p.toks[0].Type == token.ELIF {
		p.pos = 1
		elifPos := p.toks[0].Pos
		econd := p.parseExpr()
		p.expect(token.THEN)
		branch := &ast.Node{Kind: ast.Conditional, Cond: econd, Pos: elifPos}
		branch.Then = p.compileNestedBlock(endIf)
		node.ElseIfs = append(node.ElseIfs, branch)
	}
	if len(p.toks) > 0 && p.toks[0].Type == token.ELSE {
		node.Else = p.compileNestedBlock(map[token.Type]bool{token.ENDIF: true})
	}
	return node
}

func (p *Parser) parseCase(pos token.Position) *ast.Node {
	p.advance() // CASE
	subject := p.parseExpr()
	node := &ast.Node{Kind: ast.Conditional, Cond: subject, Pos: pos}
	for p.nextLine() {
		if len(p.toks) == 0 {
			continue
		}
		switch p.toks[0].Type {
		case token.WHEN:
			p.pos = 1
			whenPos := p.toks[0].Pos
			val := p.parseExpr()
			branch := &ast.Node{Kind: ast.Conditional, Cond: val, Pos: whenPos}
			branch.Then = p.compileNestedBlock(map[token.Type]bool{
				token.WHEN: true, token.OTHERWISE: true, token.ENDCASE: true,
			})
			node.ElseIfs = append(node.ElseIfs, branch)
			if len(p.toks) > 0 && p.toks[0].Type == token.ENDCASE {
				return node
			}
			if len(p.toks) > 0 && p.toks[0].Type == token.OTHERWISE {
				node.Else = p.compileNestedBlock(map[token.Type]bool{token.ENDCASE: true})
				return node
			}
		case token.OTHERWISE:
			p.pos = 1
			node.Else = p.compileNestedBlock(map[token.Type]bool{token.ENDCASE: true})
			return node
		case token.ENDCASE:
			return node
		}
	}
	return node
}

func (p *Parser) parseFor(pos token.Position) *ast.Node {
	p.advance() // FOR
	loopVar := p.parseExpr()
	p.expect(token.Assign)
	from := p.parseExpr()
	p.expect(token.TO)
	to := p.parseExpr()
	var step *ast.Node
	if p.cur().Type == token.STEP {
		p.advance()
		step = p.parseExpr()
	}
	node := &ast.Node{Kind: ast.Loop, LoopVar: loopVar, From: from, To: to, Step: step, Pos: pos}
	if iterationsSkipped(from, to, step) {
		p.bag.Add(diag.LoopSkipped, diag.Position{Line: pos.Line, Column: pos.Column},
			"FOR loop body never executes: iteration count is zero")
	}
	node.Body = p.compileNestedBlock(map[token.Type]bool{token.NEXT: true})
	if len(p.toks) > 0 {
		p.pos = 1 // consume the NEXT keyword's trailing loop-var echo, if any
		if p.cur().Type == token.Identifier {
			p.advance()
		}
	}
	return node
}

// iterationsSkipped reports whether a FOR loop's bounds are all constant
// and its iteration count is zero, per spec.md section 4.6.3's LOOPSKIPPED
// warning.
func iterationsSkipped(from, to, step *ast.Node) bool {
	if !from.IsLiteral() || !to.IsLiteral() || (step != nil && !step.IsLiteral()) {
		return false
	}
	stepVal := int32(1)
	if step != nil {
		stepVal = step.Value.AsInt32()
	}
	fromVal, toVal := from.Value.AsInt32(), to.Value.AsInt32()
	switch {
	case stepVal == 0:
		return true
	case stepVal > 0:
		return fromVal > toVal
	default:
		return fromVal < toVal
	}
}

func (p *Parser) parseWhile(pos token.Position) *ast.Node {
	p.advance() // WHILE
	cond := p.parseExpr()
	p.expect(token.DO)
	node := &ast.Node{Kind: ast.Loop, Cond: cond, PreTest: true, Pos: pos}
	node.Body = p.compileNestedBlock(map[token.Type]bool{token.ENDWHILE: true})
	return node
}

func (p *Parser) parseRepeat(pos token.Position) *ast.Node {
	p.advance() // REPEAT
	node := &ast.Node{Kind: ast.Loop, PreTest: false, Pos: pos}
	node.Body = p.compileNestedBlock(map[token.Type]bool{token.UNTIL: true})
	if len(p.toks) > 0 {
		p.pos = 1
		node.Until = p.parseExpr()
	}
	return node
}

func (p *Parser) parseLoop(pos token.Position) *ast.Node {
	p.advance() // LOOP
	node := &ast.Node{Kind: ast.Loop, Pos: pos}
	p.loopDepth++
	node.Body = p.compileNestedBlock(map[token.Type]bool{token.ENDLOOP: true})
	p.loopDepth--
	return node
}

func (p *Parser) parseTrap(pos token.Position) *ast.Node {
	p.advance() // TRAP
	node := &ast.Node{Kind: ast.Trappable, Pos: pos}
	node.Protected = p.compileNestedBlock(map[token.Type]bool{token.HANDLER: true, token.ENDTRAP: true})
	if len(p.toks) > 0 && p.toks[0].Type == token.HANDLER {
		node.Handler = p.compileNestedBlock(map[token.Type]bool{token.ENDTRAP: true})
	}
	return node
}

func (p *Parser) parseData(pos token.Position) *ast.Node {
	p.advance() // DATA
	var items []*ast.Node
	for !p.atEndOfStatement() {
		items = append(items, p.parseExpr())
		if p.cur().Type == token.Comma {
			p.advance()
		} else {
			break
		}
	}
	return &ast.Node{Kind: ast.ReadData, Targets: items, Pos: pos}
}

func (p *Parser) parseRead(pos token.Position) *ast.Node {
	p.advance() // READ
	var targets []*ast.Node
	for {
		targets = append(targets, p.parseExpr())
		if p.cur().Type != token.Comma {
			break
		}
		p.advance()
	}
	return &ast.Node{Kind: ast.ReadData, Targets: targets, Pos: pos}
}

func (p *Parser) parsePrint(pos token.Position) *ast.Node {
	p.advance() // PRINT
	var args []*ast.Node
	for !p.atEndOfStatement() {
		args = append(args, p.parseExpr())
		if p.cur().Type == token.Comma || p.cur().Type == token.Semicolon {
			p.advance()
		} else {
			break
		}
	}
	return &ast.Node{Kind: ast.ExtCall, Library: "PrintManager", Function: "Print", Args: args, Pos: pos}
}

// parseInput implements spec.md section 4.6.3's INPUT node: an optional
// AT row,col[:width] clause, an optional FILE handle, an optional prompt,
// and an identifier list. AT is console-only and incompatible with FILE.
func (p *Parser) parseInput(pos token.Position) *ast.Node {
	p.advance() // INPUT

	var at *ast.Node
	if p.cur().Type == token.AT {
		p.advance()
		row := p.parseExpr()
		p.expect(token.Comma)
		col := p.parseExpr()
		at = &ast.Node{Kind: ast.Parameters, Params: []*ast.Node{row, col}, Pos: pos}
		if p.cur().Type == token.Colon {
			p.advance()
			at.Params = append(at.Params, p.parseExpr())
		}
	}

	var file *ast.Node
	if p.cur().Type == token.FILE {
		p.advance()
		file = p.parseExpr()
	}

	if at != nil && file != nil {
		p.error(diag.IllegalAtWithFile, "INPUT AT is console-only and incompatible with FILE")
	}

	var prompt *ast.Node
	if p.cur().Type == token.StringLit {
		prompt = p.parseExpr()
		if p.cur().Type == token.Semicolon || p.cur().Type == token.Comma {
			p.advance()
		}
	}
	var targets []*ast.Node
	for {
		targets = append(targets, p.parseExpr())
		if p.cur().Type != token.Comma {
			break
		}
		p.advance()
	}
	return &ast.Node{Kind: ast.Input, Prompt: prompt, At: at, File: file, Targets: targets, Pos: pos}
}
