// Package exprparse implements the Comal expression parser (spec.md
// section 4.5): precedence-climbing over the ten-level operator table,
// constant folding of the standard algebraic identities, and the four-step
// identifier resolution algorithm for bare names, array indexing, string
// substrings, and routine calls.
//
// Grounded directly on debugger/expr_parser.go's ExprParser: the same
// parseExpression(minPrecedence)/parsePrimary() shape and the same
// table-driven operatorPrecedence/applyOperator split, generalised from a
// single numeric domain to Comal's four scalar kinds and string handling.
package exprparse

import (
	"fmt"

	"github.com/stevewpalmer/jcom/ast"
	"github.com/stevewpalmer/jcom/diag"
	"github.com/stevewpalmer/jcom/symtab"
	"github.com/stevewpalmer/jcom/token"
	"github.com/stevewpalmer/jcom/variant"
)

// intrinsics with their expected argument counts; a count of -1 (RND and
// GET$) makes parseIntrinsicCall skip the argument-count check.
var intrinsics = map[string]int{
	"ABS": 1, "SIN": 1, "COS": 1, "TAN": 1, "ATN": 1, "SQR": 1,
	"LOG": 1, "LOG10": 1, "EXP": 1, "SGN": 1, "INT": 1,
	"CHR$": 1, "VAL": 1, "LEN": 1, "ORD": 1, "STR$": 1,
	"SPC$": 1, "RND": -1, "GET$": -1,
}

// niladic intrinsics are keyword-like constants/functions taking no
// parens and no arguments.
var niladics = map[token.Type]bool{
	token.TRUE: true, token.FALSE: true, token.PI: true, token.ESC: true,
}

// Resolver looks up identifiers against the active scope; the statement
// parser supplies the real implementation backed by a *symtab.Stack. It is
// an interface here so exprparse has no hard dependency on how scopes are
// threaded through statement parsing.
type Resolver interface {
	Resolve(name string) *symtab.Symbol
}

// Parser parses a single expression from a token slice.
type Parser struct {
	toks  []token.Token
	pos   int
	bag   *diag.Bag
	scope Resolver
}

// New creates a parser over toks (normally everything up to the
// statement's terminating EOL/COMMENT token).
func New(toks []token.Token, bag *diag.Bag, scope Resolver) *Parser {
	return &Parser{toks: toks, bag: bag, scope: scope}
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

func (p *Parser) expect(tt token.Type) (token.Token, bool) {
	if p.cur().Type != tt {
		p.error(diag.ExpectedToken, fmt.Sprintf("expected %s, found %s", tt, p.cur().Type))
		return token.Token{}, false
	}
	return p.advance(), true
}

func (p *Parser) error(code diag.Code, msg string) {
	p.bag.Add(code, diag.Position{Line: p.cur().Pos.Line, Column: p.cur().Pos.Column}, msg)
}

// Pos returns the parser's current position within its token slice, so a
// caller (the statement parser) can resume after the expression ends.
func (p *Parser) Pos() int { return p.pos }

// precedence levels, lowest binds loosest. Comal's ten levels from
// spec.md section 4.5, highest number binds tightest.
const (
	precNone = iota
	precLogicalXorEqv
	precLogicalOr
	precLogicalAnd
	precLogicalNot
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPower
)

func binaryPrecedence(tt token.Type) int {
	switch tt {
	case token.XOR, token.EQV, token.NEQV:
		return precLogicalXorEqv
	case token.OR:
		return precLogicalOr
	case token.AND:
		return precLogicalAnd
	case token.Eq, token.NE, token.Lt, token.Gt, token.LE, token.GE, token.IN:
		return precRelational
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.DIV, token.MOD,
		token.BITAND, token.BITOR, token.BITXOR:
		return precMultiplicative
	case token.Caret:
		return precPower
	default:
		return precNone
	}
}

func isRightAssociative(tt token.Type) bool {
	return tt == token.Caret
}

// Parse parses a full expression and applies constant folding throughout.
func (p *Parser) Parse() *ast.Node {
	return p.parseExpression(precNone + 1)
}

func (p *Parser) parseExpression(minPrec int) *ast.Node {
	left := p.parseUnary()
	for {
		op := p.cur().Type
		prec := binaryPrecedence(op)
		if prec == precNone || prec < minPrec {
			break
		}
		p.advance()
		nextMin := prec + 1
		if isRightAssociative(op) {
			nextMin = prec
		}
		right := p.parseExpression(nextMin)
		left = p.applyOperator(op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() *ast.Node {
	switch p.cur().Type {
	case token.Minus, token.Plus, token.NOT:
		op := p.advance().Type
		operand := p.parseExpression(precUnary)
		return p.applyUnary(op, operand)
	default:
		return p.parsePower()
	}
}

// parsePower handles '^' binding tighter than unary minus on its left
// operand's right-hand side but still allowing -x^2 to parse as -(x^2),
// matching Comal's conventional precedence.
func (p *Parser) parsePower() *ast.Node {
	base := p.parsePrimary()
	if p.cur().Type == token.Caret {
		p.advance()
		exp := p.parseExpression(precPower)
		return p.applyOperator(token.Caret, base, exp)
	}
	return base
}

func (p *Parser) parsePrimary() *ast.Node {
	pos := p.cur().Pos

	switch p.cur().Type {
	case token.LParen:
		p.advance()
		inner := p.parseExpression(precNone + 1)
		p.expect(token.RParen)
		return inner

	case token.IntegerLit:
		t := p.advance()
		return ast.NewNumber(variant.NewInt(t.IVal), pos)

	case token.FloatLit:
		t := p.advance()
		return ast.NewNumber(variant.NewFloat(t.FVal), pos)

	case token.StringLit:
		t := p.advance()
		return &ast.Node{Kind: ast.StringLit, Value: variant.NewString(t.Literal), Pos: pos}

	case token.TRUE:
		p.advance()
		return ast.NewNumber(variant.NewInt(-1), pos)

	case token.FALSE:
		p.advance()
		return ast.NewNumber(variant.NewInt(0), pos)

	case token.PI:
		p.advance()
		return ast.NewNumber(variant.NewDouble(3.14159265358979), pos)

	case token.Identifier:
		return p.parseIdentifierOperand()

	default:
		p.error(diag.UnexpectedToken, fmt.Sprintf("unexpected token %s in expression", p.cur().Type))
		p.advance()
		return ast.NewNumber(variant.NewInt(0), pos)
	}
}

// parseIdentifierOperand implements spec.md section 4.5's four-step
// resolution: an intrinsic function call, an indexed array reference, a
// string substring reference, or a plain variable/PROC-FUNC-call name.
func (p *Parser) parseIdentifierOperand() *ast.Node {
	name := p.cur().Literal
	pos := p.cur().Pos
	p.advance()

	upper := normalizeIntrinsicName(name)
	if _, ok := intrinsics[upper]; ok && p.cur().Type == token.LParen {
		return p.parseIntrinsicCall(upper, pos)
	}

	if p.cur().Type != token.LParen {
		node := &ast.Node{Kind: ast.Ident, Name: name, Pos: pos}
		if p.scope != nil {
			if sym := p.scope.Resolve(name); sym != nil {
				node.Sym = sym
				if sym.Class == symtab.ClassArray {
					p.error(diag.MissingArrayDimensions,
						fmt.Sprintf("%q is an array and requires index(es)", name))
				}
			} else {
				p.error(diag.UndefinedVariable, fmt.Sprintf("undefined variable %q", name))
			}
		}
		return node
	}

	// '(' after an identifier: array index, string substring spec, or a
	// PROC/FUNC call — all share the same surface syntax and are
	// disambiguated by the resolved symbol's class and by whether a colon
	// separates the first two expressions (a substring spec).
	p.advance()
	var first *ast.Node
	if p.cur().Type != token.RParen {
		first = p.parseExpression(precNone + 1)
	}
	if first != nil && p.cur().Type == token.Colon {
		p.advance()
		var end *ast.Node
		if p.cur().Type != token.RParen {
			end = p.parseExpression(precNone + 1)
		}
		if p.cur().Type == token.Colon {
			p.error(diag.BadSubstringSpec, "substring spec accepts at most one colon")
			for p.cur().Type != token.RParen && p.cur().Type != token.EOL {
				p.advance()
			}
		}
		p.expect(token.RParen)
		return p.finishSubstring(name, pos, first, end)
	}

	var args []*ast.Node
	if first != nil {
		args = append(args, first)
		for p.cur().Type == token.Comma {
			p.advance()
			args = append(args, p.parseExpression(precNone+1))
		}
	}
	p.expect(token.RParen)
	return p.finishParenOperand(name, pos, args)
}

// finishSubstring resolves name(start[:end]) as a FixedChar substring
// reference, per spec.md section 4.5's identifier-resolution step 3: the
// symbol type must be FixedChar (declared via DIM x$ OF n).
func (p *Parser) finishSubstring(name string, pos token.Position, start, end *ast.Node) *ast.Node {
	node := &ast.Node{Kind: ast.Ident, Name: name, SubStart: start, SubEnd: end, Pos: pos}
	if p.scope == nil {
		return node
	}
	sym := p.scope.Resolve(name)
	if sym == nil {
		p.error(diag.UndefinedVariable, fmt.Sprintf("undefined variable %q", name))
		return node
	}
	node.Sym = sym
	switch sym.Type {
	case symtab.TypeFixedString:
		// substring spec legal
	case symtab.TypeString:
		p.error(diag.MissingStringDeclaration,
			fmt.Sprintf("%q must be declared with DIM ... OF to take a substring", name))
	default:
		p.error(diag.StringExpected, fmt.Sprintf("%q is not a string", name))
	}
	return node
}

// finishParenOperand resolves name(args...) as an array index or a
// PROC/FUNC call, per spec.md section 4.5's identifier-resolution steps 1-2.
func (p *Parser) finishParenOperand(name string, pos token.Position, args []*ast.Node) *ast.Node {
	node := &ast.Node{Kind: ast.Call, Callee: name, Args: args, Pos: pos}
	if p.scope == nil {
		return node
	}
	sym := p.scope.Resolve(name)
	if sym == nil {
		p.error(diag.UndefinedFunction, fmt.Sprintf("undefined function %q", name))
		return node
	}
	node.Sym = sym
	switch sym.Class {
	case symtab.ClassArray:
		node.Kind = ast.Ident
		node.Name = name
		for _, a := range args {
			if t, ok := staticType(a); ok && isStringType(t) {
				p.error(diag.NumberExpected, "array index must be numeric")
			}
		}
		if len(args) < len(sym.Dimensions) {
			p.error(diag.MissingArrayDimensions,
				fmt.Sprintf("%q expects %d index(es), found %d", name, len(sym.Dimensions), len(args)))
		} else if len(args) > len(sym.Dimensions) {
			p.error(diag.TooManyDimensions,
				fmt.Sprintf("%q expects %d index(es), found %d", name, len(sym.Dimensions), len(args)))
		}
	case symtab.ClassVariable:
		if sym.Type == symtab.TypeString || sym.Type == symtab.TypeFixedString {
			node.Kind = ast.Ident
			node.Name = name
		}
	}
	return node
}

// staticType infers n's static scalar type when it can be known without
// evaluation: a literal, or an identifier already resolved to a symbol.
// ok is false when the type can't be determined statically (e.g. a routine
// call result), in which case type-equalisation checks must not fire.
func staticType(n *ast.Node) (symtab.FullType, bool) {
	if n == nil {
		return 0, false
	}
	switch n.Kind {
	case ast.StringLit:
		return symtab.TypeString, true
	case ast.Number:
		if n.Value.Kind == variant.Int {
			return symtab.TypeInteger, true
		}
		return symtab.TypeFloat, true
	case ast.Ident:
		if sym, ok := n.Sym.(*symtab.Symbol); ok && sym != nil {
			return sym.Type, true
		}
	}
	return 0, false
}

func isStringType(t symtab.FullType) bool {
	return t == symtab.TypeString || t == symtab.TypeFixedString
}

func normalizeIntrinsicName(name string) string {
	up := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		up = append(up, c)
	}
	return string(up)
}

func (p *Parser) parseIntrinsicCall(name string, pos token.Position) *ast.Node {
	p.advance() // consume '('
	var args []*ast.Node
	if p.cur().Type != token.RParen {
		args = append(args, p.parseExpression(precNone+1))
		for p.cur().Type == token.Comma {
			p.advance()
			args = append(args, p.parseExpression(precNone+1))
		}
	}
	p.expect(token.RParen)

	want := intrinsics[name]
	if want >= 0 && len(args) != want {
		p.error(diag.ParameterCountMismatch,
			fmt.Sprintf("%s expects %d argument(s), found %d", name, want, len(args)))
	}
	return &ast.Node{Kind: ast.Call, Callee: name, Args: args, Pos: pos}
}

func (p *Parser) applyUnary(op token.Type, operand *ast.Node) *ast.Node {
	if op == token.Plus {
		return operand
	}
	if operand.IsLiteral() {
		switch op {
		case token.Minus:
			if operand.Kind == ast.Number {
				zero := ast.NewNumber(variant.NewInt(0), operand.Pos)
				if v, err := zero.Value.Sub(operand.Value); err == nil {
					return ast.NewNumber(v, operand.Pos)
				}
			}
		case token.NOT:
			if operand.Kind == ast.Number {
				return ast.NewNumber(variant.NewInt(^operand.Value.AsInt32()), operand.Pos)
			}
		}
	}
	return &ast.Node{Kind: ast.UnaryOp, Op: op, Operand: operand, Right: operand, Pos: operand.Pos}
}

// applyOperator builds a BinaryOp node, folding constants and lowering
// DIV/MOD into calls to the intrinsic integer-division helpers per
// spec.md section 4.5.
func (p *Parser) applyOperator(op token.Type, left, right *ast.Node) *ast.Node {
	p.checkOperandTypes(op, left, right)

	if op == token.DIV || op == token.MOD {
		fn := "IDIV"
		if op == token.MOD {
			fn = "IMOD"
		}
		return &ast.Node{Kind: ast.Call, Callee: fn, Args: []*ast.Node{left, right}, Pos: left.Pos}
	}

	if folded := p.tryFold(op, left, right); folded != nil {
		return folded
	}
	if simplified := algebraicIdentity(op, left, right); simplified != nil {
		return simplified
	}

	node := ast.NewBinary(op, left, right, left.Pos)
	if op == token.Plus && left.Kind == ast.StringLit && right.Kind == ast.StringLit {
		node.Callee = "Concat"
	}
	return node
}

// checkOperandTypes implements spec.md section 4.5's type equalisation
// table. A mismatch is a hard error but parsing continues regardless (the
// caller still folds/builds the node with whatever operand types it has),
// to avoid cascading failures from a single bad expression.
func (p *Parser) checkOperandTypes(op token.Type, left, right *ast.Node) {
	lt, lok := staticType(left)
	rt, rok := staticType(right)
	if !lok || !rok {
		return
	}
	ls, rs := isStringType(lt), isStringType(rt)

	switch op {
	case token.Plus:
		if ls != rs {
			p.errorAt(diag.TypeMismatch, left.Pos, "mismatched operand types: cannot mix string and numeric")
		}
	case token.Minus, token.Star, token.Slash, token.Caret:
		if ls || rs {
			p.errorAt(diag.TypeMismatch, left.Pos, "arithmetic operator requires numeric operands")
		}
	case token.AND, token.OR, token.XOR, token.EQV, token.NEQV, token.MOD, token.DIV:
		if ls {
			p.errorAt(diag.IntegerExpected, left.Pos, "expected a numeric operand")
		}
		if rs {
			p.errorAt(diag.IntegerExpected, right.Pos, "expected a numeric operand")
		}
	case token.Eq, token.NE, token.Lt, token.Gt, token.LE, token.GE:
		if ls != rs {
			p.errorAt(diag.TypeMismatch, left.Pos, "cannot compare a string against a numeric operand")
		}
	case token.IN:
		if !ls {
			p.errorAt(diag.StringExpected, left.Pos, "IN requires a string operand")
		}
		if !rs {
			p.errorAt(diag.StringExpected, right.Pos, "IN requires a string operand")
		}
	}
}

func (p *Parser) errorAt(code diag.Code, pos token.Position, msg string) {
	p.bag.Add(code, diag.Position{Line: pos.Line, Column: pos.Column}, msg)
}

// tryFold evaluates op at compile time when both operands are literals.
func (p *Parser) tryFold(op token.Type, left, right *ast.Node) *ast.Node {
	if !left.IsLiteral() || !right.IsLiteral() {
		return nil
	}
	var v variant.Value
	var err error
	switch op {
	case token.Plus:
		v, err = left.Value.Add(right.Value)
	case token.Minus:
		v, err = left.Value.Sub(right.Value)
	case token.Star:
		v, err = left.Value.Mul(right.Value)
	case token.Slash:
		v, err = left.Value.Div(right.Value)
	case token.Caret:
		v, err = left.Value.Pow(right.Value)
	case token.Eq, token.NE, token.Lt, token.Gt, token.LE, token.GE:
		cmp, cerr := left.Value.Compare(right.Value)
		if cerr != nil {
			return nil
		}
		return ast.NewNumber(variant.NewInt(boolToComal(compareHolds(op, cmp))), left.Pos)
	default:
		return nil
	}
	if err != nil {
		p.error(diag.DivisionByZero, err.Error())
		return ast.NewNumber(variant.NewInt(0), left.Pos)
	}
	if left.Kind == ast.StringLit {
		return &ast.Node{Kind: ast.StringLit, Value: v, Pos: left.Pos}
	}
	return ast.NewNumber(v, left.Pos)
}

func compareHolds(op token.Type, cmp int) bool {
	switch op {
	case token.Eq:
		return cmp == 0
	case token.NE:
		return cmp != 0
	case token.Lt:
		return cmp < 0
	case token.Gt:
		return cmp > 0
	case token.LE:
		return cmp <= 0
	case token.GE:
		return cmp >= 0
	}
	return false
}

func boolToComal(b bool) int32 {
	if b {
		return -1
	}
	return 0
}

// algebraicIdentity applies the standard simplifications spec.md section
// 4.5 names explicitly: x+0, 0+x, x-0, x*0, 0*x, x*1, 1*x, x^0, x^1, x^-1.
// Only fires when exactly one side is a known literal, since both-literal
// cases are already handled by tryFold.
func algebraicIdentity(op token.Type, left, right *ast.Node) *ast.Node {
	isZero := func(n *ast.Node) bool { return n.Kind == ast.Number && n.Value.IsZero() }
	isOne := func(n *ast.Node) bool {
		return n.Kind == ast.Number && n.Value.Kind == variant.Int && n.Value.I == 1
	}
	isMinusOne := func(n *ast.Node) bool {
		return n.Kind == ast.Number && n.Value.Kind == variant.Int && n.Value.I == -1
	}

	switch op {
	case token.Plus:
		if isZero(right) {
			return left
		}
		if isZero(left) {
			return right
		}
	case token.Minus:
		if isZero(right) {
			return left
		}
	case token.Star:
		if isZero(right) || isZero(left) {
			return ast.NewNumber(variant.NewInt(0), left.Pos)
		}
		if isOne(right) {
			return left
		}
		if isOne(left) {
			return right
		}
	case token.Caret:
		if isZero(right) {
			return ast.NewNumber(variant.NewInt(1), left.Pos)
		}
		if isOne(right) {
			return left
		}
		if isMinusOne(right) {
			one := ast.NewNumber(variant.NewInt(1), left.Pos)
			return ast.NewBinary(token.Slash, one, left, left.Pos)
		}
	}
	return nil
}
