// Package ast implements the tagged parse-tree node (spec.md section 3's
// "Tagged AST" design note): a single Node type discriminated by Kind,
// rather than an interface-per-node-type hierarchy. This matches the way
// Comal's own grammar is shallow and uniform across statement kinds, and
// keeps the statement and expression parsers free of type assertions.
//
// Grounded on parser/parser.go's tagged Instruction/Directive records
// (a Kind/Op discriminant plus a handful of optional payload fields),
// generalised from a flat instruction stream to a tree.
package ast

import (
	"github.com/stevewpalmer/jcom/token"
	"github.com/stevewpalmer/jcom/variant"
)

// Kind discriminates a ParseNode.
type Kind int

const (
	Number Kind = iota
	StringLit
	Ident
	BinaryOp
	UnaryOp
	Assignment
	Call
	ExtCall
	Parameters
	VarArg
	Conditional
	Loop
	Break
	Return
	Goto
	MarkLabel
	MarkFilename
	MarkLine
	Trappable
	ReadData
	Input
	Procedure
	Module
	Export
	Import
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case StringLit:
		return "String"
	case Ident:
		return "Identifier"
	case BinaryOp:
		return "BinaryOp"
	case UnaryOp:
		return "UnaryOp"
	case Assignment:
		return "Assignment"
	case Call:
		return "Call"
	case ExtCall:
		return "ExtCall"
	case Parameters:
		return "Parameters"
	case VarArg:
		return "VarArg"
	case Conditional:
		return "Conditional"
	case Loop:
		return "Loop"
	case Break:
		return "Break"
	case Return:
		return "Return"
	case Goto:
		return "Goto"
	case MarkLabel:
		return "MarkLabel"
	case MarkFilename:
		return "MarkFilename"
	case MarkLine:
		return "MarkLine"
	case Trappable:
		return "Trappable"
	case ReadData:
		return "ReadData"
	case Input:
		return "Input"
	case Procedure:
		return "Procedure"
	case Module:
		return "Module"
	case Export:
		return "Export"
	case Import:
		return "Import"
	default:
		return "Unknown"
	}
}

// Node is one tree element. Only the fields relevant to Kind are
// meaningful; this mirrors the teacher's tagged-record style rather than
// a Go interface hierarchy, trading a few unused fields per node for a
// parser and tree-walker free of type switches on concrete node types.
type Node struct {
	Kind Kind
	Pos  token.Position

	// Number / StringLit
	Value variant.Value

	// Ident: variable, label, or routine reference
	Name string
	Sym  interface{} // *symtab.Symbol once resolved; untyped here to avoid an import cycle

	// Ident with a substring spec: name(start[:end]). SubStart is nil unless
	// this Ident is a substring reference; SubEnd nil means "to end of string".
	SubStart *Node
	SubEnd   *Node

	// BinaryOp / UnaryOp
	Op       token.Type
	Left     *Node
	Right    *Node // unary ops leave Right nil
	Operand  *Node // alias used by UnaryOp for clarity at call sites

	// Assignment
	Target *Node
	Expr   *Node
	Compound bool // true for := / :+ / :- family beyond plain :=

	// Call / ExtCall
	Callee    string
	Args      []*Node
	Library   string // ExtCall only: EXTERNAL library name
	Function  string // ExtCall only: function name within the library

	// Parameters / VarArg
	Params []*Node

	// Conditional: IF/ELIF/ELSE and CASE/WHEN/OTHERWISE both lower to this
	Cond     *Node
	Then     []*Node
	ElseIfs  []*Node // each is itself a Conditional node (ELIF chain)
	Else     []*Node

	// Loop: FOR/WHILE/REPEAT/LOOP all lower to this with different fields set
	LoopVar   *Node
	From      *Node
	To        *Node
	Step      *Node
	Body      []*Node
	Until     *Node // REPEAT ... UNTIL condition; nil for FOR/WHILE/LOOP
	PreTest   bool  // WHILE is pre-test, REPEAT is post-test

	// Goto / MarkLabel
	Label string

	// MarkFilename / MarkLine: compiler bookkeeping nodes emitted between
	// statements so diagnostics and LIST can recover source provenance
	Filename string
	Line     int

	// Trappable: TRAP ... HANDLER ... ENDTRAP
	Protected []*Node
	Handler   []*Node

	// ReadData
	Targets []*Node

	// Input
	Prompt *Node
	At     *Node // AT row,col[:width] clause; nil for console input with no positioning
	File   *Node // FILE handle expression; nil for console input

	// Procedure: PROC/FUNC definition
	Closed   bool
	Exported bool
	External string // EXTERNAL library name, empty if not external
}

// Program is the root of a compiled unit: the ordered list of top-level
// statements plus every PROC/FUNC defined anywhere in it (Comal allows
// routine definitions to appear interleaved with executable statements).
type Program struct {
	Statements []*Node
	Routines   []*Node // Kind == Procedure
}

// NewBinary is a convenience constructor used heavily by the expression
// parser's constant-folding pass.
func NewBinary(op token.Type, left, right *Node, pos token.Position) *Node {
	return &Node{Kind: BinaryOp, Op: op, Left: left, Right: right, Pos: pos}
}

// NewNumber wraps a variant.Value as a literal node.
func NewNumber(v variant.Value, pos token.Position) *Node {
	return &Node{Kind: Number, Value: v, Pos: pos}
}

// IsLiteral reports whether n is a constant-foldable leaf (Number or
// StringLit), used by the expression parser's folding rules.
func (n *Node) IsLiteral() bool {
	return n != nil && (n.Kind == Number || n.Kind == StringLit)
}
