// Package linestore implements the ordered line store (spec.md section
// 4.3): Comal programs are edited as a sparse, sorted map from positive
// line number to tokenised content, not as a flat array of statements.
//
// Grounded on parser/symbols.go's pairing of an ordered slice with a
// name-to-index map for fast lookup plus stable iteration order,
// generalised from symbol names to line numbers.
package linestore

import (
	"sort"
	"strings"

	"github.com/stevewpalmer/jcom/token"
)

// Line is one stored program line: its number and its tokenised content
// (including the terminating EOL token).
type Line struct {
	Number  int
	Tokens  []token.Token
	Text    string // original source text, kept for LIST/error-context rendering
}

// Store is the ordered, sparse line collection for one program.
type Store struct {
	order []int         // line numbers, always sorted ascending
	lines map[int]*Line // number -> line
}

// New creates an empty line store.
func New() *Store {
	return &Store{lines: make(map[int]*Line)}
}

// Put inserts a new line or replaces the existing line at that number,
// keeping order sorted. Per spec.md, line number 0 or negative is invalid;
// callers validate before calling Put.
func (s *Store) Put(l *Line) {
	if _, exists := s.lines[l.Number]; exists {
		s.lines[l.Number] = l
		return
	}
	s.lines[l.Number] = l
	i := sort.SearchInts(s.order, l.Number)
	s.order = append(s.order, 0)
	copy(s.order[i+1:], s.order[i:])
	s.order[i] = l.Number
}

// Get returns the line at number, or nil if absent.
func (s *Store) Get(number int) *Line {
	return s.lines[number]
}

// Delete removes the line at number, reporting whether it was present.
func (s *Store) Delete(number int) bool {
	if _, ok := s.lines[number]; !ok {
		return false
	}
	delete(s.lines, number)
	i := sort.SearchInts(s.order, number)
	s.order = append(s.order[:i], s.order[i+1:]...)
	return true
}

// DeleteRange removes every line with from <= number <= to, returning the
// count removed.
func (s *Store) DeleteRange(from, to int) int {
	n := 0
	for _, num := range s.NumbersInRange(from, to) {
		if s.Delete(num) {
			n++
		}
	}
	return n
}

// NumbersInRange returns the sorted line numbers within [from, to].
func (s *Store) NumbersInRange(from, to int) []int {
	lo := sort.SearchInts(s.order, from)
	hi := sort.SearchInts(s.order, to+1)
	out := make([]int, hi-lo)
	copy(out, s.order[lo:hi])
	return out
}

// Numbers returns every stored line number in ascending order.
func (s *Store) Numbers() []int {
	out := make([]int, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of stored lines.
func (s *Store) Len() int {
	return len(s.order)
}

// First returns the lowest stored line number, or 0 if the store is empty.
func (s *Store) First() int {
	if len(s.order) == 0 {
		return 0
	}
	return s.order[0]
}

// Last returns the highest stored line number, or 0 if the store is empty.
func (s *Store) Last() int {
	if len(s.order) == 0 {
		return 0
	}
	return s.order[len(s.order)-1]
}

// Renumber reassigns every line a new number starting at start and
// incrementing by step, preserving relative order. It returns a map from
// old number to new number so callers (GOTO/label fixups) can rewrite
// references.
func (s *Store) Renumber(start, step int) map[int]int {
	mapping := make(map[int]int, len(s.order))
	newLines := make(map[int]*Line, len(s.order))
	newOrder := make([]int, len(s.order))

	n := start
	for i, old := range s.order {
		l := s.lines[old]
		l.Number = n
		newLines[n] = l
		newOrder[i] = n
		mapping[old] = n
		n += step
	}
	s.lines = newLines
	s.order = newOrder
	return mapping
}

// FindProcedure scans for a PROC or FUNC header line matching name (case
// insensitive), returning the line it starts on and the matching ENDPROC/
// ENDFUNC line. It returns (nil, nil) if no header matches, and (start, nil)
// if a header matches but no closing line follows. Deliberately a linear scan: the
// teacher's symbol lookup precedent (parser/symbols.go) favours a simple
// scan over a secondary index for data this small.
func (s *Store) FindProcedure(name string) (start, end *Line) {
	depth := 0
	var opening token.Type
	for _, num := range s.order {
		l := s.lines[num]
		for _, t := range l.Tokens {
			switch t.Type {
			case token.PROC, token.FUNC:
				if start == nil {
					if strings.EqualFold(procHeaderName(l.Tokens), name) {
						start = l
						opening = t.Type
						depth = 1
					}
				} else if t.Type == opening {
					depth++
				}
			case token.ENDPROC:
				if start != nil && opening == token.PROC {
					depth--
					if depth == 0 {
						end = l
						return start, end
					}
				}
			case token.ENDFUNC:
				if start != nil && opening == token.FUNC {
					depth--
					if depth == 0 {
						end = l
						return start, end
					}
				}
			}
		}
	}
	return start, end
}

func procHeaderName(toks []token.Token) string {
	for i, t := range toks {
		if (t.Type == token.PROC || t.Type == token.FUNC) && i+1 < len(toks) {
			if toks[i+1].Type == token.Identifier {
				return toks[i+1].Literal
			}
		}
	}
	return ""
}

// Cursor iterates the store in ascending line-number order, supporting
// Reset for the multi-pass compiler (spec.md section 4.7 needs to walk the
// program twice).
type Cursor struct {
	store *Store
	pos   int
}

// NewCursor creates a cursor positioned before the first line.
func (s *Store) NewCursor() *Cursor {
	return &Cursor{store: s}
}

// Next advances the cursor and returns the next line, or nil when
// exhausted.
func (c *Cursor) Next() *Line {
	if c.pos >= len(c.store.order) {
		return nil
	}
	l := c.store.lines[c.store.order[c.pos]]
	c.pos++
	return l
}

// Reset rewinds the cursor to the start of the store.
func (c *Cursor) Reset() {
	c.pos = 0
}
