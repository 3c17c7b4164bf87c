// Package listing implements the LIST/DISPLAY pretty-printer (spec.md
// section 4.8): source lines reproduced with indentation reflecting block
// nesting, since the stored token stream carries no indentation of its
// own (only the SPACE tokens of however the line was originally typed).
//
// Grounded on tools/format.go's FormatOptions column-layout pattern,
// generalised from ARM disassembly columns to Comal's block-indent rule:
// PROC/FUNC/FOR/WHILE/LOOP/CASE/IF/TRAP/REPEAT push a level, their
// matching END*/UNTIL/NEXT tokens pop one.
package listing

import (
	"fmt"
	"strings"

	"github.com/stevewpalmer/jcom/linestore"
	"github.com/stevewpalmer/jcom/token"
)

// Options configures a listing render.
type Options struct {
	IndentWidth  int  // spaces per nesting level, default 2
	ShowLineNums bool // prefix each line with its Comal line number
}

// DefaultOptions matches the teacher's FormatOptions default of a compact,
// line-numbered listing.
func DefaultOptions() Options {
	return Options{IndentWidth: 2, ShowLineNums: true}
}

var openers = map[token.Type]bool{
	token.PROC: true, token.FUNC: true, token.FOR: true, token.WHILE: true,
	token.LOOP: true, token.CASE: true, token.IF: true, token.TRAP: true,
	token.REPEAT: true,
}

var closers = map[token.Type]bool{
	token.ENDPROC: true, token.ENDFUNC: true, token.NEXT: true,
	token.ENDWHILE: true, token.ENDLOOP: true, token.ENDCASE: true,
	token.ENDIF: true, token.ENDTRAP: true, token.UNTIL: true,
}

// midLevel lists the keywords that dedent their own line before
// printing, then (for IF-family constructs) re-indent after: ELIF, ELSE,
// WHEN, OTHERWISE, HANDLER sit at the same depth as the construct they
// belong to, not nested one level deeper.
var midLevel = map[token.Type]bool{
	token.ELIF: true, token.ELSE: true, token.WHEN: true,
	token.OTHERWISE: true, token.HANDLER: true,
}

// Render produces the textual listing for every line in store between
// from and to inclusive (use store.First()/store.Last() for the whole
// program).
func Render(store *linestore.Store, from, to int, opts Options) string {
	var sb strings.Builder
	depth := 0
	for _, n := range store.NumbersInRange(from, to) {
		l := store.Get(n)
		leading := leadingKeyword(l.Tokens)

		lineDepth := depth
		if closers[leading] {
			depth--
			if depth < 0 {
				depth = 0
			}
			lineDepth = depth
		} else if midLevel[leading] {
			lineDepth = depth - 1
			if lineDepth < 0 {
				lineDepth = 0
			}
		}

		indent := strings.Repeat(" ", lineDepth*opts.IndentWidth)
		if opts.ShowLineNums {
			fmt.Fprintf(&sb, "%d %s%s\n", l.Number, indent, l.Text)
		} else {
			fmt.Fprintf(&sb, "%s%s\n", indent, l.Text)
		}

		if openers[leading] {
			depth++
		}
	}
	return sb.String()
}

func leadingKeyword(toks []token.Token) token.Type {
	for _, t := range toks {
		if t.Type == token.Space {
			continue
		}
		return t.Type
	}
	return token.EOL
}
