// Command comal is the Comal 80 compiler front end's CLI (spec.md section
// 6): compile one or more source files, report diagnostics, and optionally
// print a statement/routine count (--dump) or the program listing (--run);
// the program is not executed. With no source files given it falls into
// the interactive editor.
//
// Grounded on the teacher's main.go: flag.Bool/String declarations bound
// to package-level vars, Version/Commit/Date set via -ldflags, and an
// early --version/--help exit before any real work starts.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/stevewpalmer/jcom/compiler"
	"github.com/stevewpalmer/jcom/config"
	"github.com/stevewpalmer/jcom/lexer"
	"github.com/stevewpalmer/jcom/linestore"
	"github.com/stevewpalmer/jcom/listing"
	"github.com/stevewpalmer/jcom/repl"
)

// Version, Commit and Date are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Stdin))
}

func run(args []string, stdout, stderr *os.File, stdin *os.File) int {
	fs := flag.NewFlagSet("comal", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		showHelp    = fs.Bool("help", false, "show usage information")
		showHelpH   = fs.Bool("h", false, "show usage information (shorthand)")
		showVersion = fs.Bool("version", false, "print version information")
		showVersionV = fs.Bool("v", false, "print version information (shorthand)")
		strict      = fs.Bool("strict", false, "accepted; no compiler check depends on it")
		ide         = fs.Bool("ide", false, "accepted; has no effect")
		debug       = fs.Bool("debug", false, "let internal compiler panics propagate instead of reporting them as diagnostics")
		warnLevel   = fs.Int("warn", 4, "warning level 0-4")
		warnLevelW  = fs.Int("w", 4, "warning level 0-4 (shorthand)")
		warnAsError = fs.Bool("warnaserror", false, "treat warnings as errors")
		dump        = fs.Bool("dump", false, "print the number of compiled top-level statements and routines")
		noInline    = fs.Bool("noinline", false, "accepted; has no effect")
		runAfter    = fs.Bool("run", false, "print the program listing after a successful compile (the program is not executed)")
		out         = fs.String("out", "", "write the --dump output to FILE instead of stdout")
		outO        = fs.String("o", "", "write the --dump output to FILE instead of stdout (shorthand)")
	)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showHelp || *showHelpH {
		printUsage(stdout, fs)
		return 0
	}
	if *showVersion || *showVersionV {
		fmt.Fprintf(stdout, "comal version %s (commit %s, built %s)\n", Version, Commit, Date)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "comal: %v\n", err)
		return 1
	}

	opts := compiler.Options{
		WarnLevel:     firstNonDefault(*warnLevel, *warnLevelW, 4),
		WarnAsError:   *warnAsError || cfg.Compiler.WarnAsError,
		Strict:        *strict || cfg.Compiler.Strict,
		ReRaisePanics: *debug,
	}
	_ = noInline
	_ = ide

	outputPath := *out
	if outputPath == "" {
		outputPath = *outO
	}

	files := fs.Args()
	if len(files) == 0 {
		return runInteractive(stdout, stderr, stdin)
	}

	store := linestore.New()
	lineNo := 10
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "comal: %s: %v\n", path, err)
			return 1
		}
		for _, text := range splitLines(string(data)) {
			l := lexer.New(text, path, lineNo)
			store.Put(&linestore.Line{Number: lineNo, Tokens: l.TokenizeAll(), Text: text})
			lineNo += 10
		}
	}

	c := compiler.New(store, opts)
	prog := c.Compile()

	var target *os.File = stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			fmt.Fprintf(stderr, "comal: %v\n", err)
			return 1
		}
		defer f.Close()
		target = f
	}

	if *dump {
		fmt.Fprintf(target, "%d top-level statements, %d routines\n", len(prog.Statements), len(prog.Routines))
	}

	for _, d := range c.Diagnostics().All() {
		fmt.Fprint(stderr, d.String())
	}
	fmt.Fprint(stderr, c.Diagnostics().Summary())

	if c.Diagnostics().HasErrors() {
		return 1
	}

	if *runAfter {
		fmt.Fprintln(stdout, listing.Render(store, store.First(), store.Last(), listing.DefaultOptions()))
	}

	return 0
}

func firstNonDefault(a, b, def int) int {
	if a != def {
		return a
	}
	return b
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			line := text[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func runInteractive(stdout, stderr, stdin *os.File) int {
	r := repl.New(stdout)
	fmt.Fprintln(stdout, "Comal 80 interactive editor. Type BYE to exit.")
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if err := r.Execute(scanner.Text()); err != nil {
			if repl.IsQuit(err) {
				return 0
			}
			fmt.Fprintf(stderr, "comal: %v\n", err)
		}
	}
	return 0
}

func printUsage(out *os.File, fs *flag.FlagSet) {
	fmt.Fprintln(out, "usage: comal [flags] [file ...]")
	fs.PrintDefaults()
}
