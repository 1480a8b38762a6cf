// Package pinlang implements a small scripting language with pinyin
// keywords: an eager lexer, a permissive recursive-descent parser and a
// tree-walking interpreter with goto-style control transfer.
//
// The high-level entry point is Run, which takes source text and reports
// success or failure after printing any error with a source snippet. Embedders
// wanting finer control compose the stages directly:
//
//	toks, err := pinlang.NewLexer(src, file).Scan()
//	prog, err := pinlang.Parse(toks, file)
//	err = pinlang.NewInterpreter(file).Run(prog)
package pinlang

import (
	"fmt"
	"io"
	"os"
)

// Version is the release version reported by the CLI.
const Version = "0.3.0"

// Debug enables stage tracing on stderr for the whole package.
var Debug = false

func debugf(format string, args ...any) {
	if Debug {
		fmt.Fprintf(os.Stderr, "[debug] "+format+"\n", args...)
	}
}

// Run lexes, parses and executes source. fileName tags error messages and may
// be empty. Errors are printed to stderr with a source snippet; the return
// value reports whether the run completed without error.
func Run(source, fileName string) bool {
	return RunWith(source, fileName, os.Stdin, os.Stdout)
}

// RunWith is Run with explicit input and output streams for the executing
// program. Error reporting still goes to stderr.
func RunWith(source, fileName string, in io.Reader, out io.Writer) bool {
	toks, err := NewLexer(source, fileName).Scan()
	if err != nil {
		fmt.Fprintln(os.Stderr, WrapErrorWithSource(err, source))
		return false
	}

	prog, err := Parse(toks, fileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, WrapErrorWithSource(err, source))
		return false
	}

	ip := NewInterpreter(fileName)
	ip.In = in
	ip.Out = out
	if err := ip.Run(prog); err != nil {
		fmt.Fprintln(os.Stderr, WrapErrorWithSource(err, source))
		return false
	}
	return true
}
