// errors.go — user-facing error kinds and source-snippet rendering.
//
// Three error kinds cross the package boundary: SyntaxError (lexer/parser),
// TypeError (interpreter, with an optional fix suggestion) and RuntimeError
// (interpreter). All carry the source file name (when known) and a 1-based
// line number. WrapErrorWithSource upgrades any of them to a numbered
// multi-line snippet with a marker under the offending line; other errors
// pass through unchanged.
package pinlang

import (
	"fmt"
	"strings"
)

// SyntaxError is a lexer or parser failure. Lexing aborts on the first one;
// the parser recovers from them at the top level only.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return errorHeader("SYNTAX ERROR", e.File, e.Line, e.Msg)
}

// TypeError is an interpreter type mismatch. Suggestion, when present, is a
// human-readable fix hint appended to the rendered message.
type TypeError struct {
	File       string
	Line       int
	Msg        string
	Suggestion string
}

func (e *TypeError) Error() string {
	s := errorHeader("TYPE ERROR", e.File, e.Line, e.Msg)
	if e.Suggestion != "" {
		s += "\n  hint: " + e.Suggestion
	}
	return s
}

// RuntimeError is any other interpreter failure: undefined variable, bad jump
// target, division by zero, out-of-bounds index, unsupported conversion.
type RuntimeError struct {
	File string
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return errorHeader("RUNTIME ERROR", e.File, e.Line, e.Msg)
}

func errorHeader(kind, file string, line int, msg string) string {
	switch {
	case file != "" && line > 0:
		return fmt.Sprintf("%s in %s at line %d: %s", kind, file, line, msg)
	case line > 0:
		return fmt.Sprintf("%s at line %d: %s", kind, line, msg)
	default:
		return fmt.Sprintf("%s: %s", kind, msg)
	}
}

func syntaxErrf(file string, line int, format string, args ...any) error {
	return &SyntaxError{File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// WrapErrorWithSource returns an error whose message includes a numbered
// snippet of the offending source line with one line of context on each side.
// It recognizes the three PinLang error kinds and leaves other errors
// untouched. PinLang errors carry no column, so the marker sits under the
// first non-blank character of the line.
func WrapErrorWithSource(err error, src string) error {
	var line int
	switch e := err.(type) {
	case *SyntaxError:
		line = e.Line
	case *TypeError:
		line = e.Line
	case *RuntimeError:
		line = e.Line
	default:
		return err
	}
	if line < 1 || src == "" {
		return err
	}
	return fmt.Errorf("%s", snippetString(src, err.Error(), line))
}

func snippetString(src, header string, line int) string {
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	pad := len(lineTxt) - len(strings.TrimLeft(lineTxt, " \t"))
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", pad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return strings.TrimRight(b.String(), "\n")
}
