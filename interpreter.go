// interpreter.go — tree-walking execution with goto-style control transfer.
//
// Execution is a fetch-execute loop over top-level statement indices, not a
// recursive call stack: a jump can relocate the program counter into the
// interior of any branch or loop body. Statement execution returns an
// optional jump signal; if/loop bodies forward it upward untouched, and the
// top-level loop is the only place the counter actually moves.
//
// Two soft ceilings bound a run: maxProgramSteps top-level steps and
// maxLoopIterations per loop. Hitting either prints a warning and halts the
// affected scope without raising an error. Both are fixed constants for
// compatibility.
package pinlang

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	maxProgramSteps   = 1000
	maxLoopIterations = 10000
)

// Env is the single flat mutable namespace of one program run. There are no
// nested scopes: every assignment, including ones inside if/loop bodies,
// lands here and stays.
type Env map[string]Value

// jumpSignal is the control-flow result of executing a jump statement. It
// names a target; resolution happens at the top-level dispatch loop.
type jumpSignal struct {
	target string
}

// Interpreter executes one parsed program against one environment. In/Out
// default to the process stdin/stdout and exist so shuru/dayin are testable.
type Interpreter struct {
	file    string
	vars    Env
	targets map[string]int

	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewInterpreter creates an interpreter for one run. file tags runtime
// errors and may be empty.
func NewInterpreter(file string) *Interpreter {
	return &Interpreter{
		file:    file,
		vars:    Env{},
		targets: map[string]int{},
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Lookup returns the current binding of a variable, for embedding and tests.
func (ip *Interpreter) Lookup(name string) (Value, bool) {
	v, ok := ip.vars[name]
	return v, ok
}

func (ip *Interpreter) runtimeErrf(line int, format string, args ...any) error {
	return &RuntimeError{File: ip.file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (ip *Interpreter) typeErrf(line int, suggestion, format string, args ...any) error {
	return &TypeError{File: ip.file, Line: line, Msg: fmt.Sprintf(format, args...), Suggestion: suggestion}
}

// buildJumpTargets scans the top-level statements once and records every
// resolvable target: explicit labels under their literal name, hang_<line>
// for every statement, and shuru_<K> for the K-th input statement (0-based).
func (ip *Interpreter) buildJumpTargets(prog []Stmt) {
	inputs := 0
	for idx, stmt := range prog {
		if lbl, ok := stmt.(*LabelStmt); ok {
			ip.targets[lbl.Name] = idx
		}
		if _, ok := stmt.(*InputStmt); ok {
			ip.targets[fmt.Sprintf("shuru_%d", inputs)] = idx
			inputs++
		}
		ip.targets[fmt.Sprintf("hang_%d", stmt.Pos())] = idx
	}
	debugf("interpreter: %d jump targets", len(ip.targets))
}

func (ip *Interpreter) targetNames() []string {
	names := make([]string, 0, len(ip.targets))
	for name := range ip.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the program from the first statement. It returns the first
// runtime or type error; the step-cap warning is not an error.
func (ip *Interpreter) Run(prog []Stmt) error {
	ip.buildJumpTargets(prog)

	pc := 0
	steps := 0
	capped := false
	for pc < len(prog) {
		if steps >= maxProgramSteps {
			capped = true
			break
		}
		steps++
		stmt := prog[pc]
		debugf("interpreter: step %d, statement %d/%d (%T)", steps, pc+1, len(prog), stmt)

		sig, err := ip.execStatement(stmt)
		if err != nil {
			return err
		}
		if sig != nil {
			idx, ok := ip.targets[sig.target]
			if !ok {
				return ip.runtimeErrf(stmt.Pos(), "unknown jump target %q; available targets: %s",
					sig.target, strings.Join(ip.targetNames(), ", "))
			}
			debugf("interpreter: jump %s -> statement %d", sig.target, idx)
			pc = idx
			continue
		}
		pc++
	}
	if capped {
		fmt.Fprintf(ip.Out, "warning: possible infinite loop, stopped after %d steps\n", maxProgramSteps)
	}
	return nil
}

// execStatement executes one statement and returns an optional jump signal.
func (ip *Interpreter) execStatement(stmt Stmt) (*jumpSignal, error) {
	switch s := stmt.(type) {
	case *PrintStmt:
		return nil, ip.execPrint(s)
	case *VarDeclStmt:
		return nil, ip.execVarDecl(s)
	case *ListCreateStmt:
		return nil, ip.execListCreate(s)
	case *ListGetStmt:
		return nil, ip.execListGet(s)
	case *ListEditStmt:
		return nil, ip.execListEdit(s)
	case *CalculateStmt:
		return nil, ip.execCalculate(s)
	case *ConvertStmt:
		return nil, ip.execConvert(s)
	case *IfStmt:
		return ip.execIf(s)
	case *LoopStmt:
		return ip.execLoop(s)
	case *InputStmt:
		return nil, ip.execInput(s)
	case *JumpStmt:
		return ip.execJump(s)
	case *LabelStmt:
		return nil, nil // anchor only
	default:
		return nil, ip.runtimeErrf(stmt.Pos(), "unimplemented statement type %T", stmt)
	}
}

// execBody runs an if/loop body in order, forwarding the first jump signal
// upward immediately.
func (ip *Interpreter) execBody(body []Stmt) (*jumpSignal, error) {
	for _, stmt := range body {
		sig, err := ip.execStatement(stmt)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			return sig, nil
		}
	}
	return nil, nil
}

func (ip *Interpreter) execPrint(s *PrintStmt) error {
	v, err := ip.evaluate(s.Value)
	if err != nil {
		return ip.runtimeErrf(s.Pos(), "print failed: %s", plainMsg(err))
	}
	fmt.Fprintln(ip.Out, FormatValue(v))
	return nil
}

func (ip *Interpreter) execVarDecl(s *VarDeclStmt) error {
	v, err := ip.evaluate(s.Value)
	if err != nil {
		return err
	}
	ip.vars[s.Name] = v
	return nil
}

func (ip *Interpreter) execListCreate(s *ListCreateStmt) error {
	values := make([]Value, 0, len(s.Values))
	for _, el := range s.Values {
		v, err := ip.evaluate(el)
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	ip.vars[s.Name] = List(values)
	return nil
}

// listAndIndex resolves the shared preconditions of huoqu/bianji: the name
// must hold a list and the index must be an in-bounds integer.
func (ip *Interpreter) listAndIndex(line int, name string, indexExpr Expr) ([]Value, int, error) {
	v, ok := ip.vars[name]
	if !ok {
		return nil, 0, ip.runtimeErrf(line, "undefined list: %s", name)
	}
	if v.Tag != VTList {
		return nil, 0, ip.runtimeErrf(line, "%s is not a list", name)
	}
	xs := v.Data.([]Value)

	iv, err := ip.evaluate(indexExpr)
	if err != nil {
		return nil, 0, err
	}
	if !isIntLike(iv) {
		return nil, 0, ip.runtimeErrf(line, "list index must be an integer, got %s", iv.Tag)
	}
	idx := int(asInt(iv))
	if idx < 0 || idx >= len(xs) {
		return nil, 0, ip.runtimeErrf(line, "list index out of range: %d (list length %d)", idx, len(xs))
	}
	return xs, idx, nil
}

func (ip *Interpreter) execListGet(s *ListGetStmt) error {
	xs, idx, err := ip.listAndIndex(s.Pos(), s.ListName, s.Index)
	if err != nil {
		return err
	}
	ip.vars[s.Target] = xs[idx]
	return nil
}

func (ip *Interpreter) execListEdit(s *ListEditStmt) error {
	xs, idx, err := ip.listAndIndex(s.Pos(), s.ListName, s.Index)
	if err != nil {
		return err
	}
	v, err := ip.evaluate(s.Value)
	if err != nil {
		return err
	}
	xs[idx] = v
	ip.vars[s.ListName] = List(xs)
	return nil
}

func (ip *Interpreter) execCalculate(s *CalculateStmt) error {
	v, err := ip.evaluate(s.Expr)
	if err != nil {
		return err
	}
	ip.vars[s.Target] = v
	return nil
}

// numericTextValue parses digit-only text as an integer and decimal text as
// a float. Used by zhuanhuan shuzi and by restricted input.
func numericTextValue(text string) (Value, bool) {
	if text == "" {
		return Value{}, false
	}
	digitsOnly := strings.Count(text, ".") <= 1 && text != "." &&
		strings.IndexFunc(strings.Replace(text, ".", "", 1), func(r rune) bool {
			return r < '0' || r > '9'
		}) < 0
	if !digitsOnly {
		return Value{}, false
	}
	if !strings.Contains(text, ".") {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, false
		}
		return Int(n), true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, false
	}
	return Float(f), true
}

func (ip *Interpreter) execConvert(s *ConvertStmt) error {
	v, ok := ip.vars[s.Source]
	if !ok {
		return ip.runtimeErrf(s.Pos(), "undefined variable: %s", s.Source)
	}

	var result Value
	switch s.TypeName {
	case "shuzi":
		switch v.Tag {
		case VTStr:
			text := v.Data.(string)
			n, ok := numericTextValue(text)
			if !ok {
				return ip.runtimeErrf(s.Pos(), "cannot convert string %q to a number", text)
			}
			result = n
		case VTInt, VTFloat, VTBool:
			f := asFloat(v)
			if f == float64(int64(f)) {
				result = Int(int64(f))
			} else {
				result = Float(f)
			}
		default:
			return ip.runtimeErrf(s.Pos(), "cannot convert %s to a number", v.Tag)
		}
	case "zifu":
		result = Str(FormatValue(v))
	default:
		return ip.runtimeErrf(s.Pos(), "unknown type name: %s", s.TypeName)
	}
	ip.vars[s.Target] = result
	return nil
}

func (ip *Interpreter) execIf(s *IfStmt) (*jumpSignal, error) {
	cond, err := ip.evaluate(s.Cond)
	if err != nil {
		return nil, err
	}
	debugf("interpreter: if condition -> %v", isTruthy(cond))
	if isTruthy(cond) {
		return ip.execBody(s.Body)
	}
	return ip.execBody(s.ElseBody)
}

func (ip *Interpreter) readLine() (string, error) {
	if ip.reader == nil {
		ip.reader = bufio.NewReader(ip.In)
	}
	line, err := ip.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (ip *Interpreter) execInput(s *InputStmt) error {
	// Restriction "zifu" blocks until the entered text parses as a number,
	// reporting each rejected attempt.
	if s.Restriction == "zifu" {
		for {
			fmt.Fprint(ip.Out, s.Prompt)
			line, err := ip.readLine()
			if err != nil {
				return ip.runtimeErrf(s.Pos(), "input: unexpected end of input")
			}
			if v, ok := numericTextValue(line); ok {
				ip.vars[s.Target] = v
				return nil
			}
			fmt.Fprintln(ip.Out, "error: please enter a number")
		}
	}

	fmt.Fprint(ip.Out, s.Prompt)
	line, err := ip.readLine()
	if err != nil {
		return ip.runtimeErrf(s.Pos(), "input: unexpected end of input")
	}
	ip.vars[s.Target] = Str(line)
	return nil
}

func (ip *Interpreter) execJump(s *JumpStmt) (*jumpSignal, error) {
	if s.File != "current" {
		return nil, ip.runtimeErrf(s.Pos(), "cross-file jump is not supported")
	}
	// Any identifier works as a target kind; hang and shuru are just the two
	// kinds with interpreter-registered targets. Everything resolves through
	// the same "<kind>_<value>" namespace, so explicit hang_N labels and the
	// implicit per-line targets coincide.
	target := fmt.Sprintf("%s_%d", s.TargetKind, s.TargetValue)
	debugf("interpreter: jump signal -> %s", target)
	return &jumpSignal{target: target}, nil
}

// compareValues orders two values for > < >= <=. Numeric pairs compare as
// floats, string pairs lexicographically; anything else is a type error.
func (ip *Interpreter) compareValues(line int, a, b Value) (int, error) {
	if isNumeric(a) && isNumeric(b) {
		af, bf := asFloat(a), asFloat(b)
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.Tag == VTStr && b.Tag == VTStr {
		return strings.Compare(a.Data.(string), b.Data.(string)), nil
	}
	return 0, ip.typeErrf(line, "", "cannot compare %s with %s", a.Tag, b.Tag)
}

// loopConditionHolds evaluates the condition triple of a condition-checked
// loop against the current environment.
func (ip *Interpreter) loopConditionHolds(s *LoopStmt) (bool, error) {
	varValue, ok := ip.vars[s.Var]
	if !ok {
		return false, ip.runtimeErrf(s.Pos(), "undefined loop variable: %s", s.Var)
	}
	cmpValue, err := ip.evaluate(s.CmpValue)
	if err != nil {
		return false, err
	}
	switch s.Cmp {
	case "=":
		return valuesEqual(varValue, cmpValue), nil
	case "=!":
		return !valuesEqual(varValue, cmpValue), nil
	}
	c, err := ip.compareValues(s.Pos(), varValue, cmpValue)
	if err != nil {
		return false, err
	}
	switch s.Cmp {
	case ">":
		return c > 0, nil
	case "<":
		return c < 0, nil
	case ">=":
		return c >= 0, nil
	case "<=":
		return c <= 0, nil
	default:
		return false, ip.runtimeErrf(s.Pos(), "unknown loop condition: %s", s.Cmp)
	}
}

func (ip *Interpreter) execLoop(s *LoopStmt) (*jumpSignal, error) {
	// Fixed-count mode resolves its count once, at loop entry.
	var loopCount int64
	if s.Count != nil {
		cv, err := ip.evaluate(s.Count)
		if err != nil {
			return nil, err
		}
		if !isNumeric(cv) {
			return nil, ip.runtimeErrf(s.Pos(), "loop count must be a number, got %s", cv.Tag)
		}
		loopCount = int64(asFloat(cv))
	}
	conditional := s.Var != "" && s.Cmp != "" && s.CmpValue != nil

	iter := 0
	capped := false
	for {
		if conditional {
			ok, err := ip.loopConditionHolds(s)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
		} else if int64(iter) >= loopCount {
			break
		}
		if iter >= maxLoopIterations {
			capped = true
			break
		}
		iter++

		sig, err := ip.execBody(s.Body)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			debugf("interpreter: loop aborted by jump after %d iterations", iter)
			return sig, nil
		}
	}
	if capped {
		fmt.Fprintf(ip.Out, "warning: possible infinite loop, stopped after %d iterations\n", maxLoopIterations)
	}
	debugf("interpreter: loop finished after %d iterations", iter)
	return nil, nil
}

// ---- expression evaluation ----

func (ip *Interpreter) evaluate(e Expr) (Value, error) {
	switch n := e.(type) {
	case *Literal:
		return n.Value, nil
	case *VarRef:
		v, ok := ip.vars[n.Name]
		if !ok {
			return Value{}, ip.runtimeErrf(n.Pos(), "undefined variable: %s", n.Name)
		}
		return v, nil
	case *BinOp:
		return ip.evalBinOp(n)
	default:
		return Value{}, ip.runtimeErrf(e.Pos(), "unimplemented expression type %T", e)
	}
}

const convertHint = "convert first, e.g. zhuanhuan x shuzi = x (or zifu)"

func (ip *Interpreter) evalBinOp(n *BinOp) (Value, error) {
	left, err := ip.evaluate(n.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := ip.evaluate(n.Right)
	if err != nil {
		return Value{}, err
	}
	line := n.Pos()

	switch n.Op {
	case "+":
		switch {
		case isNumeric(left) && isNumeric(right):
			if isIntLike(left) && isIntLike(right) {
				return Int(asInt(left) + asInt(right)), nil
			}
			return Float(asFloat(left) + asFloat(right)), nil
		case left.Tag == VTStr && right.Tag == VTStr:
			return Str(left.Data.(string) + right.Data.(string)), nil
		default:
			return Value{}, ip.typeErrf(line, convertHint, "cannot add %s and %s", left.Tag, right.Tag)
		}
	case "-":
		if isNumeric(left) && isNumeric(right) {
			if isIntLike(left) && isIntLike(right) {
				return Int(asInt(left) - asInt(right)), nil
			}
			return Float(asFloat(left) - asFloat(right)), nil
		}
		return Value{}, ip.typeErrf(line, "", "only numbers can be subtracted")
	case "*":
		switch {
		case isNumeric(left) && isNumeric(right):
			if isIntLike(left) && isIntLike(right) {
				return Int(asInt(left) * asInt(right)), nil
			}
			return Float(asFloat(left) * asFloat(right)), nil
		case left.Tag == VTStr && isIntLike(right):
			return Str(repeatString(left.Data.(string), asInt(right))), nil
		case isIntLike(left) && right.Tag == VTStr:
			return Str(repeatString(right.Data.(string), asInt(left))), nil
		default:
			return Value{}, ip.typeErrf(line, "", "multiplication needs compatible types")
		}
	case "/":
		if isNumeric(left) && isNumeric(right) {
			if asFloat(right) == 0 {
				return Value{}, ip.runtimeErrf(line, "division by zero")
			}
			// Division always produces a float, including int/int.
			return Float(asFloat(left) / asFloat(right)), nil
		}
		return Value{}, ip.typeErrf(line, "", "only numbers can be divided")
	case "=":
		return BoolVal(valuesEqual(left, right)), nil
	case "=!":
		return BoolVal(!valuesEqual(left, right)), nil
	case ">", "<", ">=", "<=":
		c, err := ip.compareValues(line, left, right)
		if err != nil {
			return Value{}, err
		}
		switch n.Op {
		case ">":
			return BoolVal(c > 0), nil
		case "<":
			return BoolVal(c < 0), nil
		case ">=":
			return BoolVal(c >= 0), nil
		default:
			return BoolVal(c <= 0), nil
		}
	default:
		return Value{}, ip.runtimeErrf(line, "unsupported operator: %s", n.Op)
	}
}

func repeatString(s string, n int64) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, int(n))
}

// plainMsg strips the rendered header off a PinLang error so it can be
// embedded in another message without duplicating file/line.
func plainMsg(err error) string {
	switch e := err.(type) {
	case *SyntaxError:
		return e.Msg
	case *TypeError:
		return e.Msg
	case *RuntimeError:
		return e.Msg
	default:
		return err.Error()
	}
}
