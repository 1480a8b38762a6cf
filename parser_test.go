package pinlang

import (
	"strings"
	"testing"
)

func parseProgram(t *testing.T, src string) []Stmt {
	t.Helper()
	toks := scanTokens(t, src)
	prog, err := Parse(toks, "test.pin")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog
}

func parseError(t *testing.T, src, want string) {
	t.Helper()
	toks := scanTokens(t, src)
	_, err := Parse(toks, "test.pin")
	if err == nil {
		t.Fatalf("expected parse error for %q", src)
	}
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("error text: got %v, want substring %q", err, want)
	}
}

func Test_Parser_var_and_print(t *testing.T) {
	prog := parseProgram(t, "bianliang x = 5\ndayin(x)\ndy('hi')")
	if len(prog) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog))
	}

	vd, ok := prog[0].(*VarDeclStmt)
	if !ok || vd.Name != "x" {
		t.Fatalf("statement 0: got %#v", prog[0])
	}
	lit, ok := vd.Value.(*Literal)
	if !ok || lit.Value.Data.(int64) != 5 {
		t.Fatalf("var value: got %#v", vd.Value)
	}

	pr, ok := prog[1].(*PrintStmt)
	if !ok {
		t.Fatalf("statement 1: got %#v", prog[1])
	}
	if ref, ok := pr.Value.(*VarRef); !ok || ref.Name != "x" {
		t.Fatalf("print value: got %#v", pr.Value)
	}

	pr2 := prog[2].(*PrintStmt)
	if lit := pr2.Value.(*Literal); lit.Value.Data.(string) != "hi" {
		t.Fatalf("short print value: got %#v", pr2.Value)
	}
}

func Test_Parser_print_leading_operand_taken_alone(t *testing.T) {
	// The first identifier or literal after '(' is consumed by itself, so a
	// following operator trips the ')' check. Parenthesizing restores the
	// full expression grammar.
	toks := scanTokens(t, "dy(x+1)")
	if _, err := Parse(toks, "test.pin"); err != nil {
		t.Fatalf("top-level error should be recovered, got %v", err)
	}
	prog := parseProgram(t, "dy(x+1)")
	if len(prog) != 0 {
		t.Fatalf("dy(x+1) should produce no statement, got %d", len(prog))
	}

	prog = parseProgram(t, "dy((x+1))")
	if len(prog) != 1 {
		t.Fatalf("dy((x+1)) should parse, got %d statements", len(prog))
	}
	pr := prog[0].(*PrintStmt)
	if _, ok := pr.Value.(*BinOp); !ok {
		t.Fatalf("print value should be a binop, got %#v", pr.Value)
	}
}

func Test_Parser_labels_and_permissive_skip(t *testing.T) {
	prog := parseProgram(t, "hang_1\nbl x = 1\nstray tokens here\nhang_9\ndayin(x)")
	if len(prog) != 4 {
		t.Fatalf("got %d statements, want 4: %#v", len(prog), prog)
	}
	if lbl := prog[0].(*LabelStmt); lbl.Name != "hang_1" {
		t.Fatalf("label 0: got %q", lbl.Name)
	}
	if lbl := prog[2].(*LabelStmt); lbl.Name != "hang_9" {
		t.Fatalf("label 2: got %q", lbl.Name)
	}
}

func Test_Parser_top_level_recovery(t *testing.T) {
	// The malformed statement is reported and dropped; parsing resumes at the
	// next statement keyword.
	prog := parseProgram(t, "bianliang = 5\ndayin('ok')")
	if len(prog) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog))
	}
	if _, ok := prog[0].(*PrintStmt); !ok {
		t.Fatalf("surviving statement: got %#v", prog[0])
	}
}

func Test_Parser_calculate(t *testing.T) {
	prog := parseProgram(t, "jisuan 3 + x = y")
	cs := prog[0].(*CalculateStmt)
	if cs.Target != "y" {
		t.Fatalf("target: got %q", cs.Target)
	}
	op := cs.Expr.(*BinOp)
	if op.Op != "+" {
		t.Fatalf("op: got %q", op.Op)
	}
	if lit := op.Left.(*Literal); lit.Value.Data.(int64) != 3 {
		t.Fatalf("left: got %#v", op.Left)
	}
	if ref := op.Right.(*VarRef); ref.Name != "x" {
		t.Fatalf("right: got %#v", op.Right)
	}

	// Single literal and single variable forms.
	cs = parseProgram(t, "jisuan 8 = z")[0].(*CalculateStmt)
	if _, ok := cs.Expr.(*Literal); !ok {
		t.Fatalf("literal form: got %#v", cs.Expr)
	}
	cs = parseProgram(t, "jisuan a = b")[0].(*CalculateStmt)
	if _, ok := cs.Expr.(*VarRef); !ok {
		t.Fatalf("variable form: got %#v", cs.Expr)
	}

	// More than three tokens before '=' is rejected (and recovered at the
	// top level, leaving no statement).
	prog = parseProgram(t, "jisuan 1 + 2 + 3 = w")
	if len(prog) != 0 {
		t.Fatalf("complex calculate should be dropped, got %d statements", len(prog))
	}
}

func Test_Parser_convert(t *testing.T) {
	cs := parseProgram(t, "zhuanhuan x shuzi = y")[0].(*ConvertStmt)
	if cs.Source != "x" || cs.TypeName != "shuzi" || cs.Target != "y" {
		t.Fatalf("convert: got %#v", cs)
	}

	cs = parseProgram(t, "zhuanhuan n zifu = s")[0].(*ConvertStmt)
	if cs.TypeName != "zifu" {
		t.Fatalf("type name: got %q", cs.TypeName)
	}

	// Only shuzi/zifu are valid type names.
	prog := parseProgram(t, "zhuanhuan x foo = y")
	if len(prog) != 0 {
		t.Fatalf("bad type name should be dropped, got %d statements", len(prog))
	}
}

func Test_Parser_if_else(t *testing.T) {
	src := "panduan x > 3:\ndayin('big')\ndy(x)\nfouze:\ndayin('small')"
	prog := parseProgram(t, src)
	if len(prog) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog))
	}
	is := prog[0].(*IfStmt)
	if op := is.Cond.(*BinOp); op.Op != ">" {
		t.Fatalf("condition op: got %q", op.Op)
	}
	if len(is.Body) != 2 {
		t.Fatalf("body: got %d statements", len(is.Body))
	}
	if len(is.ElseBody) != 1 {
		t.Fatalf("else body: got %d statements", len(is.ElseBody))
	}
}

func Test_Parser_if_without_else_runs_to_eof(t *testing.T) {
	is := parseProgram(t, "panduan x = 1:\ndayin('a')\ndayin('b')")[0].(*IfStmt)
	if len(is.Body) != 2 || len(is.ElseBody) != 0 {
		t.Fatalf("body %d, else %d", len(is.Body), len(is.ElseBody))
	}
}

func Test_Parser_body_error_is_fatal(t *testing.T) {
	// Top-level recovery does not apply inside bodies.
	parseError(t, "panduan x = 1:\ndy(3", "')'")
	parseError(t, "xunhuan cishu=2:\nbianliang = 5", "expected ID")
}

func Test_Parser_loop_forms(t *testing.T) {
	// Fixed-count mode.
	ls := parseProgram(t, "xunhuan cishu=3:\ndayin('x')")[0].(*LoopStmt)
	if ls.Var != "" || ls.Cmp != "" || ls.CmpValue != nil {
		t.Fatalf("count loop should have no condition: %#v", ls)
	}
	if lit := ls.Count.(*Literal); lit.Value.Data.(int64) != 3 {
		t.Fatalf("count: got %#v", ls.Count)
	}
	if len(ls.Body) != 1 {
		t.Fatalf("body: got %d statements", len(ls.Body))
	}

	// Condition-checked mode.
	ls = parseProgram(t, "xunhuan i < 10:\njisuan i + 1 = i")[0].(*LoopStmt)
	if ls.Var != "i" || ls.Cmp != "<" {
		t.Fatalf("condition loop: got %#v", ls)
	}
	if lit := ls.CmpValue.(*Literal); lit.Value.Data.(int64) != 10 {
		t.Fatalf("cmp value: got %#v", ls.CmpValue)
	}

	// Both clauses may appear together.
	ls = parseProgram(t, "xunhuan i =! 0 cishu=5:\njisuan i - 1 = i")[0].(*LoopStmt)
	if ls.Cmp != "=!" || ls.Count == nil {
		t.Fatalf("combined loop: got %#v", ls)
	}
}

func Test_Parser_loop_body_ends_at_line_gap(t *testing.T) {
	src := "xunhuan cishu=2:\ndayin('in')\n\ndayin('out')"
	prog := parseProgram(t, src)
	if len(prog) != 2 {
		t.Fatalf("got %d statements, want loop + print", len(prog))
	}
	ls := prog[0].(*LoopStmt)
	if len(ls.Body) != 1 {
		t.Fatalf("loop body: got %d statements", len(ls.Body))
	}
	if _, ok := prog[1].(*PrintStmt); !ok {
		t.Fatalf("statement after gap: got %#v", prog[1])
	}
}

func Test_Parser_jump(t *testing.T) {
	js := parseProgram(t, "tiao ciwenjian hang=5")[0].(*JumpStmt)
	if js.File != "current" || js.TargetKind != "hang" || js.TargetValue != 5 {
		t.Fatalf("jump: got %#v", js)
	}

	js = parseProgram(t, "tiao ciwenjian shuru=0")[0].(*JumpStmt)
	if js.TargetKind != "shuru" || js.TargetValue != 0 {
		t.Fatalf("input jump: got %#v", js)
	}

	// Other files and kinds parse; they fail at run time instead.
	js = parseProgram(t, "tiao other biaoji=2")[0].(*JumpStmt)
	if js.File != "other" || js.TargetKind != "biaoji" {
		t.Fatalf("foreign jump: got %#v", js)
	}
}

func Test_Parser_list_statements(t *testing.T) {
	lc := parseProgram(t, "liebiao chuangjian a = [1, 'two', 3.5]")[0].(*ListCreateStmt)
	if lc.Name != "a" || len(lc.Values) != 3 {
		t.Fatalf("list create: got %#v", lc)
	}

	lg := parseProgram(t, "liebiao huoqu a bianhao=1 chuandi bianliang = b")[0].(*ListGetStmt)
	if lg.ListName != "a" || lg.Target != "b" {
		t.Fatalf("list get: got %#v", lg)
	}

	// Short marker without '=' is also accepted.
	lg = parseProgram(t, "liebiao huoqu a bianhao=0 chuandi bl b")[0].(*ListGetStmt)
	if lg.Target != "b" {
		t.Fatalf("list get short: got %#v", lg)
	}

	le := parseProgram(t, "liebiao bianji a bianhao=2 chuandi zifu('new')")[0].(*ListEditStmt)
	if lit := le.Value.(*Literal); lit.Value.Data.(string) != "new" {
		t.Fatalf("list edit string: got %#v", le.Value)
	}

	// The type wrapper may carry a zhuanhuan prefix.
	le = parseProgram(t, "liebiao bianji a bianhao=0 chuandi zhuanhuan shuzi(9)")[0].(*ListEditStmt)
	if lit := le.Value.(*Literal); lit.Value.Data.(int64) != 9 {
		t.Fatalf("list edit number: got %#v", le.Value)
	}

	// Plain expressions work in the value position too.
	le = parseProgram(t, "liebiao bianji a bianhao=0 chuandi x")[0].(*ListEditStmt)
	if _, ok := le.Value.(*VarRef); !ok {
		t.Fatalf("list edit expr: got %#v", le.Value)
	}
}

func Test_Parser_input(t *testing.T) {
	is := parseProgram(t, "shuru('name? ') = who")[0].(*InputStmt)
	if is.Prompt != "name? " || is.Target != "who" || is.Restriction != "" {
		t.Fatalf("input: got %#v", is)
	}

	is = parseProgram(t, "shuru('age? ') = age jin(zifu)")[0].(*InputStmt)
	if is.Restriction != "zifu" {
		t.Fatalf("restricted input: got %#v", is)
	}
}

func Test_Parser_expression_precedence(t *testing.T) {
	// 1 + 2 * 3 parses as 1 + (2 * 3).
	pr := parseProgram(t, "dy((1 + 2 * 3))")[0].(*PrintStmt)
	add := pr.Value.(*BinOp)
	if add.Op != "+" {
		t.Fatalf("outer op: got %q", add.Op)
	}
	mul := add.Right.(*BinOp)
	if mul.Op != "*" {
		t.Fatalf("inner op: got %q", mul.Op)
	}

	// Comparison binds loosest.
	pr = parseProgram(t, "dy((1 + 2 > 2))")[0].(*PrintStmt)
	cmp := pr.Value.(*BinOp)
	if cmp.Op != ">" {
		t.Fatalf("comparison op: got %q", cmp.Op)
	}
}

func Test_Parser_stray_else_is_discarded(t *testing.T) {
	prog := parseProgram(t, "fouze:\ndayin('x')")
	if len(prog) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog))
	}
	if _, ok := prog[0].(*PrintStmt); !ok {
		t.Fatalf("got %#v", prog[0])
	}
}

func Test_Parser_empty_token_stream(t *testing.T) {
	prog, err := Parse(nil, "test.pin")
	if err != nil || prog != nil {
		t.Fatalf("got %v, %v", prog, err)
	}
}
