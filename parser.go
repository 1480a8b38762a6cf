// parser.go — recursive-descent parser for PinLang.
//
// Statements are chosen solely by the keyword at the current position; a
// token that does not start a statement is silently skipped. That permissive
// policy, the delimiter-less block bodies, the loop body's blank-line gap
// heuristic, and the three-token ceiling on jisuan expressions are all
// compatibility surface: programs in the wild depend on their exact behavior,
// so they are replicated here rather than generalized.
//
// Error handling is split by depth. A syntax error while parsing a top-level
// statement is reported and recovered from by resynchronizing to the next
// statement-start keyword. A syntax error inside an if/loop body is fatal and
// aborts the whole parse.
package pinlang

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Parse turns a token sequence into a program: the ordered list of top-level
// statements. Recovered top-level errors are reported on stderr; a returned
// error means the parse aborted.
func Parse(toks []Token, file string) ([]Stmt, error) {
	if len(toks) == 0 {
		return nil, nil
	}
	p := &parser{toks: toks, file: file}
	return p.program()
}

type parser struct {
	toks []Token
	i    int
	file string
}

// bodyError marks a syntax error raised while parsing a statement body; it
// must not be swallowed by top-level recovery.
type bodyError struct {
	err error
}

func (e *bodyError) Error() string { return e.err.Error() }
func (e *bodyError) Unwrap() error { return e.err }

func asBody(err error) error {
	var be *bodyError
	if errors.As(err, &be) {
		return be
	}
	return &bodyError{err: err}
}

func (p *parser) cur() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[p.i]
}

func (p *parser) peekNext() Token {
	if p.i+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i+1]
}

func (p *parser) eat(tt TokenType) (Token, error) {
	t := p.cur()
	if t.Type != tt {
		return Token{}, p.errAt(t.Line, "expected %s, got %s", tt, t.Type)
	}
	p.i++
	return t, nil
}

func (p *parser) errAt(line int, format string, args ...any) error {
	return syntaxErrf(p.file, line, format, args...)
}

func isStatementStart(tt TokenType) bool {
	switch tt {
	case PRINT, PRINT_SHORT, VAR_DEFINE, VAR_DEFINE_SHORT,
		LIST, CALCULATE, CONVERT, IF, INPUT, JUMP, LOOP:
		return true
	default:
		return false
	}
}

func (p *parser) program() ([]Stmt, error) {
	var stmts []Stmt
	for p.cur().Type != EOF {
		tok := p.cur()

		// A bare hang_* identifier at the top level is a label anchor.
		if tok.Type == ID {
			if name, ok := tok.Value.(string); ok && strings.HasPrefix(name, "hang_") {
				debugf("parser: label %s at line %d", name, tok.Line)
				stmts = append(stmts, &LabelStmt{baseNode{tok.Line}, name})
				p.i++
				continue
			}
		}

		if !isStatementStart(tok.Type) {
			debugf("parser: skipping %s at line %d", tok.Type, tok.Line)
			p.i++
			continue
		}

		start := p.i
		stmt, err := p.statement()
		if err != nil {
			var be *bodyError
			if errors.As(err, &be) {
				return nil, be.err
			}
			fmt.Fprintln(os.Stderr, err)
			// Resynchronize to the next statement-start keyword. The failed
			// statement may not have consumed anything; always make progress.
			if p.i == start {
				p.i++
			}
			for p.cur().Type != EOF && !isStatementStart(p.cur().Type) {
				p.i++
			}
			continue
		}
		if stmt != nil {
			debugf("parser: %T at line %d", stmt, stmt.Pos())
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

func (p *parser) statement() (Stmt, error) {
	switch tok := p.cur(); tok.Type {
	case PRINT, PRINT_SHORT:
		return p.printStatement()
	case VAR_DEFINE, VAR_DEFINE_SHORT:
		return p.varDefineStatement()
	case LIST:
		switch p.peekNext().Type {
		case CREATE:
			return p.listCreateStatement()
		case GET:
			return p.listGetStatement()
		case EDIT:
			return p.listEditStatement()
		default:
			return nil, p.errAt(tok.Line, "list operation must be 'chuangjian', 'huoqu' or 'bianji'")
		}
	case CALCULATE:
		return p.calculateStatement()
	case CONVERT:
		return p.convertStatement()
	case IF:
		return p.ifStatement()
	case INPUT:
		return p.inputStatement()
	case JUMP:
		return p.jumpStatement()
	case LOOP:
		return p.loopStatement()
	default:
		return nil, p.errAt(tok.Line, "unknown statement type: %s", tok.Type)
	}
}

func literalFromToken(tok Token) *Literal {
	return literalAt(tok, tok.Line)
}

func literalAt(tok Token, line int) *Literal {
	switch tok.Type {
	case INTEGER:
		return &Literal{baseNode{line}, Int(tok.Value.(int64))}
	case FLOAT:
		return &Literal{baseNode{line}, Float(tok.Value.(float64))}
	default: // STRING
		return &Literal{baseNode{line}, Str(tok.Value.(string))}
	}
}

func (p *parser) printStatement() (Stmt, error) {
	tok := p.cur()
	line := tok.Line
	p.i++ // PRINT or PRINT_SHORT

	if p.cur().Type != LPAREN {
		return nil, p.errAt(p.cur().Line, "print statement needs '(', got %s", p.cur().Type)
	}
	p.i++

	// A leading literal or identifier is taken alone; only other token kinds
	// fall through to the full expression grammar. dy(x+1) is therefore a
	// syntax error while dy((x+1)) parses — long-standing behavior.
	var value Expr
	switch t := p.cur(); t.Type {
	case STRING, INTEGER, FLOAT:
		value = literalAt(t, line)
		p.i++
	case ID:
		value = &VarRef{baseNode{line}, t.Value.(string)}
		p.i++
	default:
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		value = v
	}

	if p.cur().Type != RPAREN {
		return nil, p.errAt(p.cur().Line, "print statement needs ')', got %s", p.cur().Type)
	}
	p.i++
	return &PrintStmt{baseNode{line}, value}, nil
}

func (p *parser) varDefineStatement() (Stmt, error) {
	tok := p.cur()
	line := tok.Line
	p.i++ // VAR_DEFINE or VAR_DEFINE_SHORT

	nameTok, err := p.eat(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(EQUALS); err != nil {
		return nil, err
	}

	var value Expr
	switch t := p.cur(); t.Type {
	case STRING, INTEGER, FLOAT:
		value = literalAt(t, line)
		p.i++
	default:
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		value = v
	}
	return &VarDeclStmt{baseNode{line}, nameTok.Value.(string), value}, nil
}

// listElement parses one element of a list literal: a leading literal token
// is taken alone, anything else goes through expr().
func (p *parser) listElement(line int) (Expr, error) {
	switch t := p.cur(); t.Type {
	case STRING, INTEGER, FLOAT:
		p.i++
		return literalAt(t, line), nil
	default:
		return p.expr()
	}
}

func (p *parser) listCreateStatement() (Stmt, error) {
	line := p.cur().Line
	p.i += 2 // LIST CREATE

	nameTok, err := p.eat(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(EQUALS); err != nil {
		return nil, err
	}
	if _, err := p.eat(LBRACKET); err != nil {
		return nil, err
	}

	var values []Expr
	if p.cur().Type == RBRACKET {
		p.i++
		return &ListCreateStmt{baseNode{line}, nameTok.Value.(string), values}, nil
	}
	el, err := p.listElement(line)
	if err != nil {
		return nil, err
	}
	values = append(values, el)
	for p.cur().Type == COMMA {
		p.i++
		el, err := p.listElement(line)
		if err != nil {
			return nil, err
		}
		values = append(values, el)
	}
	if _, err := p.eat(RBRACKET); err != nil {
		return nil, err
	}
	return &ListCreateStmt{baseNode{line}, nameTok.Value.(string), values}, nil
}

// listIndex parses the bianhao=... clause value: a bare integer or an
// expression.
func (p *parser) listIndex() (Expr, error) {
	if t := p.cur(); t.Type == INTEGER {
		p.i++
		return literalFromToken(t), nil
	}
	return p.expr()
}

func (p *parser) listGetStatement() (Stmt, error) {
	line := p.cur().Line
	p.i += 2 // LIST GET

	nameTok, err := p.eat(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(INDEX); err != nil {
		return nil, err
	}
	if _, err := p.eat(EQUALS); err != nil {
		return nil, err
	}
	index, err := p.listIndex()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(PASS); err != nil {
		return nil, err
	}
	// chuandi bl x / chuandi bianliang = x — the marker keyword and '=' are
	// both optional noise before the target name.
	if t := p.cur().Type; t == VAR_DEFINE || t == VAR_DEFINE_SHORT {
		p.i++
	}
	if p.cur().Type == EQUALS {
		p.i++
	}
	target, err := p.eat(ID)
	if err != nil {
		return nil, err
	}
	return &ListGetStmt{baseNode{line}, nameTok.Value.(string), index, target.Value.(string)}, nil
}

func (p *parser) listEditStatement() (Stmt, error) {
	line := p.cur().Line
	p.i += 2 // LIST EDIT

	nameTok, err := p.eat(ID)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(INDEX); err != nil {
		return nil, err
	}
	if _, err := p.eat(EQUALS); err != nil {
		return nil, err
	}
	index, err := p.listIndex()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(PASS); err != nil {
		return nil, err
	}

	// Value position accepts the explicit type-wrapper sugar zifu("...") and
	// shuzi(...), optionally prefixed with the zhuanhuan keyword, as well as
	// any plain expression.
	if p.cur().Type == CONVERT {
		p.i++
	}
	var value Expr
	switch p.cur().Type {
	case STRING_TYPE:
		p.i++
		if _, err := p.eat(LPAREN); err != nil {
			return nil, err
		}
		s, err := p.eat(STRING)
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(RPAREN); err != nil {
			return nil, err
		}
		value = &Literal{baseNode{line}, Str(s.Value.(string))}
	case NUMBER_TYPE:
		p.i++
		if _, err := p.eat(LPAREN); err != nil {
			return nil, err
		}
		if t := p.cur(); t.Type == INTEGER || t.Type == FLOAT {
			value = literalAt(t, line)
			p.i++
		} else {
			v, err := p.expr()
			if err != nil {
				return nil, err
			}
			value = v
		}
		if _, err := p.eat(RPAREN); err != nil {
			return nil, err
		}
	default:
		v, err := p.expr()
		if err != nil {
			return nil, err
		}
		value = v
	}
	return &ListEditStmt{baseNode{line}, nameTok.Value.(string), index, value}, nil
}

func isArithOp(tt TokenType) bool {
	return tt == PLUS || tt == MINUS || tt == MULTIPLY || tt == DIVIDE
}

// calculateOperand lifts one token of a jisuan three-token expression:
// numbers become literals, everything else is treated as a variable name.
func calculateOperand(tok Token) Expr {
	if tok.Type == INTEGER || tok.Type == FLOAT {
		return literalFromToken(tok)
	}
	return &VarRef{baseNode{tok.Line}, fmt.Sprint(tok.Value)}
}

func (p *parser) calculateStatement() (Stmt, error) {
	tok, _ := p.eat(CALCULATE)
	line := tok.Line

	// The expression is whatever sits between jisuan and the first '='. It
	// may be exactly one literal, one identifier, or the three-token form
	// `operand op operand`; the ceiling is deliberate and load-bearing even
	// though expr() could parse more.
	start := p.i
	eq := -1
	for j := start; j < len(p.toks); j++ {
		if p.toks[j].Type == EQUALS {
			eq = j
			break
		}
	}
	if eq < 0 {
		return nil, p.errAt(line, "calculate statement needs '='")
	}
	exprToks := p.toks[start:eq]

	var expr Expr
	switch {
	case len(exprToks) == 1 && (exprToks[0].Type == INTEGER || exprToks[0].Type == FLOAT):
		expr = literalFromToken(exprToks[0])
	case len(exprToks) == 1 && exprToks[0].Type == ID:
		expr = &VarRef{baseNode{exprToks[0].Line}, exprToks[0].Value.(string)}
	case len(exprToks) == 3 && isArithOp(exprToks[1].Type):
		expr = &BinOp{
			baseNode{exprToks[0].Line},
			calculateOperand(exprToks[0]),
			exprToks[1].Value.(string),
			calculateOperand(exprToks[2]),
		}
	default:
		return nil, p.errAt(line, "unsupported complex calculate expression")
	}

	p.i = eq
	if _, err := p.eat(EQUALS); err != nil {
		return nil, err
	}
	t := p.cur()
	if t.Type != ID {
		return nil, p.errAt(t.Line, "calculate result must be assigned to a variable, got %s", t.Type)
	}
	p.i++
	return &CalculateStmt{baseNode{line}, expr, t.Value.(string)}, nil
}

func (p *parser) convertStatement() (Stmt, error) {
	tok, _ := p.eat(CONVERT)
	line := tok.Line

	src, err := p.eat(ID)
	if err != nil {
		return nil, err
	}
	tn := p.cur()
	if tn.Type != NUMBER_TYPE && tn.Type != STRING_TYPE {
		return nil, p.errAt(tn.Line, "invalid type name: %v", tn.Value)
	}
	p.i++
	if _, err := p.eat(EQUALS); err != nil {
		return nil, err
	}
	target, err := p.eat(ID)
	if err != nil {
		return nil, err
	}
	return &ConvertStmt{baseNode{line}, src.Value.(string), tn.Value.(string), target.Value.(string)}, nil
}

// bodyStatements parses a delimiter-less statement body. Bodies stop at EOF,
// at ELSE when stopAtElse is set, and — for loop bodies — at a gap of more
// than one source line since the previous body statement. Errors inside a
// body are fatal to the whole parse.
func (p *parser) bodyStatements(stopAtElse, gapCheck bool) ([]Stmt, error) {
	var body []Stmt
	for p.cur().Type != EOF {
		tok := p.cur()
		if stopAtElse && tok.Type == ELSE {
			break
		}
		if !isStatementStart(tok.Type) {
			p.i++
			continue
		}
		if gapCheck && len(body) > 0 && tok.Line > body[len(body)-1].Pos()+1 {
			// A blank-line gap ends the loop body. Fragile by construction;
			// downstream programs depend on this exact boundary.
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, asBody(err)
		}
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	return body, nil
}

func (p *parser) ifStatement() (Stmt, error) {
	tok, _ := p.eat(IF)
	line := tok.Line

	cond, err := p.expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(COLON); err != nil {
		return nil, err
	}

	body, err := p.bodyStatements(true, false)
	if err != nil {
		return nil, err
	}

	var elseBody []Stmt
	if p.cur().Type == ELSE {
		p.i++
		if p.cur().Type == COLON {
			p.i++
		}
		elseBody, err = p.bodyStatements(false, false)
		if err != nil {
			return nil, err
		}
	}
	return &IfStmt{baseNode{line}, cond, body, elseBody}, nil
}

func (p *parser) inputStatement() (Stmt, error) {
	tok, _ := p.eat(INPUT)
	line := tok.Line

	if _, err := p.eat(LPAREN); err != nil {
		return nil, err
	}
	prompt, err := p.eat(STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.eat(EQUALS); err != nil {
		return nil, err
	}
	target, err := p.eat(ID)
	if err != nil {
		return nil, err
	}

	restriction := ""
	if p.cur().Type == RESTRICT {
		p.i++
		if _, err := p.eat(LPAREN); err != nil {
			return nil, err
		}
		rt, err := p.eat(STRING_TYPE)
		if err != nil {
			return nil, err
		}
		restriction = rt.Value.(string)
		if _, err := p.eat(RPAREN); err != nil {
			return nil, err
		}
	}
	return &InputStmt{baseNode{line}, prompt.Value.(string), target.Value.(string), restriction}, nil
}

func (p *parser) jumpStatement() (Stmt, error) {
	tok, _ := p.eat(JUMP)
	line := tok.Line

	var file string
	if p.cur().Type == CURRENT_FILE {
		file = "current"
		p.i++
	} else {
		f, err := p.eat(ID)
		if err != nil {
			return nil, err
		}
		file = f.Value.(string)
	}

	var kind string
	switch p.cur().Type {
	case LINE:
		kind = "hang"
		p.i++
	case INPUT:
		kind = "shuru"
		p.i++
	default:
		k, err := p.eat(ID)
		if err != nil {
			return nil, err
		}
		kind = k.Value.(string)
	}

	if _, err := p.eat(EQUALS); err != nil {
		return nil, err
	}
	v, err := p.eat(INTEGER)
	if err != nil {
		return nil, err
	}
	return &JumpStmt{baseNode{line}, file, kind, v.Value.(int64)}, nil
}

func (p *parser) loopStatement() (Stmt, error) {
	tok, _ := p.eat(LOOP)
	line := tok.Line

	stmt := &LoopStmt{baseNode: baseNode{line}}

	if p.cur().Type == ID {
		stmt.Var = p.cur().Value.(string)
		p.i++

		switch t := p.cur(); t.Type {
		case EQUALS, NOT_EQUALS, GT, LT, GE, LE:
			stmt.Cmp = t.Value.(string)
			p.i++
			switch v := p.cur(); v.Type {
			case INTEGER, FLOAT:
				stmt.CmpValue = literalFromToken(v)
				p.i++
			case ID:
				stmt.CmpValue = &VarRef{baseNode{v.Line}, v.Value.(string)}
				p.i++
			default:
				return nil, p.errAt(v.Line, "loop condition needs a number or variable, got %s", v.Type)
			}
		}
	}

	if p.cur().Type == LOOP_COUNT {
		p.i++
		if _, err := p.eat(EQUALS); err != nil {
			return nil, err
		}
		switch v := p.cur(); v.Type {
		case INTEGER, FLOAT:
			stmt.Count = literalFromToken(v)
			p.i++
		case ID:
			stmt.Count = &VarRef{baseNode{v.Line}, v.Value.(string)}
			p.i++
		default:
			return nil, p.errAt(v.Line, "loop count needs a number or variable, got %s", v.Type)
		}
	}

	if _, err := p.eat(COLON); err != nil {
		return nil, err
	}
	body, err := p.bodyStatements(false, true)
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// ---- expression grammar ----
// comparison → additive → multiplicative → factor; all left-associative.

func (p *parser) expr() (Expr, error) {
	return p.comparison()
}

func (p *parser) comparison() (Expr, error) {
	node, err := p.additive()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		switch t.Type {
		case GT, LT, GE, LE, EQUALS, NOT_EQUALS:
			p.i++
			right, err := p.additive()
			if err != nil {
				return nil, err
			}
			node = &BinOp{baseNode{t.Line}, node, t.Value.(string), right}
		default:
			return node, nil
		}
	}
}

func (p *parser) additive() (Expr, error) {
	node, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		if t.Type != PLUS && t.Type != MINUS {
			return node, nil
		}
		p.i++
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		node = &BinOp{baseNode{t.Line}, node, t.Value.(string), right}
	}
}

func (p *parser) multiplicative() (Expr, error) {
	node, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		if t.Type != MULTIPLY && t.Type != DIVIDE {
			return node, nil
		}
		p.i++
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		node = &BinOp{baseNode{t.Line}, node, t.Value.(string), right}
	}
}

func (p *parser) factor() (Expr, error) {
	t := p.cur()
	switch t.Type {
	case LPAREN:
		p.i++
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(RPAREN); err != nil {
			return nil, err
		}
		return node, nil
	case INTEGER, FLOAT, STRING:
		p.i++
		return literalFromToken(t), nil
	case ID:
		p.i++
		return &VarRef{baseNode{t.Line}, t.Value.(string)}, nil
	default:
		return nil, p.errAt(t.Line, "invalid expression: %v", t.Value)
	}
}
