// lexer.go — tokenizer for PinLang source text.
//
// The lexer is eager: Scan walks the whole source and returns the full token
// sequence terminated by a single EOF token. Statements are keyword-led, so
// the keyword table below is the entire fixed vocabulary of the language;
// anything alphanumeric that is not in the table becomes a plain ID.
//
// Quirks that downstream code depends on and that must not be "improved":
//   - strings take single or double quotes, carry no escape sequences, and
//     must close before the end of the line;
//   - numbers are unsigned digit runs, optionally with a fractional part;
//     there is no exponent form and no leading-dot float;
//   - the fullwidth parentheses （ and ） lex as ordinary LPAREN/RPAREN.
package pinlang

import (
	"strconv"
	"unicode"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Statement keywords
	PRINT            // "dayin"
	PRINT_SHORT      // "dy"
	VAR_DEFINE       // "bianliang"
	VAR_DEFINE_SHORT // "bl"
	LIST             // "liebiao"
	CREATE           // "chuangjian"
	GET              // "huoqu"
	EDIT             // "bianji"
	INDEX            // "bianhao"
	PASS             // "chuandi"
	CALCULATE        // "jisuan"
	CONVERT          // "zhuanhuan"
	NUMBER_TYPE      // "shuzi"
	STRING_TYPE      // "zifu"
	IF               // "panduan"
	ELSE             // "fouze"
	INPUT            // "shuru"
	RESTRICT         // "jin"
	JUMP             // "tiao"
	CURRENT_FILE     // "ciwenjian"
	LINE             // "hang"
	LOOP             // "xunhuan"
	LOOP_COUNT       // "cishu"

	// Literals & identifiers
	ID
	INTEGER
	FLOAT
	STRING

	// Operators & punctuation
	EQUALS     // "="
	NOT_EQUALS // "=!"
	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	LPAREN // "(" or "（"
	RPAREN // ")" or "）"
	LBRACKET
	RBRACKET
	COMMA
	COLON
	GT
	LT
	GE
	LE
)

var tokenTypeNames = map[TokenType]string{
	EOF:              "EOF",
	PRINT:            "PRINT",
	PRINT_SHORT:      "PRINT_SHORT",
	VAR_DEFINE:       "VAR_DEFINE",
	VAR_DEFINE_SHORT: "VAR_DEFINE_SHORT",
	LIST:             "LIST",
	CREATE:           "CREATE",
	GET:              "GET",
	EDIT:             "EDIT",
	INDEX:            "INDEX",
	PASS:             "PASS",
	CALCULATE:        "CALCULATE",
	CONVERT:          "CONVERT",
	NUMBER_TYPE:      "NUMBER_TYPE",
	STRING_TYPE:      "STRING_TYPE",
	IF:               "IF",
	ELSE:             "ELSE",
	INPUT:            "INPUT",
	RESTRICT:         "RESTRICT",
	JUMP:             "JUMP",
	CURRENT_FILE:     "CURRENT_FILE",
	LINE:             "LINE",
	LOOP:             "LOOP",
	LOOP_COUNT:       "LOOP_COUNT",
	ID:               "ID",
	INTEGER:          "INTEGER",
	FLOAT:            "FLOAT",
	STRING:           "STRING",
	EQUALS:           "EQUALS",
	NOT_EQUALS:       "NOT_EQUALS",
	PLUS:             "PLUS",
	MINUS:            "MINUS",
	MULTIPLY:         "MULTIPLY",
	DIVIDE:           "DIVIDE",
	LPAREN:           "LPAREN",
	RPAREN:           "RPAREN",
	LBRACKET:         "LBRACKET",
	RBRACKET:         "RBRACKET",
	COMMA:            "COMMA",
	COLON:            "COLON",
	GT:               "GT",
	LT:               "LT",
	GE:               "GE",
	LE:               "LE",
}

func (tt TokenType) String() string {
	if s, ok := tokenTypeNames[tt]; ok {
		return s
	}
	return "TokenType(" + strconv.Itoa(int(tt)) + ")"
}

// Token is a lexical token. Value holds the lexeme text for identifiers,
// keywords, strings and operators, int64 for INTEGER and float64 for FLOAT.
type Token struct {
	Type  TokenType
	Value any
	Line  int
}

// keywords is the fixed pinyin vocabulary.
var keywords = map[string]TokenType{
	"dayin":      PRINT,
	"dy":         PRINT_SHORT,
	"bianliang":  VAR_DEFINE,
	"bl":         VAR_DEFINE_SHORT,
	"liebiao":    LIST,
	"chuangjian": CREATE,
	"huoqu":      GET,
	"bianji":     EDIT,
	"bianhao":    INDEX,
	"chuandi":    PASS,
	"jisuan":     CALCULATE,
	"zhuanhuan":  CONVERT,
	"shuzi":      NUMBER_TYPE,
	"zifu":       STRING_TYPE,
	"panduan":    IF,
	"fouze":      ELSE,
	"shuru":      INPUT,
	"jin":        RESTRICT,
	"tiao":       JUMP,
	"ciwenjian":  CURRENT_FILE,
	"hang":       LINE,
	"xunhuan":    LOOP,
	"cishu":      LOOP_COUNT,
}

// Lexer scans a PinLang source string into tokens.
type Lexer struct {
	src  []rune
	pos  int
	line int // 1-based
	file string
}

// NewLexer creates a lexer for the given source. file is used only to tag
// syntax errors and may be empty.
func NewLexer(src, file string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, file: file}
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() (rune, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *Lexer) advance() (rune, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
	}
	return ch, true
}

func (l *Lexer) errf(format string, args ...any) error {
	return syntaxErrf(l.file, l.line, format, args...)
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdentPart(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }
func isDigit(r rune) bool      { return r >= '0' && r <= '9' }

func (l *Lexer) skipWhitespace() {
	for {
		ch, ok := l.peek()
		if !ok || !unicode.IsSpace(ch) {
			return
		}
		l.advance()
	}
}

// skipComment consumes to end of line, not including the newline.
func (l *Lexer) skipComment() {
	for {
		ch, ok := l.peek()
		if !ok || ch == '\n' {
			return
		}
		l.advance()
	}
}

// scanString reads a quoted string. The matching delimiter must appear before
// the end of the line; there is no escape processing.
func (l *Lexer) scanString(quote rune) (string, error) {
	var out []rune
	for {
		ch, ok := l.peek()
		if !ok {
			return "", l.errf("string not closed")
		}
		if ch == '\n' {
			return "", l.errf("string not closed")
		}
		l.advance()
		if ch == quote {
			return string(out), nil
		}
		out = append(out, ch)
	}
}

func (l *Lexer) scanIdentifier(first rune) Token {
	out := []rune{first}
	for {
		ch, ok := l.peek()
		if !ok || !isIdentPart(ch) {
			break
		}
		out = append(out, ch)
		l.advance()
	}
	text := string(out)
	if tt, ok := keywords[text]; ok {
		return Token{Type: tt, Value: text, Line: l.line}
	}
	return Token{Type: ID, Value: text, Line: l.line}
}

func (l *Lexer) scanNumber(first rune) (Token, error) {
	out := []rune{first}
	for {
		ch, ok := l.peek()
		if !ok || !isDigit(ch) {
			break
		}
		out = append(out, ch)
		l.advance()
	}
	if ch, ok := l.peek(); ok && ch == '.' {
		out = append(out, ch)
		l.advance()
		for {
			ch, ok := l.peek()
			if !ok || !isDigit(ch) {
				break
			}
			out = append(out, ch)
			l.advance()
		}
		f, err := strconv.ParseFloat(string(out), 64)
		if err != nil {
			return Token{}, l.errf("invalid float literal: %s", string(out))
		}
		return Token{Type: FLOAT, Value: f, Line: l.line}, nil
	}
	n, err := strconv.ParseInt(string(out), 10, 64)
	if err != nil {
		return Token{}, l.errf("invalid integer literal: %s", string(out))
	}
	return Token{Type: INTEGER, Value: n, Line: l.line}, nil
}

// single maps one-rune operators and punctuation.
var single = map[rune]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': MULTIPLY,
	'/': DIVIDE,
	'(': LPAREN,
	'（': LPAREN,
	')': RPAREN,
	'）': RPAREN,
	'[': LBRACKET,
	']': RBRACKET,
	',': COMMA,
	':': COLON,
}

func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		ch, ok := l.advance()
		if !ok {
			return Token{Type: EOF, Line: l.line}, nil
		}

		if ch == '#' {
			l.skipComment()
			continue
		}
		if isIdentStart(ch) {
			return l.scanIdentifier(ch), nil
		}
		if isDigit(ch) {
			return l.scanNumber(ch)
		}
		if ch == '"' || ch == '\'' {
			text, err := l.scanString(ch)
			if err != nil {
				return Token{}, err
			}
			return Token{Type: STRING, Value: text, Line: l.line}, nil
		}

		switch ch {
		case '=':
			if nx, ok := l.peek(); ok && nx == '!' {
				l.advance()
				return Token{Type: NOT_EQUALS, Value: "=!", Line: l.line}, nil
			}
			return Token{Type: EQUALS, Value: "=", Line: l.line}, nil
		case '>':
			if nx, ok := l.peek(); ok && nx == '=' {
				l.advance()
				return Token{Type: GE, Value: ">=", Line: l.line}, nil
			}
			return Token{Type: GT, Value: ">", Line: l.line}, nil
		case '<':
			if nx, ok := l.peek(); ok && nx == '=' {
				l.advance()
				return Token{Type: LE, Value: "<=", Line: l.line}, nil
			}
			return Token{Type: LT, Value: "<", Line: l.line}, nil
		}

		if tt, ok := single[ch]; ok {
			return Token{Type: tt, Value: string(ch), Line: l.line}, nil
		}

		return Token{}, l.errf("unrecognized character: %q", ch)
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included).
// The first scan failure aborts the whole tokenization.
func (l *Lexer) Scan() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			debugf("lexer: %d tokens from %q", len(tokens), l.file)
			return tokens, nil
		}
	}
}
