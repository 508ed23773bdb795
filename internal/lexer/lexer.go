package lexer

import (
	"fmt"
	"strings"

	"glide/internal/diag"
	"glide/internal/numlit"
	"glide/internal/token"
)

type Lexer struct {
	input string

	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination

	line int // 1-based
	col  int // 1-based column of current char
}

func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0, // readChar() will advance to col=1 for first char
	}
	l.readChar()
	return l
}

// Tokenize lexes the whole input. The first ILLEGAL token becomes a fatal error.
func Tokenize(input string) ([]token.Token, error) {
	l := New(input)
	var out []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.ILLEGAL {
			return out, &diag.Error{
				Phase:   diag.PhaseParse,
				Code:    diag.CodeLex,
				Message: tok.Literal,
				Line:    tok.Line,
				Col:     tok.Col,
			}
		}
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out, nil
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	// Skip spaces/tabs and comments, but NOT newlines.
	for {
		l.skipWhitespace()
		if l.ch == '#' {
			if l.peekChar() == '%' {
				if tok, ok := l.skipBlockComment(); !ok {
					return tok
				}
				continue
			}
			l.skipLineComment()
			continue
		}
		break
	}

	// NEWLINE is a real token (statement separator)
	if l.ch == '\n' {
		tok := l.newToken(token.NEWLINE, "\n", l.line, l.col)
		l.readChar()
		return tok
	}

	if l.ch == 0 {
		return l.newToken(token.EOF, "", l.line, l.col)
	}

	startLine, startCol := l.line, l.col

	switch {
	case l.ch == '"' || l.ch == '\'':
		return l.readStringToken(startLine, startCol)
	case isDigit(l.ch):
		return l.readNumberToken(startLine, startCol)
	case l.ch == '-' && isDigit(l.peekChar()):
		return l.readNumberToken(startLine, startCol)
	case l.ch == 'b' && isDigit(l.peekChar()):
		return l.readBinaryToken(startLine, startCol)
	case l.ch == '-' && l.peekChar() == 'b' && isDigit(l.peekSecondChar()):
		return l.readBinaryToken(startLine, startCol)
	}

	if tok, ok := l.readOperator(startLine, startCol); ok {
		return tok
	}

	if isIdentStart(l.ch) {
		lit := l.readIdentifier()
		return l.newToken(token.LookupIdent(lit), lit, startLine, startCol)
	}

	msg := fmt.Sprintf("unexpected character %q at line %d, column %d", l.ch, startLine, startCol)
	tok := l.newToken(token.ILLEGAL, msg, startLine, startCol)
	l.readChar()
	return tok
}

// Multi-character operators come first so they win over their prefixes.
var multiOps = []struct {
	lit string
	typ token.Type
}{
	{"==", token.OPERATOR},
	{"!=", token.OPERATOR},
	{"<=", token.OPERATOR},
	{">=", token.OPERATOR},
	{"<<", token.OPERATOR},
	{">>", token.OPERATOR},
	{"++", token.INCR},
	{"--", token.DECR},
	{"+=", token.COMPOUND},
	{"-=", token.COMPOUND},
	{"*=", token.COMPOUND},
	{"/=", token.COMPOUND},
	{"%=", token.COMPOUND},
	{"^=", token.COMPOUND},
}

var singleOps = map[byte]token.Type{
	'+': token.OPERATOR,
	'-': token.OPERATOR,
	'*': token.OPERATOR,
	'/': token.OPERATOR,
	'%': token.OPERATOR,
	'^': token.OPERATOR,
	'<': token.OPERATOR,
	'>': token.OPERATOR,
	'=': token.ASSIGN,
	',': token.FENCE,
	':': token.COLON,
	'.': token.DOT,
	'|': token.PIPE,
	'@': token.AT,
	';': token.SEMICOLON,
	'(': token.LPAREN,
	')': token.RPAREN,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	'{': token.LBRACE,
	'}': token.RBRACE,
}

func (l *Lexer) readOperator(line, col int) (token.Token, bool) {
	rest := l.input[l.position:]
	for _, op := range multiOps {
		if strings.HasPrefix(rest, op.lit) {
			tok := l.newToken(op.typ, op.lit, line, col)
			l.readChar()
			l.readChar()
			return tok, true
		}
	}
	if tt, ok := singleOps[l.ch]; ok {
		tok := l.newToken(tt, string(l.ch), line, col)
		l.readChar()
		return tok, true
	}
	return token.Token{}, false
}

func (l *Lexer) newToken(t token.Type, lit string, line, col int) token.Token {
	return token.Token{
		Type:    t,
		Literal: lit,
		Line:    line,
		Col:     col,
	}
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}

	l.ch = l.input[l.readPosition]
	l.position = l.readPosition
	l.readPosition++

	// The column is relative to the line the current char sits on.
	if l.position > 0 && l.input[l.position-1] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekSecondChar() byte {
	if l.readPosition+1 >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+1]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	// Do not consume newline here — NextToken will emit NEWLINE token.
}

func (l *Lexer) skipBlockComment() (token.Token, bool) {
	line, col := l.line, l.col
	l.readChar() // consume '#'
	l.readChar() // consume '%'

	for l.ch != 0 {
		if l.ch == '%' && l.peekChar() == '#' {
			l.readChar()
			l.readChar()
			return token.Token{}, true
		}
		l.readChar()
	}
	return l.newToken(token.ILLEGAL, "unterminated comment", line, col), false
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumberToken(line, col int) token.Token {
	start := l.position
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	raw := l.input[start:l.position]
	d, err := numlit.NormalizeDecimal(raw)
	if err != nil {
		return l.newToken(token.ILLEGAL, fmt.Sprintf("%s: %q", err, raw), line, col)
	}
	tt := token.INT
	if d.IsFloat {
		tt = token.FLOAT
	}
	tok := l.newToken(tt, d.Normalized, line, col)
	tok.Raw = raw
	return tok
}

func (l *Lexer) readBinaryToken(line, col int) token.Token {
	start := l.position
	if l.ch == '-' {
		l.readChar()
	}
	l.readChar() // 'b'
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	raw := l.input[start:l.position]
	if _, err := numlit.ParseBinary(raw); err != nil {
		return l.newToken(token.ILLEGAL, fmt.Sprintf("%s: %q", err, raw), line, col)
	}
	tok := l.newToken(token.BIN, raw, line, col)
	tok.Raw = raw
	return tok
}

func (l *Lexer) readStringToken(line, col int) token.Token {
	quote := l.ch
	start := l.position
	l.readChar() // move past opening quote

	var b strings.Builder
	for {
		if l.ch == 0 || l.ch == '\n' {
			return l.newToken(token.ILLEGAL, "unterminated string", line, col)
		}
		if l.ch == quote {
			break
		}
		if l.ch == '\\' {
			switch l.peekChar() {
			case '"', '\'', '\\':
				l.readChar()
				b.WriteByte(l.ch)
				l.readChar()
				continue
			case 'n':
				l.readChar()
				b.WriteByte('\n')
				l.readChar()
				continue
			case 't':
				l.readChar()
				b.WriteByte('\t')
				l.readChar()
				continue
			}
		}
		b.WriteByte(l.ch)
		l.readChar()
	}

	l.readChar() // consume closing quote
	tok := l.newToken(token.STRING, b.String(), line, col)
	tok.Raw = l.input[start:l.position]
	return tok
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
