package lexer

import (
	"errors"
	"strings"
	"testing"

	"glide/internal/diag"
	"glide/internal/token"
)

func TestLexer_Program(t *testing.T) {
	input := `make x: int = 1_000
x += 3
loop 3 with i {
  print x i + "!" str
}
def sq(n) { exit n dup * }
print sq(4)`

	tests := []struct {
		typ token.Type
		lit string
	}{
		{token.MAKE, "make"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.TYPE, "int"},
		{token.ASSIGN, "="},
		{token.INT, "1000"},
		{token.NEWLINE, "\n"},

		{token.IDENT, "x"},
		{token.COMPOUND, "+="},
		{token.INT, "3"},
		{token.NEWLINE, "\n"},

		{token.LOOP, "loop"},
		{token.INT, "3"},
		{token.WITH, "with"},
		{token.IDENT, "i"},
		{token.LBRACE, "{"},
		{token.NEWLINE, "\n"},

		{token.PRINT, "print"},
		{token.IDENT, "x"},
		{token.IDENT, "i"},
		{token.OPERATOR, "+"},
		{token.STRING, "!"},
		{token.TYPE, "str"},
		{token.NEWLINE, "\n"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},

		{token.DEF, "def"},
		{token.IDENT, "sq"},
		{token.LPAREN, "("},
		{token.IDENT, "n"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.EXIT, "exit"},
		{token.IDENT, "n"},
		{token.OPERATOR, "dup"},
		{token.OPERATOR, "*"},
		{token.RBRACE, "}"},
		{token.NEWLINE, "\n"},

		{token.PRINT, "print"},
		{token.IDENT, "sq"},
		{token.LPAREN, "("},
		{token.INT, "4"},
		{token.RPAREN, ")"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.typ {
			t.Fatalf("tests[%d] - type wrong. expected=%q, got=%q (lit=%q)", i, tt.typ, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.lit {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.lit, tok.Literal)
		}
	}
}

func TestLexer_GreedyOperators(t *testing.T) {
	input := "== = << < >= > != ++ -- -= ^="
	want := []struct {
		typ token.Type
		lit string
	}{
		{token.OPERATOR, "=="},
		{token.ASSIGN, "="},
		{token.OPERATOR, "<<"},
		{token.OPERATOR, "<"},
		{token.OPERATOR, ">="},
		{token.OPERATOR, ">"},
		{token.OPERATOR, "!="},
		{token.INCR, "++"},
		{token.DECR, "--"},
		{token.COMPOUND, "-="},
		{token.COMPOUND, "^="},
	}
	toks, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, w := range want {
		if toks[i].Type != w.typ || toks[i].Literal != w.lit {
			t.Fatalf("tokens[%d]: expected %s %q, got %s %q", i, w.typ, w.lit, toks[i].Type, toks[i].Literal)
		}
	}
}

func TestLexer_Numbers(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
		lit   string
	}{
		{"1_000", token.INT, "1000"},
		{"-42", token.INT, "-42"},
		{"3.25", token.FLOAT, "3.25"},
		{"-1_0.5", token.FLOAT, "-10.5"},
		{"b101", token.BIN, "b101"},
		{"-b1", token.BIN, "-b1"},
	}
	for _, tt := range tests {
		tok := New(tt.input).NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.lit {
			t.Fatalf("%q: expected %s %q, got %s %q", tt.input, tt.typ, tt.lit, tok.Type, tok.Literal)
		}
	}
}

func TestLexer_MinusBeforeSpaceIsOperator(t *testing.T) {
	toks, err := Tokenize("5 3 -")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[2].Type != token.OPERATOR || toks[2].Literal != "-" {
		t.Fatalf("expected '-' operator, got %s %q", toks[2].Type, toks[2].Literal)
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  string
		line  int
	}{
		{"b12", "invalid digit", 1},
		{"print \"abc\nprint 1", "unterminated string", 1},
		{"x\n  $", "unexpected character", 2},
		{"#% never closed", "unterminated comment", 1},
		{"1__0", "underscores must separate digits", 1},
	}
	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		if err == nil {
			t.Fatalf("%q: expected error", tt.input)
		}
		var de *diag.Error
		if !errors.As(err, &de) {
			t.Fatalf("%q: expected *diag.Error, got %T", tt.input, err)
		}
		if !strings.Contains(de.Message, tt.want) {
			t.Fatalf("%q: expected message containing %q, got %q", tt.input, tt.want, de.Message)
		}
		if de.Line != tt.line {
			t.Fatalf("%q: expected line %d, got %d", tt.input, tt.line, de.Line)
		}
	}
}

func TestLexer_CommentsAndLines(t *testing.T) {
	input := "print 1 # trailing\n#% spans\nlines %#print 2\n'single'"
	toks, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, tok := range toks {
		got = append(got, string(tok.Type))
	}
	want := "PRINT INT NEWLINE PRINT INT NEWLINE STRING EOF"
	if strings.Join(got, " ") != want {
		t.Fatalf("expected %q, got %q", want, strings.Join(got, " "))
	}
	if toks[3].Line != 3 {
		t.Fatalf("expected second print on line 3, got %d", toks[3].Line)
	}
	if toks[6].Literal != "single" || toks[6].Line != 4 {
		t.Fatalf("unexpected string token %+v", toks[6])
	}
}

func TestLexer_Reclassification(t *testing.T) {
	tests := map[string]token.Type{
		"dup":   token.OPERATOR,
		"pack":  token.OPERATOR,
		"num":   token.TYPE,
		"any":   token.TYPE,
		"time":  token.INSTANCE,
		"input": token.INSTANCE,
		"if":    token.WHEN,
		"when":  token.WHEN,
		"bx":    token.IDENT,
		"b":     token.IDENT,
	}
	for in, want := range tests {
		tok := New(in).NextToken()
		if tok.Type != want {
			t.Fatalf("%q: expected %s, got %s", in, want, tok.Type)
		}
	}
}
