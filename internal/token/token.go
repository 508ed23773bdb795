package token

type Type string

type Token struct {
	Type    Type
	Literal string
	// Raw preserves the original lexeme when Literal is normalized (numbers, strings).
	Raw  string
	Line int
	Col  int
}

const (
	// Special
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Separators
	NEWLINE   Type = "NEWLINE"
	SEMICOLON Type = ";"

	// Identifiers + literals
	IDENT  Type = "IDENT"
	INT    Type = "INT"
	FLOAT  Type = "FLOAT"
	BIN    Type = "BIN"
	STRING Type = "STRING"

	// Reclassified identifiers. Literal carries the name.
	TYPE     Type = "TYPE"
	OPERATOR Type = "OPERATOR"
	INSTANCE Type = "INSTANCE"

	// Keywords
	PRINT   Type = "PRINT"
	MAKE    Type = "MAKE"
	FREE    Type = "FREE"
	LOOP    Type = "LOOP"
	WHEN    Type = "WHEN"
	ELSE    Type = "ELSE"
	EXIT    Type = "EXIT"
	NEXT    Type = "NEXT"
	DEF     Type = "DEF"
	USE     Type = "USE"
	REPLACE Type = "REPLACE"
	WITH    Type = "WITH"
	GLOBAL  Type = "GLOBAL"
	FROZEN  Type = "FROZEN"
	TRUE    Type = "TRUE"
	FALSE   Type = "FALSE"

	// Assignment
	ASSIGN   Type = "="
	COMPOUND Type = "COMPOUND" // += -= *= /= %= ^=
	INCR     Type = "++"
	DECR     Type = "--"

	// Delimiters
	FENCE    Type = ","
	COLON    Type = ":"
	DOT      Type = "."
	PIPE     Type = "|"
	AT       Type = "@"
	LPAREN   Type = "("
	RPAREN   Type = ")"
	LBRACKET Type = "["
	RBRACKET Type = "]"
	LBRACE   Type = "{"
	RBRACE   Type = "}"
)

var keywords = map[string]Type{
	"print":   PRINT,
	"make":    MAKE,
	"free":    FREE,
	"loop":    LOOP,
	"when":    WHEN,
	"if":      WHEN,
	"else":    ELSE,
	"exit":    EXIT,
	"next":    NEXT,
	"def":     DEF,
	"use":     USE,
	"replace": REPLACE,
	"with":    WITH,
	"global":  GLOBAL,
	"frozen":  FROZEN,
	"true":    TRUE,
	"false":   FALSE,
}

// TypeNames are the names accepted in type signatures. The concrete ones
// double as cast operators inside stack expressions.
var TypeNames = map[string]bool{
	"void":  true,
	"int":   true,
	"float": true,
	"bin":   true,
	"str":   true,
	"list":  true,
	"obj":   true,
	"dec":   true,
	"num":   true,
	"any":   true,
}

// OperatorNames are the word-shaped stack operators. Symbolic operators are
// produced directly by the lexer with type OPERATOR.
var OperatorNames = map[string]bool{
	"dup":    true,
	"swap":   true,
	"drop":   true,
	"over":   true,
	"pop":    true,
	"rotl":   true,
	"rotr":   true,
	"size":   true,
	"spill":  true,
	"rand":   true,
	"pack":   true,
	"and":    true,
	"or":     true,
	"not":    true,
	"neg":    true,
	"abs":    true,
	"len":    true,
	"typeof": true,
}

// InstanceNames are reserved read-only variables whose value is computed on read.
var InstanceNames = map[string]bool{
	"time":  true,
	"input": true,
}

func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if TypeNames[ident] {
		return TYPE
	}
	if OperatorNames[ident] {
		return OPERATOR
	}
	if InstanceNames[ident] {
		return INSTANCE
	}
	return IDENT
}

// IsKeyword reports whether t is one of the statement keywords.
func IsKeyword(t Type) bool {
	for _, k := range keywords {
		if k == t {
			return true
		}
	}
	return false
}

// Keywords returns the keyword spellings, used by completion.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}
