package lsp

import "glide/internal/token"

// semantic token type indices (must match legend order in server)
const (
	ttKeyword   = 0
	ttString    = 1
	ttNumber    = 2
	ttOperator  = 3
	ttFunction  = 4
	ttVariable  = 5
	ttParameter = 6
	ttType      = 7
)

const (
	modDecl     = 1 << 0
	modReadonly = 1 << 1
)

// TokenTypes is the legend the server advertises.
var TokenTypes = []string{"keyword", "string", "number", "operator", "function", "variable", "parameter", "type"}

// TokenModifiers is the modifier legend, in bit order.
var TokenModifiers = []string{"declaration", "readonly"}

type SemTok struct {
	Line   int
	Col    int
	Length int
	Type   int
	Mods   int
}

// Classify colours a token by its lexical class alone.
func Classify(tok token.Token) (int, int, bool) {
	switch tok.Type {
	case token.STRING:
		return ttString, 0, true
	case token.INT, token.FLOAT, token.BIN:
		return ttNumber, 0, true
	case token.TYPE:
		return ttType, 0, true
	case token.OPERATOR, token.ASSIGN, token.COMPOUND, token.INCR, token.DECR, token.FENCE, token.AT:
		return ttOperator, 0, true
	case token.INSTANCE:
		return ttVariable, modReadonly, true
	case token.IDENT:
		return ttVariable, 0, true
	}
	if token.IsKeyword(tok.Type) {
		return ttKeyword, 0, true
	}
	return 0, 0, false
}
