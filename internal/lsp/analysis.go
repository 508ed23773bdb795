package lsp

import (
	"errors"

	"github.com/tliron/commonlog"

	"glide/internal/ast"
	"glide/internal/diag"
	"glide/internal/evaluator"
	"glide/internal/lexer"
	"glide/internal/parser"
	"glide/internal/token"
)

var log = commonlog.GetLogger("glide.lsp")

type SymbolKind int

const (
	SymVar SymbolKind = iota
	SymParam
	SymFunc
	SymAlias
)

// Symbol is one declaration found in a document. Line and Col locate the
// declared name. Owner is the function whose body holds the declaration.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Line   int
	Col    int
	Detail string
	Owner  *Symbol

	// body extent, functions only
	start, end Pos
}

func (s *Symbol) contains(p Pos) bool {
	return s.end.Line > 0 && posWithin(p, s.start, s.end)
}

// Analysis is everything the server derives from one document version.
type Analysis struct {
	Program     *ast.Program
	Tokens      []token.Token
	Diagnostics []diag.Diagnostic
	Symbols     []*Symbol
}

// Analyze lexes, parses and checks text. Parse problems become diagnostics;
// whatever was parsed before the first error is still indexed.
func Analyze(text string) *Analysis {
	an := &Analysis{}
	lx := lexer.New(text)
	for {
		tok := lx.NextToken()
		if tok.Type == token.EOF || tok.Type == token.ILLEGAL {
			break
		}
		an.Tokens = append(an.Tokens, tok)
	}

	p := parser.New(lexer.New(text))
	an.Program = p.ParseProgram()
	an.Diagnostics = append(an.Diagnostics, p.Diagnostics()...)
	an.Diagnostics = append(an.Diagnostics, p.Warnings()...)
	if p.Err() == nil {
		if err := evaluator.Check(an.Program); err != nil {
			var de *diag.Error
			if errors.As(err, &de) {
				an.Diagnostics = append(an.Diagnostics, de.Diagnostic())
			}
		}
	}
	log.Debugf("analyzed document: %d tokens, %d diagnostics", len(an.Tokens), len(an.Diagnostics))

	if an.Program != nil {
		an.block(an.Program.Body, nil)
	}
	return an
}

func (an *Analysis) block(b *ast.Block, owner *Symbol) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		an.stmt(stmt, owner)
	}
}

func (an *Analysis) stmt(stmt ast.Statement, owner *Symbol) {
	switch s := stmt.(type) {
	case *ast.Block:
		an.block(s, owner)
	case *ast.Loop:
		an.block(s.Body, owner)
	case *ast.When:
		an.block(s.Then, owner)
		if s.Else != nil {
			an.stmt(s.Else, owner)
		}
	case *ast.Make:
		an.declare(s.Token, s.Name, SymVar, s.String(), owner)
	case *ast.Replace:
		an.declare(s.Token, s.Name, SymAlias, s.String(), owner)
	case *ast.Def:
		fn := an.declare(s.Token, s.Name, SymFunc, signature(s), nil)
		if fn != nil {
			fn.start, fn.end = an.bodyExtent(s.Token)
		}
		for _, p := range s.Params {
			an.declare(p.Token, p.Name, SymParam, p.String(), fn)
		}
		an.block(s.Body, fn)
	}
}

func signature(d *ast.Def) string {
	if d.Body == nil {
		return "def " + d.Name
	}
	out := d.String()
	if i := len(out) - len(d.Body.String()); i > 0 {
		out = out[:i-1]
	}
	return out
}

// declare records name at the first matching identifier at or after tok.
func (an *Analysis) declare(tok token.Token, name string, kind SymbolKind, detail string, owner *Symbol) *Symbol {
	at := Pos{Line: tok.Line, Col: tok.Col}
	for _, t := range an.Tokens {
		if t.Type != token.IDENT || t.Literal != name || !posLessEq(at, Pos{Line: t.Line, Col: t.Col}) {
			continue
		}
		sym := &Symbol{Name: name, Kind: kind, Line: t.Line, Col: t.Col, Detail: detail, Owner: owner}
		an.Symbols = append(an.Symbols, sym)
		return sym
	}
	return nil
}

// bodyExtent finds the braces of the body following a def token.
func (an *Analysis) bodyExtent(def token.Token) (Pos, Pos) {
	at := Pos{Line: def.Line, Col: def.Col}
	depth := 0
	var start Pos
	for _, t := range an.Tokens {
		if !posLessEq(at, Pos{Line: t.Line, Col: t.Col}) {
			continue
		}
		switch t.Type {
		case token.LBRACE:
			if depth == 0 {
				start = Pos{Line: t.Line, Col: t.Col}
			}
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				return start, Pos{Line: t.Line, Col: t.Col}
			}
		}
	}
	return start, Pos{}
}

// Resolve returns the declaration a use of name at p refers to: the latest
// visible variable, parameter or operator before p, else the function.
func (an *Analysis) Resolve(name string, p Pos) *Symbol {
	var best, fn *Symbol
	for _, s := range an.Symbols {
		if s.Name != name {
			continue
		}
		if s.Kind == SymFunc {
			if fn == nil {
				fn = s
			}
			continue
		}
		if !posLessEq(Pos{Line: s.Line, Col: s.Col}, p) {
			continue
		}
		if s.Owner != nil && !s.Owner.contains(p) {
			continue
		}
		best = s
	}
	if best != nil {
		return best
	}
	return fn
}

// TokenAt returns the token under p.
func (an *Analysis) TokenAt(p Pos) (token.Token, bool) {
	for _, t := range an.Tokens {
		if t.Line != p.Line || t.Type == token.NEWLINE {
			continue
		}
		if p.Col >= t.Col && p.Col < t.Col+max(1, tokenLength(t)) {
			return t, true
		}
	}
	return token.Token{}, false
}

func tokenLength(t token.Token) int {
	if t.Raw != "" {
		return len(t.Raw)
	}
	return len(t.Literal)
}
