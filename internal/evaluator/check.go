package evaluator

import (
	"fmt"

	"glide/internal/ast"
	"glide/internal/diag"
	"glide/internal/token"
	"glide/internal/types"
)

var voidType = types.MustNew("void")

// Check runs the static checks that need no execution: duplicate
// functions, void declarations and literals that cannot match their
// declared type. The first problem found is returned.
func Check(prog *ast.Program) error {
	c := &checker{defs: map[string]*ast.Def{}}
	c.block(prog.Body)
	return c.err
}

type checker struct {
	defs map[string]*ast.Def
	err  error
}

func (c *checker) fail(tok token.Token, format string, args ...any) {
	if c.err != nil {
		return
	}
	c.err = &diag.Error{
		Phase:   diag.PhaseCompile,
		Code:    diag.CodeCompile,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Col:     tok.Col,
	}
}

func (c *checker) block(b *ast.Block) {
	for _, stmt := range b.Statements {
		if c.err != nil {
			return
		}
		c.stmt(stmt)
	}
}

func (c *checker) stmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.Block:
		c.block(s)
	case *ast.Loop:
		c.block(s.Body)
	case *ast.When:
		c.block(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}
	case *ast.Def:
		if prev, ok := c.defs[s.Name]; ok {
			c.fail(s.Token, "function %s is already defined at line %d", s.Name, prev.Token.Line)
			return
		}
		c.defs[s.Name] = s
		for _, p := range s.Params {
			if p.Type != nil && types.Equal(p.Type, voidType) {
				c.fail(p.Token, "parameter %s cannot be void", p.Name)
				return
			}
		}
		c.block(s.Body)
	case *ast.Make:
		if s.Type == nil {
			return
		}
		if types.Equal(s.Type, voidType) {
			c.fail(s.Token, "variable %s cannot be void", s.Name)
			return
		}
		if s.Value == nil || len(s.Value.Items) != 1 {
			return
		}
		if got := literalType(s.Value.Items[0]); got != nil && !s.Type.Accepts(got) {
			c.fail(s.Token, "type mismatch: %s expects %s, got %s", s.Name, s.Type, got)
		}
	}
}

func literalType(item ast.Item) *types.Type {
	switch n := item.(type) {
	case *ast.NumberLiteral:
		if n.IsFloat {
			return types.MustNew("float")
		}
		return types.MustNew("int")
	case *ast.StringLiteral:
		return types.MustNew("str")
	case *ast.BinaryLiteral:
		return types.MustNew("bin")
	}
	return nil
}
