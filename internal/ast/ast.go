package ast

import (
	"bytes"
	"math/big"
	"strconv"
	"strings"

	"glide/internal/numlit"
	"glide/internal/token"
	"glide/internal/types"
)

type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Token
}

// Statement is the closed set of executable statements.
type Statement interface {
	Node
	statementNode()
}

// Item is one step of a stack expression.
type Item interface {
	Node
	itemNode()
}

type Program struct {
	Body *Block
}

func (p *Program) TokenLiteral() string { return p.Body.TokenLiteral() }
func (p *Program) Pos() token.Token     { return p.Body.Token }
func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Body.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

/* -------------------- Statements -------------------- */

// Block owns one lexical scope. Synthetic blocks come from desugaring and
// have no braces in the source.
type Block struct {
	Token      token.Token
	Statements []Statement
	Synthetic  bool
}

func (*Block) statementNode()         {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) Pos() token.Token     { return b.Token }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for i, s := range b.Statements {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

type Print struct {
	Token token.Token
	Value *StackExpr
}

func (*Print) statementNode()         {}
func (p *Print) TokenLiteral() string { return p.Token.Literal }
func (p *Print) Pos() token.Token     { return p.Token }
func (p *Print) String() string       { return "print " + p.Value.String() }

// Make declares a variable. A nil Type means untyped, a nil Value leaves the
// variable uninitialized.
type Make struct {
	Token  token.Token
	Name   string
	Global bool
	Frozen bool
	Type   *types.Type
	Value  *StackExpr
}

func (*Make) statementNode()         {}
func (m *Make) TokenLiteral() string { return m.Token.Literal }
func (m *Make) Pos() token.Token     { return m.Token }
func (m *Make) String() string {
	var out bytes.Buffer
	out.WriteString("make ")
	if m.Global {
		out.WriteString("global ")
	}
	if m.Frozen {
		out.WriteString("frozen ")
	}
	out.WriteString(m.Name)
	if m.Type != nil {
		out.WriteString(": " + m.Type.String())
	}
	if m.Value != nil {
		out.WriteString(" = " + m.Value.String())
	}
	return out.String()
}

type Free struct {
	Token token.Token
	Name  string
}

func (*Free) statementNode()         {}
func (f *Free) TokenLiteral() string { return f.Token.Literal }
func (f *Free) Pos() token.Token     { return f.Token }
func (f *Free) String() string       { return "free " + f.Name }

// Loop is the counted loop.
type Loop struct {
	Token token.Token
	Count *StackExpr
	Body  *Block
}

func (*Loop) statementNode()         {}
func (l *Loop) TokenLiteral() string { return l.Token.Literal }
func (l *Loop) Pos() token.Token     { return l.Token }
func (l *Loop) String() string       { return "loop " + l.Count.String() + " " + l.Body.String() }

// When is a conditional. Looping re-tests Cond after each Then run. Else is
// nil, a *Block or a *When.
type When struct {
	Token   token.Token
	Cond    *StackExpr
	Then    *Block
	Else    Statement
	Looping bool
}

func (*When) statementNode()         {}
func (w *When) TokenLiteral() string { return w.Token.Literal }
func (w *When) Pos() token.Token     { return w.Token }
func (w *When) String() string {
	var out bytes.Buffer
	if w.Looping {
		out.WriteString("loop ")
	}
	out.WriteString("when " + w.Cond.String() + " " + w.Then.String())
	if w.Else != nil {
		out.WriteString(" else " + w.Else.String())
	}
	return out.String()
}

type Target int

const (
	TargetLoop Target = iota
	TargetFunc
)

// Exit leaves the nearest loop (no value) or returns from the enclosing
// function (with a value). The parser decides Target.
type Exit struct {
	Token  token.Token
	Value  *StackExpr
	Target Target
}

func (*Exit) statementNode()         {}
func (e *Exit) TokenLiteral() string { return e.Token.Literal }
func (e *Exit) Pos() token.Token     { return e.Token }
func (e *Exit) String() string {
	if e.Value == nil {
		return "exit"
	}
	return "exit " + e.Value.String()
}

type Next struct {
	Token token.Token
}

func (*Next) statementNode()         {}
func (n *Next) TokenLiteral() string { return n.Token.Literal }
func (n *Next) Pos() token.Token     { return n.Token }
func (n *Next) String() string       { return "next" }

type Param struct {
	Token token.Token
	Name  string
	Type  *types.Type
}

func (p *Param) String() string {
	if p.Type == nil {
		return p.Name
	}
	return p.Name + ": " + p.Type.String()
}

type Def struct {
	Token  token.Token
	Name   string
	Params []*Param
	Return *types.Type
	Body   *Block
}

func (*Def) statementNode()         {}
func (d *Def) TokenLiteral() string { return d.Token.Literal }
func (d *Def) Pos() token.Token     { return d.Token }
func (d *Def) String() string {
	params := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, p.String())
	}
	out := "def " + d.Name + "(" + strings.Join(params, ", ") + ")"
	if d.Return != nil {
		out += ": " + d.Return.String()
	}
	return out + " " + d.Body.String()
}

type Use struct {
	Token  token.Token
	Module string
}

func (*Use) statementNode()         {}
func (u *Use) TokenLiteral() string { return u.Token.Literal }
func (u *Use) Pos() token.Token     { return u.Token }
func (u *Use) String() string       { return "use " + u.Module }

// Replace defines a named operator standing for a fixed item sequence.
type Replace struct {
	Token token.Token
	Name  string
	Items []Item
}

func (*Replace) statementNode()         {}
func (r *Replace) TokenLiteral() string { return r.Token.Literal }
func (r *Replace) Pos() token.Token     { return r.Token }
func (r *Replace) String() string       { return "replace " + r.Name + " = " + itemsString(r.Items) }

// Assign stores Value into Target. Compound forms are already desugared.
type Assign struct {
	Token  token.Token
	Target *CallChain
	Value  *StackExpr
}

func (*Assign) statementNode()         {}
func (a *Assign) TokenLiteral() string { return a.Token.Literal }
func (a *Assign) Pos() token.Token     { return a.Token }
func (a *Assign) String() string       { return a.Target.String() + " = " + a.Value.String() }

// CallStmt calls a function for its effects; a missing result is fine here.
type CallStmt struct {
	Token token.Token
	Call  *FuncCall
}

func (*CallStmt) statementNode()         {}
func (c *CallStmt) TokenLiteral() string { return c.Token.Literal }
func (c *CallStmt) Pos() token.Token     { return c.Token }
func (c *CallStmt) String() string       { return c.Call.String() }

/* -------------------- Stack expressions -------------------- */

type StackExpr struct {
	Token token.Token
	Items []Item
}

func (s *StackExpr) TokenLiteral() string { return s.Token.Literal }
func (s *StackExpr) Pos() token.Token     { return s.Token }
func (s *StackExpr) String() string       { return itemsString(s.Items) }

func itemsString(items []Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.String())
	}
	return strings.Join(parts, " ")
}

type NumberLiteral struct {
	Token   token.Token
	Int     int64
	Float   float64
	IsFloat bool
}

func (*NumberLiteral) itemNode()              {}
func (n *NumberLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumberLiteral) Pos() token.Token     { return n.Token }
func (n *NumberLiteral) String() string {
	if n.IsFloat {
		return strconv.FormatFloat(n.Float, 'f', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (*StringLiteral) itemNode()              {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) Pos() token.Token     { return s.Token }
func (s *StringLiteral) String() string       { return strconv.Quote(s.Value) }

type BinaryLiteral struct {
	Token token.Token
	Value *big.Int
}

func (*BinaryLiteral) itemNode()              {}
func (b *BinaryLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryLiteral) Pos() token.Token     { return b.Token }
func (b *BinaryLiteral) String() string       { return numlit.FormatBinary(b.Value) }

// Operator names a built-in stack operator or cast.
type Operator struct {
	Token token.Token
	Name  string
}

func (*Operator) itemNode()              {}
func (o *Operator) TokenLiteral() string { return o.Token.Literal }
func (o *Operator) Pos() token.Token     { return o.Token }
func (o *Operator) String() string       { return o.Name }

// AliasOp is a use of an operator defined with replace.
type AliasOp struct {
	Token token.Token
	Name  string
	Items []Item
}

func (*AliasOp) itemNode()              {}
func (a *AliasOp) TokenLiteral() string { return a.Token.Literal }
func (a *AliasOp) Pos() token.Token     { return a.Token }
func (a *AliasOp) String() string       { return a.Name }

type Fence struct {
	Token token.Token
}

func (*Fence) itemNode()              {}
func (f *Fence) TokenLiteral() string { return f.Token.Literal }
func (f *Fence) Pos() token.Token     { return f.Token }
func (f *Fence) String() string       { return "," }

// Accessor is one .key or [index] step of a call chain.
type Accessor struct {
	Token token.Token
	Key   string
	Index *StackExpr
}

func (a *Accessor) String() string {
	if a.Index != nil {
		return "[" + a.Index.String() + "]"
	}
	return "." + a.Key
}

type CallChain struct {
	Token     token.Token
	Name      string
	Accessors []*Accessor
}

func (*CallChain) itemNode()              {}
func (c *CallChain) TokenLiteral() string { return c.Token.Literal }
func (c *CallChain) Pos() token.Token     { return c.Token }
func (c *CallChain) String() string {
	var out bytes.Buffer
	out.WriteString(c.Name)
	for _, a := range c.Accessors {
		out.WriteString(a.String())
	}
	return out.String()
}

// FuncCall has either Args (possibly empty) or Iterate set.
type FuncCall struct {
	Token   token.Token
	Name    string
	Args    *StackExpr
	Iterate *CallChain
}

func (*FuncCall) itemNode()              {}
func (f *FuncCall) TokenLiteral() string { return f.Token.Literal }
func (f *FuncCall) Pos() token.Token     { return f.Token }
func (f *FuncCall) String() string {
	if f.Iterate != nil {
		return f.Name + "(@" + f.Iterate.String() + ")"
	}
	if f.Args == nil {
		return f.Name + "()"
	}
	return f.Name + "(" + f.Args.String() + ")"
}
