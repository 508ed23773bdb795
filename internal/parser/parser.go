package parser

import (
	"fmt"
	"strconv"

	"github.com/tliron/commonlog"

	"glide/internal/ast"
	"glide/internal/diag"
	"glide/internal/lexer"
	"glide/internal/numlit"
	"glide/internal/stackops"
	"glide/internal/token"
	"glide/internal/types"
)

var log = commonlog.GetLogger("glide.parser")

// ctx is one entry of the loop/function nesting stack used to validate exit
// and next.
type ctx int

const (
	ctxLoop ctx = iota
	ctxFunc
)

// Parser is single pass with one token of lookahead. It stops at the first
// error; Err, Errors and Diagnostics all describe that one error.
type Parser struct {
	l        *lexer.Lexer
	errors   []string
	diags    []diag.Diagnostic
	warnings []diag.Diagnostic
	err      *diag.Error

	curToken  token.Token
	peekToken token.Token

	depth   int
	defloop []ctx
	aliases map[string][]ast.Item
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:       l,
		errors:  []string{},
		diags:   []diag.Diagnostic{},
		aliases: map[string][]ast.Item{},
	}

	// read two tokens, so cur and peek are set
	p.nextToken()
	p.nextToken()
	return p
}

// WithAliases seeds the alias table, so operators defined by earlier input
// (REPL lines, loaded modules) are recognised.
func (p *Parser) WithAliases(aliases map[string][]ast.Item) *Parser {
	for name, items := range aliases {
		p.aliases[name] = items
	}
	return p
}

// Aliases returns every replace operator known after parsing.
func (p *Parser) Aliases() map[string][]ast.Item { return p.aliases }

func (p *Parser) Diagnostics() []diag.Diagnostic { return p.diags }
func (p *Parser) Errors() []string               { return p.errors }
func (p *Parser) Warnings() []diag.Diagnostic    { return p.warnings }

// Err returns the fatal error that stopped parsing, or nil.
func (p *Parser) Err() error {
	if p.err == nil {
		return nil
	}
	return p.err
}

// Parse lexes and parses src in one step.
func Parse(src string, aliases map[string][]ast.Item) (*ast.Program, *Parser, error) {
	p := New(lexer.New(src)).WithAliases(aliases)
	prog := p.ParseProgram()
	if err := p.Err(); err != nil {
		return nil, p, err
	}
	return prog, p, nil
}

/* -------------------- program -------------------- */

func (p *Parser) ParseProgram() *ast.Program {
	body := &ast.Block{
		Token:     token.Token{Type: token.LBRACE, Literal: "{", Line: 1, Col: 1},
		Synthetic: true,
	}
	program := &ast.Program{Body: body}

	for !p.failed() && p.curToken.Type != token.EOF {
		if p.isSeparator(p.curToken.Type) {
			p.nextToken()
			continue
		}
		if p.curToken.Type == token.RBRACE {
			p.errorAt(p.curToken, "unexpected } with no open block")
			break
		}

		stmt := p.parseStatement()
		if stmt == nil {
			break
		}
		body.Statements = append(body.Statements, stmt)
		if !p.endStatement() {
			break
		}
		p.nextToken()
	}

	return program
}

/* -------------------- statements -------------------- */

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.PRINT:
		return p.parsePrint()
	case token.MAKE:
		return p.parseMake()
	case token.FREE:
		return p.parseFree()
	case token.LOOP:
		return p.parseLoop()
	case token.WHEN:
		return p.parseWhen(false)
	case token.EXIT:
		return p.parseExit()
	case token.NEXT:
		return p.parseNext()
	case token.DEF:
		return p.parseDef()
	case token.USE:
		return p.parseUse()
	case token.REPLACE:
		return p.parseReplace()
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			tok := p.curToken
			call := p.parseFuncCall()
			if call == nil {
				return nil
			}
			return &ast.CallStmt{Token: tok, Call: call}
		}
		return p.parseAssign()
	case token.INSTANCE:
		p.errorAt(p.curToken, fmt.Sprintf("cannot assign to %s: it is read-only", p.curToken.Literal))
		return nil
	}
	p.errorAt(p.curToken, fmt.Sprintf("unexpected %s at start of statement", describe(p.curToken)))
	return nil
}

func (p *Parser) parsePrint() ast.Statement {
	stmt := &ast.Print{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseStackExpr()
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseMake() ast.Statement {
	stmt := &ast.Make{Token: p.curToken}
	if p.peekTokenIs(token.GLOBAL) {
		p.nextToken()
		stmt.Global = true
		if p.depth == 0 {
			p.warnAt(p.curToken, diag.CodeGlobal, "redundant global: declarations at the top level are already global")
		}
	}
	if p.peekTokenIs(token.FROZEN) {
		p.nextToken()
		stmt.Frozen = true
	}
	p.nextToken()
	if !p.checkDeclarable(p.curToken) {
		return nil
	}
	stmt.Name = p.curToken.Literal

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.Type = p.parseType()
		if stmt.Type == nil {
			return nil
		}
	}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseStackExpr()
		if stmt.Value == nil {
			return nil
		}
	} else if stmt.Frozen {
		p.errorAt(stmt.Token, fmt.Sprintf("frozen variable %s needs an initial value", stmt.Name))
		return nil
	}
	return stmt
}

func (p *Parser) parseFree() ast.Statement {
	stmt := &ast.Free{Token: p.curToken}
	p.nextToken()
	if !p.checkDeclarable(p.curToken) {
		return nil
	}
	stmt.Name = p.curToken.Literal
	return stmt
}

func (p *Parser) parseLoop() ast.Statement {
	tok := p.curToken
	if p.peekTokenIs(token.WHEN) {
		p.nextToken()
		p.nextToken()
		cond := p.parseStackExpr()
		if cond == nil || !p.expectPeek(token.LBRACE) {
			return nil
		}
		body := p.parseLoopBody()
		if body == nil {
			return nil
		}
		return &ast.When{Token: tok, Cond: cond, Then: body, Looping: true}
	}

	p.nextToken()
	count := p.parseStackExpr()
	if count == nil {
		return nil
	}

	var counter token.Token
	if p.peekTokenIs(token.WITH) {
		p.nextToken()
		p.nextToken()
		if !p.checkDeclarable(p.curToken) {
			return nil
		}
		counter = p.curToken
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseLoopBody()
	if body == nil {
		return nil
	}
	if counter.Literal == "" {
		return &ast.Loop{Token: tok, Count: count, Body: body}
	}
	return desugarCountedLoop(tok, counter, count, body)
}

func (p *Parser) parseLoopBody() *ast.Block {
	p.defloop = append(p.defloop, ctxLoop)
	defer func() { p.defloop = p.defloop[:len(p.defloop)-1] }()
	return p.parseBlock()
}

// desugarCountedLoop rewrites `loop N with i { body }` into
//
//	{ make i = -1; loop when i 1 + N < { i = i 1 +; { body } } }
func desugarCountedLoop(tok, counter token.Token, count *ast.StackExpr, body *ast.Block) ast.Statement {
	name := counter.Literal
	ref := func() ast.Item { return &ast.CallChain{Token: counter, Name: name} }
	num := func(v int64) ast.Item { return &ast.NumberLiteral{Token: counter, Int: v} }
	op := func(o string) ast.Item { return &ast.Operator{Token: counter, Name: o} }

	condItems := []ast.Item{ref(), num(1), op("+")}
	condItems = append(condItems, count.Items...)
	condItems = append(condItems, op("<"))

	step := &ast.Assign{
		Token:  counter,
		Target: &ast.CallChain{Token: counter, Name: name},
		Value:  &ast.StackExpr{Token: counter, Items: []ast.Item{ref(), num(1), op("+")}},
	}
	return &ast.Block{
		Token:     tok,
		Synthetic: true,
		Statements: []ast.Statement{
			&ast.Make{Token: counter, Name: name, Value: &ast.StackExpr{Token: counter, Items: []ast.Item{num(-1)}}},
			&ast.When{
				Token:   tok,
				Cond:    &ast.StackExpr{Token: count.Token, Items: condItems},
				Then:    &ast.Block{Token: body.Token, Synthetic: true, Statements: []ast.Statement{step, body}},
				Looping: true,
			},
		},
	}
}

func (p *Parser) parseWhen(looping bool) ast.Statement {
	stmt := &ast.When{Token: p.curToken, Looping: looping}
	p.nextToken()
	stmt.Cond = p.parseStackExpr()
	if stmt.Cond == nil || !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Then = p.parseBlock()
	if stmt.Then == nil {
		return nil
	}
	if !p.peekTokenIs(token.ELSE) {
		return stmt
	}
	p.nextToken()
	if p.peekTokenIs(token.WHEN) {
		p.nextToken()
		stmt.Else = p.parseWhen(false)
		if stmt.Else == nil {
			return nil
		}
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	elseBlock := p.parseBlock()
	if elseBlock == nil {
		return nil
	}
	stmt.Else = elseBlock
	return stmt
}

func (p *Parser) parseExit() ast.Statement {
	stmt := &ast.Exit{Token: p.curToken}
	if isItemStart(p.peekToken.Type) {
		if !p.insideFunc() {
			p.errorAt(stmt.Token, "exit with a value outside a function")
			return nil
		}
		p.nextToken()
		stmt.Value = p.parseStackExpr()
		if stmt.Value == nil {
			return nil
		}
		stmt.Target = ast.TargetFunc
		return stmt
	}
	switch p.nearest() {
	case ctxLoop:
		stmt.Target = ast.TargetLoop
		return stmt
	case ctxFunc:
		p.errorAt(stmt.Token, "exit without a value cannot leave a function")
	default:
		p.errorAt(stmt.Token, "exit outside a loop or function")
	}
	return nil
}

func (p *Parser) parseNext() ast.Statement {
	if p.nearest() != ctxLoop {
		p.errorAt(p.curToken, "next outside a loop")
		return nil
	}
	return &ast.Next{Token: p.curToken}
}

func (p *Parser) parseDef() ast.Statement {
	stmt := &ast.Def{Token: p.curToken}
	if p.depth != 0 {
		p.errorAt(stmt.Token, "functions can only be defined at the top level")
		return nil
	}
	p.nextToken()
	if !p.checkDeclarable(p.curToken) {
		return nil
	}
	stmt.Name = p.curToken.Literal
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	seen := map[string]bool{}
	for !p.peekTokenIs(token.RPAREN) {
		if len(stmt.Params) > 0 && !p.expectPeek(token.FENCE) {
			return nil
		}
		p.nextToken()
		if !p.checkDeclarable(p.curToken) {
			return nil
		}
		param := &ast.Param{Token: p.curToken, Name: p.curToken.Literal}
		if seen[param.Name] {
			p.errorAt(p.curToken, fmt.Sprintf("duplicate parameter %s", param.Name))
			return nil
		}
		seen[param.Name] = true
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseType()
			if param.Type == nil {
				return nil
			}
		}
		stmt.Params = append(stmt.Params, param)
	}
	p.nextToken()

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		stmt.Return = p.parseType()
		if stmt.Return == nil {
			return nil
		}
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	p.defloop = append(p.defloop, ctxFunc)
	stmt.Body = p.parseBlock()
	p.defloop = p.defloop[:len(p.defloop)-1]
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseUse() ast.Statement {
	stmt := &ast.Use{Token: p.curToken}
	p.nextToken()
	switch p.curToken.Type {
	case token.IDENT, token.STRING:
		stmt.Module = p.curToken.Literal
	default:
		p.errorAt(p.curToken, fmt.Sprintf("expected module name after use, got %s", describe(p.curToken)))
		return nil
	}
	if stmt.Module == "" {
		p.errorAt(p.curToken, "empty module name")
		return nil
	}
	return stmt
}

func (p *Parser) parseReplace() ast.Statement {
	stmt := &ast.Replace{Token: p.curToken}
	p.nextToken()
	if p.curToken.Type != token.IDENT {
		p.checkDeclarable(p.curToken)
		return nil
	}
	if _, exists := p.aliases[p.curToken.Literal]; exists {
		p.errorAt(p.curToken, fmt.Sprintf("operator %s is already defined", p.curToken.Literal))
		return nil
	}
	stmt.Name = p.curToken.Literal
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	expr := p.parseStackExpr()
	if expr == nil {
		return nil
	}
	for _, it := range expr.Items {
		switch it.(type) {
		case *ast.NumberLiteral, *ast.StringLiteral, *ast.BinaryLiteral, *ast.Operator, *ast.AliasOp, *ast.Fence:
		default:
			p.errorAt(it.Pos(), fmt.Sprintf("replace %s: only literals, operators and fences are allowed, got %s", stmt.Name, it.String()))
			return nil
		}
	}
	stmt.Items = expr.Items
	p.aliases[stmt.Name] = expr.Items
	return stmt
}

func (p *Parser) parseAssign() ast.Statement {
	if _, isAlias := p.aliases[p.curToken.Literal]; isAlias {
		p.errorAt(p.curToken, fmt.Sprintf("cannot assign to operator %s", p.curToken.Literal))
		return nil
	}
	target := p.parseCallChain()
	if target == nil {
		return nil
	}
	stmt := &ast.Assign{Token: target.Token, Target: target}

	switch p.peekToken.Type {
	case token.ASSIGN:
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseStackExpr()
		if stmt.Value == nil {
			return nil
		}
	case token.COMPOUND:
		p.nextToken()
		opTok := p.curToken
		p.nextToken()
		rhs := p.parseStackExpr()
		if rhs == nil {
			return nil
		}
		op := opTok.Literal[:len(opTok.Literal)-1]
		items := []ast.Item{target}
		items = append(items, rhs.Items...)
		items = append(items, &ast.Operator{Token: opTok, Name: op})
		stmt.Value = &ast.StackExpr{Token: target.Token, Items: items}
	case token.INCR, token.DECR:
		p.nextToken()
		op := "+"
		if p.curToken.Type == token.DECR {
			op = "-"
		}
		stmt.Value = &ast.StackExpr{Token: target.Token, Items: []ast.Item{
			target,
			&ast.NumberLiteral{Token: p.curToken, Int: 1},
			&ast.Operator{Token: p.curToken, Name: op},
		}}
	default:
		p.errorAt(p.peekToken, fmt.Sprintf("expected assignment or call after %s, got %s", target.String(), describe(p.peekToken)))
		return nil
	}
	return stmt
}

/* -------------------- blocks -------------------- */

// parseBlock expects curToken on '{' and leaves it on the matching '}'.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Token: p.curToken}
	p.depth++
	defer func() { p.depth-- }()

	p.nextToken()
	for !p.failed() {
		for p.isSeparator(p.curToken.Type) {
			p.nextToken()
		}
		switch p.curToken.Type {
		case token.RBRACE:
			return block
		case token.EOF:
			p.errorAt(block.Token, fmt.Sprintf("missing } for block opened at line %d", block.Token.Line))
			return nil
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
		if !p.endStatement() {
			return nil
		}
		p.nextToken()
	}
	return nil
}

// endStatement checks that a statement is followed by a separator, a closing
// brace or the end of input.
func (p *Parser) endStatement() bool {
	if p.failed() {
		return false
	}
	switch p.peekToken.Type {
	case token.NEWLINE, token.SEMICOLON, token.RBRACE, token.EOF:
		return true
	}
	p.errorAt(p.peekToken, fmt.Sprintf("expected end of statement, got %s", describe(p.peekToken)))
	return false
}

/* -------------------- stack expressions -------------------- */

func isItemStart(t token.Type) bool {
	switch t {
	case token.INT, token.FLOAT, token.BIN, token.STRING, token.TRUE, token.FALSE,
		token.OPERATOR, token.TYPE, token.FENCE, token.IDENT, token.INSTANCE:
		return true
	}
	return false
}

// parseStackExpr expects curToken on the first item and leaves it on the last.
func (p *Parser) parseStackExpr() *ast.StackExpr {
	if !isItemStart(p.curToken.Type) {
		p.errorAt(p.curToken, fmt.Sprintf("expected expression, got %s", describe(p.curToken)))
		return nil
	}
	expr := &ast.StackExpr{Token: p.curToken}
	for {
		item := p.parseItem()
		if item == nil {
			return nil
		}
		expr.Items = append(expr.Items, item)
		if !isItemStart(p.peekToken.Type) {
			return expr
		}
		p.nextToken()
	}
}

func (p *Parser) parseItem() ast.Item {
	tok := p.curToken
	switch tok.Type {
	case token.INT:
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			p.errorAt(tok, fmt.Sprintf("integer literal %s is out of range", tok.Raw))
			return nil
		}
		return &ast.NumberLiteral{Token: tok, Int: v}
	case token.FLOAT:
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorAt(tok, fmt.Sprintf("could not parse %s as float", tok.Raw))
			return nil
		}
		return &ast.NumberLiteral{Token: tok, Float: v, IsFloat: true}
	case token.BIN:
		v, err := numlit.ParseBinary(tok.Literal)
		if err != nil {
			p.errorAt(tok, err.Error())
			return nil
		}
		return &ast.BinaryLiteral{Token: tok, Value: v}
	case token.STRING:
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case token.TRUE:
		return &ast.NumberLiteral{Token: tok, Int: 1}
	case token.FALSE:
		return &ast.NumberLiteral{Token: tok, Int: 0}
	case token.FENCE:
		return &ast.Fence{Token: tok}
	case token.OPERATOR, token.TYPE:
		if _, ok := stackops.Lookup(tok.Literal); !ok {
			p.errorAt(tok, fmt.Sprintf("%s is not an operator", tok.Literal))
			return nil
		}
		return &ast.Operator{Token: tok, Name: tok.Literal}
	case token.IDENT:
		if p.peekTokenIs(token.LPAREN) {
			if call := p.parseFuncCall(); call != nil {
				return call
			}
			return nil
		}
		if items, ok := p.aliases[tok.Literal]; ok {
			return &ast.AliasOp{Token: tok, Name: tok.Literal, Items: items}
		}
		if chain := p.parseCallChain(); chain != nil {
			return chain
		}
		return nil
	case token.INSTANCE:
		if chain := p.parseCallChain(); chain != nil {
			return chain
		}
		return nil
	}
	p.errorAt(tok, fmt.Sprintf("unexpected %s in expression", describe(tok)))
	return nil
}

func (p *Parser) parseCallChain() *ast.CallChain {
	chain := &ast.CallChain{Token: p.curToken, Name: p.curToken.Literal}
	for {
		switch p.peekToken.Type {
		case token.DOT:
			p.nextToken()
			p.nextToken()
			switch p.curToken.Type {
			case token.IDENT, token.TYPE, token.OPERATOR, token.INSTANCE:
			default:
				p.errorAt(p.curToken, fmt.Sprintf("expected key after '.', got %s", describe(p.curToken)))
				return nil
			}
			chain.Accessors = append(chain.Accessors, &ast.Accessor{Token: p.curToken, Key: p.curToken.Literal})
		case token.LBRACKET:
			p.nextToken()
			acc := &ast.Accessor{Token: p.curToken}
			p.nextToken()
			acc.Index = p.parseStackExpr()
			if acc.Index == nil || !p.expectPeek(token.RBRACKET) {
				return nil
			}
			chain.Accessors = append(chain.Accessors, acc)
		default:
			return chain
		}
	}
}

// parseFuncCall expects curToken on the name with '(' as peek.
func (p *Parser) parseFuncCall() *ast.FuncCall {
	call := &ast.FuncCall{Token: p.curToken, Name: p.curToken.Literal}
	p.nextToken()
	switch {
	case p.peekTokenIs(token.RPAREN):
		call.Args = &ast.StackExpr{Token: p.curToken}
	case p.peekTokenIs(token.AT):
		p.nextToken()
		p.nextToken()
		if p.curToken.Type != token.IDENT && p.curToken.Type != token.INSTANCE {
			p.errorAt(p.curToken, fmt.Sprintf("expected a list after '@', got %s", describe(p.curToken)))
			return nil
		}
		call.Iterate = p.parseCallChain()
		if call.Iterate == nil {
			return nil
		}
	default:
		p.nextToken()
		call.Args = p.parseStackExpr()
		if call.Args == nil {
			return nil
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return call
}

/* -------------------- types -------------------- */

// parseType expects curToken on the first term and leaves it on the last.
func (p *Parser) parseType() *types.Type {
	var terms []*types.Type
	for {
		term := p.parseTypeTerm()
		if term == nil {
			return nil
		}
		terms = append(terms, term)
		if !p.peekTokenIs(token.PIPE) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	return types.Union(terms...)
}

func (p *Parser) parseTypeTerm() *types.Type {
	switch p.curToken.Type {
	case token.TYPE:
		t, err := types.New(p.curToken.Literal)
		if err != nil {
			p.errorAt(p.curToken, err.Error())
			return nil
		}
		return t
	case token.LBRACKET:
		p.nextToken()
		inner := p.parseType()
		if inner == nil || !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return types.ListOf(inner)
	}
	p.errorAt(p.curToken, fmt.Sprintf("expected type, got %s", describe(p.curToken)))
	return nil
}

/* -------------------- checks -------------------- */

// checkDeclarable reports an error when tok cannot name a variable, parameter
// or function.
func (p *Parser) checkDeclarable(tok token.Token) bool {
	var msg string
	switch {
	case tok.Type == token.IDENT:
		if _, ok := p.aliases[tok.Literal]; !ok {
			return true
		}
		msg = fmt.Sprintf("cannot use %s as a name: it is an operator", tok.Literal)
	case tok.Type == token.TYPE:
		msg = fmt.Sprintf("cannot use %s as a name: it is a type", tok.Literal)
	case tok.Type == token.OPERATOR:
		msg = fmt.Sprintf("cannot use %s as a name: it is an operator", tok.Literal)
	case tok.Type == token.INSTANCE:
		msg = fmt.Sprintf("cannot use %s as a name: it is a built-in variable", tok.Literal)
	case token.IsKeyword(tok.Type):
		msg = fmt.Sprintf("cannot use %s as a name: it is a reserved word", tok.Literal)
	default:
		msg = fmt.Sprintf("expected a name, got %s", describe(tok))
	}
	p.errorAt(tok, msg)
	return false
}

func (p *Parser) nearest() ctx {
	if len(p.defloop) == 0 {
		return -1
	}
	return p.defloop[len(p.defloop)-1]
}

func (p *Parser) insideFunc() bool {
	for _, c := range p.defloop {
		if c == ctxFunc {
			return true
		}
	}
	return false
}

/* -------------------- helpers -------------------- */

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if p.peekToken.Type == token.ILLEGAL && !p.failed() {
		p.record(p.peekToken, diag.CodeLex, p.peekToken.Literal)
	}
}

func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) failed() bool { return p.err != nil }

func (p *Parser) errorAt(tok token.Token, msg string) {
	p.record(tok, diag.CodeParse, msg)
}

// record keeps only the first error.
func (p *Parser) record(tok token.Token, code, msg string) {
	if p.failed() {
		return
	}
	length := 1
	if tok.Type != token.ILLEGAL && tok.Literal != "" {
		length = len([]rune(tok.Literal))
	}
	p.diags = append(p.diags, diag.Diagnostic{
		Code:     code,
		Message:  msg,
		Severity: diag.SeverityError,
		Range: diag.Range{
			Line:   tok.Line,
			Col:    tok.Col,
			Length: length,
		},
	})
	p.errors = append(p.errors, msg)
	p.err = &diag.Error{Phase: diag.PhaseParse, Code: code, Message: msg, Line: tok.Line, Col: tok.Col}
	log.Debugf("parse aborted at %d:%d: %s", tok.Line, tok.Col, msg)
}

func (p *Parser) warnAt(tok token.Token, code, msg string) {
	p.warnings = append(p.warnings, diag.Diagnostic{
		Code:     code,
		Message:  msg,
		Severity: diag.SeverityWarning,
		Range:    diag.Range{Line: tok.Line, Col: tok.Col, Length: len([]rune(tok.Literal))},
	})
	log.Warningf("line %d: %s", tok.Line, msg)
}

func (p *Parser) peekError(t token.Type) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, describe(p.peekToken))
	p.errorAt(p.peekToken, msg)
}

func (p *Parser) isSeparator(t token.Type) bool {
	return t == token.NEWLINE || t == token.SEMICOLON
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.NEWLINE:
		return "newline"
	case token.ILLEGAL:
		return "invalid input"
	}
	if tok.Literal == "" {
		return string(tok.Type)
	}
	return fmt.Sprintf("%q", tok.Literal)
}
