package evaluator

import (
	"errors"
	"fmt"

	"glide/internal/ast"
	"glide/internal/diag"
	"glide/internal/module"
	"glide/internal/object"
	"glide/internal/parser"
)

var (
	errInputUnavailable = errors.New("input is not available")
	errInputCancelled   = errors.New("input request was cancelled (don't cancel input prompts)")
)

// Signal reports how a statement finished.
type Signal int

const (
	Normal Signal = iota
	Break
	Continue
	Return
)

// Result replaces shared exit/next flags: every statement returns one and
// the enclosing loop or function consumes the signal meant for it.
type Result struct {
	Signal Signal
	Value  object.Object
}

var normal = Result{}

func (it *Interpreter) exec(stmt ast.Statement) (Result, error) {
	switch s := stmt.(type) {
	case *ast.Block:
		return it.execBlock(s)
	case *ast.Print:
		return normal, it.execPrint(s)
	case *ast.Make:
		return normal, it.execMake(s)
	case *ast.Free:
		return normal, it.execFree(s)
	case *ast.Loop:
		return it.execLoop(s)
	case *ast.When:
		return it.execWhen(s)
	case *ast.Exit:
		if s.Target == ast.TargetLoop {
			return Result{Signal: Break}, nil
		}
		val, err := it.evalValue(s.Value)
		if err != nil {
			return normal, err
		}
		return Result{Signal: Return, Value: val}, nil
	case *ast.Next:
		return Result{Signal: Continue}, nil
	case *ast.Def:
		it.funcs[s.Name] = &function{def: s, file: it.file}
		return normal, nil
	case *ast.Use:
		return normal, it.execUse(s)
	case *ast.Replace:
		return normal, it.execReplace(s)
	case *ast.Assign:
		return normal, it.execAssign(s)
	case *ast.CallStmt:
		_, err := it.call(s.Call, false)
		return normal, err
	}
	return normal, it.errorAt(stmt.Pos(), "cannot execute %T", stmt)
}

func (it *Interpreter) execStatements(stmts []ast.Statement) (Result, error) {
	for _, stmt := range stmts {
		res, err := it.exec(stmt)
		if err != nil || res.Signal != Normal {
			return res, err
		}
	}
	return normal, nil
}

// execBlock runs b in a fresh scope and releases the scope however it ends.
func (it *Interpreter) execBlock(b *ast.Block) (Result, error) {
	it.depth++
	depth := it.depth
	defer func() {
		it.release(depth)
		it.depth = depth - 1
	}()
	return it.execStatements(b.Statements)
}

func (it *Interpreter) execPrint(s *ast.Print) error {
	val, err := it.evalValue(s.Value)
	if err != nil {
		return err
	}
	if err := it.out.Print(val); err != nil {
		return it.errorAt(s.Token, "print failed: %v", err)
	}
	return nil
}

func (it *Interpreter) execMake(s *ast.Make) error {
	depth := it.depth
	if s.Global {
		depth = 0
	}
	if it.inScope(s.Name, depth) != nil || it.shadowsParam(s.Name, depth) {
		return it.errorAt(s.Token, "variable %s is already declared in this scope", s.Name)
	}
	if _, ok := it.funcs[s.Name]; ok {
		return it.errorAt(s.Token, "cannot declare %s: a function has that name", s.Name)
	}
	if _, ok := it.aliases[s.Name]; ok {
		return it.errorAt(s.Token, "cannot declare %s: an operator has that name", s.Name)
	}

	v := &Variable{Name: s.Name, Type: s.Type, Frozen: s.Frozen, Depth: depth}
	if s.Value != nil {
		val, err := it.evalValue(s.Value)
		if err != nil {
			return err
		}
		if err := it.checkType(s.Token, s.Name, s.Type, val); err != nil {
			return err
		}
		if s.Frozen {
			val = object.Copy(val)
		}
		v.Value = val
	}
	it.declare(v)
	return nil
}

// shadowsParam reports whether a declaration at depth sits in the top
// block of a function body, which shares its scope with the parameters.
func (it *Interpreter) shadowsParam(name string, depth int) bool {
	if len(it.frames) == 0 {
		return false
	}
	base := it.frameBase()
	return depth == base+1 && it.inScope(name, base) != nil
}

func (it *Interpreter) execFree(s *ast.Free) error {
	v := it.lookup(s.Name)
	if v == nil {
		return it.errorAt(s.Token, "cannot free %s: no such variable", s.Name)
	}
	if v.get != nil {
		return it.errorAt(s.Token, "cannot free built-in %s", s.Name)
	}
	it.remove(v)
	return nil
}

func (it *Interpreter) execLoop(s *ast.Loop) (Result, error) {
	val, err := it.evalValue(s.Count)
	if err != nil {
		return normal, err
	}
	count, ok := val.(*object.Integer)
	if !ok {
		return normal, it.errorAt(s.Count.Token, "loop count must be int, got %s", typeName(val))
	}
	for i := int64(0); i < count.Value; i++ {
		if err := it.step(s.Token); err != nil {
			return normal, err
		}
		res, err := it.execBlock(s.Body)
		if err != nil {
			return normal, err
		}
		switch res.Signal {
		case Break:
			return normal, nil
		case Return:
			return res, nil
		}
	}
	return normal, nil
}

func (it *Interpreter) execWhen(s *ast.When) (Result, error) {
	if !s.Looping {
		ok, err := it.condition(s)
		if err != nil {
			return normal, err
		}
		if ok {
			return it.execBlock(s.Then)
		}
		if s.Else != nil {
			return it.exec(s.Else)
		}
		return normal, nil
	}

	for {
		ok, err := it.condition(s)
		if err != nil || !ok {
			return normal, err
		}
		if err := it.step(s.Token); err != nil {
			return normal, err
		}
		res, err := it.execBlock(s.Then)
		if err != nil {
			return normal, err
		}
		switch res.Signal {
		case Break:
			return normal, nil
		case Return:
			return res, nil
		}
	}
}

func (it *Interpreter) condition(s *ast.When) (bool, error) {
	val, err := it.evalValue(s.Cond)
	if err != nil {
		return false, err
	}
	if !object.IsNumber(val) {
		return false, it.errorAt(s.Cond.Token, "condition must be num, got %s", typeName(val))
	}
	return object.Truthy(val), nil
}

func (it *Interpreter) execUse(s *ast.Use) error {
	if it.mods == nil {
		return it.errorAt(s.Token, "module %s not found", s.Module)
	}
	key := it.moduleKey(s.Module)
	if it.loaded[key] {
		it.warn(s.Token.Line, s.Token.Col, diag.CodeReimport, "module %s is already loaded", s.Module)
		return nil
	}
	src, err := it.mods.LoadModule(s.Module)
	if errors.Is(err, module.ErrNotFound) {
		return it.errorAt(s.Token, "module %s not found", s.Module)
	}
	if err != nil {
		return it.errorAt(s.Token, "cannot load module %s: %v", s.Module, err)
	}
	it.loaded[key] = true
	log.Debugf("loading module %s", s.Module)

	prog, p, err := parser.Parse(src, it.aliases)
	if p != nil {
		it.warnings = append(it.warnings, p.Warnings()...)
	}
	if err == nil {
		err = Check(prog)
	}
	if err == nil {
		err = it.redefines(prog)
	}
	if err != nil {
		var de *diag.Error
		if errors.As(err, &de) {
			de.Message = "in module " + s.Module + ": " + de.Message
			de.Frames = append(it.trace(s.Token), diag.Frame{Func: "<module>", File: s.Module, Line: de.Line, Col: de.Col})
		}
		return err
	}

	prevFile := it.file
	it.file = s.Module
	defer func() { it.file = prevFile }()
	it.hoist(prog)
	_, err = it.execStatements(prog.Body.Statements)
	return err
}

// moduleKey names a module by the file it resolves to when the source can
// tell, and by its use name otherwise.
func (it *Interpreter) moduleKey(name string) string {
	if mp, ok := it.mods.(modulePather); ok {
		if path, err := mp.Path(name); err == nil {
			return path
		}
	}
	return name
}

// redefines rejects a module function whose name is already taken.
func (it *Interpreter) redefines(prog *ast.Program) error {
	for _, stmt := range prog.Body.Statements {
		def, ok := stmt.(*ast.Def)
		if !ok {
			continue
		}
		if prev, ok := it.funcs[def.Name]; ok {
			return &diag.Error{
				Phase:   diag.PhaseCompile,
				Code:    diag.CodeCompile,
				Message: fmt.Sprintf("function %s is already defined in %s at line %d", def.Name, prev.file, prev.def.Token.Line),
				Line:    def.Token.Line,
				Col:     def.Token.Col,
			}
		}
	}
	return nil
}

func (it *Interpreter) execReplace(s *ast.Replace) error {
	if it.lookup(s.Name) != nil {
		return it.errorAt(s.Token, "operator %s collides with variable %s", s.Name, s.Name)
	}
	if _, ok := it.funcs[s.Name]; ok {
		return it.errorAt(s.Token, "operator %s collides with function %s", s.Name, s.Name)
	}
	it.aliases[s.Name] = s.Items
	return nil
}

func (it *Interpreter) execAssign(s *ast.Assign) error {
	target := s.Target
	v := it.lookup(target.Name)
	if v == nil {
		return it.errorAt(target.Token, "undefined variable %s", target.Name)
	}
	if v.get != nil {
		return it.errorAt(target.Token, "cannot assign to %s: it is read-only", target.Name)
	}
	if v.Frozen {
		return it.errorAt(target.Token, "cannot assign to frozen variable %s", target.Name)
	}
	val, err := it.evalValue(s.Value)
	if err != nil {
		return err
	}
	if len(target.Accessors) == 0 {
		if err := it.checkType(s.Token, target.Name, v.Type, val); err != nil {
			return err
		}
		v.Value = val
		return nil
	}
	if v.Value == nil {
		return it.errorAt(target.Token, "variable %s has no value", target.Name)
	}
	undo, err := it.writeChain(v.Value, target.Accessors, val)
	if err != nil {
		return err
	}
	if err := it.checkType(s.Token, target.Name, v.Type, v.Value); err != nil {
		undo()
		return err
	}
	return nil
}
