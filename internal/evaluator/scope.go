package evaluator

import (
	"time"

	"glide/internal/object"
	"glide/internal/token"
	"glide/internal/types"
)

// Variable is one declaration. A nil Type is untyped; a nil Value is
// declared but not yet assigned. get, when set, computes the value on
// every read.
type Variable struct {
	Name   string
	Type   *types.Type
	Value  object.Object
	Frozen bool
	Depth  int

	get func() (object.Object, error)
}

func (it *Interpreter) registerInstances() {
	it.declare(&Variable{Name: "time", Frozen: true, get: func() (object.Object, error) {
		return &object.Integer{Value: time.Since(it.start).Milliseconds()}, nil
	}})
	it.declare(&Variable{Name: "input", Frozen: true, get: it.readInput})
}

func (it *Interpreter) readInput() (object.Object, error) {
	if it.in == nil {
		return nil, errInputUnavailable
	}
	line, err := it.in.RequestInput()
	if err != nil {
		return nil, errInputCancelled
	}
	return &object.String{Value: line}, nil
}

// lookup returns the innermost visible declaration of name.
func (it *Interpreter) lookup(name string) *Variable {
	base := it.frameBase()
	var best *Variable
	for _, v := range it.vars[name] {
		if v.Depth != 0 && v.Depth < base {
			continue
		}
		if best == nil || v.Depth >= best.Depth {
			best = v
		}
	}
	return best
}

// inScope returns the declaration of name at exactly depth.
func (it *Interpreter) inScope(name string, depth int) *Variable {
	for _, v := range it.vars[name] {
		if v.Depth == depth {
			return v
		}
	}
	return nil
}

func (it *Interpreter) declare(v *Variable) {
	it.vars[v.Name] = append(it.vars[v.Name], v)
	it.locals[v.Depth] = append(it.locals[v.Depth], v)
}

func (it *Interpreter) remove(v *Variable) {
	list := it.vars[v.Name]
	for i, cur := range list {
		if cur == v {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(it.vars, v.Name)
		return
	}
	it.vars[v.Name] = list
}

// release drops every variable declared at depth.
func (it *Interpreter) release(depth int) {
	for _, v := range it.locals[depth] {
		it.remove(v)
	}
	delete(it.locals, depth)
}

// value reads v, failing when it was never assigned.
func (it *Interpreter) value(v *Variable, tok token.Token) (object.Object, error) {
	if v.get != nil {
		val, err := v.get()
		return val, it.wrap(tok, err)
	}
	if v.Value == nil {
		return nil, it.errorAt(tok, "variable %s has no value", v.Name)
	}
	return v.Value, nil
}

// checkType enforces a declared type on a value about to be stored.
func (it *Interpreter) checkType(tok token.Token, what string, want *types.Type, val object.Object) error {
	if want == nil {
		return nil
	}
	if got := types.Of(val); !want.Accepts(got) {
		return it.errorAt(tok, "type mismatch: %s expects %s, got %s", what, want, got)
	}
	return nil
}
