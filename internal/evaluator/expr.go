package evaluator

import (
	"math/big"

	"glide/internal/ast"
	"glide/internal/object"
	"glide/internal/stackops"
	"glide/internal/token"
	"glide/internal/types"
)

func typeName(v object.Object) string { return types.Of(v).String() }

// evalStack runs e against a fresh stack.
func (it *Interpreter) evalStack(e *ast.StackExpr) (*stackops.Stack, error) {
	st := stackops.NewStack()
	for _, item := range e.Items {
		if err := it.evalItem(st, item); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// evalValue collapses a stack expression to one value: a single value
// unwraps, several become a list.
func (it *Interpreter) evalValue(e *ast.StackExpr) (object.Object, error) {
	st, err := it.evalStack(e)
	if err != nil {
		return nil, err
	}
	vals := st.Values()
	switch len(vals) {
	case 0:
		return nil, it.errorAt(e.Token, "empty expression")
	case 1:
		return vals[0], nil
	}
	return object.NewList(vals...), nil
}

func (it *Interpreter) evalItem(st *stackops.Stack, item ast.Item) error {
	switch n := item.(type) {
	case *ast.NumberLiteral:
		if n.IsFloat {
			st.Push(&object.Float{Value: n.Float})
		} else {
			st.Push(&object.Integer{Value: n.Int})
		}
	case *ast.StringLiteral:
		st.Push(&object.String{Value: n.Value})
	case *ast.BinaryLiteral:
		st.Push(&object.Binary{Value: new(big.Int).Set(n.Value)})
	case *ast.Fence:
		st.Fence()
	case *ast.Operator:
		return it.applyOp(st, n.Token, n.Name)
	case *ast.AliasOp:
		return it.applyAlias(st, n.Token, n.Items)
	case *ast.CallChain:
		if len(n.Accessors) == 0 && it.lookup(n.Name) == nil {
			if items, ok := it.aliases[n.Name]; ok {
				return it.applyAlias(st, n.Token, items)
			}
		}
		val, err := it.readChain(n)
		if err != nil {
			return err
		}
		st.Push(val)
	case *ast.FuncCall:
		val, err := it.call(n, true)
		if err != nil {
			return err
		}
		st.Push(val)
	default:
		return it.errorAt(item.Pos(), "cannot evaluate %T", item)
	}
	return nil
}

// applyAlias runs the items of a replace operator; failures are reported
// where the operator was used.
func (it *Interpreter) applyAlias(st *stackops.Stack, at token.Token, items []ast.Item) error {
	for _, item := range items {
		if op, ok := item.(*ast.Operator); ok {
			if err := it.applyOp(st, at, op.Name); err != nil {
				return err
			}
			continue
		}
		if err := it.evalItem(st, item); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) applyOp(st *stackops.Stack, at token.Token, name string) error {
	op, ok := stackops.Lookup(name)
	if !ok {
		return it.errorAt(at, "unknown operator %s", name)
	}
	if err := op.Apply(st, it.env); err != nil {
		return it.errorAt(at, "%s", err.Error())
	}
	return nil
}

/* -------------------- call chains -------------------- */

func (it *Interpreter) readChain(c *ast.CallChain) (object.Object, error) {
	v := it.lookup(c.Name)
	if v == nil {
		if _, ok := it.funcs[c.Name]; ok {
			return nil, it.errorAt(c.Token, "%s is a function; call it with %s()", c.Name, c.Name)
		}
		return nil, it.errorAt(c.Token, "undefined variable %s", c.Name)
	}
	cur, err := it.value(v, c.Token)
	if err != nil {
		return nil, err
	}
	for _, acc := range c.Accessors {
		cur, err = it.access(cur, acc)
		if err != nil {
			return nil, err
		}
	}
	if v.Frozen {
		// no writable holder may share a frozen container
		cur = object.Copy(cur)
	}
	return cur, nil
}

func (it *Interpreter) accessorKey(acc *ast.Accessor) (object.Object, error) {
	if acc.Index == nil {
		return &object.String{Value: acc.Key}, nil
	}
	return it.evalValue(acc.Index)
}

func (it *Interpreter) access(container object.Object, acc *ast.Accessor) (object.Object, error) {
	key, err := it.accessorKey(acc)
	if err != nil {
		return nil, err
	}
	switch c := container.(type) {
	case *object.List:
		idx, ok := key.(*object.Integer)
		if !ok {
			return nil, it.errorAt(acc.Token, "list index must be int, got %s", typeName(key))
		}
		i := idx.Value
		n := int64(len(c.Elements))
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			return nil, it.errorAt(acc.Token, "index %d out of range for list of length %d", idx.Value, n)
		}
		return c.Elements[i], nil
	case *object.Dict:
		k, ok := key.(*object.String)
		if !ok {
			return nil, it.errorAt(acc.Token, "obj key must be str, got %s", typeName(key))
		}
		val, ok := c.Pairs[k.Value]
		if !ok {
			return nil, it.errorAt(acc.Token, "key %q not found", k.Value)
		}
		return val, nil
	}
	return nil, it.errorAt(acc.Token, "cannot index %s", typeName(container))
}

// writeChain stores val at the end of accessors, walking from root. A list
// grows when the index is exactly its length, or -1 on an empty list. The
// returned undo puts the container back the way it was.
func (it *Interpreter) writeChain(root object.Object, accessors []*ast.Accessor, val object.Object) (func(), error) {
	cur := root
	for _, acc := range accessors[:len(accessors)-1] {
		next, err := it.access(cur, acc)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	last := accessors[len(accessors)-1]
	key, err := it.accessorKey(last)
	if err != nil {
		return nil, err
	}
	switch c := cur.(type) {
	case *object.List:
		idx, ok := key.(*object.Integer)
		if !ok {
			return nil, it.errorAt(last.Token, "list index must be int, got %s", typeName(key))
		}
		i := idx.Value
		n := int64(len(c.Elements))
		switch {
		case i == n || (i == -1 && n == 0):
			c.Elements = append(c.Elements, val)
			return func() { c.Elements = c.Elements[:n] }, nil
		case i < 0 && -i <= n:
			i += n
		case i < 0 || i >= n:
			return nil, it.errorAt(last.Token, "index %d out of range for list of length %d", i, n)
		}
		old := c.Elements[i]
		c.Elements[i] = val
		return func() { c.Elements[i] = old }, nil
	case *object.Dict:
		k, ok := key.(*object.String)
		if !ok {
			return nil, it.errorAt(last.Token, "obj key must be str, got %s", typeName(key))
		}
		old, existed := c.Pairs[k.Value]
		c.Pairs[k.Value] = val
		return func() {
			if existed {
				c.Pairs[k.Value] = old
			} else {
				delete(c.Pairs, k.Value)
			}
		}, nil
	}
	return nil, it.errorAt(last.Token, "cannot index %s", typeName(cur))
}

/* -------------------- functions -------------------- */

// call runs a function call. With needValue set, finishing without exit
// <value> is an error.
func (it *Interpreter) call(c *ast.FuncCall, needValue bool) (object.Object, error) {
	fn, ok := it.funcs[c.Name]
	if !ok {
		return nil, it.errorAt(c.Token, "unknown function %s", c.Name)
	}

	if c.Iterate != nil {
		src, err := it.readChain(c.Iterate)
		if err != nil {
			return nil, err
		}
		list, ok := src.(*object.List)
		if !ok {
			return nil, it.errorAt(c.Iterate.Token, "%s(@%s) expects a list, got %s", c.Name, c.Iterate.Name, typeName(src))
		}
		elems := append([]object.Object(nil), list.Elements...)
		out := make([]object.Object, 0, len(elems))
		for i, el := range elems {
			val, err := it.invoke(fn, c.Token, []object.Object{el})
			if err != nil {
				return nil, err
			}
			if val == nil {
				return nil, it.errorAt(c.Token, "function %s produced no value for element %d", c.Name, i)
			}
			out = append(out, val)
		}
		return object.NewList(out...), nil
	}

	var args []object.Object
	if c.Args != nil && len(c.Args.Items) > 0 {
		st, err := it.evalStack(c.Args)
		if err != nil {
			return nil, err
		}
		args = st.Values()
	}
	val, err := it.invoke(fn, c.Token, args)
	if err != nil {
		return nil, err
	}
	if needValue && val == nil {
		return nil, it.errorAt(c.Token, "function %s produced no value along this control-flow path", c.Name)
	}
	return val, nil
}

// invoke binds args positionally in a new frame and runs the body. It
// returns nil when the body finished without exit <value>.
func (it *Interpreter) invoke(fn *function, at token.Token, args []object.Object) (object.Object, error) {
	def := fn.def
	if len(args) < len(def.Params) {
		return nil, it.errorAt(at, "not enough arguments: %s expects %d, got %d", def.Name, len(def.Params), len(args))
	}
	if len(args) > len(def.Params) {
		return nil, it.errorAt(at, "too many arguments: %s expects %d, got %d", def.Name, len(def.Params), len(args))
	}
	if it.maxRecursion > 0 && len(it.frames) >= it.maxRecursion {
		return nil, it.errorAt(at, "maximum call depth exceeded (%d)", it.maxRecursion)
	}
	if err := it.step(at); err != nil {
		return nil, err
	}
	for i, p := range def.Params {
		if err := it.checkType(at, "argument "+p.Name+" of "+def.Name, p.Type, args[i]); err != nil {
			return nil, err
		}
	}

	saved := it.depth
	prevFile := it.file
	it.depth++
	base := it.depth
	it.frames = append(it.frames, frame{name: def.Name, base: base, call: at, callFile: prevFile})
	it.file = fn.file
	defer func() {
		it.release(base)
		it.depth = saved
		it.frames = it.frames[:len(it.frames)-1]
		it.file = prevFile
	}()

	for i, p := range def.Params {
		it.declare(&Variable{Name: p.Name, Type: p.Type, Value: args[i], Depth: base})
	}

	res, err := it.execBlock(def.Body)
	if err != nil {
		return nil, err
	}
	if res.Signal != Return {
		return nil, nil
	}
	if def.Return != nil {
		if got := types.Of(res.Value); !def.Return.Accepts(got) {
			return nil, it.errorAt(def.Token, "function %s must return %s, got %s", def.Name, def.Return, got)
		}
	}
	return res.Value, nil
}
