package stackops

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"glide/internal/object"
	"glide/internal/types"
)

var ErrUnderflow = errors.New("stack underflow")

// Error is an operator failure; the evaluator attaches the source position.
type Error struct {
	Op      string
	Message string
}

func (e *Error) Error() string { return e.Message }

func opErrorf(op, format string, args ...any) error {
	return &Error{Op: op, Message: fmt.Sprintf(format, args...)}
}

func impossible(op string, a, b object.Object) error {
	return opErrorf(op, "mathematically impossible operation: %s %s %s", object.Repr(a), object.Repr(b), op)
}

// Env carries the interpreter services operators may need.
type Env struct {
	Rand *rand.Rand
}

// Op is one stack operator. Accepts, when set, must admit each of the top
// MinDepth operands.
type Op struct {
	Name     string
	MinDepth int
	Accepts  *types.Type
	Doc      string
	apply    func(st *Stack, env *Env) error
}

func (op *Op) Apply(st *Stack, env *Env) error {
	if st.Len() < op.MinDepth {
		return opErrorf(op.Name, "stack underflow: %s needs %d value(s), stack has %d", op.Name, op.MinDepth, st.Len())
	}
	if op.Accepts != nil {
		for i := op.MinDepth - 1; i >= 0; i-- {
			v, _ := st.Peek(i)
			if got := types.Of(v); !op.Accepts.Accepts(got) {
				return opErrorf(op.Name, "operator %s expects %s, got %s", op.Name, op.Accepts, got)
			}
		}
	}
	return op.apply(st, env)
}

var table = map[string]*Op{}

func register(op *Op) {
	table[op.Name] = op
}

// Lookup finds a built-in operator or cast by name.
func Lookup(name string) (*Op, bool) {
	op, ok := table[name]
	return op, ok
}

// Names lists every built-in operator, sorted.
func Names() []string {
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

var (
	numType    = types.MustNew("num")
	numStrType = types.MustNew("num", "str")
	intBinType = types.MustNew("int", "bin")
	seqType    = types.MustNew("str", "list")
)

// binary pops the right operand first, then the left.
func binary(name, doc string, accepts *types.Type, fn func(a, b object.Object) (object.Object, error)) *Op {
	return &Op{
		Name:     name,
		MinDepth: 2,
		Accepts:  accepts,
		Doc:      doc,
		apply: func(st *Stack, _ *Env) error {
			b, _ := st.Pop()
			a, _ := st.Pop()
			res, err := fn(a, b)
			if err != nil {
				return err
			}
			st.Push(res)
			return nil
		},
	}
}

func unary(name, doc string, accepts *types.Type, fn func(a object.Object) (object.Object, error)) *Op {
	return &Op{
		Name:     name,
		MinDepth: 1,
		Accepts:  accepts,
		Doc:      doc,
		apply: func(st *Stack, _ *Env) error {
			a, _ := st.Pop()
			res, err := fn(a)
			if err != nil {
				return err
			}
			st.Push(res)
			return nil
		},
	}
}

func init() {
	for _, name := range []string{"+", "-", "*", "/", "%", "^"} {
		name := name
		accepts := numType
		if name == "+" {
			accepts = numStrType
		}
		register(binary(name, "arithmetic: a b "+name, accepts, func(a, b object.Object) (object.Object, error) {
			return arith(name, a, b)
		}))
	}

	register(binary("==", "push 1 if a equals b, else 0", nil, func(a, b object.Object) (object.Object, error) {
		return object.Bool(object.Equal(a, b)), nil
	}))
	register(binary("!=", "push 1 if a differs from b, else 0", nil, func(a, b object.Object) (object.Object, error) {
		return object.Bool(!object.Equal(a, b)), nil
	}))
	for _, name := range []string{"<", ">", "<=", ">="} {
		name := name
		register(binary(name, "ordering comparison of numbers or strings", numStrType, func(a, b object.Object) (object.Object, error) {
			return compare(name, a, b)
		}))
	}
	register(binary("and", "1 if both a and b are nonzero", numType, func(a, b object.Object) (object.Object, error) {
		return object.Bool(object.Truthy(a) && object.Truthy(b)), nil
	}))
	register(binary("or", "1 if a or b is nonzero", numType, func(a, b object.Object) (object.Object, error) {
		return object.Bool(object.Truthy(a) || object.Truthy(b)), nil
	}))
	register(unary("not", "1 if a is zero, else 0", numType, func(a object.Object) (object.Object, error) {
		return object.Bool(!object.Truthy(a)), nil
	}))
	register(binary("<<", "shift an int or bin left by n bits", nil, func(a, b object.Object) (object.Object, error) {
		return shift("<<", a, b)
	}))
	register(binary(">>", "shift an int or bin right by n bits", nil, func(a, b object.Object) (object.Object, error) {
		return shift(">>", a, b)
	}))
	register(unary("neg", "negate a number", numType, negate))
	register(unary("abs", "absolute value of a number", numType, absolute))
	register(unary("len", "length of a string, list or obj", types.MustNew("str", "list", "obj"), length))
	register(unary("typeof", "push the type of a value as a string", nil, func(a object.Object) (object.Object, error) {
		return &object.String{Value: types.Of(a).String()}, nil
	}))

	registerStackOps()
	registerCasts()
}

func registerStackOps() {
	register(&Op{Name: "dup", MinDepth: 1, Doc: "copy the top value", apply: func(st *Stack, _ *Env) error {
		top, _ := st.Peek(0)
		st.Push(top)
		return nil
	}})
	register(&Op{Name: "swap", MinDepth: 2, Doc: "exchange the top two values", apply: func(st *Stack, _ *Env) error {
		b, _ := st.Pop()
		a, _ := st.Pop()
		st.Push(b)
		st.Push(a)
		return nil
	}})
	register(&Op{Name: "drop", MinDepth: 1, Doc: "discard the top value", apply: func(st *Stack, _ *Env) error {
		_, err := st.Pop()
		return err
	}})
	register(&Op{Name: "over", MinDepth: 2, Doc: "copy the second value to the top", apply: func(st *Stack, _ *Env) error {
		second, _ := st.Peek(1)
		st.Push(second)
		return nil
	}})
	register(&Op{Name: "pop", Doc: "discard every value above the fence", apply: func(st *Stack, _ *Env) error {
		st.Drain()
		return nil
	}})
	register(&Op{Name: "rotl", Doc: "rotate the values above the fence left", apply: func(st *Stack, _ *Env) error {
		st.Rotate(true)
		return nil
	}})
	register(&Op{Name: "rotr", Doc: "rotate the values above the fence right", apply: func(st *Stack, _ *Env) error {
		st.Rotate(false)
		return nil
	}})
	register(&Op{Name: "size", Doc: "push the number of values above the fence", apply: func(st *Stack, _ *Env) error {
		st.Push(&object.Integer{Value: int64(len(st.Region()))})
		return nil
	}})
	register(&Op{Name: "spill", MinDepth: 1, Accepts: seqType, Doc: "expand a list into its elements or a string into characters", apply: func(st *Stack, _ *Env) error {
		top, _ := st.Pop()
		switch v := top.(type) {
		case *object.List:
			for _, el := range v.Elements {
				st.Push(el)
			}
		case *object.String:
			for _, r := range v.Value {
				st.Push(&object.String{Value: string(r)})
			}
		}
		return nil
	}})
	register(&Op{Name: "rand", MinDepth: 1, Accepts: types.MustNew("int", "str", "list"), Doc: "random element of a list or string, or random int below n", apply: func(st *Stack, env *Env) error {
		top, _ := st.Pop()
		r := env.rng()
		switch v := top.(type) {
		case *object.List:
			if len(v.Elements) == 0 {
				return opErrorf("rand", "rand needs a non-empty list")
			}
			st.Push(v.Elements[r.Intn(len(v.Elements))])
		case *object.String:
			runes := []rune(v.Value)
			if len(runes) == 0 {
				return opErrorf("rand", "rand needs a non-empty string")
			}
			st.Push(&object.String{Value: string(runes[r.Intn(len(runes))])})
		case *object.Integer:
			if v.Value <= 0 {
				return opErrorf("rand", "rand needs a positive bound, got %d", v.Value)
			}
			st.Push(&object.Integer{Value: r.Int63n(v.Value)})
		}
		return nil
	}})
}

func (e *Env) rng() *rand.Rand {
	if e == nil || e.Rand == nil {
		return rand.New(rand.NewSource(1))
	}
	return e.Rand
}
