package stackops

import (
	"math"
	"math/big"
	"strings"

	"glide/internal/numlit"
	"glide/internal/object"
	"glide/internal/types"
)

// Casts are named after the type they produce. str, list and pack collapse
// everything above the fence; the others convert the top value only.
func registerCasts() {
	register(unary("int", "convert the top value to int", types.MustNew("num", "str"), castInt))
	register(unary("float", "convert the top value to float", types.MustNew("num", "str"), castFloat))
	register(unary("bin", "convert the top value to bin", types.MustNew("num", "str"), castBin))
	register(unary("num", "convert the top value to a number", types.MustNew("num", "str"), castNum))
	register(unary("obj", "convert a list of alternating keys and values to obj", types.MustNew("list", "obj"), castObj))

	register(&Op{Name: "str", Doc: "join every value above the fence into one string", apply: func(st *Stack, _ *Env) error {
		if len(st.Region()) == 0 {
			return opErrorf("str", "str needs at least one value")
		}
		var b strings.Builder
		for _, v := range st.Drain() {
			b.WriteString(v.Inspect())
		}
		st.Push(&object.String{Value: b.String()})
		return nil
	}})
	pack := func(st *Stack, _ *Env) error {
		st.Push(object.NewList(st.Drain()...))
		return nil
	}
	register(&Op{Name: "list", Doc: "pack every value above the fence into a list", apply: pack})
	register(&Op{Name: "pack", Doc: "pack every value above the fence into a list", apply: pack})
}

func castInt(a object.Object) (object.Object, error) {
	switch v := a.(type) {
	case *object.Integer:
		return v, nil
	case *object.Float:
		// float64(MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
		if math.IsNaN(v.Value) || v.Value >= 1<<63 || v.Value < -(1<<63) {
			return nil, opErrorf("int", "cannot cast %s to int", v.Inspect())
		}
		return &object.Integer{Value: int64(v.Value)}, nil
	case *object.Binary:
		return fromBig("int", v.Value, false)
	case *object.String:
		if n, err := numlit.ParseInt(strings.TrimSpace(v.Value)); err == nil {
			return &object.Integer{Value: n}, nil
		}
		if f, err := numlit.ParseFloat(strings.TrimSpace(v.Value)); err == nil {
			return castInt(&object.Float{Value: f})
		}
	}
	return nil, opErrorf("int", "cannot cast %s to int", object.Repr(a))
}

func castFloat(a object.Object) (object.Object, error) {
	if s, ok := a.(*object.String); ok {
		f, err := numlit.ParseFloat(strings.TrimSpace(s.Value))
		if err != nil {
			return nil, opErrorf("float", "cannot cast %s to float", object.Repr(a))
		}
		return &object.Float{Value: f}, nil
	}
	f, ok := object.ToFloat(a)
	if !ok {
		return nil, opErrorf("float", "cannot cast %s to float", object.Repr(a))
	}
	return &object.Float{Value: f}, nil
}

func castBin(a object.Object) (object.Object, error) {
	switch v := a.(type) {
	case *object.Binary:
		return v, nil
	case *object.Integer:
		return &object.Binary{Value: big.NewInt(v.Value)}, nil
	case *object.Float:
		n, err := castInt(v)
		if err != nil {
			return nil, opErrorf("bin", "cannot cast %s to bin", v.Inspect())
		}
		return castBin(n)
	case *object.String:
		s := strings.TrimSpace(v.Value)
		if b, err := numlit.ParseBinary(s); err == nil {
			return &object.Binary{Value: b}, nil
		}
		if n, err := numlit.ParseInt(s); err == nil {
			return &object.Binary{Value: big.NewInt(n)}, nil
		}
	}
	return nil, opErrorf("bin", "cannot cast %s to bin", object.Repr(a))
}

func castNum(a object.Object) (object.Object, error) {
	switch v := a.(type) {
	case *object.Integer, *object.Float:
		return v, nil
	case *object.Binary:
		if v.Value.IsInt64() {
			return &object.Integer{Value: v.Value.Int64()}, nil
		}
		return v, nil
	case *object.String:
		s := strings.TrimSpace(v.Value)
		if n, err := numlit.ParseInt(s); err == nil {
			return &object.Integer{Value: n}, nil
		}
		if f, err := numlit.ParseFloat(s); err == nil {
			return &object.Float{Value: f}, nil
		}
		if b, err := numlit.ParseBinary(s); err == nil {
			return castNum(&object.Binary{Value: b})
		}
	}
	return nil, opErrorf("num", "cannot cast %s to num", object.Repr(a))
}

func castObj(a object.Object) (object.Object, error) {
	switch v := a.(type) {
	case *object.Dict:
		return v, nil
	case *object.List:
		if len(v.Elements)%2 != 0 {
			return nil, opErrorf("obj", "obj needs alternating keys and values, got %d elements", len(v.Elements))
		}
		d := object.NewDict()
		for i := 0; i < len(v.Elements); i += 2 {
			d.Pairs[v.Elements[i].Inspect()] = v.Elements[i+1]
		}
		return d, nil
	}
	return nil, opErrorf("obj", "cannot cast %s to obj", object.Repr(a))
}
