package object

import (
	"bytes"
	"math/big"
	"sort"
	"strconv"

	"glide/internal/numlit"
)

type Type string

const (
	INTEGER_OBJ Type = "int"
	FLOAT_OBJ   Type = "float"
	BINARY_OBJ  Type = "bin"
	STRING_OBJ  Type = "str"
	LIST_OBJ    Type = "list"
	DICT_OBJ    Type = "obj"
)

// Object is a runtime value. There is no nil value: absence is always an error.
type Object interface {
	Type() Type
	Inspect() string
}

type Integer struct{ Value int64 }

func (*Integer) Type() Type        { return INTEGER_OBJ }
func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

type Float struct{ Value float64 }

func (*Float) Type() Type { return FLOAT_OBJ }
func (f *Float) Inspect() string {
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

// Binary is an arbitrary precision signed bit vector.
type Binary struct{ Value *big.Int }

func (*Binary) Type() Type        { return BINARY_OBJ }
func (b *Binary) Inspect() string { return numlit.FormatBinary(b.Value) }

type String struct{ Value string }

func (*String) Type() Type        { return STRING_OBJ }
func (s *String) Inspect() string { return s.Value }

// List is shared by reference: writes through one holder are seen by all.
type List struct {
	Elements []Object
}

func (*List) Type() Type { return LIST_OBJ }
func (l *List) Inspect() string {
	var out bytes.Buffer
	out.WriteString("[")
	for i, el := range l.Elements {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(Repr(el))
	}
	out.WriteString("]")
	return out.String()
}

type Dict struct {
	Pairs map[string]Object
}

func NewDict() *Dict { return &Dict{Pairs: map[string]Object{}} }

func (*Dict) Type() Type { return DICT_OBJ }

// Keys returns the keys in lexical order.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, len(d.Pairs))
	for k := range d.Pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (d *Dict) Inspect() string {
	var out bytes.Buffer
	out.WriteString("{")
	for i, k := range d.Keys() {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(k)
		out.WriteString(": ")
		out.WriteString(Repr(d.Pairs[k]))
	}
	out.WriteString("}")
	return out.String()
}

// Repr renders a value nested inside a container, where strings are quoted.
func Repr(o Object) string {
	if s, ok := o.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return o.Inspect()
}

var (
	TRUE  = &Integer{Value: 1}
	FALSE = &Integer{Value: 0}
)

func Bool(b bool) *Integer {
	if b {
		return TRUE
	}
	return FALSE
}

func NewList(elems ...Object) *List {
	return &List{Elements: append([]Object{}, elems...)}
}

// Copy returns a deep copy of lists and objs. Other values are never
// changed in place and come back as is.
func Copy(o Object) Object {
	switch v := o.(type) {
	case *List:
		elems := make([]Object, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = Copy(el)
		}
		return &List{Elements: elems}
	case *Dict:
		d := NewDict()
		for k, el := range v.Pairs {
			d.Pairs[k] = Copy(el)
		}
		return d
	}
	return o
}

// IsNumber reports whether o is int, float or bin.
func IsNumber(o Object) bool {
	switch o.(type) {
	case *Integer, *Float, *Binary:
		return true
	}
	return false
}

// ToFloat widens any number to float64.
func ToFloat(o Object) (float64, bool) {
	switch v := o.(type) {
	case *Integer:
		return float64(v.Value), true
	case *Float:
		return v.Value, true
	case *Binary:
		f, _ := new(big.Float).SetInt(v.Value).Float64()
		return f, true
	}
	return 0, false
}

// Truthy is the numeric truth test used by conditions.
func Truthy(o Object) bool {
	switch v := o.(type) {
	case *Integer:
		return v.Value != 0
	case *Float:
		return v.Value != 0
	case *Binary:
		return v.Value.Sign() != 0
	}
	return false
}

// Equal compares structurally; numbers compare by value across kinds.
func Equal(a, b Object) bool {
	if IsNumber(a) && IsNumber(b) {
		if ab, ok := a.(*Binary); ok {
			if bb, ok := b.(*Binary); ok {
				return ab.Value.Cmp(bb.Value) == 0
			}
		}
		if ai, ok := a.(*Integer); ok {
			if bi, ok := b.(*Integer); ok {
				return ai.Value == bi.Value
			}
		}
		af, _ := ToFloat(a)
		bf, _ := ToFloat(b)
		return af == bf
	}
	switch av := a.(type) {
	case *String:
		bv, ok := b.(*String)
		return ok && av.Value == bv.Value
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		if !ok || len(av.Pairs) != len(bv.Pairs) {
			return false
		}
		for k, v := range av.Pairs {
			w, ok := bv.Pairs[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}
	return false
}
