// Package types describes the set of value shapes a variable, parameter or
// operator operand may hold: a union of primitive tags, with element types
// for lists.
package types

import (
	"fmt"
	"sort"
	"strings"
)

type Tag uint8

const (
	Void Tag = 1 << iota
	Int
	Float
	Bin
	Str
	List
	Obj
)

var tagNames = []struct {
	tag  Tag
	name string
}{
	{Void, "void"},
	{Int, "int"},
	{Float, "float"},
	{Bin, "bin"},
	{Str, "str"},
	{List, "list"},
	{Obj, "obj"},
}

// Type is immutable once built. any is derived in build: a numeric tag plus
// str, list and obj.
type Type struct {
	tags  Tag
	elems []*Type
	any   bool
}

func build(tags Tag, elems []*Type) *Type {
	if len(elems) > 0 {
		tags |= List
	}
	t := &Type{tags: tags, elems: elems}
	t.any = tags&(Int|Float|Bin) != 0 && tags&(Str|List|Obj) == Str|List|Obj
	return t
}

// New builds a union from tag names. dec, num and any expand to the tags
// they stand for.
func New(names ...string) (*Type, error) {
	var tags Tag
	for _, name := range names {
		switch name {
		case "dec":
			tags |= Int | Float
		case "num":
			tags |= Int | Float | Bin
		case "any":
			tags |= Int | Float | Bin | Str | List | Obj
		default:
			tag, ok := lookupTag(name)
			if !ok {
				return nil, fmt.Errorf("unknown type %q", name)
			}
			tags |= tag
		}
	}
	return build(tags, nil), nil
}

// MustNew is New for names known to be valid.
func MustNew(names ...string) *Type {
	t, err := New(names...)
	if err != nil {
		panic(err)
	}
	return t
}

// ListOf builds a list type whose elements may match any of elems.
func ListOf(elems ...*Type) *Type {
	return build(List, append([]*Type(nil), elems...))
}

// Union merges the tags and element options of ts.
func Union(ts ...*Type) *Type {
	var tags Tag
	var elems []*Type
	for _, t := range ts {
		if t == nil {
			continue
		}
		tags |= t.tags
		elems = append(elems, t.elems...)
	}
	return build(tags, elems)
}

func lookupTag(name string) (Tag, bool) {
	for _, tn := range tagNames {
		if tn.name == name {
			return tn.tag, true
		}
	}
	return 0, false
}

func (t *Type) Has(tag Tag) bool { return t.tags&tag != 0 }

// Accepts reports whether a value of type got may be stored where t is expected.
func (t *Type) Accepts(got *Type) bool {
	return CheckGotAsValidExpected(t, got)
}

// CheckGotAsValidExpected reports whether every shape in got is permitted by
// expected. any accepts everything except void, unless void is listed.
func CheckGotAsValidExpected(expected, got *Type) bool {
	if expected == nil || got == nil {
		return false
	}
	if got.Has(Void) && !expected.Has(Void) {
		return false
	}
	if expected.any {
		return true
	}
	for _, tn := range tagNames {
		if tn.tag == Void || tn.tag == List {
			continue
		}
		if got.Has(tn.tag) && !expected.Has(tn.tag) {
			return false
		}
	}
	if !got.Has(List) {
		return true
	}
	if !expected.Has(List) {
		return false
	}
	if len(expected.elems) == 0 || len(got.elems) == 0 {
		return true
	}
	for _, ge := range got.elems {
		matched := false
		for _, ee := range expected.elems {
			if CheckGotAsValidExpected(ee, ge) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (t *Type) String() string {
	if t.any && len(t.elems) == 0 {
		if t.Has(Void) {
			return "any|void"
		}
		return "any"
	}
	var parts []string
	for _, tn := range tagNames {
		if !t.Has(tn.tag) {
			continue
		}
		if tn.tag == List && len(t.elems) > 0 {
			for _, e := range t.elems {
				parts = append(parts, "["+e.String()+"]")
			}
			continue
		}
		parts = append(parts, tn.name)
	}
	if len(parts) == 0 {
		return "void"
	}
	return strings.Join(parts, "|")
}

// Equal compares two types structurally, ignoring element option order.
func Equal(a, b *Type) bool {
	if a.tags != b.tags || len(a.elems) != len(b.elems) {
		return false
	}
	as := elemStrings(a)
	bs := elemStrings(b)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func elemStrings(t *Type) []string {
	out := make([]string, len(t.elems))
	for i, e := range t.elems {
		out[i] = e.String()
	}
	sort.Strings(out)
	return out
}
