package types

import (
	"testing"

	"glide/internal/object"
)

func TestCheckGotAsValidExpected(t *testing.T) {
	tests := []struct {
		name     string
		expected *Type
		got      *Type
		want     bool
	}{
		{"int into num|str", MustNew("num", "str"), MustNew("int"), true},
		{"int into str", MustNew("str"), MustNew("int"), false},
		{"[int] into [str]", ListOf(MustNew("int")), ListOf(MustNew("str")), false},
		{"[int] into [int|str]", ListOf(MustNew("int", "str")), ListOf(MustNew("int")), true},
		{"[int|str] into [int]|[str]", Union(ListOf(MustNew("int")), ListOf(MustNew("str"))), ListOf(MustNew("int", "str")), false},
		{"[int] into list", MustNew("list"), ListOf(MustNew("int")), true},
		{"empty list into [str]", ListOf(MustNew("str")), MustNew("list"), true},
		{"[[int]] into [[num]]", ListOf(ListOf(MustNew("num"))), ListOf(ListOf(MustNew("int"))), true},
		{"str into any", MustNew("any"), MustNew("str"), true},
		{"void into any", MustNew("any"), MustNew("void"), false},
		{"void into any|void", MustNew("any", "void"), MustNew("void"), true},
		{"bin into dec", MustNew("dec"), MustNew("bin"), false},
		{"float into dec", MustNew("dec"), MustNew("float"), true},
		{"list into int", MustNew("int"), ListOf(MustNew("int")), false},
	}
	for _, tt := range tests {
		if got := CheckGotAsValidExpected(tt.expected, tt.got); got != tt.want {
			t.Fatalf("%s: expected %v, got %v (expected=%s got=%s)", tt.name, tt.want, got, tt.expected, tt.got)
		}
	}
}

func TestNewUnknown(t *testing.T) {
	if _, err := New("integer"); err == nil {
		t.Fatalf("expected error for unknown type name")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{MustNew("int", "str"), "int|str"},
		{ListOf(MustNew("int")), "[int]"},
		{MustNew("any"), "any"},
		{Union(MustNew("void"), ListOf(MustNew("str"))), "void|[str]"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Fatalf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestOf(t *testing.T) {
	list := object.NewList(&object.Integer{Value: 1}, &object.String{Value: "a"})
	got := Of(list)
	if got.String() != "[int|str]" {
		t.Fatalf("expected [int|str], got %s", got)
	}
	if !CheckGotAsValidExpected(ListOf(MustNew("int", "str")), got) {
		t.Fatalf("expected mixed list to fit [int|str]")
	}
	if CheckGotAsValidExpected(ListOf(MustNew("int")), got) {
		t.Fatalf("expected mixed list not to fit [int]")
	}
}
