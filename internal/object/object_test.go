package object

import (
	"math/big"
	"testing"
)

func TestInspect(t *testing.T) {
	d := NewDict()
	d.Pairs["b"] = &String{Value: "x"}
	d.Pairs["a"] = &Integer{Value: 1}

	tests := []struct {
		obj  Object
		want string
	}{
		{&Integer{Value: -7}, "-7"},
		{&Float{Value: 2.5}, "2.5"},
		{&Float{Value: 2}, "2"},
		{&Binary{Value: big.NewInt(5)}, "b101"},
		{&String{Value: "hi"}, "hi"},
		{NewList(&Integer{Value: 1}, &String{Value: "a"}), `[1, "a"]`},
		{d, `{a: 1, b: "x"}`},
	}
	for i, tt := range tests {
		if got := tt.obj.Inspect(); got != tt.want {
			t.Fatalf("tests[%d] - expected %q, got %q", i, tt.want, got)
		}
	}
}

func TestEqualAcrossNumberKinds(t *testing.T) {
	if !Equal(&Integer{Value: 5}, &Float{Value: 5}) {
		t.Fatalf("expected 5 == 5.0")
	}
	if !Equal(&Binary{Value: big.NewInt(5)}, &Integer{Value: 5}) {
		t.Fatalf("expected b101 == 5")
	}
	if Equal(&String{Value: "5"}, &Integer{Value: 5}) {
		t.Fatalf("expected \"5\" != 5")
	}
	a := NewList(&Integer{Value: 1}, NewList(&String{Value: "x"}))
	b := NewList(&Integer{Value: 1}, NewList(&String{Value: "x"}))
	if !Equal(a, b) {
		t.Fatalf("expected nested lists to be equal")
	}
}

func TestCopyIsDeep(t *testing.T) {
	inner := NewList(&Integer{Value: 1})
	d := NewDict()
	d.Pairs["xs"] = inner
	orig := NewList(d, &String{Value: "s"})

	dup := Copy(orig).(*List)
	dup.Elements[0].(*Dict).Pairs["xs"].(*List).Elements[0] = &Integer{Value: 9}
	dup.Elements[1] = &Integer{Value: 2}

	if got := orig.Inspect(); got != `[{xs: [1]}, "s"]` {
		t.Fatalf("copy shared state with the original: %s", got)
	}
	if got := dup.Inspect(); got != `[{xs: [9]}, 2]` {
		t.Fatalf("unexpected copy %s", got)
	}
}
