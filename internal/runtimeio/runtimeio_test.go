package runtimeio

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"

	"glide/internal/object"
)

func TestConsolePrint(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(&out, strings.NewReader(""))
	values := []object.Object{
		&object.String{Value: "hi"},
		&object.Integer{Value: 42},
		&object.Binary{Value: big.NewInt(5)},
		object.NewList(&object.String{Value: "a"}, &object.Float{Value: 1.5}),
	}
	for _, v := range values {
		if err := c.Print(v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	want := "hi\n42\nb101\n[\"a\", 1.5]\n"
	if out.String() != want {
		t.Fatalf("expected %q, got %q", want, out.String())
	}
}

func TestConsoleRequestInput(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, strings.NewReader("first\r\nsecond\nlast"))
	for _, want := range []string{"first", "second", "last"} {
		got, err := c.RequestInput()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
	if _, err := c.RequestInput(); !errors.Is(err, ErrInputUnavailable) {
		t.Fatalf("expected ErrInputUnavailable at EOF, got %v", err)
	}
}
