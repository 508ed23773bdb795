package limits

import (
	"errors"
	"testing"
)

func TestBudgetCharge(t *testing.T) {
	b := NewBudget(10)
	if err := b.Charge(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := b.Charge(6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := b.Charge(1)
	var stepsErr MaxStepsError
	if !errors.As(err, &stepsErr) || stepsErr.Limit != 10 {
		t.Fatalf("expected MaxStepsError, got %v", err)
	}
	if err.Error() != "max steps exceeded (10)" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestBudgetUnlimited(t *testing.T) {
	b := NewBudget(0)
	if err := b.Charge(1_000_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var nilBudget *Budget
	if err := nilBudget.Charge(1); err != nil {
		t.Fatalf("nil budget should be unlimited, got %v", err)
	}
}

func TestBudgetReset(t *testing.T) {
	b := NewBudget(2)
	_ = b.Charge(2)
	b.Reset()
	if b.Limit() != 2 || b.Used() != 0 {
		t.Fatalf("expected 0 of 2 used after reset, got %d of %d", b.Used(), b.Limit())
	}
	if err := b.Charge(2); err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
}
