// Package stackops implements the evaluation stack a stack expression runs
// against and the operators that transform it.
package stackops

import "glide/internal/object"

// Stack holds the values of one stack expression evaluation. Fences mark
// positions that bulk operators do not reach below.
type Stack struct {
	vals   []object.Object
	fences []int
}

func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) Len() int { return len(s.vals) }

func (s *Stack) Push(o object.Object) {
	s.vals = append(s.vals, o)
}

func (s *Stack) Pop() (object.Object, error) {
	if len(s.vals) == 0 {
		return nil, ErrUnderflow
	}
	top := s.vals[len(s.vals)-1]
	s.vals = s.vals[:len(s.vals)-1]
	s.clampFences()
	return top, nil
}

// Peek returns the value n positions below the top (0 is the top).
func (s *Stack) Peek(n int) (object.Object, error) {
	if n < 0 || n >= len(s.vals) {
		return nil, ErrUnderflow
	}
	return s.vals[len(s.vals)-1-n], nil
}

// Values returns the stack contents bottom first.
func (s *Stack) Values() []object.Object {
	return append([]object.Object(nil), s.vals...)
}

// Fence records the current height.
func (s *Stack) Fence() {
	s.fences = append(s.fences, len(s.vals))
}

// fetchID is the index of the first value bulk operators may touch.
func (s *Stack) fetchID() int {
	if len(s.fences) == 0 {
		return 0
	}
	return s.fences[len(s.fences)-1]
}

// Region returns the values above the top fence without removing them.
func (s *Stack) Region() []object.Object {
	return append([]object.Object(nil), s.vals[s.fetchID():]...)
}

// Drain removes and returns the values above the top fence, consuming it.
func (s *Stack) Drain() []object.Object {
	id := s.fetchID()
	out := append([]object.Object(nil), s.vals[id:]...)
	s.vals = s.vals[:id]
	if len(s.fences) > 0 {
		s.fences = s.fences[:len(s.fences)-1]
	}
	return out
}

// Rotate turns the region above the top fence. Left moves the lowest value
// to the top.
func (s *Stack) Rotate(left bool) {
	region := s.vals[s.fetchID():]
	if len(region) < 2 {
		return
	}
	if left {
		first := region[0]
		copy(region, region[1:])
		region[len(region)-1] = first
		return
	}
	last := region[len(region)-1]
	copy(region[1:], region[:len(region)-1])
	region[0] = last
}

func (s *Stack) clampFences() {
	for i := range s.fences {
		if s.fences[i] > len(s.vals) {
			s.fences[i] = len(s.vals)
		}
	}
}

func (s *Stack) String() string {
	return object.NewList(s.vals...).Inspect()
}
