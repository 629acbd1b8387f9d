// Package dicetest provides scripted randomness for dice tests.
package dicetest

import (
	"fmt"
	"sync"
)

// Sequence is a dice.Source that returns a fixed list of draws in order,
// ignoring the requested range. It panics when the script is exhausted.
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence returns a Sequence that yields values in order.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Repeat returns a Sequence yielding v n times.
func Repeat(v, n int) *Sequence {
	values := make([]int, n)
	for i := range values {
		values[i] = v
	}
	return &Sequence{values: values}
}

// Values returns a copy of the full script.
func (s *Sequence) Values() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.values))
	copy(out, s.values)
	return out
}

// Uniform returns the next scripted value.
func (s *Sequence) Uniform(low, high int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.values) {
		panic(fmt.Sprintf("dicetest: sequence exhausted after %d draws (range [%d, %d])", len(s.values), low, high))
	}
	v := s.values[s.next]
	s.next++
	return v
}

// Used reports how many scripted values have been consumed.
func (s *Sequence) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}
