package runtime_test

import (
	"testing"

	"github.com/magelang/magelang/runtime"
)

func TestCharStreamForkJoinIsolatesCursor(t *testing.T) {
	s := runtime.NewCharStream("ab")
	fork := s.Fork()
	if got := fork.Get(); got != 'a' {
		t.Fatalf("fork.Get() = %q, want 'a'", got)
	}
	if got := s.Peek(); got != 'a' {
		t.Fatalf("original stream should be untouched by the fork, Peek() = %q", got)
	}
	s.JoinTo(fork)
	if got := s.Peek(); got != 'b' {
		t.Fatalf("after JoinTo, Peek() = %q, want 'b'", got)
	}
}

func TestCharStreamEOF(t *testing.T) {
	s := runtime.NewCharStream("")
	if got := s.Peek(); got != runtime.EOF {
		t.Fatalf("Peek() on empty stream = %q, want EOF", got)
	}
	if !s.AtEOF() {
		t.Fatal("expected AtEOF on empty stream")
	}
}
