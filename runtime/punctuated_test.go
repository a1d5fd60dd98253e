package runtime_test

import (
	"testing"

	"github.com/magelang/magelang/runtime"
)

func TestPunctuatedTrailingSeparator(t *testing.T) {
	var p runtime.Punctuated[int, string]
	p.AppendPair(1, ",")
	p.AppendPair(2, ",")
	p.Append(3)

	if got := p.Elements(); len(got) != 3 || got[2] != 3 {
		t.Fatalf("Elements() = %v", got)
	}
	if _, ok := p.TrailingSeparator(); ok {
		t.Fatal("did not expect a trailing separator")
	}

	var trailing runtime.Punctuated[int, string]
	trailing.AppendPair(1, ",")
	sep, ok := trailing.TrailingSeparator()
	if !ok || sep != "," {
		t.Fatalf("TrailingSeparator() = %q, %v, want \",\", true", sep, ok)
	}
}
