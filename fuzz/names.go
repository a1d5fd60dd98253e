package fuzz

import "strings"

const (
	letters    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	alnum      = letters + "0123456789"
	minTailLen = 1
	maxTailLen = 8
)

// randomName draws one name from the `[A-Za-z][A-Za-z0-9]{1,8}` alphabet
// spec.md §4.7 prescribes for random_grammar's rule names.
func randomName(rng *RNG) string {
	var b strings.Builder
	b.WriteByte(letters[rng.Intn(len(letters))])
	n := minTailLen + rng.Intn(maxTailLen-minTailLen+1)
	for i := 0; i < n; i++ {
		b.WriteByte(alnum[rng.Intn(len(alnum))])
	}
	return b.String()
}

// randomNames draws n pairwise-distinct names, redrawing on collision — at
// up to 9 characters over a 62-letter alphabet a collision within a fuzz
// run's rule count is vanishingly unlikely, but a grammar with a duplicate
// rule name would fail ir.Builder.AddRule outright, so collisions are
// avoided rather than left to surface as a build error.
func randomNames(rng *RNG, n int) []string {
	seen := map[string]bool{}
	names := make([]string, 0, n)
	for len(names) < n {
		name := randomName(rng)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
