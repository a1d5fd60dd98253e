package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunFuzzSucceedsOnSmallGrammar(t *testing.T) {
	flags := fuzzFlagSet{
		seed:        12345,
		rules:       3,
		minPerRule:  2,
		maxPerRule:  2,
		failureRate: 0.3,
	}
	require.NoError(t, runFuzz(flags))
}

func TestRunFuzzPicksRandomSeedWhenZero(t *testing.T) {
	flags := fuzzFlagSet{
		rules:      2,
		minPerRule: 1,
		maxPerRule: 1,
	}
	require.NoError(t, runFuzz(flags))
}

func TestRunFuzzRejectsUnopenableCorpus(t *testing.T) {
	flags := fuzzFlagSet{
		seed:       1,
		rules:      2,
		minPerRule: 1,
		maxPerRule: 1,
		corpusPath: "/nonexistent-dir/does-not-exist/corpus.db",
	}
	require.Error(t, runFuzz(flags))
}
