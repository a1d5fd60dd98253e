package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/magelang/magelang/fuzz"
)

// fuzzCmd exposes fuzz.FuzzGrammar (spec.md §6's "Fuzzer output": a seed
// line, per-sentence progress under -v, and a final disagreement report
// naming rule and literal sentence). It takes no positional grammar file:
// fuzz_grammar generates its own random grammar per run.
var fuzzCmd = &cobra.Command{
	Use:   "fuzz",
	Short: "Generate a random grammar and compare the reference evaluator against the synthesized parser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFuzz(fuzzFlags)
	},
}

type fuzzFlagSet struct {
	seed           uint64
	rules          int
	minPerRule     int
	maxPerRule     int
	failureRate    float64
	corpusPath     string
	breakOnFailure bool
}

var fuzzFlags = fuzzFlagSet{}

func init() {
	fuzzCmd.Flags().Uint64Var(&fuzzFlags.seed, "seed", 0, "RNG seed (0 picks a random seed)")
	fuzzCmd.Flags().IntVar(&fuzzFlags.rules, "rules", 8, "number of rules in the generated grammar")
	fuzzCmd.Flags().IntVar(&fuzzFlags.minPerRule, "min-per-rule", 4, "minimum sentences generated per public rule")
	fuzzCmd.Flags().IntVar(&fuzzFlags.maxPerRule, "max-per-rule", 12, "maximum sentences generated per public rule")
	fuzzCmd.Flags().Float64Var(&fuzzFlags.failureRate, "failure-rate", 0.2, "probability per leaf that a sentence is perturbed to be invalid")
	fuzzCmd.Flags().StringVar(&fuzzFlags.corpusPath, "corpus", "", "SQLite file to persist disagreements into (disabled if empty)")
	fuzzCmd.Flags().BoolVar(&fuzzFlags.breakOnFailure, "break-on-failure", false, "stop at the first disagreement instead of continuing")
}

func runFuzz(flags fuzzFlagSet) error {
	seed := flags.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	fmt.Fprintf(os.Stdout, "seed %d\n", seed)

	opts := fuzz.Options{
		Seed:           seed,
		Grammar:        fuzz.DefaultGrammarOptions(flags.rules),
		Sentence:       fuzz.DefaultSentenceOptions(flags.failureRate),
		MinPerRule:     flags.minPerRule,
		MaxPerRule:     flags.maxPerRule,
		BreakOnFailure: flags.breakOnFailure,
		Logger:         newLogger(),
	}

	if flags.corpusPath != "" {
		corpus, err := fuzz.OpenCorpus(flags.corpusPath)
		if err != nil {
			return fmt.Errorf("opening corpus %s: %w", flags.corpusPath, err)
		}
		defer corpus.Close()
		opts.Corpus = corpus
	}

	report, err := fuzz.FuzzGrammar(opts)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%d sentences checked, %d skipped, %d disagreement(s)\n",
		report.Sentences, report.Skipped, len(report.Failures))
	for _, d := range report.Failures {
		fmt.Fprintf(os.Stdout, "  rule %s: %s\n", d.Rule, d.Message)
	}

	if len(report.Failures) > 0 {
		return fmt.Errorf("fuzz: %d disagreement(s) found", len(report.Failures))
	}
	return nil
}
