package fuzz

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/magelang/magelang/diag"
	"github.com/magelang/magelang/eval"
	"github.com/magelang/magelang/ir"
	"github.com/magelang/magelang/synth"
	"github.com/magelang/magelang/transform"
	"github.com/magelang/magelang/treespec"
)

// Options configures one fuzz_grammar run (spec.md §4.7).
type Options struct {
	Seed           uint64
	Grammar        GrammarOptions
	Sentence       SentenceOptions
	MinPerRule     int
	MaxPerRule     int
	BreakOnFailure bool

	// Logger receives one line per sentence plus a final summary; callers
	// must set this explicitly (zerolog.Nop() to discard) since a zero
	// zerolog.Logger has no writer attached.
	Logger zerolog.Logger

	// Corpus, when non-nil, gets every disagreement recorded for replay
	// across runs.
	Corpus *Corpus
}

// Report summarizes one fuzz_grammar run.
type Report struct {
	RunID     string
	Seed      uint64
	Sentences int
	Skipped   int
	Failures  []*diag.Diagnostic
}

// FuzzGrammar implements spec.md §4.7's fuzz_grammar: a fresh random
// grammar, K random sentences per public rule, checked against the
// reference evaluator and (when the evaluator and generation's own
// fails/accept expectation agree) the synthesized parser.
func FuzzGrammar(opts Options) (*Report, error) {
	runID := uuid.New().String()
	rng := NewRNG(opts.Seed)
	opts.Logger.Info().Str("run_id", runID).Uint64("seed", opts.Seed).Msg("fuzz run starting")

	g, err := RandomGrammar(rng, opts.Grammar)
	if err != nil {
		return nil, fmt.Errorf("fuzz: random grammar: %w", err)
	}
	normalized, err := transform.Normalize(g)
	if err != nil {
		return nil, fmt.Errorf("fuzz: normalize: %w", err)
	}
	specs, err := treespec.Build(normalized)
	if err != nil {
		return nil, fmt.Errorf("fuzz: treespec: %w", err)
	}
	prog, err := synth.Synthesize(normalized, specs)
	if err != nil {
		return nil, fmt.Errorf("fuzz: synthesize: %w", err)
	}
	hash := GrammarHash(normalized)

	report := &Report{RunID: runID, Seed: opts.Seed}

ruleLoop:
	for _, r := range normalized.Rules() {
		if !r.Public {
			continue
		}
		k := opts.MinPerRule
		if opts.MaxPerRule > opts.MinPerRule {
			k += rng.Intn(opts.MaxPerRule - opts.MinPerRule + 1)
		}
		for i := 0; i < k; i++ {
			failed := fuzzOneSentence(opts, rng, normalized, prog, r.Name, r.Expr, runID, hash, report)
			if failed && opts.BreakOnFailure {
				break ruleLoop
			}
		}
	}

	opts.Logger.Info().
		Str("run_id", runID).
		Int("sentences", report.Sentences).
		Int("skipped", report.Skipped).
		Int("failures", len(report.Failures)).
		Msg("fuzz run complete")
	return report, nil
}

// fuzzOneSentence runs one (rule, sentence) trial: draw a sentence, require
// generation's own fails/accept expectation to agree with the reference
// evaluator (disagreement here means the sentence itself is ambiguous —
// e.g. a clipped recursion produced something the evaluator can't match
// even unperturbed — and it is skipped rather than blamed on the parser),
// then compare the evaluator's verdict against the interpreted synthesized
// parser. Returns true iff this trial found and recorded a disagreement.
func fuzzOneSentence(opts Options, rng *RNG, g *ir.Grammar, prog *synth.Program, ruleName string, ruleExpr ir.ExprID, runID, hash string, report *Report) bool {
	sentence, genFails := RandomSentence(g, ruleExpr, rng, opts.Sentence)
	evalAccept, ok := eval.Accepts(g, ruleExpr, sentence)
	if !ok {
		report.Skipped++
		opts.Logger.Debug().Str("rule", ruleName).Str("sentence", sentence).Msg("skipped: evaluator divergence")
		return false
	}
	if evalAccept == genFails {
		// Generation's own expectation (fails implies reject) disagrees
		// with the evaluator; the sentence is unreliable as a probe either
		// way, so it is excluded from the parser comparison entirely.
		report.Skipped++
		opts.Logger.Debug().Str("rule", ruleName).Str("sentence", sentence).Msg("skipped: generation/evaluator mismatch")
		return false
	}

	report.Sentences++
	parserAccept, parserOK := Interpret(prog, ruleName, sentence)
	if !parserOK {
		report.Skipped++
		return false
	}
	opts.Logger.Debug().Str("rule", ruleName).Str("sentence", sentence).Bool("accept", evalAccept).Msg("sentence")
	if parserAccept == evalAccept {
		return false
	}

	d := diag.New(ruleName, 0, 0, "parser disagrees with reference evaluator on %q: evaluator=%v parser=%v", sentence, evalAccept, parserAccept)
	d.Seed = opts.Seed
	report.Failures = append(report.Failures, d)
	opts.Logger.Error().Str("run_id", runID).Str("rule", ruleName).Str("sentence", sentence).Msg(d.Message)
	if opts.Corpus != nil {
		if err := opts.Corpus.Record(hash, ruleName, sentence, runID, opts.Seed, d.Message); err != nil {
			opts.Logger.Warn().Err(err).Msg("failed to persist disagreement to corpus")
		}
	}
	return true
}
