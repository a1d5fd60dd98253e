package fuzz

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// Corpus persists disagreement findings to a local SQLite file keyed by
// grammar hash + sentence, so repeated fuzz runs accumulate a regression
// corpus across process lifetimes instead of losing failures on exit
// (SPEC_FULL.md §5.7's ambient addition, mirroring mcgru-funxy's own
// database/sql + modernc.org/sqlite use for persisted state).
type Corpus struct {
	db *sql.DB
}

// OpenCorpus opens (creating if needed) the SQLite file at path and ensures
// its schema exists.
func OpenCorpus(path string) (*Corpus, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS disagreements (
			grammar_hash TEXT NOT NULL,
			rule_name    TEXT NOT NULL,
			sentence     TEXT NOT NULL,
			run_id       TEXT NOT NULL,
			seed         INTEGER NOT NULL,
			detail       TEXT NOT NULL,
			PRIMARY KEY (grammar_hash, sentence)
		)
	`); err != nil {
		db.Close()
		return nil, err
	}
	return &Corpus{db: db}, nil
}

func (c *Corpus) Close() error {
	return c.db.Close()
}

// Record upserts one disagreement. Keyed by (grammar_hash, sentence), so a
// failure rediscovered in a later run refreshes its run_id/seed/detail
// instead of growing a duplicate row.
func (c *Corpus) Record(grammarHash, ruleName, sentence, runID string, seed uint64, detail string) error {
	_, err := c.db.Exec(`
		INSERT INTO disagreements (grammar_hash, rule_name, sentence, run_id, seed, detail)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(grammar_hash, sentence) DO UPDATE SET
			run_id = excluded.run_id, seed = excluded.seed, detail = excluded.detail
	`, grammarHash, ruleName, sentence, runID, int64(seed), detail)
	return err
}

// Count returns how many distinct disagreements the corpus holds.
func (c *Corpus) Count() (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM disagreements`).Scan(&n)
	return n, err
}
