package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeGrammar(t *testing.T, dir, src string) string {
	t.Helper()
	path := filepath.Join(dir, "grammar.mg")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestRunGenerateWritesParserFile(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeGrammar(t, dir, `pub digit = '0'..'9';`)
	outDir := filepath.Join(dir, "out")

	require.NoError(t, runGenerate(grammarPath, "go", outDir))

	out, err := os.ReadFile(filepath.Join(outDir, "parser.go"))
	require.NoError(t, err)
	require.Contains(t, string(out), "package parser")
}

func TestRunGenerateRejectsUnknownTemplate(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeGrammar(t, dir, `pub digit = '0'..'9';`)

	err := runGenerate(grammarPath, "python", filepath.Join(dir, "out"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "python")
}

func TestRunGenerateReportsParseDiagnostics(t *testing.T) {
	dir := t.TempDir()
	grammarPath := writeGrammar(t, dir, `pub a = nonexistent;`)

	err := runGenerate(grammarPath, "go", filepath.Join(dir, "out"))
	require.Error(t, err)
}

func TestRunGenerateMissingFile(t *testing.T) {
	dir := t.TempDir()
	err := runGenerate(filepath.Join(dir, "missing.mg"), "go", filepath.Join(dir, "out"))
	require.Error(t, err)
}
