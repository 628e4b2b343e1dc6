package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLanguageForPath(t *testing.T) {
	tests := map[string]string{
		"worker.go":     "go",
		"SERVICE.PY":    "python",
		"dir/x.py":      "python",
		"notes.txt":     "",
		"Makefile":      "",
		stdinPath:       "",
		"archive.go.gz": "",
	}
	for path, want := range tests {
		assert.Equal(t, want, languageForPath(path), path)
	}
}

func TestAnalyzeFiles(t *testing.T) {
	dir := t.TempDir()
	goFile := writeFile(t, dir, "pool.go", "func Run() {\n  go worker()\n  defer wg.Done()\n}")
	pyFile := writeFile(t, dir, "svc.py", "async def handle():\n    await fetch()\n")
	txtFile := writeFile(t, dir, "notes.txt", "class Notes:\n")
	missing := filepath.Join(dir, "missing.go")

	results, err := analyzeFiles(context.Background(), []string{goFile, pyFile, txtFile, missing}, "", 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, goFile, results[0].Path)
	assert.Equal(t, "go", results[0].Result.Language)
	assert.Equal(t, []models.PatternTag{models.PatternDeferUsage}, results[0].Result.LanguagePatterns)

	assert.Equal(t, "python", results[1].Result.Language)
	assert.Equal(t, []models.PatternTag{models.PatternAsyncFunction, models.PatternAwaitUsage}, results[1].Result.LanguagePatterns)

	assert.Empty(t, results[2].Result.Language, "plain scan for unknown extensions")
	assert.Equal(t, 1, results[2].Result.EntitiesCount)

	assert.Nil(t, results[3].Result)
	assert.NotEmpty(t, results[3].Error)
}

func TestAnalyzeFiles_ForcedLanguage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "script.txt", "@app.route\ndef index():\n    yield 1\n")

	results, err := analyzeFiles(context.Background(), []string{path}, "Python", 0)
	require.NoError(t, err)
	assert.Equal(t, []models.PatternTag{models.PatternDecoratorUsage, models.PatternGenerator}, results[0].Result.LanguagePatterns)
}

func TestAnalyzeFiles_UnsupportedLanguage(t *testing.T) {
	_, err := analyzeFiles(context.Background(), []string{"a.rs"}, "rust", 1)
	assert.ErrorIs(t, err, errors.ErrUnsupportedLanguage)
}

func TestAnalyzeFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := analyzeFiles(ctx, []string{"a.go", "b.go"}, "", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadSource_TooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(maxSourceBytes+1))
	require.NoError(t, f.Close())

	_, err = readSource(path)
	assert.ErrorContains(t, err, "exceeds")
}

func TestCompareFiles(t *testing.T) {
	dir := t.TempDir()
	py := writeFile(t, dir, "worker.py", "def worker(queue):\n    ch = make(chan int)\n")
	goFile := writeFile(t, dir, "worker.go", "func worker() {\n  ch := make(chan int)\n  go consume(ch)\n}\nfunc consume() {}\n")

	report, err := compareFiles(py, "", goFile, "")
	require.NoError(t, err)

	assert.Equal(t, []models.PatternTag{models.PatternChannelUsage}, report.CommonPatterns)
	assert.Empty(t, report.UniqueToA)
	assert.Equal(t, []models.PatternTag{models.PatternGoroutineLaunch}, report.UniqueToB)
	assert.Equal(t, 0.5, report.SimilarityScore)
	assert.Equal(t, "Go has more complex structure", report.Insights[0])
}

func TestCompareFiles_MissingFile(t *testing.T) {
	_, err := compareFiles(filepath.Join(t.TempDir(), "nope.py"), "", "b.go", "")
	assert.Error(t, err)
}

func TestExportArgs(t *testing.T) {
	defer func() { exportCheck = false }()

	exportCheck = false
	assert.Error(t, exportCmd.Args(exportCmd, nil))
	assert.NoError(t, exportCmd.Args(exportCmd, []string{"pool.go"}))

	exportCheck = true
	assert.NoError(t, exportCmd.Args(exportCmd, nil))
	assert.Error(t, exportCmd.Args(exportCmd, []string{"pool.go"}), "--check takes no file")
}
