package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohankatakam/codeinsight/internal/analysis"
	"github.com/rohankatakam/codeinsight/internal/models"
	"github.com/rohankatakam/codeinsight/internal/output"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// stdinPath reads source text from standard input
const stdinPath = "-"

// maxSourceBytes bounds a single input file
const maxSourceBytes = 16 << 20

var (
	analyzeLanguage string
	analyzeWorkers  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Scan files for entities, task launches and patterns",
	Long: `Scan one or more files (or - for stdin) for declared entities, task
launches and concurrency patterns.

Without --language, files ending in .py or .go are specialized for that
language and anything else gets the plain structural scan.

Examples:
  codeinsight analyze worker.go
  codeinsight analyze --language python service.py handlers.py
  cat main.go | codeinsight analyze -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var patternsCmd = &cobra.Command{
	Use:   "patterns <file>",
	Short: "Detect design patterns (worker pool, pipeline, producer/consumer, singleton)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readSource(args[0])
		if err != nil {
			return err
		}
		return render(analysis.ExtractDesignPatterns(text))
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Generate a comprehensive report with complexity score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readSource(args[0])
		if err != nil {
			return err
		}
		return render(analysis.GenerateReport(text))
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeLanguage, "language", "l", "", "specialize for a language (python, go)")
	analyzeCmd.Flags().IntVarP(&analyzeWorkers, "workers", "w", 4, "files analyzed concurrently")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	results, err := analyzeFiles(cmd.Context(), args, analyzeLanguage, analyzeWorkers)
	if err != nil {
		return err
	}

	if len(results) == 1 {
		if results[0].Error != "" {
			return fmt.Errorf("%s: %s", results[0].Path, results[0].Error)
		}
		return render(results[0].Result)
	}

	if err := render(results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be analyzed", failed, len(results))
	}
	logger.Debugf("Analyzed %d files", len(results))
	return nil
}

// analyzeFiles analyzes paths with at most workers in flight. Results keep
// the order of paths; a file that cannot be read is reported in its Error
// field rather than aborting the run.
func analyzeFiles(ctx context.Context, paths []string, language string, workers int) ([]output.FileAnalysis, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if language != "" {
		if _, err := analysis.ParseLanguage(language); err != nil {
			return nil, err
		}
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]output.FileAnalysis, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = analyzeFile(path, language)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func analyzeFile(path, language string) output.FileAnalysis {
	fa := output.FileAnalysis{Path: path}

	text, err := readSource(path)
	if err != nil {
		fa.Error = err.Error()
		return fa
	}
	if fa.Result, err = analyzeText(text, path, language); err != nil {
		fa.Error = err.Error()
	}
	return fa
}

// analyzeText specializes for language, or for the language inferred from
// path when none is given. Text without a known language gets the plain scan.
func analyzeText(text, path, language string) (*models.AnalysisResult, error) {
	if language == "" {
		language = languageForPath(path)
	}
	if language == "" {
		return analysis.ScanStructure(text), nil
	}
	return analysis.AnalyzeLanguage(text, language)
}

// languageForPath infers a specializer from the file extension
func languageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return string(analysis.LanguagePython)
	case ".go":
		return string(analysis.LanguageGo)
	default:
		return ""
	}
}

// readSource reads a whole file, or stdin for "-"
func readSource(path string) (string, error) {
	var r io.Reader
	if path == stdinPath {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxSourceBytes+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > maxSourceBytes {
		return "", fmt.Errorf("%s exceeds %d bytes", path, maxSourceBytes)
	}
	return string(data), nil
}
