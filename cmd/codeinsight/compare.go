package main

import (
	"context"
	"fmt"

	"github.com/rohankatakam/codeinsight/internal/analysis"
	"github.com/rohankatakam/codeinsight/internal/config"
	"github.com/rohankatakam/codeinsight/internal/logging"
	"github.com/rohankatakam/codeinsight/internal/models"
	"github.com/rohankatakam/codeinsight/internal/peer"
	"github.com/spf13/cobra"
)

var (
	compareLangA    string
	compareLangB    string
	comparePeer     bool
	comparePeerLang string
)

var compareCmd = &cobra.Command{
	Use:   "compare <fileA> [fileB]",
	Short: "Compare the pattern sets of two analyses",
	Long: `Compare two files locally, or one file against the configured peer
service with --peer.

Examples:
  # Python worker against its Go port
  codeinsight compare worker.py worker.go

  # Same text analyzed here as Python and by the peer as Go
  codeinsight compare worker.py --peer --lang-a python --peer-language go`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareLangA, "lang-a", "", "language of the first file (default: from extension)")
	compareCmd.Flags().StringVar(&compareLangB, "lang-b", "", "language of the second file (default: from extension)")
	compareCmd.Flags().BoolVar(&comparePeer, "peer", false, "compare against the configured peer service")
	compareCmd.Flags().StringVar(&comparePeerLang, "peer-language", "", "language the peer analyzes with")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if comparePeer {
		if len(args) != 1 {
			return fmt.Errorf("compare --peer takes exactly one file")
		}
		return compareWithPeer(cmd.Context(), args[0])
	}
	if len(args) != 2 {
		return fmt.Errorf("compare needs two files, or one file with --peer")
	}

	report, err := compareFiles(args[0], compareLangA, args[1], compareLangB)
	if err != nil {
		return err
	}
	return render(report)
}

// compareFiles analyzes both files and merges their pattern sets
func compareFiles(pathA, langA, pathB, langB string) (*models.InsightReport, error) {
	a, err := analyzeForCompare(pathA, langA)
	if err != nil {
		return nil, err
	}
	b, err := analyzeForCompare(pathB, langB)
	if err != nil {
		return nil, err
	}
	return analysis.MergeInsights(a, b)
}

func analyzeForCompare(path, language string) (*models.AnalysisResult, error) {
	fa := analyzeFile(path, language)
	if fa.Error != "" {
		return nil, fmt.Errorf("%s: %s", path, fa.Error)
	}
	return fa.Result, nil
}

func compareWithPeer(ctx context.Context, path string) error {
	result := cfg.Validate(config.ValidationContextPeer)
	for _, w := range result.Warnings {
		logger.Warn(w)
	}
	if err := result.Err(); err != nil {
		return err
	}

	text, err := readSource(path)
	if err != nil {
		return err
	}

	client, err := peer.NewClient(cfg.Peer, logging.Default().Slog())
	if err != nil {
		return err
	}

	localLang := compareLangA
	if localLang == "" {
		localLang = languageForPath(path)
	}

	logger.Debugf("Synchronizing %s with %s", path, client.URL())
	if ctx == nil {
		ctx = context.Background()
	}
	sync, err := peer.Synchronize(ctx, client, text, localLang, comparePeerLang)
	if err != nil {
		return err
	}
	return render(sync)
}
