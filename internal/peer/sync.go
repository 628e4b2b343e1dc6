package peer

import (
	"context"

	"github.com/rohankatakam/codeinsight/internal/analysis"
	"github.com/rohankatakam/codeinsight/internal/models"
	"golang.org/x/sync/errgroup"
)

// Analyzer is anything that can analyze code remotely. *Client implements it.
type Analyzer interface {
	Analyze(ctx context.Context, code, language string) (*models.AnalysisResult, error)
}

// Synchronize analyzes code locally and on the peer concurrently, then merges
// the two into an insight report. localLanguage may be empty for a plain
// structural scan; peerLanguage is passed through to the peer as is.
// A peer failure aborts the comparison and no insights are computed.
func Synchronize(ctx context.Context, remote Analyzer, code, localLanguage, peerLanguage string) (*models.SyncResult, error) {
	// reject an unknown language before any network traffic
	var lang analysis.Language
	if localLanguage != "" {
		parsed, err := analysis.ParseLanguage(localLanguage)
		if err != nil {
			return nil, err
		}
		lang = parsed
	}

	var local, remoteResult *models.AnalysisResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result, err := remote.Analyze(gctx, code, peerLanguage)
		if err != nil {
			return err
		}
		remoteResult = result
		return nil
	})
	g.Go(func() error {
		if lang == "" {
			local = analysis.ScanStructure(code)
			return nil
		}
		result, err := analysis.Specialize(nil, code, lang)
		if err != nil {
			return err
		}
		local = result
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	insights, err := analysis.MergeInsights(local, remoteResult)
	if err != nil {
		return nil, err
	}

	return &models.SyncResult{
		LocalAnalysis:         local,
		PeerAnalysis:          remoteResult,
		CrossLanguageInsights: insights,
		SynchronizationStatus: models.SyncStatusSuccess,
	}, nil
}
