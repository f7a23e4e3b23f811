package service

import (
	"context"
	"time"
)

// PurgeOldAnalyses deletes stored analyses older than the configured
// retention age and reports how many were removed. Documents are kept;
// only their analysis history is swept.
func (s *AnalysisService) PurgeOldAnalyses(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.config.RetentionAge)

	deleted, err := s.repos.Analyses.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		s.logger.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Purged old analyses")
	}
	return deleted, nil
}
