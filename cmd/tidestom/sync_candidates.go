package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSyncCandidatesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-candidates",
		Short: "Mirror every candidate into the targets table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, "")
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.candidateSync().Sync(cmd.Context())
			if err != nil {
				a.logger.Error("candidate sync failed", zap.Error(err))
				return err
			}
			a.logger.Info("candidate sync finished",
				zap.Int("candidates", result.Candidates),
				zap.Int("created", result.Created),
				zap.Int("updated", result.Updated),
				zap.Int("unchanged", result.Unchanged),
				zap.Int("failed", result.Failed),
				zap.Int64("stale", result.Stale),
			)
			return nil
		},
	}
}
