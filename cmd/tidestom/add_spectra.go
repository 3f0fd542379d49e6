package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tidestom/internal/service"
)

type addSpectraOptions struct {
	mock            bool
	pipeline        bool
	pipelineResults string
}

// mode returns the ingest mode selected by the flags.
func (o addSpectraOptions) mode() (string, error) {
	switch {
	case o.mock && o.pipeline:
		return "", errors.New("--mock and --pipeline are mutually exclusive")
	case o.mock:
		return service.IngestModeMock, nil
	case o.pipeline:
		if strings.TrimSpace(o.pipelineResults) == "" {
			return "", errors.New("--pipeline requires --pipeline-results")
		}
		return service.IngestModePipeline, nil
	default:
		return "", errors.New("one of --mock or --pipeline is required")
	}
}

func newAddSpectraCmd(opts *rootOptions) *cobra.Command {
	var flags addSpectraOptions
	cmd := &cobra.Command{
		Use:   "add-spectra",
		Short: "Attach spectrum files and machine classifications to targets",
		Example: `  tidestom add-spectra --mock
  tidestom add-spectra --pipeline --pipeline-results results/agg.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := flags.mode()
			if err != nil {
				return err
			}

			a, err := newApp(opts, "add_spectra_to_db")
			if err != nil {
				return err
			}
			defer a.Close()

			ingest := a.spectraIngest()
			var result service.IngestResult
			if mode == service.IngestModeMock {
				result, err = ingest.IngestMock(cmd.Context())
			} else {
				result, err = ingest.IngestPipeline(cmd.Context(), flags.pipelineResults)
			}
			if err != nil {
				a.logger.Error("add spectra failed", zap.String("mode", mode), zap.Error(err))
				return err
			}
			a.logger.Info("add spectra finished",
				zap.String("mode", result.Mode),
				zap.Int("rows", result.Rows),
				zap.Int("attached", result.Attached),
				zap.Int("already_attached", result.AlreadyAttached),
				zap.Int("classifications", result.Classifications),
				zap.Int("duplicates", result.Duplicates),
				zap.Int("skipped", result.Skipped),
				zap.Int("failed", result.Failed),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.mock, "mock", false, "ingest simulated spectra and the mock classification catalogue")
	cmd.Flags().BoolVar(&flags.pipeline, "pipeline", false, "ingest spectra listed in a pipeline results CSV")
	cmd.Flags().StringVar(&flags.pipelineResults, "pipeline-results", "", "path to the pipeline results CSV")
	return cmd
}
