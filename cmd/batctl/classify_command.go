package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bat-monitor-be/internal/bootstrap"
	"bat-monitor-be/internal/metrics"
	"bat-monitor-be/internal/service"

	"github.com/spf13/cobra"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var raw bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "classify <image>...",
		Short: "Classify local spectrogram images",
		Long: "Loads the configured model once and labels each image. Low-confidence " +
			"labels collapse to \"Unknown species\" unless --raw is given.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg()
			log := ctx.log()

			cls := bootstrap.LoadClassifier(cmd.Context(), cfg.Classifier, log)
			defer cls.Close()
			if _, err := cls.State(); err != nil {
				return err
			}

			publisher, closeBus := bootstrap.NewPublisher(cfg.Events.NatsURL, log)
			defer closeBus()
			species := service.NewSpeciesService(cls, publisher, metrics.NewCollector(), log)

			out := cmd.OutOrStdout()
			enc := json.NewEncoder(out)
			var failed int
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}

				res, err := species.Classify(cmd.Context(), data, raw, service.ClassifyMeta{})
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}

				if jsonOut {
					if err := enc.Encode(map[string]interface{}{"file": path, "result": res}); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintln(out, formatClassification(filepath.Base(path), res))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d images failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Keep the top label even below the confidence threshold")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print one JSON object per image")
	return cmd
}
