package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openhouse-labs/propscore/internal/engine"
	"github.com/openhouse-labs/propscore/internal/export"
	"github.com/openhouse-labs/propscore/internal/model"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every cohort file in a directory",
	Long: `Runs the comparison engine over each *.json cohort file in a
directory, writing one report per cohort to the output directory.

Example:
  batch --dir cohorts/ --out reports/ --format csv --concurrency 4`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("dir", "", "directory of cohort JSON files (required)")
	f.String("out", "", "output directory (default: alongside the inputs)")
	f.String("criteria-file", "", "YAML criteria file applied to every cohort")
	f.String("format", "csv", "output format: table, csv, json, or xlsx")
	f.Int("concurrency", 4, "max cohorts scored in parallel")
	_ = batchCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dir, _ := cmd.Flags().GetString("dir")
	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = dir
	}
	format, _ := cmd.Flags().GetString("format")
	outFormat, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency < 1 {
		concurrency = 1
	}

	criteria, err := loadCriteria(cmd)
	if err != nil {
		return err
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return eris.Wrapf(err, "batch: list cohort files in %s", dir)
	}
	if len(files) == 0 {
		zap.L().Info("no cohort files found", zap.String("dir", dir))
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return eris.Wrapf(err, "batch: create output directory %s", outDir)
	}

	return processBatch(ctx, files, outDir, outFormat, criteria, concurrency, engine.New(cfg.Engine))
}

// processBatch scores cohort files concurrently. An individual cohort
// failure is logged and counted, not fatal to the batch.
func processBatch(ctx context.Context, files []string, outDir string, format export.Format, criteria model.ComparisonCriteria, concurrency int, eng *engine.Engine) error {
	zap.L().Info("processing batch",
		zap.Int("cohorts", len(files)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			log := zap.L().With(zap.String("cohort", file))

			properties, err := readCohortFile(file)
			if err != nil {
				failed.Add(1)
				log.Error("cohort unreadable", zap.Error(err))
				return nil
			}

			results, err := eng.Compare(properties, criteria)
			if err != nil {
				failed.Add(1)
				log.Error("scoring failed", zap.Error(err))
				return nil
			}

			outPath := batchOutputPath(outDir, file, format)
			report := &export.Report{Properties: properties, Criteria: criteria, Results: results}
			if err := writeReport(report, format, outPath); err != nil {
				failed.Add(1)
				log.Error("write report failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("cohort scored",
				zap.Int("properties", len(results)),
				zap.String("output", outPath),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

// batchOutputPath derives reports/<name>.<ext> from cohorts/<name>.json.
func batchOutputPath(outDir, cohortFile string, format export.Format) string {
	base := strings.TrimSuffix(filepath.Base(cohortFile), filepath.Ext(cohortFile))
	ext := string(format)
	if format == export.FormatTable {
		ext = "txt"
	}
	return filepath.Join(outDir, base+"."+ext)
}
