package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/brand-cli/internal/pipeline"
	"github.com/sells-group/brand-cli/internal/store"
)

var batchFile string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate brand profiles for a file of URLs",
	Long:  "Reads one URL per line, optionally followed by a company id, and prints one JSON result per line. Blank lines and lines starting with # are skipped.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		f, err := os.Open(batchFile)
		if err != nil {
			return eris.Wrapf(err, "open %s", batchFile)
		}
		defer f.Close() //nolint:errcheck

		jobs, err := readBatchJobs(f)
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		stats := processBatch(ctx, jobs, cfg.Batch.MaxConcurrent, env.Pipeline.Generate, env.Store, os.Stdout)
		if stats.Failed > 0 {
			return eris.Errorf("batch: %d of %d failed", stats.Failed, stats.Total)
		}
		return nil
	},
}

// batchJob is one input line.
type batchJob struct {
	URL       string
	CompanyID string
}

// batchOutput is one JSON line of batch output.
type batchOutput struct {
	URL       string `json:"url"`
	CompanyID string `json:"company_id,omitempty"`
	pipeline.Result
}

type batchStats struct {
	Total     int
	Succeeded int64
	Failed    int64
}

// generateFunc runs one pipeline. *pipeline.Pipeline's Generate satisfies it.
type generateFunc func(ctx context.Context, url string) pipeline.Result

// readBatchJobs parses "url [company-id]" lines.
func readBatchJobs(r io.Reader) ([]batchJob, error) {
	var jobs []batchJob
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		job := batchJob{URL: fields[0]}
		if len(fields) > 1 {
			job.CompanyID = fields[1]
		}
		jobs = append(jobs, job)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "read batch file")
	}
	return jobs, nil
}

// processBatch runs jobs with bounded concurrency. Individual failures are
// counted and written out; they never abort the batch.
func processBatch(ctx context.Context, jobs []batchJob, concurrency int, generate generateFunc, st store.Store, out io.Writer) batchStats {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		succeeded atomic.Int64
		failed    atomic.Int64
		mu        sync.Mutex
	)
	enc := json.NewEncoder(out)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, job := range jobs {
		job := job
		g.Go(func() error {
			res := generate(gctx, job.URL)
			if res.Success {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}

			if err := persistResult(gctx, st, job.CompanyID, job.URL, res); err != nil {
				zap.L().Warn("batch: failed to persist result",
					zap.String("url", job.URL),
					zap.Error(err),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			if err := enc.Encode(batchOutput{URL: job.URL, CompanyID: job.CompanyID, Result: res}); err != nil {
				zap.L().Error("batch: failed to write result", zap.String("url", job.URL), zap.Error(err))
			}
			return nil
		})
	}

	_ = g.Wait()

	stats := batchStats{Total: len(jobs), Succeeded: succeeded.Load(), Failed: failed.Load()}
	zap.L().Info("batch complete",
		zap.Int("total", stats.Total),
		zap.Int64("succeeded", stats.Succeeded),
		zap.Int64("failed", stats.Failed),
	)
	return stats
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file with one URL per line")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}
