package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/brand-cli/internal/pipeline"
	"github.com/sells-group/brand-cli/internal/store"
)

var (
	generateURL       string
	generateCompanyID string
	generateFormat    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a brand profile for one company website",
	Example: `  brand-cli generate --url https://acme.com
  brand-cli generate --url https://acme.com --company-id acme --format yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateFormat != "json" && generateFormat != "yaml" {
			return eris.Errorf("unsupported format %q (want json or yaml)", generateFormat)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "generate")
		if err != nil {
			return err
		}
		defer env.Close()

		res := env.Pipeline.Generate(ctx, generateURL)

		if err := persistResult(ctx, env.Store, generateCompanyID, generateURL, res); err != nil {
			zap.L().Warn("failed to persist result",
				zap.String("run_id", res.RunID),
				zap.Error(err),
			)
		}

		if err := writeResult(os.Stdout, res, generateFormat); err != nil {
			return err
		}

		if !res.Success {
			return eris.Errorf("generate: %s", res.Error)
		}
		return nil
	},
}

// writeResult prints the run envelope as indented JSON or YAML.
func writeResult(w io.Writer, res pipeline.Result, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(res), "encode json")
	}
}

// persistResult records the run and, on success with a company id, upserts
// the profile. A nil store is a no-op.
func persistResult(ctx context.Context, st store.Store, companyID, url string, res pipeline.Result) error {
	if st == nil {
		return nil
	}

	if err := st.RecordRun(ctx, res.Record(companyID, url)); err != nil {
		return eris.Wrap(err, "record run")
	}

	if !res.Success || res.Data == nil || companyID == "" {
		return nil
	}
	if err := st.UpsertProfile(ctx, companyID, url, *res.Data); err != nil {
		return eris.Wrapf(err, "upsert profile for %s", companyID)
	}
	return nil
}

func init() {
	generateCmd.Flags().StringVar(&generateURL, "url", "", "company homepage URL")
	generateCmd.Flags().StringVar(&generateCompanyID, "company-id", "", "company id used to store the profile")
	generateCmd.Flags().StringVar(&generateFormat, "format", "json", "output format: json or yaml")
	_ = generateCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(generateCmd)
}
