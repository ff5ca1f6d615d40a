package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/brand-cli/internal/model"
	"github.com/sells-group/brand-cli/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Inspect stored brand profiles",
}

// -- profile get --

var profileGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a company's stored brand profile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		companyID, _ := cmd.Flags().GetString("company-id")
		p, err := st.GetProfile(ctx, companyID)
		if eris.Is(err, store.ErrNotFound) {
			return eris.Errorf("no profile stored for %s", companyID)
		}
		if err != nil {
			return eris.Wrap(err, "profile get")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

// -- profile runs --

var profileRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent generation runs for a company",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		companyID, _ := cmd.Flags().GetString("company-id")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, companyID, limit)
		if err != nil {
			return eris.Wrap(err, "profile runs")
		}
		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- store migrate --

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the profile store",
}

var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the profile and run tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		fmt.Fprintf(os.Stderr, "Store migrated (%s).\n", cfg.Store.Driver)
		return nil
	},
}

// requireStore opens the configured store, failing when none is configured.
func requireStore(cmd *cobra.Command) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	return initStore(cmd.Context())
}

func formatRunsList(w io.Writer, runs []model.RunRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tURL\tCREATED\tERROR")
	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			status,
			r.URL,
			r.CreatedAt.Format(time.DateTime),
			truncate(r.Error, 60),
		)
	}
	_ = tw.Flush()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	profileGetCmd.Flags().String("company-id", "", "company id")
	_ = profileGetCmd.MarkFlagRequired("company-id")

	profileRunsCmd.Flags().String("company-id", "", "company id (empty lists all companies)")
	profileRunsCmd.Flags().Int("limit", store.DefaultRunLimit, "max runs to show")

	profileCmd.AddCommand(profileGetCmd, profileRunsCmd)
	storeCmd.AddCommand(storeMigrateCmd)
	rootCmd.AddCommand(profileCmd, storeCmd)
}
