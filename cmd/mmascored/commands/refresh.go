package commands

import (
	"log/slog"
	"time"

	"mmascorecard-backend/lib/serviceutil"
	"mmascorecard-backend/lib/webcache"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-scrapes upcoming events only, leaving past events untouched.",
	Long: "Refresh purges upcoming events and reinserts them from a fresh " +
		"scrape. Run it on a schedule to pick up result updates as cards happen.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := readConfig()
		store := openStore(ctx, config)

		// short-lived invocation, fetch everything fresh so stale cached
		// listings never mask a result update
		t1 := time.Now()
		err := newPipeline(ctx, config, store, webcache.NewMemory()).Refresh(ctx)
		if err != nil {
			serviceutil.Fatal("refresh failed", err)
		}
		slog.Info("refresh time", "seconds", time.Since(t1).Seconds())
	},
}
