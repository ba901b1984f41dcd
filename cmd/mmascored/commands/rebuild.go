package commands

import (
	"log/slog"
	"time"

	"mmascorecard-backend/lib/serviceutil"
	"mmascorecard-backend/lib/webcache"

	"github.com/spf13/cobra"
)

var rebuildKeep *bool

func init() {
	rebuildKeep = rebuildCmd.Flags().Bool("keep", false, "Keep existing rows instead of dropping the schema first.")
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild [--keep]",
	Short: "Scrapes every listed event and rebuilds the fight database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := readConfig()
		store := openStore(ctx, config)

		if !*rebuildKeep {
			err := store.ResetSchema(ctx)
			if err != nil {
				serviceutil.Fatal("failed to reset schema", err)
			}
		}

		cache, err := webcache.OpenFile(config.CacheFile)
		if err != nil {
			serviceutil.Fatal("failed to open web cache", err)
		}

		t1 := time.Now()
		err = newPipeline(ctx, config, store, cache).Run(ctx)
		if err != nil {
			serviceutil.Fatal("rebuild failed", err)
		}
		slog.Info("rebuild time", "seconds", time.Since(t1).Seconds())
	},
}
