package commands

import (
	"os"
	"time"

	"mmascorecard-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var eventsLimit *int

func init() {
	eventsLimit = eventsCmd.Flags().Int("limit", 25, "Maximum number of events to print, 0 for all.")
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events [--limit <n>]",
	Short: "Prints stored events, most recent first.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := readConfig()
		store := openStore(ctx, config)

		events, err := store.Events(ctx)
		if err != nil {
			serviceutil.Fatal("failed to list events", err)
		}
		if *eventsLimit > 0 && len(events) > *eventsLimit {
			events = events[:*eventsLimit]
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Date", "Name", "Headline", "Status", "Location"})
		for _, event := range events {
			date := "TBD"
			if event.Date != nil {
				date = event.Date.Format(time.DateOnly)
			}
			t.AppendRow(table.Row{
				date,
				event.Name,
				event.Fight,
				event.Status,
				event.Location.City.Name + ", " + event.Location.City.Country.Name,
			})
		}
		t.Render()
	},
}
