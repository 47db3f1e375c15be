package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var visualizeMerge bool

func init() {
	visualizeCmd.Flags().IntP("top", "n", 0, "Number of top words to chart (default 20)")
	visualizeCmd.Flags().BoolVar(&visualizeMerge, "merge", false, "Add to the counts stored for this folder instead of replacing them")
	rootCmd.AddCommand(visualizeCmd)
}

var visualizeCmd = &cobra.Command{
	Use:   "visualize",
	Short: "Download the playlist's lyrics, count them and chart the most frequent words",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Starting visualize")
		visualizer, closeStore, err := newVisualizer(true)
		if err != nil {
			return err
		}
		defer closeStore()

		start := time.Now()
		res, err := visualizer.Run(cmd.Context(), cfg.Playlist, cfg.Results.Top, countOptions(visualizeMerge))
		if res != nil && res.Summary != nil {
			printSummary(cmd, res.Summary, start)
		}
		if err != nil {
			return err
		}

		printReport(cmd, &res.CountResult)
		fmt.Fprintln(cmd.OutOrStdout(), res.Chart)
		return nil
	},
}
