package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lyrics-visualizer/pipeline"
	"lyrics-visualizer/report"
)

var (
	countMerge bool
	countName  string
)

func init() {
	countCmd.Flags().BoolVar(&countMerge, "merge", false, "Add to the counts stored for this folder instead of replacing them")
	countCmd.Flags().StringVar(&countName, "name", "", "Report file name without extension (default: folder name)")
	countCmd.Flags().String("format", "", "Report format: csv or txt")
	countCmd.Flags().Int("top", 0, "Number of words to chart")
	rootCmd.AddCommand(countCmd)
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count the words in the lyrics folder, write a report and chart the most frequent ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		visualizer, closeStore, err := newVisualizer(false)
		if err != nil {
			return err
		}
		defer closeStore()

		res, err := visualizer.Count(countOptions(countMerge))
		if err != nil {
			return err
		}
		printReport(cmd, res)
		fmt.Fprintln(cmd.OutOrStdout(), report.BarChart(res.Ranked, cfg.Results.Top, report.ChartTitle(cfg.Results.Top, cfg.Lyrics.Folder)))
		return nil
	},
}

func countOptions(merge bool) pipeline.CountOptions {
	return pipeline.CountOptions{
		Folder:     cfg.Lyrics.Folder,
		ResultsDir: cfg.Results.Dir,
		ReportName: countName,
		Format:     cfg.Results.Format,
		Merge:      merge,
	}
}

// newVisualizer opens the store and wires the stages. The downloader is only built when
// download is set, since it needs Spotify credentials.
func newVisualizer(download bool) (*pipeline.Visualizer, func(), error) {
	var downloader *pipeline.Downloader
	if download {
		d, err := newDownloader(cfg)
		if err != nil {
			return nil, nil, err
		}
		downloader = d
	}

	lemmatizer, err := newLemmatizer(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := openStorage(cfg)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			logger.Warnf("Error closing storage: %v", err)
		}
	}
	return pipeline.NewVisualizer(logger, downloader, lemmatizer, store), closeStore, nil
}

func printReport(cmd *cobra.Command, res *pipeline.CountResult) {
	size := ""
	if info, err := os.Stat(res.ReportPath); err == nil {
		size = " (" + humanize.Bytes(uint64(info.Size())) + ")"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Counted %s distinct words, report written to %s%s\n\n",
		humanize.Comma(int64(len(res.Ranked))), res.ReportPath, size)
}
