package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lyrics-visualizer/pipeline"
)

func init() {
	rootCmd.AddCommand(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the lyrics of every track in the playlist into the lyrics folder",
	RunE: func(cmd *cobra.Command, args []string) error {
		downloader, err := newDownloader(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		summary, err := downloader.DownloadAll(cmd.Context(), cfg.Playlist, cfg.Lyrics.Folder)
		if summary != nil {
			printSummary(cmd, summary, start)
		}
		return err
	},
}

func printSummary(cmd *cobra.Command, s *pipeline.Summary, start time.Time) {
	elapsed := strings.TrimSpace(humanize.RelTime(start, time.Now(), "", ""))
	fmt.Fprintf(cmd.OutOrStdout(), "%s of %s tracks processed in %s: %s new, %s cached, %s not found, %s failed\n",
		humanize.Comma(int64(s.Processed())), humanize.Comma(int64(s.Tracks)), elapsed,
		humanize.Comma(int64(s.Created)), humanize.Comma(int64(s.Existing)),
		humanize.Comma(int64(s.NotFound)), humanize.Comma(int64(s.Failed)))
}
