package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lyrics-visualizer/scraper"
	"lyrics-visualizer/utils"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check Spotify credentials, the search engine, the lyrics site and the storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		fetcher := newFetcher(cfg)
		checkers := map[string]utils.HealthChecker{
			"search": scraper.Reachability{
				Fetcher: fetcher,
				URL:     scraper.BuildQuery(cfg.Lyrics.SearchURL, cfg.Lyrics.Site, "lyrics"),
			},
			"lyrics_site": scraper.Reachability{Fetcher: fetcher, URL: cfg.Lyrics.Prefix},
			"storage":     storageCheck{config: cfg},
		}
		if err := cfg.RequireSpotify(false); err != nil {
			logger.Warnf("Skipping Spotify check: %v", err)
		} else {
			checkers["spotify"] = newTokenManager(cfg)
		}

		status := utils.CheckHealth(cmd.Context(), checkers)
		out, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		if status.Status != "healthy" {
			return errors.New(status.Message)
		}
		return nil
	},
}
