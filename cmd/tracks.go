package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tracksCmd)
}

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List the artist and title of every track in the playlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		playlists, err := newPlaylistService(cfg)
		if err != nil {
			return err
		}

		tracks, err := playlists.TracksTable(cmd.Context(), cfg.Playlist)
		if err != nil {
			return err
		}
		if len(tracks) == 0 {
			logger.Warnf("No tracks found for playlist %s", cfg.Playlist)
			return nil
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "Artist", "Track")
		for i, track := range tracks {
			t.Row(fmt.Sprint(i+1), track.Artist, track.Title)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		return nil
	},
}
