package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"lyrics-visualizer/report"
)

var showList bool

func init() {
	showCmd.Flags().BoolVar(&showList, "list", false, "List the stored corpora")
	showCmd.Flags().Int("top", 0, "Number of words to chart")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [corpus]",
	Short: "Chart stored word counts without counting again (default corpus: the lyrics folder name)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStorage(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		if showList {
			corpora, err := store.ListCorpora()
			if err != nil {
				return err
			}
			for _, corpus := range corpora {
				fmt.Fprintln(cmd.OutOrStdout(), corpus)
			}
			return nil
		}

		corpus := filepath.Base(filepath.Clean(cfg.Lyrics.Folder))
		if len(args) == 1 {
			corpus = args[0]
		}
		counts, err := store.LoadCounts(corpus)
		if err != nil {
			return fmt.Errorf("loading %s: %w", corpus, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.BarChart(counts, cfg.Results.Top, report.ChartTitle(cfg.Results.Top, corpus)))
		return nil
	},
}
