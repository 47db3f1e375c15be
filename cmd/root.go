package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lyrics-visualizer/config"
	"lyrics-visualizer/utils"
)

var (
	cfg    *config.Config
	logger = utils.Logger
)

var rootCmd = &cobra.Command{
	Use:   "lyrics-visualizer",
	Short: "Lyrics visualizer downloads the lyrics of a Spotify playlist and charts its most frequent Japanese words.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bindCommandFlags(cmd)
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, utils.Describe(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	// Define flags
	rootCmd.PersistentFlags().String("loglevel", "", "Logging level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().String("storage", "", "Storage type: file, sqlite, postgres, redis or memory")
	rootCmd.PersistentFlags().String("storage-path", "", "Storage directory, database connection string or redis URL")
	rootCmd.PersistentFlags().StringP("playlist", "p", "", "Spotify playlist ID")
	rootCmd.PersistentFlags().StringP("folder", "f", "", "Folder holding one lyrics file per track")
	rootCmd.PersistentFlags().String("results", "", "Directory for the word frequency reports")

	// Bind flags to Viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("loglevel"))
	viper.BindPFlag("storage.type", rootCmd.PersistentFlags().Lookup("storage"))
	viper.BindPFlag("storage.path", rootCmd.PersistentFlags().Lookup("storage-path"))
	viper.BindPFlag("playlist", rootCmd.PersistentFlags().Lookup("playlist"))
	viper.BindPFlag("lyrics.folder", rootCmd.PersistentFlags().Lookup("folder"))
	viper.BindPFlag("results.dir", rootCmd.PersistentFlags().Lookup("results"))
}

// commandFlags maps flags that several subcommands define to their config keys.
var commandFlags = map[string]string{
	"top":    "results.top",
	"format": "results.format",
}

// bindCommandFlags binds the running command's own flags, since a viper key holds a single flag binding.
func bindCommandFlags(cmd *cobra.Command) {
	for name, key := range commandFlags {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			viper.BindPFlag(key, flag)
		}
	}
}

func initConfig() error {
	// .env values become plain environment variables before viper reads them
	utils.LoadDotEnv()

	v := viper.GetViper()
	config.SetDefaults(v)
	config.BindEnv(v)
	if err := config.ReadFile(v); err != nil {
		return err
	}

	loaded, err := config.FromViper(v)
	if err != nil {
		return err
	}
	cfg = loaded
	utils.SetLevel(cfg.LogLevel)

	logger.Debugf("Using storage type: %s, path: %s", cfg.Storage.Type, cfg.Storage.Path)
	return nil
}
