// Package cli implements the wats command tree: roster management, the
// interactive scorekeeper, history and leaderboard views, backup
// import/export, and local multiplayer hosting/joining.
package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bulbousnub/wats-go/internal/factory"
)

var (
	cfg *Config
	app *factory.App
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix("WATS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "wats",
		Short: "Scorekeeper for the What Are They Selling party game",
		Long: `wats keeps score for the What Are They Selling party game: players
shout category guesses for upcoming shopping-channel segments while one
participant tallies points, tracks rounds, and reviews history.

It can also host or join a local multiplayer session over the LAN.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			bindFlags(cmd.Flags(), v)

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelInfo
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)

			var err error
			app, err = factory.New(factory.Config{
				DataPath: cfg.DataFile,
				Logger:   logger,
			})
			return err
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.DataFile, "data-file", cfg.DataFile,
		"Path to the data file (env: WATS_DATA_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose,
		"Verbose output (env: WATS_VERBOSE)")

	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newCategoryCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newHostCmd())
	rootCmd.AddCommand(newJoinCmd())

	return rootCmd
}

// bindFlags back-fills unset flags from WATS_-prefixed env vars
func bindFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.VisitAll(func(f *pflag.Flag) {
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, v.GetString(f.Name))
		}
	})
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
