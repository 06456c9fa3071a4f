package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is overridden at build time with -ldflags.
var Version = "v0.1 -- HEAD"

// logger is configured by the root command before any subcommand runs.
var logger = zerolog.Nop()

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tgmq",
		Short: "Tgmq is a tool for inspecting rFactor2 TGM tire files.",
		Long: `Tgmq reads TGM tire definitions (nodes, plies, materials, realtime
parameters and lookup data) and prints them as YAML, JSON or a short summary.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			l, err := newLogger(viper.GetString("log_level"), viper.GetString("log_format"), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config file (yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newTgmCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Tgmq",
		Long:  `All software has versions. This is Tgmq's`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Tgmq", Version)
		},
	}
}

// loadConfig wires environment variables (TGMQ_LOG_LEVEL, TGMQ_TGM_FORMAT, ...)
// and the optional --config file into viper.
func loadConfig() error {
	viper.SetEnvPrefix("TGMQ")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	path := viper.GetString("config")
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
