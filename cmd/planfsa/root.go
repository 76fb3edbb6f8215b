package main

import (
	"fmt"
	"os"

	"github.com/aretw0/planfsa/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "planfsa",
	Short: "planfsa learns finite state automata from plan corpora",
	Long: `planfsa induces the grammar shared by a set of plans, builds the automaton that
accepts it and, given a planning domain, merges the automaton back into the domain.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Configuration file (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text, json)")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address for the result store")
	rootCmd.PersistentFlags().String("store-dir", "", "Directory for the file result store")
}

// loadConfig loads the configuration file and environment, then applies every
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("log-level", &cfg.Log.Level)
	str("log-format", &cfg.Log.Format)
	str("redis-addr", &cfg.Store.Redis.Addr)
	str("store-dir", &cfg.Store.Dir)
	if flags.Lookup("path") != nil {
		str("path", &cfg.Plans.Dir)
		str("regexp", &cfg.Plans.Filter)
		str("output", &cfg.Output.Name)
		str("format", &cfg.Output.Format)
		str("merge-pddl", &cfg.Domain.File)
		str("metrics-file", &cfg.Metrics.File)
		if flags.Changed("object-focus") {
			cfg.Selector.ObjectFocus, _ = flags.GetBool("object-focus")
		}
	}
	if flags.Lookup("addr") != nil {
		str("addr", &cfg.Serve.Addr)
	}
	return cfg, nil
}
