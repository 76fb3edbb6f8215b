package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/planfsa/internal/adapters/file"
	"github.com/aretw0/planfsa/internal/cli"
	"github.com/aretw0/planfsa/pkg/ports"
	"github.com/spf13/cobra"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage cached learn results",
	Long:  `List, inspect, and remove learn results kept in the result store (Redis, or .planfsa/results by default).`,
}

var resultsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached results",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := getStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		fingerprints, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing results: %w", err)
		}

		if len(fingerprints) == 0 {
			fmt.Println("No cached results found.")
			return nil
		}

		fmt.Println("Cached Results:")
		for _, fp := range fingerprints {
			fmt.Println("- " + fp)
		}
		return nil
	},
}

var resultsInspectCmd = &cobra.Command{
	Use:   "inspect <fingerprint>",
	Short: "Inspect a cached result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := getStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		record, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading result '%s': %w", args[0], err)
		}

		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	},
}

var resultsRmCmd = &cobra.Command{
	Use:   "rm <fingerprint>...",
	Short: "Remove one or more cached results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := getStore(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		failed := 0
		for _, fp := range args {
			if err := store.Delete(cmd.Context(), fp); err != nil {
				fmt.Printf("Error removing '%s': %v\n", fp, err)
				failed++
			} else {
				fmt.Printf("Removed result '%s'\n", fp)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d result(s) not removed", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.AddCommand(resultsLsCmd)
	resultsCmd.AddCommand(resultsInspectCmd)
	resultsCmd.AddCommand(resultsRmCmd)
}

// getStore opens the configured result store, falling back to the default
// file store.
func getStore(cmd *cobra.Command) (ports.ResultStore, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, _, closer := cli.OpenStore(cfg.Store)
	if store == nil {
		store = file.New("")
	}
	return store, func() { _ = closer.Close() }, nil
}
