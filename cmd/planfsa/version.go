package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/planfsa"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of planfsa",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("planfsa version %s\n", strings.TrimSpace(planfsa.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
