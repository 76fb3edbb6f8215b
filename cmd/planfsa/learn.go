package main

import (
	"os"

	"github.com/aretw0/planfsa/internal/cli"
	"github.com/spf13/cobra"
)

// learnCmd represents the learn command
var learnCmd = &cobra.Command{
	Use:   "learn -p PLANDIR [-r RE] [-o OUT -f FORMAT] [-m DOMAIN]",
	Short: "Learn an automaton from a directory of plans",
	Long: `Reads every plan in PLANDIR whose name matches RE, learns the automaton and
writes it to OUT.FORMAT. With a PDDL domain the states are typed and the
augmented domain is written to OUT.pddl.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		watch, _ := cmd.Flags().GetBool("watch")

		return cli.Execute(cli.RunOptions{
			Config: cfg,
			Watch:  watch,
			Banner: watch,
			Out:    os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(learnCmd)

	learnCmd.Flags().StringP("path", "p", "", "Path to directory with plans")
	learnCmd.Flags().StringP("regexp", "r", "..*", "Only plans whose file name matches RE are used for learning")
	learnCmd.Flags().StringP("output", "o", "", "Output file name base")
	learnCmd.Flags().StringP("format", "f", "", "Output format (gv, mmd, png, svg, pdf, json, yaml)")
	learnCmd.Flags().StringP("merge-pddl", "m", "", "Path to PDDL domain file")
	learnCmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this file after each run")
	learnCmd.Flags().Bool("object-focus", false, "Prefer pivots whose middle blocks touch fewer objects")
	learnCmd.Flags().BoolP("watch", "w", false, "Relearn whenever the plan directory changes")

	// learn is the default command.
	rootCmd.RunE = learnCmd.RunE
	rootCmd.Flags().AddFlagSet(learnCmd.Flags())
}
