package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "episim",
		Short:         "Agent-based epidemic simulator on a generated city grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log generation details")

	logger := func() *log.Logger { return newLogger(verbose) }
	rootCmd.AddCommand(runCmd(logger))
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd(logger))

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		Prefix:          "episim",
		ReportTimestamp: true,
	})
}

func runCmd(logger func() *log.Logger) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run [project-path]",
		Short: "Run a scenario headless and print the final counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd.Context(), args[0], opts, logger())
		},
	}

	cmd.Flags().IntVarP(&opts.days, "days", "d", 0, "simulated days to run (overrides the scenario)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed (overrides the scenario)")
	cmd.Flags().StringVar(&opts.chartPath, "chart", "", "write the metrics chart to this PNG file")
	cmd.Flags().StringVar(&opts.snapshotPath, "snapshot", "", "write the final snapshot to this JSON file")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a scenario without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func serveCmd(logger func() *log.Logger) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Run a scenario live behind the HTTP API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], port, logger())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
