/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for the Akaylee L* learner. Learns automata from
model files or target programs, inspects saved observation tables and checks the
environment before long learning runs.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-lstar/cmd/lstar/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "akaylee-lstar",
		Short: "Akaylee L* - Active automata learning from membership and equivalence queries",
		Long: `Akaylee L* learns a minimal automaton for an unknown regular language by asking
membership and equivalence queries. Targets can be model files or programs, runs can be
bounded in states, query length and time, and every run produces a report and a
reusable model.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().String("config", "", "Configuration file path")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-dir", "./logs", "Log output directory (empty for console only)")
	rootCmd.PersistentFlags().String("log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().Int("log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int("log-max-size", 100, "Rotate log files larger than this many megabytes")
	rootCmd.PersistentFlags().Bool("log-compress", false, "Compress rotated log files")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))

	// Add learn command
	learnCmd := &cobra.Command{
		Use:   "learn",
		Short: "Learn an automaton from a target",
		Long: `Learn a minimal automaton for a target. A target is either a YAML model
(dfa or moore) or a program answering one query per run (process or process-output).
The run stops when the equivalence oracle accepts the hypothesis or a bound is hit.`,
		PreRunE: commands.BindLearnFlags,
		RunE:    commands.RunLearn,
	}
	commands.AddLearnFlags(learnCmd)
	learnCmd.Flags().Bool("dry-run", false, "Validate configuration and exit without learning")
	rootCmd.AddCommand(learnCmd)

	// Add check command for built-in self-checks
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Perform built-in self-checks before learning",
		Long: `Validate the configuration, load the target, answer a probe query and check
that the output, cache and log directories are writable.`,
		PreRunE: commands.BindLearnFlags,
		RunE:    commands.PerformSelfCheck,
	}
	commands.AddLearnFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)

	// Add inspect command for saved observation tables
	inspectCmd := &cobra.Command{
		Use:   "inspect [table.yaml]",
		Short: "Inspect a saved observation table",
		Long: `Print a saved observation table with its closedness, consistency and
invariant status. With --translator the table is also translated and the
hypothesis printed in Graphviz DOT format.`,
		Args: cobra.ExactArgs(1),
		RunE: commands.RunInspect,
	}
	inspectCmd.Flags().String("outputs", "bool", "Output type of the table (bool, string)")
	inspectCmd.Flags().String("translator", "", "Translate the table (dfa, moore, partial)")
	inspectCmd.Flags().String("hole-output", "", "Output of the hole state for the partial translator")
	inspectCmd.Flags().String("hole-policy", "sink", "Transitions of the hole state (sink, self-loop)")
	rootCmd.AddCommand(inspectCmd)

	// Add logs command for log directory summaries
	rootCmd.AddCommand(&cobra.Command{
		Use:   "logs [dir]",
		Short: "Summarize learner log files",
		Long: `Count the hypotheses, counterexamples, inconsistencies and finished runs
recorded in a log directory, rotated and compressed files included. The directory
defaults to --log-dir.`,
		Args: cobra.MaximumNArgs(1),
		RunE: commands.RunLogs,
	})

	// Add list-translators command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-translators",
		Short: "List available table translators",
		Run:   commands.ListTranslators,
	})

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
