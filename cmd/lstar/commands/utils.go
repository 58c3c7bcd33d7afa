/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Akaylee L* commands. Provides learning flags,
configuration loading and logging setup used across all command implementations.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/kleascm/akaylee-lstar/pkg/config"
	"github.com/kleascm/akaylee-lstar/pkg/logging"
	"github.com/kleascm/akaylee-lstar/pkg/oracle"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AddLearnFlags adds the learning run flags shared by learn and check
func AddLearnFlags(cmd *cobra.Command) {
	sampling := oracle.DefaultSamplingConfig()
	flags := cmd.Flags()

	// Target configuration
	flags.String("target", "", "Target model file or program (required)")
	flags.String("target-kind", config.TargetDFA, "Target kind (dfa, moore, process, process-output)")
	flags.StringSlice("target-args", []string{}, "Command-line arguments for a program target")
	flags.StringSlice("alphabet", []string{}, "Input symbols of a program target")
	flags.String("separator", "", "Separator between symbols on the target's stdin")
	flags.Duration("process-timeout", 0, "Maximum time per program query (default 5s)")

	// Learner configuration
	flags.String("translator", "dfa", "Table translator (dfa, moore, partial)")
	flags.String("variant", "classic", "Counterexample handling (classic, col)")
	flags.Int("max-states", 0, "Stop when a hypothesis needs more states (0 = unbounded)")
	flags.Int("max-query-length", 0, "Longest membership query allowed (0 = unbounded)")
	flags.Duration("max-time", 0, "Wall-clock limit of the run (0 = unbounded)")
	flags.Bool("shorten-counterexamples", false, "Decompose counterexamples before adding them")
	flags.String("hole-output", "", "Output of the hole state for the partial translator")
	flags.String("hole-policy", "sink", "Transitions of the hole state (sink, self-loop)")

	// Equivalence configuration
	flags.String("equivalence", config.EquivalenceExact, "Equivalence oracle (exact, sampling)")
	flags.Int64("seed", sampling.Seed, "Random seed for sampling equivalence")
	flags.Int("samples", sampling.Samples, "Samples per equivalence query (0 = PAC bound)")
	flags.Int("max-sample-length", sampling.MaxLength, "Longest sampled word")
	flags.Float64("epsilon", sampling.Epsilon, "PAC error bound")
	flags.Float64("delta", sampling.Delta, "PAC confidence bound")

	// Persistence and output
	flags.String("cache-dir", "", "Directory of the persistent query cache (empty disables)")
	flags.String("resume-table", "", "Observation table snapshot to resume from")
	flags.String("save-table", "", "Write the final observation table to this file")
	flags.String("output-dir", "./lstar_output", "Directory for reports and the learned model")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address (host:port)")
}

// BindLearnFlags binds the flags of the running command to viper keys.
// Binding happens per command because learn and check share flag names.
func BindLearnFlags(cmd *cobra.Command, args []string) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		bindErr = viper.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return bindErr
}

// LoadConfig loads the learning configuration from the config file, environment and flags
func LoadConfig() (*config.LearnConfig, error) {
	if configFile := viper.GetString("config"); configFile != "" {
		return config.LoadFile(viper.GetViper(), configFile)
	}
	return config.Load(viper.GetViper())
}

// SetupLogging creates the logger from the logging flags
func SetupLogging() (*logging.Logger, error) {
	cfg := logging.DefaultConfig()
	if level := viper.GetString("log_level"); level != "" {
		cfg.Level = logging.LogLevel(level)
	}
	if format := viper.GetString("log_format"); format != "" {
		cfg.Format = logging.LogFormat(format)
	}
	cfg.OutputDir = viper.GetString("log_dir")
	if maxFiles := viper.GetInt("log_max_files"); maxFiles > 0 {
		cfg.MaxFiles = maxFiles
	}
	if maxSize := viper.GetInt64("log_max_size"); maxSize > 0 {
		cfg.MaxSize = maxSize * 1024 * 1024
	}
	cfg.Compress = viper.GetBool("log_compress")

	logger, err := logging.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger, nil
}
