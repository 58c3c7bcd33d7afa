/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config.go
Description: Learning run configuration. Values come from defaults, an optional config file,
AKAYLEE_ environment variables and command-line flags through viper, and are checked with
struct-tag validation plus the cross-field rules the learner depends on.
*/

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kleascm/akaylee-lstar/pkg/learner"
	"github.com/kleascm/akaylee-lstar/pkg/oracle"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "AKAYLEE"

// Target kinds
const (
	TargetDFA           = "dfa"
	TargetMoore         = "moore"
	TargetProcess       = "process"
	TargetProcessOutput = "process-output"
)

// Equivalence oracles
const (
	EquivalenceExact    = "exact"
	EquivalenceSampling = "sampling"
)

var validate = validator.New()

// LearnConfig holds everything needed to set up one learning run.
// Zero bounds are unbounded.
type LearnConfig struct {
	// Target
	Target         string        `mapstructure:"target" validate:"required"`
	TargetKind     string        `mapstructure:"target_kind" validate:"oneof=dfa moore process process-output"`
	TargetArgs     []string      `mapstructure:"target_args"`
	Alphabet       []string      `mapstructure:"alphabet"` // Input symbols of a process target
	Separator      string        `mapstructure:"separator"`
	ProcessTimeout time.Duration `mapstructure:"process_timeout" validate:"gte=0"`

	// Learner
	Translator             string        `mapstructure:"translator" validate:"oneof=dfa moore partial"`
	Variant                string        `mapstructure:"variant" validate:"oneof=classic col"`
	MaxStates              int           `mapstructure:"max_states" validate:"gte=0"`
	MaxQueryLength         int           `mapstructure:"max_query_length" validate:"gte=0"`
	MaxTime                time.Duration `mapstructure:"max_time" validate:"gte=0"`
	ShortenCounterexamples bool          `mapstructure:"shorten_counterexamples"`
	HoleOutput             string        `mapstructure:"hole_output"`
	HolePolicy             string        `mapstructure:"hole_policy" validate:"oneof=sink self-loop"`

	// Equivalence
	Equivalence     string  `mapstructure:"equivalence" validate:"oneof=exact sampling"`
	Seed            int64   `mapstructure:"seed"`
	Samples         int     `mapstructure:"samples" validate:"gte=0"`
	MaxSampleLength int     `mapstructure:"max_sample_length" validate:"gte=1"`
	Epsilon         float64 `mapstructure:"epsilon" validate:"gt=0,lt=1"`
	Delta           float64 `mapstructure:"delta" validate:"gt=0,lt=1"`

	// Persistence and output
	CacheDir    string `mapstructure:"cache_dir"`
	ResumeTable string `mapstructure:"resume_table"`
	SaveTable   string `mapstructure:"save_table"`
	OutputDir   string `mapstructure:"output_dir"`
	MetricsAddr string `mapstructure:"metrics_addr" validate:"omitempty,hostname_port"`
}

// SetDefaults registers the default of every key so environment variables can override them
func SetDefaults(v *viper.Viper) {
	sampling := oracle.DefaultSamplingConfig()

	v.SetDefault("target", "")
	v.SetDefault("target_kind", TargetDFA)
	v.SetDefault("target_args", []string{})
	v.SetDefault("alphabet", []string{})
	v.SetDefault("separator", "")
	v.SetDefault("process_timeout", 5*time.Second)

	v.SetDefault("translator", "dfa")
	v.SetDefault("variant", string(learner.VariantClassic))
	v.SetDefault("max_states", 0)
	v.SetDefault("max_query_length", 0)
	v.SetDefault("max_time", time.Duration(0))
	v.SetDefault("shorten_counterexamples", false)
	v.SetDefault("hole_output", "")
	v.SetDefault("hole_policy", "sink")

	v.SetDefault("equivalence", EquivalenceExact)
	v.SetDefault("seed", sampling.Seed)
	v.SetDefault("samples", sampling.Samples)
	v.SetDefault("max_sample_length", sampling.MaxLength)
	v.SetDefault("epsilon", sampling.Epsilon)
	v.SetDefault("delta", sampling.Delta)

	v.SetDefault("cache_dir", "")
	v.SetDefault("resume_table", "")
	v.SetDefault("save_table", "")
	v.SetDefault("output_dir", "./lstar_output")
	v.SetDefault("metrics_addr", "")
}

// Load reads the configuration from v, applying defaults and the environment
func Load(v *viper.Viper) (*LearnConfig, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg LearnConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads path into v and loads the configuration
func LoadFile(v *viper.Viper, path string) (*LearnConfig, error) {
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Load(v)
}

// Validate checks field ranges and the combinations the learner supports
func (c *LearnConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Translator {
	case "dfa":
		if !c.BooleanTarget() {
			return fmt.Errorf("translator dfa needs an accepting target, got %s", c.TargetKind)
		}
	case "moore":
		if c.BooleanTarget() {
			return fmt.Errorf("translator moore needs an output target, got %s", c.TargetKind)
		}
	}
	if c.IsProcess() {
		if c.Equivalence == EquivalenceExact {
			return fmt.Errorf("a process target has no exact equivalence oracle; use sampling")
		}
		if _, err := c.InputAlphabet(); err != nil {
			return err
		}
	}
	if c.Translator == "partial" && c.BooleanTarget() {
		if _, err := c.BoolHoleOutput(); err != nil {
			return err
		}
	}
	return nil
}

// IsProcess reports whether the target is a program
func (c *LearnConfig) IsProcess() bool {
	return c.TargetKind == TargetProcess || c.TargetKind == TargetProcessOutput
}

// BooleanTarget reports whether the target accepts or rejects rather than printing outputs
func (c *LearnConfig) BooleanTarget() bool {
	return c.TargetKind == TargetDFA || c.TargetKind == TargetProcess
}

// BoolHoleOutput parses HoleOutput for accepting targets; empty means reject
func (c *LearnConfig) BoolHoleOutput() (bool, error) {
	if c.HoleOutput == "" {
		return false, nil
	}
	out, err := strconv.ParseBool(c.HoleOutput)
	if err != nil {
		return false, fmt.Errorf("hole output %q is not a boolean", c.HoleOutput)
	}
	return out, nil
}

// InputAlphabet returns the configured alphabet of a process target
func (c *LearnConfig) InputAlphabet() (sequence.Alphabet, error) {
	if len(c.Alphabet) == 0 {
		return nil, fmt.Errorf("a process target needs an alphabet")
	}
	symbols := make([]sequence.Symbol, len(c.Alphabet))
	for i, s := range c.Alphabet {
		symbols[i] = sequence.Symbol(s)
	}
	alphabet, err := sequence.NewAlphabet(symbols...)
	if err != nil {
		return nil, fmt.Errorf("invalid alphabet: %w", err)
	}
	return alphabet, nil
}

// LearnerConfig returns the learner bounds and variant
func (c *LearnConfig) LearnerConfig() (learner.Config, error) {
	variant, err := learner.ParseVariant(c.Variant)
	if err != nil {
		return learner.Config{}, err
	}
	return learner.Config{
		MaxStates:              c.MaxStates,
		MaxQueryLength:         c.MaxQueryLength,
		MaxTime:                c.MaxTime,
		Variant:                variant,
		ShortenCounterexamples: c.ShortenCounterexamples,
	}, nil
}

// SamplingConfig returns the random equivalence settings
func (c *LearnConfig) SamplingConfig() oracle.SamplingConfig {
	return oracle.SamplingConfig{
		Seed:      c.Seed,
		Samples:   c.Samples,
		Epsilon:   c.Epsilon,
		Delta:     c.Delta,
		MaxLength: c.MaxSampleLength,
	}
}

// ProcessConfig returns the process oracle settings
func (c *LearnConfig) ProcessConfig() oracle.ProcessConfig {
	return oracle.ProcessConfig{
		Path:      c.Target,
		Args:      c.TargetArgs,
		Separator: c.Separator,
		Timeout:   c.ProcessTimeout,
	}
}

// CacheNamespace identifies the target in the query cache. Program targets run with
// different arguments or separators get separate namespaces.
func (c *LearnConfig) CacheNamespace() string {
	namespace := c.TargetKind + ":" + c.Target
	if c.IsProcess() {
		namespace += fmt.Sprintf(":%q:%q", c.TargetArgs, c.Separator)
	}
	return namespace
}
