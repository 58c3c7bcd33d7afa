/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: config_test.go
Description: Tests for configuration loading from defaults, files and the environment.
*/

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/akaylee-lstar/pkg/config"
	"github.com/kleascm/akaylee-lstar/pkg/learner"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadDefaults tests that a target is the only required setting
func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	v.Set("target", "nosub11.yaml")

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.TargetDFA, cfg.TargetKind)
	assert.Equal(t, "dfa", cfg.Translator)
	assert.Equal(t, "classic", cfg.Variant)
	assert.Equal(t, "sink", cfg.HolePolicy)
	assert.Zero(t, cfg.MaxStates)
	assert.Equal(t, 5*time.Second, cfg.ProcessTimeout)

	lc, err := cfg.LearnerConfig()
	require.NoError(t, err)
	assert.Equal(t, learner.VariantClassic, lc.Variant)
}

// TestLoadRequiresTarget tests the required field
func TestLoadRequiresTarget(t *testing.T) {
	_, err := config.Load(viper.New())
	assert.Error(t, err)
}

// TestLoadEnvironment tests AKAYLEE_ overrides
func TestLoadEnvironment(t *testing.T) {
	t.Setenv("AKAYLEE_TARGET", "model.yaml")
	t.Setenv("AKAYLEE_MAX_STATES", "7")
	t.Setenv("AKAYLEE_MAX_TIME", "30s")
	t.Setenv("AKAYLEE_VARIANT", "col")

	cfg, err := config.Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "model.yaml", cfg.Target)
	assert.Equal(t, 7, cfg.MaxStates)
	assert.Equal(t, 30*time.Second, cfg.MaxTime)
	assert.Equal(t, "col", cfg.Variant)
}

// TestLoadFile tests reading a YAML config file
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lstar.yaml")
	doc := `
target: ./bin/parser
target_kind: process
alphabet: [a, b, c]
equivalence: sampling
translator: partial
hole_output: "true"
max_query_length: 12
samples: 200
seed: 99
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := config.LoadFile(viper.New(), path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProcess())
	assert.True(t, cfg.BooleanTarget())
	assert.Equal(t, 12, cfg.MaxQueryLength)

	alphabet, err := cfg.InputAlphabet()
	require.NoError(t, err)
	assert.Len(t, alphabet, 3)

	hole, err := cfg.BoolHoleOutput()
	require.NoError(t, err)
	assert.True(t, hole)

	sampling := cfg.SamplingConfig()
	assert.Equal(t, int64(99), sampling.Seed)
	assert.Equal(t, 200, sampling.Samples)
	assert.NoError(t, sampling.Validate())

	assert.Equal(t, "./bin/parser", cfg.ProcessConfig().Path)
}

// TestValidateRejects tests field and cross-field validation
func TestValidateRejects(t *testing.T) {
	base := func() config.LearnConfig {
		return config.LearnConfig{
			Target:          "t.yaml",
			TargetKind:      config.TargetDFA,
			Translator:      "dfa",
			Variant:         "classic",
			HolePolicy:      "sink",
			Equivalence:     config.EquivalenceExact,
			MaxSampleLength: 16,
			Epsilon:         0.01,
			Delta:           0.01,
		}
	}
	valid := base()
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *config.LearnConfig){
		"negative states":    func(c *config.LearnConfig) { c.MaxStates = -1 },
		"unknown variant":    func(c *config.LearnConfig) { c.Variant = "ttt" },
		"unknown translator": func(c *config.LearnConfig) { c.Translator = "mealy" },
		"epsilon range":      func(c *config.LearnConfig) { c.Epsilon = 1.5 },
		"dfa on outputs":     func(c *config.LearnConfig) { c.TargetKind = config.TargetMoore },
		"moore on booleans":  func(c *config.LearnConfig) { c.Translator = "moore" },
		"exact on process": func(c *config.LearnConfig) {
			c.TargetKind = config.TargetProcess
		},
		"process without alphabet": func(c *config.LearnConfig) {
			c.TargetKind = config.TargetProcess
			c.Equivalence = config.EquivalenceSampling
		},
		"bad hole output": func(c *config.LearnConfig) {
			c.Translator = "partial"
			c.HoleOutput = "maybe"
		},
		"bad metrics address": func(c *config.LearnConfig) { c.MetricsAddr = "not an address" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

// TestCacheNamespace tests that program arguments and separators split the query cache
func TestCacheNamespace(t *testing.T) {
	base := config.LearnConfig{TargetKind: config.TargetProcess, Target: "sh", TargetArgs: []string{"-c", "exit 0"}}
	otherArgs := base
	otherArgs.TargetArgs = []string{"-c", "exit 1"}
	otherSeparator := base
	otherSeparator.Separator = ","

	assert.Equal(t, base.CacheNamespace(), base.CacheNamespace())
	assert.NotEqual(t, base.CacheNamespace(), otherArgs.CacheNamespace())
	assert.NotEqual(t, base.CacheNamespace(), otherSeparator.CacheNamespace())

	model := config.LearnConfig{TargetKind: config.TargetDFA, Target: "nosub11.yaml"}
	assert.Equal(t, "dfa:nosub11.yaml", model.CacheNamespace())
}
