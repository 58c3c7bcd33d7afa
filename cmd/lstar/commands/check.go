/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: check.go
Description: Self-check command for Akaylee L*. Validates the configuration, loads the
target, answers a probe query and checks that every output directory is writable.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kleascm/akaylee-lstar/pkg/config"
	"github.com/kleascm/akaylee-lstar/pkg/oracle"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/storage"
	"github.com/kleascm/akaylee-lstar/pkg/target"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// probeTimeout bounds the probe query of a program target
const probeTimeout = 30 * time.Second

// PerformSelfCheck performs system validation before a learning run
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Akaylee L* - System Self-Check")
	fmt.Println("=================================")
	fmt.Println()

	var cfg *config.LearnConfig
	checks := []struct {
		name     string
		function func() error
	}{
		{"Configuration Validation", func() (err error) {
			cfg, err = LoadConfig()
			return err
		}},
		{"Target", func() error { return checkTarget(cfg) }},
		{"Output Directory", func() error { return checkConfigured(cfg, func(c *config.LearnConfig) error { return checkWritable(c.OutputDir) }) }},
		{"Query Cache", func() error { return checkConfigured(cfg, checkCache) }},
		{"Log Directory", func() error { return checkWritable(viper.GetString("log_dir")) }},
	}

	passed := 0
	total := len(checks)

	for _, check := range checks {
		fmt.Printf("🔍 %s... ", check.name)
		if err := check.function(); err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
		} else {
			fmt.Println("✅ PASSED")
			passed++
		}
	}

	fmt.Println()
	fmt.Printf("📊 Results: %d/%d checks passed\n", passed, total)

	if passed == total {
		fmt.Println("✨ All checks passed! Ready to learn.")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Please address the issues before learning.")
	return fmt.Errorf("%d/%d checks failed", total-passed, total)
}

func checkConfigured(cfg *config.LearnConfig, check func(*config.LearnConfig) error) error {
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	return check(cfg)
}

// checkTarget loads a model target or asks a program target about the empty word
func checkTarget(cfg *config.LearnConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	if !cfg.IsProcess() {
		def, err := target.LoadFile(cfg.Target)
		if err != nil {
			return err
		}
		if cfg.TargetKind == config.TargetDFA {
			_, err = def.DFA()
		} else {
			_, err = def.Moore()
		}
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	if cfg.TargetKind == config.TargetProcess {
		process, err := oracle.NewAcceptanceProcess(cfg.ProcessConfig())
		if err != nil {
			return err
		}
		_, err = process.Query(ctx, sequence.Empty())
		return err
	}
	process, err := oracle.NewOutputProcess(cfg.ProcessConfig())
	if err != nil {
		return err
	}
	_, err = process.Query(ctx, sequence.Empty())
	return err
}

// checkCache opens the query cache when one is configured
func checkCache(cfg *config.LearnConfig) error {
	if cfg.CacheDir == "" {
		return nil
	}
	db, err := storage.Open(storage.DefaultConfig(cfg.CacheDir))
	if err != nil {
		return err
	}
	return db.Close()
}

// checkWritable creates dir and writes a probe file into it
func checkWritable(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	probe := filepath.Join(dir, ".akaylee-lstar-check")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return fmt.Errorf("cannot write to %s: %w", dir, err)
	}
	return os.Remove(probe)
}
