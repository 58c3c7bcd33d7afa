/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: learn.go
Description: Learn command implementation for Akaylee L*. Loads the configuration, sets up
logging, metrics and signal handling, runs the learning session and prints a summary.
*/

package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kleascm/akaylee-lstar/pkg/config"
	"github.com/kleascm/akaylee-lstar/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunLearn executes a learning run
func RunLearn(cmd *cobra.Command, args []string) error {
	fmt.Println("🧠 Akaylee L* - Starting Learning Session")
	fmt.Println("=========================================")
	fmt.Println()

	// Load configuration first
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Perform dry run if requested
	if viper.GetBool("dry_run") {
		return performDryRun(cfg)
	}

	// Setup logging
	logger, err := SetupLogging()
	if err != nil {
		return err
	}
	defer logger.Close()

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Println("\n🛑 Received shutdown signal, stopping learner...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Serve metrics if requested
	var registry *prometheus.Registry
	if cfg.MetricsAddr != "" {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		server := serveMetrics(cfg.MetricsAddr, registry, logger)
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	session, err := newSession(cfg, logger, registry)
	if err != nil {
		return err
	}
	defer session.Close()

	logger.Info("Learning run starting", map[string]interface{}{
		"run_id":     session.RunID(),
		"target":     cfg.Target,
		"kind":       cfg.TargetKind,
		"translator": cfg.Translator,
		"variant":    cfg.Variant,
	})

	outcome, err := session.Learn(ctx)
	if err != nil {
		return fmt.Errorf("learning failed: %w", err)
	}

	printSummary(outcome)
	fmt.Println("\n✨ Learning session completed!")
	return nil
}

// newSession avoids a typed nil registry reaching the session
func newSession(cfg *config.LearnConfig, logger *logging.Logger, registry *prometheus.Registry) (*Session, error) {
	if registry == nil {
		return NewSession(cfg, logger, nil)
	}
	return NewSession(cfg, logger, registry)
}

// serveMetrics exposes registry over HTTP until the returned server is shut down
func serveMetrics(addr string, registry *prometheus.Registry, logger *logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", map[string]interface{}{"addr": addr, "error": err.Error()})
		}
	}()
	logger.Info("Serving metrics", map[string]interface{}{"addr": addr, "path": "/metrics"})
	return server
}

// performDryRun prints the resolved configuration without learning
func performDryRun(cfg *config.LearnConfig) error {
	fmt.Println("🔍 Dry run - configuration is valid")
	fmt.Printf("   Target: %s (%s)\n", cfg.Target, cfg.TargetKind)
	if cfg.IsProcess() {
		fmt.Printf("   Alphabet: %v\n", cfg.Alphabet)
	}
	fmt.Printf("   Translator: %s, variant: %s\n", cfg.Translator, cfg.Variant)
	fmt.Printf("   Equivalence: %s\n", cfg.Equivalence)
	fmt.Printf("   Bounds: states=%s query length=%s time=%s\n",
		bound(cfg.MaxStates), bound(cfg.MaxQueryLength), durationBound(cfg.MaxTime))
	fmt.Printf("   Output: %s\n", cfg.OutputDir)
	return nil
}

func bound(n int) string {
	if n == 0 {
		return "unbounded"
	}
	return fmt.Sprint(n)
}

func durationBound(d time.Duration) string {
	if d == 0 {
		return "unbounded"
	}
	return d.String()
}

// printSummary prints the outcome of a run
func printSummary(outcome *Outcome) {
	report := outcome.Report

	fmt.Println()
	fmt.Println("📊 Learning Results")
	fmt.Println("===================")
	fmt.Printf("Run:                  %s\n", outcome.RunID)
	fmt.Printf("States:               %d\n", report.StateCount)
	fmt.Printf("Rounds:               %d\n", report.Rounds)
	fmt.Printf("Membership queries:   %d\n", report.MembershipQueries)
	fmt.Printf("Equivalence queries:  %d\n", report.EquivalenceQueries)
	fmt.Printf("Cache hits:           %d\n", report.CacheHits)
	fmt.Printf("Counterexamples:      %d\n", len(report.Counterexamples))
	fmt.Printf("Duration:             %s\n", report.Duration)

	if report.Bounded {
		fmt.Printf("\n⚠️  Stopped at a bound: %s\n", report.StopReason)
		if len(report.States) == 0 {
			fmt.Println("   No hypothesis could be built before the bound.")
		}
	} else {
		fmt.Println("\n✅ Converged")
	}

	fmt.Printf("\n📁 Report: %s\n", outcome.ReportDir)
	fmt.Printf("📁 Metrics: %s\n", outcome.MetricsFile)
	if outcome.TableFile != "" {
		fmt.Printf("📁 Table: %s\n", outcome.TableFile)
	}
}
