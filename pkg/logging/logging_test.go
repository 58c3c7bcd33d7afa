/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logging_test.go
Description: Tests for the logging system. Tests logger creation, formatting, file output,
learner event helpers, retention and log analysis.
*/

package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/learner"
	"github.com/kleascm/akaylee-lstar/pkg/logging"
	"github.com/kleascm/akaylee-lstar/pkg/oracle"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/translator"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, format logging.LogFormat, console *bytes.Buffer) *logging.Logger {
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelDebug,
		Format:    format,
		OutputDir: t.TempDir(),
		MaxFiles:  5,
		MaxSize:   1024 * 1024,
		Console:   console,
	})
	require.NoError(t, err)
	t.Cleanup(func() { logger.Close() })
	return logger
}

// TestLoggerConfigValidate tests configuration checks
func TestLoggerConfigValidate(t *testing.T) {
	assert.NoError(t, logging.DefaultConfig().Validate())

	bad := []*logging.LoggerConfig{
		{Level: logging.LogLevelInfo, Format: "xml"},
		{Level: "loud", Format: logging.LogFormatText},
		{Level: logging.LogLevelInfo, Format: logging.LogFormatText, OutputDir: "logs"},
	}
	for _, cfg := range bad {
		assert.Error(t, cfg.Validate())
	}

	consoleOnly := &logging.LoggerConfig{Level: logging.LogLevelInfo, Format: logging.LogFormatJSON}
	assert.NoError(t, consoleOnly.Validate())
}

// TestLogFormats tests every format writes to the console and the file
func TestLogFormats(t *testing.T) {
	formats := []logging.LogFormat{
		logging.LogFormatText,
		logging.LogFormatJSON,
		logging.LogFormatCustom,
	}
	for _, format := range formats {
		t.Run(string(format), func(t *testing.T) {
			var console bytes.Buffer
			logger := newTestLogger(t, format, &console)

			logger.Info("Test message", map[string]interface{}{"test_key": "test_value", "number": 42})
			assert.Contains(t, console.String(), "Test message")
			assert.Contains(t, console.String(), "test_value")

			data, err := os.ReadFile(logger.FilePath())
			require.NoError(t, err)
			assert.Contains(t, string(data), "Test message")
			assert.True(t, strings.HasPrefix(filepath.Base(logger.FilePath()), "akaylee-lstar_"))
		})
	}
}

// TestJSONFields tests that helper fields are structured
func TestJSONFields(t *testing.T) {
	var console bytes.Buffer
	logger := newTestLogger(t, logging.LogFormatJSON, &console)

	logger.LogCounterexample("run-1", 2, "0110", nil)

	lines := strings.Split(strings.TrimSpace(console.String()), "\n")
	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &line))
	assert.Equal(t, "Counterexample received", line["msg"])
	assert.Equal(t, "run-1", line["run_id"])
	assert.Equal(t, "0110", line["counterexample"])
	assert.Equal(t, float64(2), line["round"])
}

// TestLearnerFormatter tests event tags and sorted fields
func TestLearnerFormatter(t *testing.T) {
	f := &logging.LearnerFormatter{}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Now(),
		Level:   logrus.InfoLevel,
		Message: "Hypothesis built",
		Data:    logrus.Fields{"states": 3, "run_id": "0123456789abcdef", "round": 1},
	}
	out, err := f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "INFO [HYP] Hypothesis built round=1 run_id=01234567 states=3\n", string(out))

	entry.Message = "Something else"
	entry.Data = logrus.Fields{}
	out, err = f.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "INFO Something else\n", string(out))
}

// TestLearnerHelpers tests the learner event helpers and the analyzer
func TestLearnerHelpers(t *testing.T) {
	var console bytes.Buffer
	logger := newTestLogger(t, logging.LogFormatCustom, &console)

	logger.LogHypothesis("run", 1, 1, nil)
	logger.LogCounterexample("run", 1, "11", nil)
	logger.LogInconsistency("run", "ε", "1", "1", nil)
	logger.LogHypothesis("run", 2, 3, nil)
	logger.LogQueryStats(12, 2, 0, nil)
	logger.LogStop("run", "converged", false, nil)
	logger.LogStop("run", "states_exceeded", true, nil)

	analysis, err := logging.NewLogAnalyzer(filepath.Dir(logger.FilePath())).AnalyzeLogs()
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.LogFiles)
	assert.Equal(t, int64(2), analysis.HypothesisCount)
	assert.Equal(t, int64(1), analysis.CounterexampleCount)
	assert.Equal(t, int64(1), analysis.InconsistencyCount)
	assert.Equal(t, int64(1), analysis.ConvergedRuns)
	assert.Equal(t, int64(1), analysis.BoundedRuns)
	assert.Equal(t, int64(1), analysis.WarningCount)
	assert.Contains(t, analysis.GetLogSummary(), "Counterexamples: 1")
}

// TestCleanupOldLogs tests retention by modification time
func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, fmt.Sprintf("akaylee-lstar_%d.log", i))
		require.NoError(t, os.WriteFile(path, []byte("line\n"), 0644))
		require.NoError(t, os.Chtimes(path, base.Add(time.Duration(i)*time.Minute), base.Add(time.Duration(i)*time.Minute)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.log"), []byte("x"), 0644))

	manager := logging.NewLogManager(dir, 2, 1024, false)
	require.NoError(t, manager.CleanupOldLogs())

	stats, err := manager.GetLogStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
	assert.FileExists(t, filepath.Join(dir, "akaylee-lstar_4.log"))
	assert.FileExists(t, filepath.Join(dir, "akaylee-lstar_3.log"))
	assert.NoFileExists(t, filepath.Join(dir, "akaylee-lstar_0.log"))
	assert.FileExists(t, filepath.Join(dir, "other.log"))
}

// TestRotateAndCompress tests size-based rotation with gzip
func TestRotateAndCompress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "akaylee-lstar_big.log")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 2048), 0644))

	manager := logging.NewLogManager(dir, 10, 1024, true)
	require.NoError(t, manager.RotateLogs())
	assert.NoFileExists(t, path)

	stats, err := manager.GetLogStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CompressedFiles)
	assert.Zero(t, stats.UncompressedFiles)
}

// TestCloseRotatesAndCompresses tests that closing an oversized log leaves only a gzip file
func TestCloseRotatesAndCompresses(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    logging.LogFormatText,
		OutputDir: dir,
		MaxFiles:  5,
		MaxSize:   1,
		Compress:  true,
		Console:   &bytes.Buffer{},
	})
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		logger.Info(strings.Repeat("x", 100), nil)
	}
	logger.LogStop("run", "converged", false, nil)
	require.NoError(t, logger.Close())

	stats, err := logging.NewLogManager(dir, 5, 1, true).GetLogStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalFiles)
	assert.Equal(t, 1, stats.CompressedFiles)
	assert.NoFileExists(t, logger.FilePath())

	analysis, err := logging.NewLogAnalyzer(dir).AnalyzeLogs()
	require.NoError(t, err)
	assert.Equal(t, int64(1), analysis.ConvergedRuns)
	assert.Equal(t, int64(51), analysis.InfoCount)
}

// TestRunReporter tests that a learning run is logged end to end
func TestRunReporter(t *testing.T) {
	var console bytes.Buffer
	logger := newTestLogger(t, logging.LogFormatCustom, &console)

	binary := sequence.MustAlphabet("0", "1")
	target := automaton.New[bool](binary)
	q0 := target.AddState(sequence.Empty(), true)
	q1 := target.AddState(sequence.Of("1"), false)
	require.NoError(t, target.SetTransition(q0, "0", q0))
	require.NoError(t, target.SetTransition(q0, "1", q1))
	require.NoError(t, target.SetTransition(q1, "0", q1))
	require.NoError(t, target.SetTransition(q1, "1", q1))

	teacher, err := oracle.NewExactTeacher(target)
	require.NoError(t, err)
	l, err := learner.New[bool](teacher, translator.NewDFA(), learner.Config{})
	require.NoError(t, err)
	l.SetLogger(logger.GetLogger())
	l.SetRunID("run-under-test")
	l.AddReporter(logging.NewRunReporter[bool](logger, "run-under-test"))

	result, err := l.Learn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-under-test", result.Info.RunID)

	out := console.String()
	assert.Contains(t, out, "[HYP] Hypothesis built")
	assert.Contains(t, out, "Run converged")
	assert.Contains(t, out, "run_id=run-unde")
}
