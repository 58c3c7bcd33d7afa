/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_test.go
Description: Tests for run report generation.
*/

package reporting_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/learner"
	"github.com/kleascm/akaylee-lstar/pkg/oracle"
	"github.com/kleascm/akaylee-lstar/pkg/reporting"
	"github.com/kleascm/akaylee-lstar/pkg/sequence"
	"github.com/kleascm/akaylee-lstar/pkg/target"
	"github.com/kleascm/akaylee-lstar/pkg/translator"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func learnNoSub11(t *testing.T, cfg learner.Config) (*automaton.Automaton[bool], *learner.Result[bool]) {
	binary := sequence.MustAlphabet("0", "1")
	a := automaton.New[bool](binary)
	q0 := a.AddState(sequence.Empty(), true)
	q1 := a.AddState(sequence.Of("1"), true)
	trap := a.AddState(sequence.Of("1", "1"), false)
	require.NoError(t, a.SetTransition(q0, "0", q0))
	require.NoError(t, a.SetTransition(q0, "1", q1))
	require.NoError(t, a.SetTransition(q1, "0", q0))
	require.NoError(t, a.SetTransition(q1, "1", trap))
	require.NoError(t, a.SetTransition(trap, "0", trap))
	require.NoError(t, a.SetTransition(trap, "1", trap))

	teacher, err := oracle.NewExactTeacher(a)
	require.NoError(t, err)
	l, err := learner.New[bool](teacher, translator.NewDFA(), cfg)
	require.NoError(t, err)
	l.SetLogger(quietLogger())

	result, err := l.Learn(context.Background())
	require.NoError(t, err)
	return a, result
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// TestGenerateReport tests that every report file is written and consistent
func TestGenerateReport(t *testing.T) {
	original, result := learnNoSub11(t, learner.Config{})
	report := reporting.NewRunReport("no-sub-11", result)

	assert.Equal(t, 3, report.StateCount)
	assert.Equal(t, []string{"11"}, report.Counterexamples)
	assert.Equal(t, []string{"0", "1"}, report.Alphabet)
	require.Len(t, report.States, 3)
	assert.True(t, report.States[0].Initial)
	assert.Equal(t, "ε", report.States[0].Access)
	assert.Contains(t, report.DOT, "digraph")

	dir := filepath.Join(t.TempDir(), "report")
	out, err := reporting.NewReportGenerator(dir, quietLogger()).Generate(report)
	require.NoError(t, err)
	assert.Equal(t, dir, out)

	data, err := os.ReadFile(filepath.Join(dir, reporting.SummaryFile))
	require.NoError(t, err)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, "converged", summary["stop_reason"])
	assert.Equal(t, false, summary["bounded"])
	assert.Equal(t, float64(3), summary["state_count"])

	html, err := os.ReadFile(filepath.Join(dir, reporting.HTMLFile))
	require.NoError(t, err)
	assert.Contains(t, string(html), "no-sub-11")
	assert.Contains(t, string(html), "counterexampleChart")

	assert.FileExists(t, filepath.Join(dir, reporting.DOTFile))

	// The saved model is the learned automaton
	def, err := target.LoadFile(filepath.Join(dir, reporting.ModelFile))
	require.NoError(t, err)
	learned, err := def.DFA()
	require.NoError(t, err)
	assert.True(t, automaton.Equivalent(original, learned))
}

// TestGenerateBoundedReport tests the bound flags
func TestGenerateBoundedReport(t *testing.T) {
	_, result := learnNoSub11(t, learner.Config{MaxStates: 2})
	report := reporting.NewRunReport("bounded", result)

	assert.True(t, report.Bounded)
	assert.True(t, report.ExceededMaxStates)
	assert.Equal(t, "states_exceeded", report.StopReason)

	dir := t.TempDir()
	_, err := reporting.NewReportGenerator(dir, quietLogger()).Generate(report)
	require.NoError(t, err)
	html, err := os.ReadFile(filepath.Join(dir, reporting.HTMLFile))
	require.NoError(t, err)
	assert.Contains(t, string(html), "Resource Bounds")
}
