/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Run reports for the Akaylee L* learner. Turns a learning result into a JSON
summary, an HTML report with the learned transition table and a counterexample chart, a DOT
graph and a YAML target definition of the learned model.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/kleascm/akaylee-lstar/pkg/automaton"
	"github.com/kleascm/akaylee-lstar/pkg/learner"
	"github.com/kleascm/akaylee-lstar/pkg/target"
	"github.com/sirupsen/logrus"
)

// Output file names inside the report directory
const (
	SummaryFile = "summary.json"
	HTMLFile    = "index.html"
	DOTFile     = "model.dot"
	ModelFile   = "model.yaml"
)

// RunReport contains everything rendered for one run
type RunReport struct {
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`

	RunID              string        `json:"run_id"`
	Translator         string        `json:"translator"`
	Variant            string        `json:"variant"`
	StopReason         string        `json:"stop_reason"`
	Bounded            bool          `json:"bounded"`
	ExceededMaxStates  bool          `json:"exceeded_max_states"`
	ExceededQueryLen   bool          `json:"exceeded_max_query_length"`
	ExceededTime       bool          `json:"exceeded_time"`
	StateCount         int           `json:"state_count"`
	HasHole            bool          `json:"has_hole"`
	Rounds             int           `json:"rounds"`
	Inconsistencies    int           `json:"inconsistencies"`
	MembershipQueries  int64         `json:"membership_queries"`
	EquivalenceQueries int64         `json:"equivalence_queries"`
	CacheHits          int64         `json:"cache_hits"`
	Duration           time.Duration `json:"duration_ns"`
	Counterexamples    []string      `json:"counterexamples"`

	Alphabet []string   `json:"alphabet"`
	States   []StateRow `json:"states"`
	Table    TableStats `json:"table"`

	DOT   string       `json:"-"`
	Chart *ChartConfig `json:"-"`
	model *target.Definition
}

// StateRow is one line of the learned transition table
type StateRow struct {
	Name        string   `json:"name"`
	Access      string   `json:"access"`
	Output      string   `json:"output"`
	Initial     bool     `json:"initial"`
	Hole        bool     `json:"hole"`
	Transitions []string `json:"transitions"` // Target state per alphabet symbol
}

// TableStats summarizes the final observation table
type TableStats struct {
	Red         int `json:"red"`
	Blue        int `json:"blue"`
	Experiments int `json:"experiments"`
}

// ChartConfig contains chart configuration
type ChartConfig struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Data    interface{} `json:"data"`
	Options interface{} `json:"options"`
}

// NewRunReport collects the report data of a finished run
func NewRunReport[O comparable](title string, result *learner.Result[O]) *RunReport {
	info := result.Info
	report := &RunReport{
		Title:              title,
		GeneratedAt:        time.Now(),
		RunID:              info.RunID,
		Translator:         info.Translator,
		Variant:            string(info.Variant),
		StopReason:         info.StopReason.String(),
		Bounded:            result.Bounded(),
		ExceededMaxStates:  info.ExceededMaxStates,
		ExceededQueryLen:   info.ExceededMaxQueryLength,
		ExceededTime:       info.ExceededTime,
		StateCount:         result.StateCount,
		Rounds:             info.Rounds,
		Inconsistencies:    info.Inconsistencies,
		MembershipQueries:  info.MembershipQueries,
		EquivalenceQueries: info.EquivalenceQueries,
		CacheHits:          info.CacheHits,
		Duration:           info.Duration,
		Counterexamples:    make([]string, 0, len(info.Counterexamples)),
	}
	lengths := make([]int, 0, len(info.Counterexamples))
	labels := make([]string, 0, len(info.Counterexamples))
	for i, ce := range info.Counterexamples {
		report.Counterexamples = append(report.Counterexamples, ce.String())
		lengths = append(lengths, ce.Len())
		labels = append(labels, fmt.Sprintf("#%d", i+1))
	}
	report.Chart = counterexampleChart(labels, lengths)

	if t := info.ObservationTable; t != nil {
		report.Table = TableStats{Red: len(t.Red()), Blue: len(t.Blue()), Experiments: len(t.Experiments())}
	}
	if result.Model != nil {
		addModel(report, result.Model)
	}
	return report
}

func addModel[O comparable](r *RunReport, model *automaton.Automaton[O]) {
	r.HasHole = model.HasHole()
	r.DOT = automaton.GenerateDOT(model, "model")
	r.model = target.FromAutomaton(r.Title, model)

	for _, sym := range model.Alphabet() {
		r.Alphabet = append(r.Alphabet, string(sym))
	}
	for i, st := range model.States() {
		spec := r.model.States[i]
		row := StateRow{
			Name:    spec.Name,
			Access:  st.Access.String(),
			Output:  fmt.Sprint(st.Output),
			Initial: st.ID == model.Initial(),
			Hole:    st.Hole,
		}
		if st.Hole {
			row.Access = ""
		}
		for _, sym := range model.Alphabet() {
			row.Transitions = append(row.Transitions, r.model.Transitions[spec.Name][string(sym)])
		}
		r.States = append(r.States, row)
	}
}

// counterexampleChart plots counterexample lengths per round
func counterexampleChart(labels []string, lengths []int) *ChartConfig {
	return &ChartConfig{
		Type:  "bar",
		Title: "Counterexample Length",
		Data: map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{
				{
					"label":           "Symbols",
					"data":            lengths,
					"backgroundColor": "rgba(102, 126, 234, 0.6)",
				},
			},
		},
		Options: map[string]interface{}{
			"responsive": true,
			"scales": map[string]interface{}{
				"y": map[string]interface{}{"beginAtZero": true},
			},
		},
	}
}

// ReportGenerator writes run reports to a directory
type ReportGenerator struct {
	outputDir string
	logger    *logrus.Logger
	templates *template.Template
}

// NewReportGenerator creates a generator writing under outputDir
func NewReportGenerator(outputDir string, logger *logrus.Logger) *ReportGenerator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	funcs := template.FuncMap{
		"json": func(v interface{}) (template.JS, error) {
			data, err := json.Marshal(v)
			return template.JS(data), err
		},
	}
	return &ReportGenerator{
		outputDir: outputDir,
		logger:    logger,
		templates: template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate)),
	}
}

// Generate writes every report file and returns the directory
func (rg *ReportGenerator) Generate(report *RunReport) (string, error) {
	if err := os.MkdirAll(rg.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := rg.writeSummary(report); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	if err := rg.writeHTML(report); err != nil {
		return "", fmt.Errorf("failed to write html report: %w", err)
	}
	if report.model != nil {
		if err := os.WriteFile(filepath.Join(rg.outputDir, DOTFile), []byte(report.DOT), 0644); err != nil {
			return "", fmt.Errorf("failed to write dot graph: %w", err)
		}
		if err := report.model.SaveFile(filepath.Join(rg.outputDir, ModelFile)); err != nil {
			return "", fmt.Errorf("failed to write model: %w", err)
		}
	}

	rg.logger.WithFields(logrus.Fields{
		"run_id":     report.RunID,
		"output_dir": rg.outputDir,
	}).Info("Run report generated")
	return rg.outputDir, nil
}

func (rg *ReportGenerator) writeSummary(report *RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(rg.outputDir, SummaryFile), data, 0644)
}

func (rg *ReportGenerator) writeHTML(report *RunReport) error {
	file, err := os.Create(filepath.Join(rg.outputDir, HTMLFile))
	if err != nil {
		return err
	}
	if err := rg.templates.Execute(file, report); err != nil {
		file.Close()
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return file.Close()
}
