/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: metrics_writer.go
Description: Writes per-run results into a metrics history directory. Files are named by
timestamp, result kind and run id so results of many runs accumulate side by side.
*/

package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// WriteMetricsResult writes result as JSON under baseDir/kind and returns the file path
func WriteMetricsResult(baseDir, kind, runID string, result interface{}) (string, error) {
	if kind == "" {
		return "", fmt.Errorf("metrics kind must not be empty")
	}
	metricsDir := filepath.Join(baseDir, kind)
	if err := os.MkdirAll(metricsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create metrics directory: %w", err)
	}

	// 2024-06-11_01-30-00_learn_1b4e28ba.json
	if len(runID) > 8 {
		runID = runID[:8]
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_%s.json", timestamp, kind, runID)
	filePath := filepath.Join(metricsDir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write metrics file: %w", err)
	}
	return filePath, nil
}

// ListMetricsResults returns the result files of kind, oldest first
func ListMetricsResults(baseDir, kind string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(baseDir, kind, "*_"+kind+"_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob metrics files: %w", err)
	}
	sort.Slice(files, func(i, j int) bool {
		return strings.Compare(filepath.Base(files[i]), filepath.Base(files[j])) < 0
	})
	return files, nil
}
