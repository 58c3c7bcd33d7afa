/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: formatter.go
Description: Custom log formatters for the Akaylee L* learner. CustomFormatter prints one
readable line per entry with sorted fields; LearnerFormatter adds a short tag for learner
events and prints sequences and durations compactly.
*/

package logging

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CustomFormatter prints one readable line per entry
type CustomFormatter struct {
	Timestamp bool
	Caller    bool
	Colors    bool
}

// Format formats a log entry
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, "", f.formatValue), nil
}

func (f *CustomFormatter) format(entry *logrus.Entry, tag string, value func(string, interface{}) string) []byte {
	var output strings.Builder

	if f.Timestamp {
		f.write(&output, 36, entry.Time.Format("2006-01-02 15:04:05.000")) // Cyan
	}
	f.write(&output, f.getLevelColor(entry.Level), strings.ToUpper(entry.Level.String()))
	if tag != "" {
		f.write(&output, 35, "["+tag+"]") // Magenta
	}
	if f.Caller && entry.HasCaller() {
		f.write(&output, 33, fmt.Sprintf("[%s:%d]", entry.Caller.File, entry.Caller.Line)) // Yellow
	}

	output.WriteString(entry.Message)
	if len(entry.Data) > 0 {
		output.WriteString(" ")
		output.WriteString(f.formatFields(entry.Data, value))
	}
	output.WriteString("\n")
	return []byte(output.String())
}

func (f *CustomFormatter) write(b *strings.Builder, color int, s string) {
	if f.Colors {
		fmt.Fprintf(b, "\033[%dm%s\033[0m ", color, s)
		return
	}
	b.WriteString(s)
	b.WriteString(" ")
}

// getLevelColor returns the ANSI color code for a log level
func (f *CustomFormatter) getLevelColor(level logrus.Level) int {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return 37 // White
	case logrus.InfoLevel:
		return 32 // Green
	case logrus.WarnLevel:
		return 33 // Yellow
	case logrus.ErrorLevel:
		return 31 // Red
	default:
		return 35 // Magenta
	}
}

// formatFields prints key=value pairs in key order
func (f *CustomFormatter) formatFields(fields logrus.Fields, value func(string, interface{}) string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		formatted := value(key, fields[key])
		if f.Colors {
			parts = append(parts, fmt.Sprintf("\033[34m%s\033[0m=\033[32m%s\033[0m", key, formatted)) // Blue key, Green value
		} else {
			parts = append(parts, fmt.Sprintf("%s=%s", key, formatted))
		}
	}
	return strings.Join(parts, " ")
}

// formatValue formats a field value appropriately
func (f *CustomFormatter) formatValue(_ string, value interface{}) string {
	switch v := value.(type) {
	case time.Duration:
		return v.String()
	case time.Time:
		return v.Format("15:04:05.000")
	case error:
		return v.Error()
	case string:
		if len(v) > 64 {
			return fmt.Sprintf("%s...", v[:64])
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// LearnerFormatter tags learner events
type LearnerFormatter struct {
	CustomFormatter
}

// Format formats learner log entries with an event tag
func (f *LearnerFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return f.format(entry, f.getLearnerPrefix(entry.Message), f.formatLearnerValue), nil
}

// getLearnerPrefix returns a tag based on the log message
func (f *LearnerFormatter) getLearnerPrefix(message string) string {
	switch {
	case strings.HasPrefix(message, "Hypothesis"):
		return "HYP"
	case strings.HasPrefix(message, "Counterexample"):
		return "CEX"
	case strings.HasPrefix(message, "Inconsistency"):
		return "EXP"
	case strings.HasPrefix(message, "Closedness"):
		return "CLOSE"
	case strings.HasPrefix(message, "Run"), strings.HasPrefix(message, "Learning"):
		return "RUN"
	case strings.HasPrefix(message, "Query"), strings.HasPrefix(message, "Target"):
		return "QUERY"
	default:
		return ""
	}
}

// formatLearnerValue shortens run ids and rounds durations
func (f *LearnerFormatter) formatLearnerValue(key string, value interface{}) string {
	switch key {
	case "run_id":
		if s, ok := value.(string); ok && len(s) > 8 {
			return s[:8]
		}
	case "counterexample", "sequence", "hybrid", "suffix", "experiment", "first", "second":
		// Sequences are never truncated
		if s, ok := value.(string); ok {
			return s
		}
	case "duration", "uptime":
		if d, ok := value.(time.Duration); ok {
			return d.Round(time.Microsecond).String()
		}
	}
	return f.formatValue(key, value)
}
