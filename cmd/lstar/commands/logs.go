/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logs.go
Description: Logs command for Akaylee L*. Summarizes the learner events and file
statistics of a log directory.
*/

package commands

import (
	"fmt"
	"io"

	"github.com/kleascm/akaylee-lstar/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunLogs prints a summary of a log directory
func RunLogs(cmd *cobra.Command, args []string) error {
	dir := viper.GetString("log_dir")
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return fmt.Errorf("no log directory given")
	}
	return summarizeLogs(cmd.OutOrStdout(), dir)
}

// summarizeLogs writes file statistics and event counts for dir
func summarizeLogs(w io.Writer, dir string) error {
	stats, err := logging.NewLogManager(dir, 1, 1, false).GetLogStats()
	if err != nil {
		return err
	}
	analysis, err := logging.NewLogAnalyzer(dir).AnalyzeLogs()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "📜 Logs in %s\n", dir)
	fmt.Fprintln(w, "==================")
	fmt.Fprintf(w, "Files:      %d (%d compressed)\n", stats.TotalFiles, stats.CompressedFiles)
	fmt.Fprintf(w, "Total size: %d bytes\n", stats.TotalSize)
	if stats.TotalFiles > 0 {
		fmt.Fprintf(w, "Oldest:     %s\n", stats.OldestFile.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Newest:     %s\n", stats.NewestFile.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, analysis.GetLogSummary())
	return nil
}
