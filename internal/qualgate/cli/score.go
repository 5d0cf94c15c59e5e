package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/qualgate/qualgate/analyzer"
	"github.com/qualgate/qualgate/internal/qualgate/score"
)

var (
	scoreJSON  bool
	scoreClamp bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Aggregate existing report files into quality metrics",
	Long: `Reads the Checkstyle and SpotBugs report files named in the config,
counts source lines, and prints the three quality metrics without running
any tools or touching the network.

Missing report files count as empty and score clean; use --json for
machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Output JSON instead of a table")
	scoreCmd.Flags().BoolVar(&scoreClamp, "clamp", false, "Clamp the quality score into [0, 10]")
}

type scoreOutput struct {
	Counts      score.Counts  `json:"counts"`
	SourceLines int           `json:"source_lines"`
	Metrics     score.Metrics `json:"metrics"`
}

func runScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	styleText := readReportFile(cmd, filepath.Join(cfg.Reports.Dir, cfg.Reports.Checkstyle))
	bugText := readReportFile(cmd, filepath.Join(cfg.Reports.Dir, cfg.Reports.SpotBugs))

	cs := analyzer.ParseCheckstyle(styleText)
	sb := analyzer.ParseSpotBugs(bugText)

	src, err := analyzer.CountSourceLines(cfg.Source.Dir, cfg.Source.Extensions)
	if err != nil {
		return fmt.Errorf("counting source lines: %w", err)
	}

	counts := score.Counts{
		ReportLines:     cs.TotalLines,
		StyleViolations: cs.Violations,
		Errors:          cs.Errors,
		Warnings:        cs.Warnings,
		Conventions:     cs.Conventions,
		Bugs:            sb.Bugs,
	}
	metrics := score.Compute(counts, src.Lines, score.Options{Clamp: scoreClamp || cfg.Score.Clamp})

	if scoreJSON {
		out, _ := json.MarshalIndent(scoreOutput{Counts: counts, SourceLines: src.Lines, Metrics: metrics}, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "METRIC\tVALUE\n")
	fmt.Fprintf(w, "------\t-----\n")
	fmt.Fprintf(w, "Checkstyle quality\t%.2f%%\n", metrics.CheckstyleQuality)
	fmt.Fprintf(w, "Overall quality\t%.2f%%\n", metrics.OverallQuality)
	fmt.Fprintf(w, "Quality score\t%.2f\n", metrics.QualityScore)
	fmt.Fprintf(w, "Style violations\t%d / %d lines\n", counts.StyleViolations, counts.ReportLines)
	fmt.Fprintf(w, "Errors / warnings / conventions\t%d / %d / %d\n", counts.Errors, counts.Warnings, counts.Conventions)
	fmt.Fprintf(w, "Bug findings\t%d\n", counts.Bugs)
	fmt.Fprintf(w, "Source lines\t%d\n", src.Lines)
	w.Flush()
	return nil
}

func readReportFile(cmd *cobra.Command, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s missing, treating as empty\n", path)
		return ""
	}
	return string(data)
}
