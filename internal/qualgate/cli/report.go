package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/qualgate/qualgate/analyzer"
	"github.com/qualgate/qualgate/internal/qualgate/score"
	"github.com/qualgate/qualgate/report"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the HTML report from existing report files",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "Output file (default: reports.html path from config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	styleText := readReportFile(cmd, filepath.Join(cfg.Reports.Dir, cfg.Reports.Checkstyle))
	buildText := readReportFile(cmd, filepath.Join(cfg.Reports.Dir, cfg.Reports.Build))
	bugText := readReportFile(cmd, filepath.Join(cfg.Reports.Dir, cfg.Reports.SpotBugs))

	cs := analyzer.ParseCheckstyle(styleText)
	sb := analyzer.ParseSpotBugs(bugText)
	src, err := analyzer.CountSourceLines(cfg.Source.Dir, cfg.Source.Extensions)
	if err != nil {
		return fmt.Errorf("counting source lines: %w", err)
	}

	metrics := score.Compute(score.Counts{
		ReportLines:     cs.TotalLines,
		StyleViolations: cs.Violations,
		Errors:          cs.Errors,
		Warnings:        cs.Warnings,
		Conventions:     cs.Conventions,
		Bugs:            sb.Bugs,
	}, src.Lines, score.Options{Clamp: cfg.Score.Clamp})

	renderer, err := report.New()
	if err != nil {
		return err
	}

	outPath := reportOutput
	if outPath == "" {
		outPath = filepath.Join(cfg.Reports.Dir, cfg.Reports.HTML)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	err = renderer.Render(f, report.Data{
		Project:     cfg.Project,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		StyleReport: styleText,
		BuildLog:    buildText,
		BugReport:   bugText,
		SourceLines: src.Lines,
		Metrics:     metrics,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outPath)
	return nil
}
