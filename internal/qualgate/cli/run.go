package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/qualgate/qualgate/internal/qualgate/config"
	"github.com/qualgate/qualgate/internal/qualgate/pipeline"
	"github.com/qualgate/qualgate/internal/qualgate/publish"
	"github.com/qualgate/qualgate/internal/qualgate/scoreapi"
)

var (
	runJSON        bool
	runSkipPublish bool
	runSkipSubmit  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full quality pipeline",
	Long: `Runs the pipeline end to end:

  1. Invoke Checkstyle, the build, and SpotBugs (or read their report files)
  2. Count source lines and aggregate the reports into quality metrics
  3. Render the HTML report
  4. Publish the report to the configured pages repository
  5. Submit the quality score to the scoring service

Steps 4 and 5 only run when configured; --skip-publish / --skip-submit
disable them explicitly. Tool failures never stop the run: they are masked
into the report and logged.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Output the run result as JSON")
	runCmd.Flags().BoolVar(&runSkipPublish, "skip-publish", false, "Do not publish the HTML report")
	runCmd.Flags().BoolVar(&runSkipSubmit, "skip-submit", false, "Do not submit the score")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := slog.Default()
	var opts []pipeline.Option

	if !runSkipPublish && cfg.Pages.Owner != "" && cfg.Pages.Repo != "" {
		token := cfg.PagesToken()
		if token == "" {
			return fmt.Errorf("publishing configured but %s is not set", cfg.Pages.TokenEnv)
		}
		if cfg.Pages.Identity == "" {
			return fmt.Errorf("publishing configured but pages.identity is empty")
		}
		p := publish.New(cmd.Context(), token, cfg.Pages.Owner, cfg.Pages.Repo, cfg.Pages.Branch, logger)
		opts = append(opts, pipeline.WithPublisher(p))
	}

	if !runSkipSubmit && cfg.API.Endpoint != "" {
		c := scoreapi.NewClient(cfg.API.Endpoint, cfg.API.Token, cfg.Project)
		opts = append(opts, pipeline.WithSubmitter(c))
	}

	res, err := pipeline.New(cfg, logger, opts...).Run(cmd.Context())
	if err != nil {
		return err
	}

	if runJSON {
		out, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}

	printRunResult(cmd, cfg, res)
	return nil
}

func printRunResult(cmd *cobra.Command, cfg *config.Config, res *pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "QUALITY RUN %s%s\n", res.RunID, projectSuffix(cfg.Project))
	fmt.Fprintln(out, strings.Repeat("─", 60))

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "  Source lines\t%d (%d files)\n", res.Source.Lines, res.Source.Files)
	fmt.Fprintf(w, "  Style violations\t%d of %d report lines\n", res.Checkstyle.Violations, res.Checkstyle.TotalLines)
	fmt.Fprintf(w, "  Bug findings\t%d\n", res.SpotBugs.Bugs)
	fmt.Fprintf(w, "  Checkstyle quality\t%.2f%%\n", res.Metrics.CheckstyleQuality)
	fmt.Fprintf(w, "  Overall quality\t%.2f%%\n", res.Metrics.OverallQuality)
	fmt.Fprintf(w, "  Quality score\t%.2f / 10\n", res.Metrics.QualityScore)
	w.Flush()

	if len(res.ToolFailures) > 0 {
		fmt.Fprintf(out, "\n  WARNING: tools failed and were masked: %s\n", strings.Join(res.ToolFailures, ", "))
	}
	fmt.Fprintf(out, "\n  Report: %s\n", res.HTMLPath)
	if res.PublishedPath != "" {
		fmt.Fprintf(out, "  Published: %s/%s @ %s\n", cfg.Pages.Owner, cfg.Pages.Repo, res.PublishedPath)
	}
	if res.Submission != nil {
		fmt.Fprintf(out, "  Submitted: %s (quality %.2f)\n", res.Submission.ID, res.Submission.Quality)
	}
}

func projectSuffix(project string) string {
	if project == "" {
		return ""
	}
	return " (" + project + ")"
}
