// Package pipeline runs the full quality pipeline: invoke the analysis
// tools, aggregate their reports into metrics, render the HTML report, then
// publish and submit the results.
//
// Execution is strictly sequential with no retries. Tool failures do not
// stop the run: they are recorded as tagged results, surface as sentinel
// lines in the assembled report, and the scoring proceeds on whatever
// output exists. Publish and submit failures, by contrast, are returned to
// the caller: losing the report or the score is worth failing the run over.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/qualgate/qualgate/analyzer"
	"github.com/qualgate/qualgate/internal/qualgate/config"
	"github.com/qualgate/qualgate/internal/qualgate/score"
	"github.com/qualgate/qualgate/internal/qualgate/scoreapi"
	"github.com/qualgate/qualgate/report"
)

// Publisher pushes a rendered report page for an identity.
type Publisher interface {
	Publish(ctx context.Context, identity string, html []byte) (string, error)
}

// Submitter sends a quality score to the scoring service.
type Submitter interface {
	Submit(ctx context.Context, qualityScore float64, at time.Time) (*scoreapi.Submission, error)
}

// Result summarizes one pipeline run.
type Result struct {
	RunID      string                    `json:"run_id"`
	Checkstyle analyzer.CheckstyleReport `json:"checkstyle"`
	SpotBugs   analyzer.SpotBugsReport   `json:"spotbugs"`
	Source     analyzer.SourceCount      `json:"source"`
	Metrics    score.Metrics             `json:"metrics"`

	// ToolFailures lists tools that could not run; their reports carry a
	// sentinel line and scoring proceeded anyway.
	ToolFailures []string `json:"tool_failures,omitempty"`

	HTMLPath      string               `json:"html_path,omitempty"`
	PublishedPath string               `json:"published_path,omitempty"`
	Submission    *scoreapi.Submission `json:"submission,omitempty"`
}

// Pipeline executes the run described by a Config.
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	publisher Publisher
	submitter Submitter
	now       func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPublisher enables the publish step.
func WithPublisher(p Publisher) Option {
	return func(pl *Pipeline) { pl.publisher = p }
}

// WithSubmitter enables the score submission step.
func WithSubmitter(s Submitter) Option {
	return func(pl *Pipeline) { pl.submitter = s }
}

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = now }
}

// New creates a Pipeline. Publish and submit steps only run when the
// corresponding collaborator is provided.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline and returns its result. See the package comment
// for which failures stop the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	p.logger.Info("pipeline starting", "run_id", res.RunID, "project", p.cfg.Project)

	if err := os.MkdirAll(p.cfg.Reports.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating reports dir: %w", err)
	}

	styleText := p.toolReport(ctx, res, "checkstyle", p.cfg.Tools.Checkstyle, p.cfg.Reports.Checkstyle)
	buildText := p.toolReport(ctx, res, "build", p.cfg.Tools.Build, p.cfg.Reports.Build)
	bugText := p.toolReport(ctx, res, "spotbugs", p.cfg.Tools.SpotBugs, p.cfg.Reports.SpotBugs)

	res.Checkstyle = analyzer.ParseCheckstyle(styleText)
	res.SpotBugs = analyzer.ParseSpotBugs(bugText)

	src, err := analyzer.CountSourceLines(p.cfg.Source.Dir, p.cfg.Source.Extensions)
	if err != nil {
		return nil, fmt.Errorf("counting source lines: %w", err)
	}
	res.Source = src

	res.Metrics = score.Compute(score.Counts{
		ReportLines:     res.Checkstyle.TotalLines,
		StyleViolations: res.Checkstyle.Violations,
		Errors:          res.Checkstyle.Errors,
		Warnings:        res.Checkstyle.Warnings,
		Conventions:     res.Checkstyle.Conventions,
		Bugs:            res.SpotBugs.Bugs,
	}, src.Lines, score.Options{Clamp: p.cfg.Score.Clamp})
	p.logger.Info("metrics computed",
		"checkstyle_quality", res.Metrics.CheckstyleQuality,
		"overall_quality", res.Metrics.OverallQuality,
		"quality_score", res.Metrics.QualityScore,
	)

	html, err := p.renderHTML(res, styleText, buildText, bugText)
	if err != nil {
		return nil, err
	}
	res.HTMLPath = filepath.Join(p.cfg.Reports.Dir, p.cfg.Reports.HTML)
	if err := os.WriteFile(res.HTMLPath, html, 0o644); err != nil {
		return nil, fmt.Errorf("writing HTML report: %w", err)
	}

	if p.publisher != nil {
		published, err := p.publisher.Publish(ctx, p.cfg.Pages.Identity, html)
		if err != nil {
			return res, fmt.Errorf("publishing report: %w", err)
		}
		res.PublishedPath = published
	}

	if p.submitter != nil {
		sub, err := p.submitter.Submit(ctx, res.Metrics.QualityScore, p.now())
		if err != nil {
			return res, fmt.Errorf("submitting score: %w", err)
		}
		res.Submission = sub
	}

	p.logger.Info("pipeline finished", "run_id", res.RunID)
	return res, nil
}

// toolReport produces the report text for one tool. With a configured
// command the tool is invoked and its output written to the report file;
// without one the report file is read as-is. A missing file degrades to an
// empty report, which downstream scoring treats as a clean run.
func (p *Pipeline) toolReport(ctx context.Context, res *Result, name string, tool config.ToolConfig, fileName string) string {
	path := filepath.Join(p.cfg.Reports.Dir, fileName)

	if len(tool.Command) == 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			p.logger.Warn("report file missing, treating as empty", "tool", name, "path", path)
			return ""
		}
		return string(data)
	}

	tr := analyzer.Run(ctx, analyzer.Tool{Name: name, Command: tool.Command, Dir: tool.Dir})
	if tr.Failed {
		res.ToolFailures = append(res.ToolFailures, name)
		p.logger.Warn("tool failed, continuing with masked output", "tool", name, "error", tr.Cause)
	}
	if err := os.WriteFile(path, []byte(tr.Output), 0o644); err != nil {
		p.logger.Warn("could not write report file", "tool", name, "path", path, "error", err)
	}
	return tr.Output
}

func (p *Pipeline) renderHTML(res *Result, styleText, buildText, bugText string) ([]byte, error) {
	renderer, err := report.New()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = renderer.Render(&buf, report.Data{
		Project:     p.cfg.Project,
		RunID:       res.RunID,
		GeneratedAt: p.now(),
		StyleReport: styleText,
		BuildLog:    buildText,
		BugReport:   bugText,
		SourceLines: res.Source.Lines,
		Metrics:     res.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
