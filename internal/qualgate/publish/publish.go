// Package publish pushes rendered reports into a static-pages repository
// through the GitHub Contents API.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// ReportFileName is the file written under each identity's subdirectory.
const ReportFileName = "report.html"

// Publisher writes report pages into a GitHub repository. Semantics are
// last-writer-wins: the existing file is overwritten in place, matching the
// force-push behavior of the pipeline this replaces. No history is kept
// beyond whatever the repository accumulates.
type Publisher struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	logger *slog.Logger
}

// New creates a Publisher authenticated with the given token.
func New(ctx context.Context, token, owner, repo, branch string, logger *slog.Logger) *Publisher {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return NewWithClient(github.NewClient(tc), owner, repo, branch, logger)
}

// NewWithClient creates a Publisher around an existing client (for tests).
func NewWithClient(client *github.Client, owner, repo, branch string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client: client,
		owner:  owner,
		repo:   repo,
		branch: branch,
		logger: logger,
	}
}

// Publish writes html to <identity>/report.html on the configured branch,
// creating or overwriting it, and returns the path written.
func (p *Publisher) Publish(ctx context.Context, identity string, html []byte) (string, error) {
	if identity == "" {
		return "", fmt.Errorf("identity required")
	}
	filePath := path.Join(identity, ReportFileName)

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(fmt.Sprintf("Update quality report for %s", identity)),
		Content: html,
		Branch:  github.String(p.branch),
	}

	// The Contents API requires the current blob SHA to overwrite a file.
	// A 404 here just means first publication for this identity.
	existing, _, resp, err := p.client.Repositories.GetContents(ctx, p.owner, p.repo, filePath,
		&github.RepositoryContentGetOptions{Ref: p.branch})
	switch {
	case err == nil && existing != nil:
		opts.SHA = existing.SHA
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		// new file
	case err != nil:
		return "", fmt.Errorf("checking existing report: %w", err)
	}

	if opts.SHA != nil {
		_, _, err = p.client.Repositories.UpdateFile(ctx, p.owner, p.repo, filePath, opts)
	} else {
		_, _, err = p.client.Repositories.CreateFile(ctx, p.owner, p.repo, filePath, opts)
	}
	if err != nil {
		return "", fmt.Errorf("publishing report to %s/%s: %w", p.owner, p.repo, err)
	}

	p.logger.Info("report published",
		"repo", p.owner+"/"+p.repo,
		"branch", p.branch,
		"path", filePath,
	)
	return filePath, nil
}
