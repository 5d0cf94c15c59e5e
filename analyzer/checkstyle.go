// Package analyzer extracts violation counts from static-analysis tool
// output and counts source lines. It parses the plain-text reports emitted
// by Checkstyle and SpotBugs; invoking the tools themselves is handled by
// the runner in this package.
package analyzer

import (
	"bufio"
	"strings"
)

// Substring markers counted in Checkstyle plain-text output. The categories
// overlap: one line can match several markers, or none. The counts feed the
// weighted quality score and intentionally mirror the grep-based counting
// of the pipeline this tool replaces.
const (
	markerError      = "error"
	markerWarning    = "warning"
	markerConvention = "style"
)

// CheckstyleReport holds the counts extracted from one style report.
type CheckstyleReport struct {
	// TotalLines is the number of lines in the report, findings or not.
	TotalLines int `json:"total_lines"`
	// Violations counts lines whose first character is an ASCII digit,
	// the heuristic for "this line names a file:line finding".
	Violations int `json:"violations"`
	// Errors, Warnings, and Conventions are independent substring counts
	// and are not a partition of Violations.
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Conventions int `json:"conventions"`
}

// ParseCheckstyle scans a Checkstyle plain-text report and returns its
// violation counts. An empty report yields the zero value, which scores as
// a clean run downstream.
func ParseCheckstyle(text string) CheckstyleReport {
	var r CheckstyleReport

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		r.TotalLines++
		if startsWithDigit(line) {
			r.Violations++
		}
		if strings.Contains(line, markerError) {
			r.Errors++
		}
		if strings.Contains(line, markerWarning) {
			r.Warnings++
		}
		if strings.Contains(line, markerConvention) {
			r.Conventions++
		}
	}
	return r
}

func startsWithDigit(line string) bool {
	return len(line) > 0 && line[0] >= '0' && line[0] <= '9'
}
