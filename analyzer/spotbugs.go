package analyzer

import (
	"bufio"
	"strings"
)

// markerBug is the per-finding marker in SpotBugs text output. Each reported
// issue carries exactly one line containing it.
const markerBug = "BugInstance"

// SpotBugsReport holds the counts extracted from one bug-detector report.
type SpotBugsReport struct {
	TotalLines int `json:"total_lines"`
	// Bugs counts lines containing the BugInstance marker.
	Bugs int `json:"bugs"`
}

// ParseSpotBugs scans a SpotBugs text report and counts its findings.
func ParseSpotBugs(text string) SpotBugsReport {
	var r SpotBugsReport

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		r.TotalLines++
		if strings.Contains(sc.Text(), markerBug) {
			r.Bugs++
		}
	}
	return r
}
