// Package score computes quality metrics from static-analysis report counts.
//
// A run is scored on 3 axes: a style-quality percentage (violation lines
// relative to the size of the style report), an overall quality percentage
// (total violations relative to total source lines), and a weighted score
// on a 0-10 scale combining four violation categories.
//
// The weighted score reproduces the counting behavior of the shell pipeline
// it replaces: the error/warning/convention categories come from independent
// substring matches over the style report and are not a partition of the
// violation set, and the formula is unbounded below when errors dominate.
// Both behaviors are pinned by tests. Use Options.Clamp to force the score
// into [0, 10] for consumers that assume the advertised range.
package score

import "math"

// ErrorWeight is the multiplier applied to error-category violations in the
// weighted score numerator. All other categories weigh 1.
const ErrorWeight = 5

// Counts holds the raw counts extracted from the two tool reports.
type Counts struct {
	// ReportLines is the total number of lines in the style report.
	ReportLines int `json:"report_lines"`
	// StyleViolations is the number of style-report lines that start with a
	// digit, the original pipeline's proxy for "names a file:line finding".
	StyleViolations int `json:"style_violations"`
	// Errors, Warnings, and Conventions are independent substring counts
	// over the style report and may overlap each other and StyleViolations.
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Conventions int `json:"conventions"`
	// Bugs is the number of bug-report lines containing a BugInstance marker.
	Bugs int `json:"bugs"`
}

// Metrics is the computed result for one run.
type Metrics struct {
	// CheckstyleQuality is a percentage in [0, 100], 2 decimals.
	CheckstyleQuality float64 `json:"checkstyle_quality"`
	// OverallQuality is a percentage; 100 when no source lines were counted.
	OverallQuality float64 `json:"overall_quality"`
	// QualityScore targets [0, 10] but is unbounded below unless clamped.
	QualityScore float64 `json:"quality_score"`
}

// Options controls scoring behavior.
type Options struct {
	// Clamp forces QualityScore into [0, 10]. Off by default: the raw
	// formula is what the original pipeline published.
	Clamp bool
}

// CheckstyleQuality returns the style-quality percentage for the given
// violation count and report size, rounded to 2 decimals. An empty report
// scores 100: absence of findings and absence of a report are
// indistinguishable at this layer.
func CheckstyleQuality(violations, reportLines int) float64 {
	if reportLines <= 0 {
		return 100
	}
	return round2((1 - float64(violations)/float64(reportLines)) * 100)
}

// OverallQuality returns the percentage of source lines not implicated by a
// violation. Zero source lines scores 100 regardless of violation counts.
func OverallQuality(styleViolations, bugViolations, sourceLines int) float64 {
	if sourceLines <= 0 {
		return 100
	}
	total := styleViolations + bugViolations
	return (1 - float64(total)/float64(sourceLines)) * 100
}

// WeightedScore combines the four violation categories into a score
// targeting [0, 10], rounded to 2 decimals. Errors weigh ErrorWeight, the
// rest weigh 1, and the denominator is the plain sum of all four counts.
// When every count is zero the score is 0, not 10.
func WeightedScore(errors, warnings, conventions, bugs int) float64 {
	lloc := errors + warnings + conventions + bugs
	if lloc == 0 {
		return 0
	}
	weighted := ErrorWeight*errors + warnings + conventions + bugs
	return round2(10 - (float64(weighted)/float64(lloc))*10)
}

// Compute derives all three metrics from report counts and a source line
// count. Pure: no I/O, no mutation of inputs.
func Compute(c Counts, sourceLines int, opts Options) Metrics {
	m := Metrics{
		CheckstyleQuality: CheckstyleQuality(c.StyleViolations, c.ReportLines),
		OverallQuality:    OverallQuality(c.StyleViolations, c.Bugs, sourceLines),
		QualityScore:      WeightedScore(c.Errors, c.Warnings, c.Conventions, c.Bugs),
	}
	if opts.Clamp {
		m.QualityScore = clamp(m.QualityScore, 0, 10)
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
