package analyzer

import "testing"

func TestParseCheckstyle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want CheckstyleReport
	}{
		{
			name: "empty report",
			text: "",
			want: CheckstyleReport{},
		},
		{
			name: "ten lines three violations",
			text: "Starting audit...\n" +
				"12: missing javadoc\n" +
				"45: line too long\n" +
				"checking module\n" +
				"checking module\n" +
				"checking module\n" +
				"checking module\n" +
				"checking module\n" +
				"101: unused import\n" +
				"Audit done.\n",
			want: CheckstyleReport{TotalLines: 10, Violations: 3},
		},
		{
			name: "overlapping category markers on one line",
			text: "33: error, also a warning about style\n",
			want: CheckstyleReport{
				TotalLines:  1,
				Violations:  1,
				Errors:      1,
				Warnings:    1,
				Conventions: 1,
			},
		},
		{
			name: "category markers without violation prefix",
			text: "the checker emitted a warning\nstyle module loaded\n",
			want: CheckstyleReport{TotalLines: 2, Warnings: 1, Conventions: 1},
		},
		{
			name: "markers are case-sensitive",
			text: "12: ERROR something\nWarning: deprecated\n",
			want: CheckstyleReport{TotalLines: 2, Violations: 1},
		},
		{
			name: "no trailing newline still counts last line",
			text: "1: finding",
			want: CheckstyleReport{TotalLines: 1, Violations: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCheckstyle(tt.text); got != tt.want {
				t.Errorf("ParseCheckstyle() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSpotBugs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want SpotBugsReport
	}{
		{"empty report", "", SpotBugsReport{}},
		{
			name: "two findings among metadata",
			text: "SpotBugs 4.8.3\n" +
				"  BugInstance: NP_NULL_ON_SOME_PATH in Foo.bar()\n" +
				"  details follow\n" +
				"  BugInstance: DM_DEFAULT_ENCODING in Foo.baz()\n",
			want: SpotBugsReport{TotalLines: 4, Bugs: 2},
		},
		{
			name: "marker is case-sensitive",
			text: "buginstance: lowercase does not count\n",
			want: SpotBugsReport{TotalLines: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseSpotBugs(tt.text); got != tt.want {
				t.Errorf("ParseSpotBugs() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
