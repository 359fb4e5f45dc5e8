package session

import "regexp"

// diagnosticFilter classifies validation-phase diagnostic lines. The
// placeholder draw uses all-zero single records on an inert terminal,
// which provokes a known family of complaints that say nothing about
// whether the real command is valid.
type diagnosticFilter interface {
	Benign(line string) bool
}

// defaultFilter matches the diagnostics a zero-record placeholder draw
// is known to provoke.
type defaultFilter struct{}

var benignPatterns = []*regexp.Regexp{
	// interactive prompt echoes and the parser's caret marker
	regexp.MustCompile(`^gnuplot>`),
	regexp.MustCompile(`^\s*\^\s*$`),
	// the echoed placeholder record and its end-of-data marker
	regexp.MustCompile(`^\s*0(\s+0)*\s*$`),
	regexp.MustCompile(`^\s*e\s*$`),
	// zero data collapses ranges and drops points
	regexp.MustCompile(`(?i)skipping data file with no valid points`),
	regexp.MustCompile(`(?i)all points.*undefined`),
	regexp.MustCompile(`(?i)point.*out of range`),
	regexp.MustCompile(`(?i)warning:\s*empty\s+\S+\s+range`),
	regexp.MustCompile(`(?i)warning:\s*no usable data`),
}

func (defaultFilter) Benign(line string) bool {
	for _, p := range benignPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
