package profiling

import "strings"

// DefaultDelimiter is chosen when no candidate beats it.
const DefaultDelimiter = ','

// candidateDelimiters is scanned in order; earlier entries win ties.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Dialect describes how a file splits into fields.
type Dialect struct {
	Delimiter rune
}

// String renders the delimiter for display and persistence.
func (d Dialect) String() string {
	if d.Delimiter == '\t' {
		return `\t`
	}
	return string(d.Delimiter)
}

// DetectDialect picks the candidate delimiter that occurs most often in the
// header line. Occurrences are counted naively, ignoring quotes. Comma wins
// ties and the all-zero case.
func DetectDialect(header string) Dialect {
	best := DefaultDelimiter
	bestCount := strings.Count(header, string(best))

	for _, d := range candidateDelimiters {
		if n := strings.Count(header, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return Dialect{Delimiter: best}
}
