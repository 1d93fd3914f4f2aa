package profiling

import (
	apperrors "tabscout/internal/errors"
)

// Integrity check bounds.
const (
	DefaultIntegritySampleRows = 100
	MaxMalformedRatio          = 0.2
)

// IntegrityReport summarizes the structural check over the sampled rows.
type IntegrityReport struct {
	Expected  int
	Sampled   int
	Malformed int
}

// Acceptable reports whether the malformed share stays within the tolerance.
// Exactly MaxMalformedRatio is still accepted.
func (r IntegrityReport) Acceptable() bool {
	return float64(r.Malformed) <= MaxMalformedRatio*float64(r.Sampled)
}

// CheckIntegrity tokenizes up to sampleRows data lines and counts rows whose
// field count differs from the header's. It returns a StructuralIntegrity
// error when the malformed share exceeds MaxMalformedRatio.
func CheckIntegrity(headerFields int, rows []string, dialect Dialect, sampleRows int) (IntegrityReport, error) {
	if sampleRows <= 0 {
		sampleRows = DefaultIntegritySampleRows
	}
	if len(rows) > sampleRows {
		rows = rows[:sampleRows]
	}

	report := IntegrityReport{Expected: headerFields, Sampled: len(rows)}
	for _, row := range rows {
		if len(SplitLine(row, dialect.Delimiter)) != headerFields {
			report.Malformed++
		}
	}

	if !report.Acceptable() {
		return report, apperrors.StructuralIntegrity(report.Malformed, report.Sampled, report.Expected)
	}
	return report, nil
}
