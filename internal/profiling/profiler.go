// Package profiling turns delimited text of unknown dialect into a
// DatasetProfile: dialect detection, quote-aware tokenization, a structural
// integrity gate, per-column type classification and type-conditioned
// aggregates.
//
// Profiling is a pure function of the input. Nothing is retained between
// calls, so one Profiler can serve concurrent requests.
package profiling

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"tabscout/domain/profile"
	"tabscout/internal"
	apperrors "tabscout/internal/errors"
)

// Resource bounds applied regardless of file size.
const (
	DefaultSampleWindow = 2000
	DefaultPreviewRows  = 50
	DefaultWorkers      = 4
)

// Config bounds the work done per file.
type Config struct {
	// SampleWindow is the number of leading data rows used for type
	// inference and statistics.
	SampleWindow int
	// PreviewRows is the number of leading data rows materialized in the profile.
	PreviewRows int
	// IntegritySampleRows is the number of leading data rows checked against
	// the header's field count.
	IntegritySampleRows int
	// Workers caps concurrent per-column work.
	Workers int
}

// DefaultConfig returns the standard bounds.
func DefaultConfig() Config {
	return Config{
		SampleWindow:        DefaultSampleWindow,
		PreviewRows:         DefaultPreviewRows,
		IntegritySampleRows: DefaultIntegritySampleRows,
		Workers:             DefaultWorkers,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.SampleWindow <= 0 {
		c.SampleWindow = d.SampleWindow
	}
	if c.PreviewRows < 0 {
		c.PreviewRows = d.PreviewRows
	}
	if c.IntegritySampleRows <= 0 {
		c.IntegritySampleRows = d.IntegritySampleRows
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	return c
}

// Profiler runs the profiling pipeline.
type Profiler struct {
	config Config
	logger *internal.Logger
}

// NewProfiler creates a profiler. A nil logger falls back to the default one.
func NewProfiler(config Config, logger *internal.Logger) *Profiler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Profiler{
		config: config.withDefaults(),
		logger: logger.Component("Profiler"),
	}
}

// Config returns the effective bounds.
func (p *Profiler) Config() Config {
	return p.config
}

// Profile profiles content with the default bounds.
func Profile(ctx context.Context, content, fileName string) (*profile.DatasetProfile, error) {
	return NewProfiler(DefaultConfig(), nil).Profile(ctx, content, fileName)
}

// columnSample accumulates one column's sampled values by header position.
type columnSample struct {
	values  []string
	missing int
}

// Profile runs the full pipeline. It returns either a complete profile or a
// single error; partial profiles are never returned.
func (p *Profiler) Profile(ctx context.Context, content, fileName string) (result *profile.DatasetProfile, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = apperrors.ProfilingFailed(fmt.Errorf("panic: %v", r))
		}
	}()

	if offset := strings.IndexRune(content, utf8.RuneError); offset >= 0 {
		return nil, apperrors.EncodingError(offset)
	}

	lines := nonBlankLines(content)
	if len(lines) < 2 {
		return nil, apperrors.InsufficientData(len(lines))
	}
	header, body := lines[0], lines[1:]

	dialect := DetectDialect(header)
	names := SplitLine(header, dialect.Delimiter)
	if !hasColumnNames(names) {
		return nil, apperrors.ColumnDetectionFailed(dialect.Delimiter)
	}

	report, err := CheckIntegrity(len(names), body, dialect, p.config.IntegritySampleRows)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("%s: delimiter %s, %d columns, %d data rows, %d/%d sampled rows malformed",
		fileName, dialect, len(names), len(body), report.Malformed, report.Sampled)

	window := body[:minInt(len(body), p.config.SampleWindow)]
	samples := collectSamples(window, len(names), dialect)

	columns, err := p.profileColumns(ctx, names, samples)
	if err != nil {
		return nil, apperrors.ProfilingFailed(err)
	}

	return &profile.DatasetProfile{
		FileName:  fileName,
		Delimiter: string(dialect.Delimiter),
		RowCount:  len(body),
		Columns:   columns,
		Preview:   buildPreview(body[:minInt(len(body), p.config.PreviewRows)], names, dialect),
	}, nil
}

// profileColumns classifies and aggregates every column. Each worker writes
// only its own slot, so no locking is needed.
func (p *Profiler) profileColumns(ctx context.Context, names []string, samples []columnSample) ([]profile.ColumnInfo, error) {
	columns := make([]profile.ColumnInfo, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Workers)
	for i := range names {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("column %d (%s): panic: %v", i, names[i], r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			columns[i] = profileColumn(names[i], samples[i])
			p.logger.Trace("column %q classified as %s from %d values", names[i], columns[i].Type, len(samples[i].values))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return columns, nil
}

func profileColumn(name string, sample columnSample) profile.ColumnInfo {
	verdict := ClassifyColumn(sample.values)

	info := profile.ColumnInfo{
		Name:    name,
		Type:    verdict.Type,
		Missing: sample.missing,
		Unique:  countDistinct(sample.values),
		Stats:   BuildStats(verdict.Type, sample.values),
	}
	if len(sample.values) > 0 {
		example := sample.values[0]
		info.Example = &example
	}
	return info
}

// collectSamples makes the single sequential pass over the sample window. A
// value absent from a short row, or empty, counts as missing.
func collectSamples(rows []string, width int, dialect Dialect) []columnSample {
	samples := make([]columnSample, width)
	for _, row := range rows {
		fields := SplitLine(row, dialect.Delimiter)
		for i := range samples {
			if i < len(fields) && fields[i] != "" {
				samples[i].values = append(samples[i].values, fields[i])
			} else {
				samples[i].missing++
			}
		}
	}
	return samples
}

func buildPreview(rows []string, names []string, dialect Dialect) []profile.PreviewRow {
	preview := make([]profile.PreviewRow, 0, len(rows))
	for _, row := range rows {
		fields := SplitLine(row, dialect.Delimiter)
		named := make(profile.PreviewRow, len(names))
		for i, name := range names {
			if i < len(fields) {
				named[name] = fields[i]
			}
		}
		preview = append(preview, named)
	}
	return preview
}

// nonBlankLines splits on \n, drops a trailing \r and skips blank lines.
func nonBlankLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func hasColumnNames(names []string) bool {
	for _, n := range names {
		if n != "" {
			return true
		}
	}
	return false
}

func countDistinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
