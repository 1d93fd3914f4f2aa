// Package profile holds the result shapes produced by the profiling engine.
// Every type here is plain data: it is persisted verbatim, sent over HTTP and
// consumed by downstream tooling, so nothing in this package carries behavior
// beyond small accessors.
package profile

import (
	"time"

	"tabscout/domain/core"
)

// ColumnType is the semantic type assigned to a column
type ColumnType string

const (
	TypeNumeric ColumnType = "numeric"
	TypeString  ColumnType = "string"
	TypeDate    ColumnType = "date"
	// TypeBoolean and TypeUnknown are reserved. The classifier never assigns
	// them today; they exist so stored profiles keep a stable vocabulary.
	TypeBoolean ColumnType = "boolean"
	TypeUnknown ColumnType = "unknown"
)

// NamedValue is one chart-ready point: a histogram bin or a top value.
type NamedValue struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Quantiles holds lower-index quantiles of a numeric column.
type Quantiles struct {
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

// ColumnStats is the type-conditioned aggregate bundle.
//
// numeric: Min, Max, Mean, Quantiles, Histogram
// date:    Min, Max (epoch milliseconds), Histogram
// string:  TopValues
type ColumnStats struct {
	Min       *float64     `json:"min,omitempty"`
	Max       *float64     `json:"max,omitempty"`
	Mean      *float64     `json:"mean,omitempty"`
	Quantiles *Quantiles   `json:"quantiles,omitempty"`
	Histogram []NamedValue `json:"histogram,omitempty"`
	TopValues []NamedValue `json:"topValues,omitempty"`
}

// IsEmpty reports whether no aggregate was computed.
func (s ColumnStats) IsEmpty() bool {
	return s.Min == nil && s.Max == nil && s.Mean == nil && s.Quantiles == nil &&
		len(s.Histogram) == 0 && len(s.TopValues) == 0
}

// ColumnInfo is the profiling result for one header position.
type ColumnInfo struct {
	Name    string      `json:"name"`
	Type    ColumnType  `json:"type"`
	Missing int         `json:"missing"`
	Unique  int         `json:"unique"`
	Example *string     `json:"example"`
	Stats   ColumnStats `json:"stats"`
}

// PreviewRow maps header names to raw field values. Column order is given by
// DatasetProfile.Columns; with duplicate header names the rightmost value wins.
type PreviewRow map[string]string

// DatasetProfile is the immutable outcome of profiling one file.
type DatasetProfile struct {
	FileName  string       `json:"fileName"`
	Delimiter string       `json:"delimiter"`
	RowCount  int          `json:"rowCount"`
	Columns   []ColumnInfo `json:"columns"`
	Preview   []PreviewRow `json:"preview"`
}

// ColumnNames returns header names in file order.
func (p *DatasetProfile) ColumnNames() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}

// Record is a stored profile together with its bookkeeping fields.
type Record struct {
	ID          core.ID        `json:"id"`
	ContentHash core.Hash      `json:"content_hash"`
	Profile     DatasetProfile `json:"profile"`
	CreatedAt   time.Time      `json:"created_at"`
	// RawPath locates the kept raw upload, empty when uploads are not kept.
	RawPath string `json:"raw_path,omitempty"`
}

// NewRecord wraps a freshly computed profile.
func NewRecord(hash core.Hash, p DatasetProfile) *Record {
	return &Record{
		ID:          core.NewID(),
		ContentHash: hash,
		Profile:     p,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}
