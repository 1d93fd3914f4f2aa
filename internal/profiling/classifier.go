package profiling

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"tabscout/domain/profile"
)

// Classification thresholds. A share must be strictly greater than its
// threshold to assign the type.
const (
	NumericShareThreshold = 0.8
	DateShareThreshold    = 0.6
	// Only values longer than MinDateLength characters are tried as dates.
	MinDateLength = 5
)

// dateLayouts are tried in order. Parsing happens in UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"2006.01.02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
	"01-02-2006",
	"1-2-2006",
	"02-Jan-2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"Mon Jan 2 2006",
	"Mon, Jan 2, 2006",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"2006-01",
	"Jan 2006",
	"January 2006",
}

// ParseNumber converts a raw value to a float. NaN and infinities are
// rejected so they can never reach min/max or histogram math.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseDate tries every known calendar layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// typeTally counts how many sampled values parse as each candidate type.
type typeTally struct {
	sample  int
	numeric int
	date    int
}

func (t typeTally) share(hits int) float64 {
	if t.sample == 0 {
		return 0
	}
	return float64(hits) / float64(t.sample)
}

// classificationRule assigns Type when its hit share beats MinShare.
type classificationRule struct {
	Type     profile.ColumnType
	MinShare float64
	hits     func(typeTally) int
}

// classificationRules are evaluated in priority order. Numeric comes first
// because loose date layouts would otherwise swallow plain numbers.
var classificationRules = []classificationRule{
	{Type: profile.TypeNumeric, MinShare: NumericShareThreshold, hits: func(t typeTally) int { return t.numeric }},
	{Type: profile.TypeDate, MinShare: DateShareThreshold, hits: func(t typeTally) int { return t.date }},
}

// Classification is the classifier's verdict for one column.
type Classification struct {
	Type         profile.ColumnType
	SampleSize   int
	NumericCount int
	DateCount    int
}

// ClassifyColumn inspects the non-empty sampled values of one column.
// An empty sample is a string column.
func ClassifyColumn(values []string) Classification {
	tally := typeTally{sample: len(values)}
	for _, v := range values {
		if _, ok := ParseNumber(v); ok {
			tally.numeric++
			continue
		}
		if utf8.RuneCountInString(v) > MinDateLength {
			if _, ok := ParseDate(v); ok {
				tally.date++
			}
		}
	}

	result := Classification{
		Type:         profile.TypeString,
		SampleSize:   tally.sample,
		NumericCount: tally.numeric,
		DateCount:    tally.date,
	}
	if tally.sample == 0 {
		return result
	}
	for _, rule := range classificationRules {
		if tally.share(rule.hits(tally)) > rule.MinShare {
			result.Type = rule.Type
			break
		}
	}
	return result
}
