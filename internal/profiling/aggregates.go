package profiling

import (
	"math"
	"sort"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tabscout/domain/profile"
)

// Aggregate shape constants.
const (
	HistogramBins  = 10
	TopValueLimit  = 20
	MaxLabelLength = 15
	labelEllipsis  = "..."
	dateLabel      = "2006-01-02"
)

// Quantile fractions. Each quantile is the sorted value at index
// floor(n*fraction); neighbours are never averaged.
const (
	Q1Fraction     = 0.25
	MedianFraction = 0.5
	Q3Fraction     = 0.75
)

// BuildStats computes the aggregate bundle for a column of the given type.
// Boolean and unknown columns get an empty bundle.
func BuildStats(colType profile.ColumnType, values []string) profile.ColumnStats {
	switch colType {
	case profile.TypeNumeric:
		return numericStats(values)
	case profile.TypeDate:
		return dateStats(values)
	case profile.TypeString:
		return stringStats(values)
	default:
		return profile.ColumnStats{}
	}
}

func numericStats(values []string) profile.ColumnStats {
	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := ParseNumber(v); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return profile.ColumnStats{}
	}

	min, _ := stats.Min(nums)
	max, _ := stats.Max(nums)
	mean, _ := stats.Mean(nums)
	if math.IsInf(mean, 0) {
		mean = scaledMean(nums)
	}

	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	return profile.ColumnStats{
		Min:  &min,
		Max:  &max,
		Mean: &mean,
		Quantiles: &profile.Quantiles{
			Q1:     LowerQuantile(sorted, Q1Fraction),
			Median: LowerQuantile(sorted, MedianFraction),
			Q3:     LowerQuantile(sorted, Q3Fraction),
		},
		Histogram: EqualWidthHistogram(sorted, HistogramBins, numericRangeLabel),
	}
}

// scaledMean divides before summing so finite inputs near the float64 limit
// cannot overflow the running total.
func scaledMean(nums []float64) float64 {
	n := float64(len(nums))
	var mean float64
	for _, v := range nums {
		mean += v / n
	}
	return mean
}

func dateStats(values []string) profile.ColumnStats {
	stamps := make([]float64, 0, len(values))
	for _, v := range values {
		if t, ok := ParseDate(v); ok {
			stamps = append(stamps, float64(t.UnixMilli()))
		}
	}
	if len(stamps) == 0 {
		return profile.ColumnStats{}
	}
	sort.Float64s(stamps)

	min, max := stamps[0], stamps[len(stamps)-1]
	return profile.ColumnStats{
		Min:       &min,
		Max:       &max,
		Histogram: EqualWidthHistogram(stamps, HistogramBins, dayLabel),
	}
}

func stringStats(values []string) profile.ColumnStats {
	if len(values) == 0 {
		return profile.ColumnStats{}
	}
	counts := make(map[string]int, len(values))
	order := make([]string, 0)
	for _, v := range values {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	// Stable sort keeps encounter order among equal counts.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > TopValueLimit {
		order = order[:TopValueLimit]
	}

	top := make([]profile.NamedValue, len(order))
	for i, v := range order {
		top[i] = profile.NamedValue{Name: truncateLabel(v), Value: counts[v]}
	}
	return profile.ColumnStats{TopValues: top}
}

// LowerQuantile returns sorted[floor(n*p)], clamped to the last element.
func LowerQuantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	idx := int(math.Floor(float64(n) * p))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// EqualWidthHistogram counts sorted values into bins equal-width bins over
// [min, max]. Bin i covers [min+i*step, min+(i+1)*step); the last bin is
// closed so max lands in it. A zero-width range yields a single bin.
func EqualWidthHistogram(sorted []float64, bins int, label func(lo, hi float64) string) []profile.NamedValue {
	if len(sorted) == 0 || bins <= 0 {
		return nil
	}
	min, max := sorted[0], sorted[len(sorted)-1]
	if min == max {
		return []profile.NamedValue{{Name: label(min, max), Value: len(sorted)}}
	}

	dividers := make([]float64, bins+1)
	if math.IsInf(max-min, 0) {
		step := max/float64(bins) - min/float64(bins)
		for i := range dividers {
			dividers[i] = min + float64(i)*step
		}
	} else {
		floats.Span(dividers, min, max)
	}
	// stat.Histogram treats the last divider as exclusive.
	dividers[bins] = math.Nextafter(max, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]profile.NamedValue, bins)
	for i := range out {
		hi := dividers[i+1]
		if i == bins-1 {
			hi = max
		}
		out[i] = profile.NamedValue{Name: label(dividers[i], hi), Value: int(counts[i])}
	}
	return out
}

// Numeric bin labels use two decimals unless the bin is narrower than that.
const (
	minLabelDecimals = 2
	maxLabelDecimals = 17
)

func numericRangeLabel(lo, hi float64) string {
	if lo == hi {
		return formatNumber(lo, minLabelDecimals)
	}
	prec := labelDecimals(hi - lo)
	return formatNumber(lo, prec) + " - " + formatNumber(hi, prec)
}

// labelDecimals returns enough decimals to tell apart two edges width apart.
func labelDecimals(width float64) int {
	if width <= 0 || width >= 1 || math.IsInf(width, 0) || math.IsNaN(width) {
		return minLabelDecimals
	}
	prec := int(math.Ceil(-math.Log10(width))) + 1
	if prec < minLabelDecimals {
		return minLabelDecimals
	}
	if prec > maxLabelDecimals {
		return maxLabelDecimals
	}
	return prec
}

func formatNumber(v float64, decimals int) string {
	if math.Abs(v) >= 1e15 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// dayLabel names a date bin by the calendar day of its start edge.
func dayLabel(lo, _ float64) string {
	return time.UnixMilli(int64(lo)).UTC().Format(dateLabel)
}

func truncateLabel(s string) string {
	if utf8.RuneCountInString(s) <= MaxLabelLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:MaxLabelLength]) + labelEllipsis
}
