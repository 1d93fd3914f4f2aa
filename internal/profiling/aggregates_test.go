package profiling

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscout/domain/profile"
)

func TestLowerQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.Equal(t, 3.0, LowerQuantile(sorted, Q1Fraction))
	assert.Equal(t, 6.0, LowerQuantile(sorted, MedianFraction))
	assert.Equal(t, 8.0, LowerQuantile(sorted, Q3Fraction))
	assert.Equal(t, 10.0, LowerQuantile(sorted, 1))
	assert.Equal(t, 0.0, LowerQuantile(nil, MedianFraction))
}

func TestNumericStats(t *testing.T) {
	s := BuildStats(profile.TypeNumeric, []string{"3", "1", "2", "N/A"})

	require.NotNil(t, s.Min)
	require.NotNil(t, s.Max)
	require.NotNil(t, s.Mean)
	assert.Equal(t, 1.0, *s.Min)
	assert.Equal(t, 3.0, *s.Max)
	assert.Equal(t, 2.0, *s.Mean)
	assert.Equal(t, &profile.Quantiles{Q1: 1, Median: 2, Q3: 3}, s.Quantiles)
	assert.Len(t, s.Histogram, HistogramBins)
	assert.Nil(t, s.TopValues)
}

func TestNumericQuantilesAreOrdered(t *testing.T) {
	values := make([]string, 0, 37)
	for i := 0; i < 37; i++ {
		values = append(values, strconv.Itoa((i*7919)%101))
	}
	s := BuildStats(profile.TypeNumeric, values)

	require.NotNil(t, s.Quantiles)
	assert.LessOrEqual(t, *s.Min, s.Quantiles.Q1)
	assert.LessOrEqual(t, s.Quantiles.Q1, s.Quantiles.Median)
	assert.LessOrEqual(t, s.Quantiles.Median, s.Quantiles.Q3)
	assert.LessOrEqual(t, s.Quantiles.Q3, *s.Max)
}

func TestEqualWidthHistogramClosesLastBin(t *testing.T) {
	sorted := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	bins := EqualWidthHistogram(sorted, HistogramBins, numericRangeLabel)

	require.Len(t, bins, HistogramBins)
	total := 0
	for i, b := range bins {
		total += b.Value
		if i < HistogramBins-1 {
			assert.Equal(t, 1, b.Value, "bin %d", i)
		}
	}
	assert.Equal(t, 2, bins[HistogramBins-1].Value)
	assert.Equal(t, len(sorted), total)
	assert.Equal(t, "0.00 - 1.00", bins[0].Name)
	assert.Equal(t, "9.00 - 10.00", bins[HistogramBins-1].Name)
}

func TestEqualWidthHistogramConstantColumn(t *testing.T) {
	bins := EqualWidthHistogram([]float64{5, 5, 5}, HistogramBins, numericRangeLabel)

	assert.Equal(t, []profile.NamedValue{{Name: "5.00", Value: 3}}, bins)
}

func TestEqualWidthHistogramRangeBeyondFloat64(t *testing.T) {
	sorted := []float64{-1e308, 0, 1e308}
	bins := EqualWidthHistogram(sorted, HistogramBins, numericRangeLabel)

	require.Len(t, bins, HistogramBins)
	total := 0
	for _, b := range bins {
		total += b.Value
	}
	assert.Equal(t, len(sorted), total)
	assert.Equal(t, 1, bins[0].Value)
	assert.Equal(t, 1, bins[HistogramBins-1].Value)
	assert.True(t, strings.HasPrefix(bins[0].Name, "-1e+308 - "), bins[0].Name)
}

func TestNarrowHistogramLabelsAreDistinct(t *testing.T) {
	sorted := []float64{1, 1.00000001, 1.00000002, 1.0000001}
	bins := EqualWidthHistogram(sorted, HistogramBins, numericRangeLabel)

	require.Len(t, bins, HistogramBins)
	seen := make(map[string]bool, len(bins))
	for _, b := range bins {
		assert.False(t, seen[b.Name], "duplicate label %q", b.Name)
		seen[b.Name] = true
	}
	assert.True(t, strings.HasPrefix(bins[0].Name, "1.000000000"), bins[0].Name)
}

func TestLabelDecimals(t *testing.T) {
	assert.Equal(t, 2, labelDecimals(1))
	assert.Equal(t, 2, labelDecimals(0.5))
	assert.Equal(t, 3, labelDecimals(0.05))
	assert.Equal(t, 9, labelDecimals(2e-8))
	assert.Equal(t, maxLabelDecimals, labelDecimals(1e-300))
	assert.Equal(t, 2, labelDecimals(0))
}

func TestNumericMeanNearFloat64Limit(t *testing.T) {
	s := BuildStats(profile.TypeNumeric, []string{"1e308", "1e308"})

	require.NotNil(t, s.Mean)
	assert.Equal(t, 1e308, *s.Mean)
	assert.Equal(t, 5e307, scaledMean([]float64{1e308, 0}))
}

func TestEqualWidthHistogramEmpty(t *testing.T) {
	assert.Nil(t, EqualWidthHistogram(nil, HistogramBins, numericRangeLabel))
}

func TestDateStats(t *testing.T) {
	s := BuildStats(profile.TypeDate, []string{"2024-01-11", "2024-01-01", "garbage"})

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)
	require.NotNil(t, s.Min)
	require.NotNil(t, s.Max)
	assert.Equal(t, float64(first.UnixMilli()), *s.Min)
	assert.Equal(t, float64(last.UnixMilli()), *s.Max)
	assert.Nil(t, s.Mean)
	assert.Nil(t, s.Quantiles)

	require.Len(t, s.Histogram, HistogramBins)
	assert.Equal(t, "2024-01-01", s.Histogram[0].Name)
	assert.Equal(t, "2024-01-10", s.Histogram[HistogramBins-1].Name)
	assert.Equal(t, 1, s.Histogram[0].Value)
	assert.Equal(t, 1, s.Histogram[HistogramBins-1].Value)
}

func TestStringTopValues(t *testing.T) {
	s := BuildStats(profile.TypeString, []string{"x", "y", "x"})

	assert.Equal(t, []profile.NamedValue{{Name: "x", Value: 2}, {Name: "y", Value: 1}}, s.TopValues)
	assert.Nil(t, s.Min)
	assert.Nil(t, s.Histogram)
}

func TestStringTopValuesKeepEncounterOrderOnTies(t *testing.T) {
	s := BuildStats(profile.TypeString, []string{"b", "a", "c", "a", "b"})

	assert.Equal(t, []profile.NamedValue{
		{Name: "b", Value: 2},
		{Name: "a", Value: 2},
		{Name: "c", Value: 1},
	}, s.TopValues)
}

func TestStringTopValuesLimit(t *testing.T) {
	values := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		values = append(values, fmt.Sprintf("v%02d", i))
	}
	s := BuildStats(profile.TypeString, values)

	require.Len(t, s.TopValues, TopValueLimit)
	assert.Equal(t, "v00", s.TopValues[0].Name)
	assert.Equal(t, "v19", s.TopValues[TopValueLimit-1].Name)
}

func TestStringTopValuesTruncateLabels(t *testing.T) {
	// Truncation applies to the label only; counting uses the full value.
	s := BuildStats(profile.TypeString, []string{
		"abcdefghijklmnopqrst",
		"abcdefghijklmnopXYZ",
		"abcdefghijklmnopqrst",
		"exactly15chars!",
	})

	assert.Equal(t, []profile.NamedValue{
		{Name: "abcdefghijklmno...", Value: 2},
		{Name: "abcdefghijklmno...", Value: 1},
		{Name: "exactly15chars!", Value: 1},
	}, s.TopValues)
}

func TestTruncateLabelCountsRunes(t *testing.T) {
	assert.Equal(t, "ééééééééééééééé...", truncateLabel("éééééééééééééééééééé"))
	assert.Equal(t, "short", truncateLabel("short"))
}

func TestBuildStatsReservedTypes(t *testing.T) {
	assert.True(t, BuildStats(profile.TypeBoolean, []string{"true"}).IsEmpty())
	assert.True(t, BuildStats(profile.TypeUnknown, []string{"?"}).IsEmpty())
}
