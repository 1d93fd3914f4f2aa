package testkit

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// CSVGeneratorConfig configures the synthetic delimited-file generator
type CSVGeneratorConfig struct {
	Rows          int       `json:"rows"`
	Delimiter     rune      `json:"delimiter"`
	MissingRate   float64   `json:"missing_rate"`   // share of empty cells in optional columns
	MalformedRows int       `json:"malformed_rows"` // leading data rows that drop their last field
	StartDate     time.Time `json:"start_date"`
	Seed          int64     `json:"seed"`
}

// DefaultCSVConfig returns sensible defaults for CSV generation
func DefaultCSVConfig() CSVGeneratorConfig {
	return CSVGeneratorConfig{
		Rows:        500,
		Delimiter:   ',',
		MissingRate: 0.05,
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:        42,
	}
}

// CSVHeaders is the header row written by CSVGenerator, in order.
var CSVHeaders = []string{"order_id", "amount", "ordered_on", "city", "note"}

var cities = []string{"Lisbon", "Porto", "Berlin", "Paris", "Austin, TX", "Portland, OR", "Oslo"}

var notes = []string{"gift", "express", "returned later", "N/A", "priority customer account"}

// CSVGenerator produces deterministic delimited text for profiling tests:
// a numeric id, a numeric amount, an ISO date, a quoted city (some values
// contain the delimiter) and a sparse free-text note.
type CSVGenerator struct {
	config CSVGeneratorConfig
	rng    *rand.Rand
}

// NewCSVGenerator creates a new generator
func NewCSVGenerator(config CSVGeneratorConfig) *CSVGenerator {
	if config.Delimiter == 0 {
		config.Delimiter = ','
	}
	if config.StartDate.IsZero() {
		config.StartDate = DefaultCSVConfig().StartDate
	}
	return &CSVGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate returns the full file content including the header line.
func (g *CSVGenerator) Generate() string {
	sep := string(g.config.Delimiter)

	var b strings.Builder
	b.WriteString(strings.Join(CSVHeaders, sep))
	b.WriteByte('\n')

	for i := 0; i < g.config.Rows; i++ {
		fields := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(float64(g.rng.Intn(100000))/100, 'f', 2, 64),
			g.config.StartDate.AddDate(0, 0, g.rng.Intn(365)).Format("2006-01-02"),
			fmt.Sprintf("%q", cities[g.rng.Intn(len(cities))]),
			g.optional(notes[g.rng.Intn(len(notes))]),
		}
		if i < g.config.MalformedRows {
			fields = fields[:len(fields)-1]
		}
		b.WriteString(strings.Join(fields, sep))
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *CSVGenerator) optional(v string) string {
	if g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return v
}

// RaggedCSV builds a file with the given header width where exactly
// malformed of the data rows carry one extra field.
func RaggedCSV(width, rows, malformed int) string {
	header := make([]string, width)
	for i := range header {
		header[i] = fmt.Sprintf("c%d", i+1)
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for r := 0; r < rows; r++ {
		n := width
		if r < malformed {
			n++
		}
		fields := make([]string, n)
		for i := range fields {
			fields[i] = strconv.Itoa(r*n + i)
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}
	return b.String()
}
