// Package report renders a dataset profile as a human-readable summary.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"tabscout/domain/profile"
)

// maxListedValues caps histogram bins and top values per summary line.
const maxListedValues = 10

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ")

// Markdown renders the profile as a markdown document: an overview, one
// table row per column and a section of type-specific statistics per column.
func Markdown(p *profile.DatasetProfile) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Profile: %s\n\n", p.FileName)
	fmt.Fprintf(&b, "- Rows: %d\n", p.RowCount)
	fmt.Fprintf(&b, "- Columns: %d\n", len(p.Columns))
	fmt.Fprintf(&b, "- Delimiter: `%s`\n", displayDelimiter(p.Delimiter))
	fmt.Fprintf(&b, "- Preview rows: %d\n\n", len(p.Preview))

	b.WriteString("| Column | Type | Missing | Unique | Example |\n")
	b.WriteString("|---|---|---:|---:|---|\n")
	for _, c := range p.Columns {
		example := ""
		if c.Example != nil {
			example = *c.Example
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %s |\n",
			cellEscaper.Replace(c.Name), c.Type, c.Missing, c.Unique, cellEscaper.Replace(example))
	}

	for _, c := range p.Columns {
		lines := statLines(c)
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s (%s)\n\n", c.Name, c.Type)
		for _, line := range lines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}

	return b.String()
}

// HTML renders the markdown summary to an HTML fragment. Raw HTML coming
// from file names, headers or values is dropped.
func HTML(p *profile.DatasetProfile) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	doc := parser.NewWithExtensions(extensions).Parse([]byte(Markdown(p)))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return markdown.Render(doc, renderer)
}

func statLines(c profile.ColumnInfo) []string {
	s := c.Stats
	var lines []string

	switch c.Type {
	case profile.TypeNumeric:
		if s.Min != nil && s.Max != nil && s.Mean != nil {
			lines = append(lines, fmt.Sprintf("Range: %s to %s, mean %s", number(*s.Min), number(*s.Max), number(*s.Mean)))
		}
		if s.Quantiles != nil {
			lines = append(lines, fmt.Sprintf("Quartiles: %s / %s / %s",
				number(s.Quantiles.Q1), number(s.Quantiles.Median), number(s.Quantiles.Q3)))
		}
	case profile.TypeDate:
		if s.Min != nil && s.Max != nil {
			lines = append(lines, fmt.Sprintf("Range: %s to %s", day(*s.Min), day(*s.Max)))
		}
	}

	if len(s.Histogram) > 0 {
		lines = append(lines, "Histogram: "+namedValues(s.Histogram))
	}
	if len(s.TopValues) > 0 {
		lines = append(lines, "Top values: "+namedValues(s.TopValues))
	}
	return lines
}

func namedValues(values []profile.NamedValue) string {
	parts := make([]string, 0, maxListedValues+1)
	for i, v := range values {
		if i == maxListedValues {
			parts = append(parts, fmt.Sprintf("and %d more", len(values)-maxListedValues))
			break
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", v.Name, v.Value))
	}
	return strings.Join(parts, ", ")
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func day(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format("2006-01-02")
}

func displayDelimiter(d string) string {
	if d == "\t" {
		return `\t`
	}
	return d
}
