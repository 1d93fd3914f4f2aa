// Package excel converts XLSX workbooks to and from the delimited text the
// profiler works on.
package excel

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// WorkbookText reads the first sheet of an XLSX workbook and renders it as
// comma-delimited text. Every cell is quoted with embedded quotes doubled,
// and line breaks inside a cell become spaces so each sheet row stays on one
// line. Rows shorter than the widest row are padded with empty cells; rows
// with no content are dropped.
func WorkbookText(r io.Reader) (string, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to open Excel workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("Excel workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	var b strings.Builder
	written := 0
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		for i := 0; i < width; i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			b.WriteString(quoteCell(cell))
		}
		b.WriteByte('\n')
		written++
	}

	log.Printf("[ExcelReader] Sheet %s read in %.2fms (%d rows, %d columns)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, written, width)
	return b.String(), nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// quoteCell wraps a cell in quotes for the comma dialect. Profiling text is
// split by quote parity and never de-escaped, so embedded quotes are kept
// verbatim when they cannot move a split point. Otherwise they become
// apostrophes.
func quoteCell(cell string) string {
	cell = newlineReplacer.Replace(cell)
	if !parityNeutral(cell) {
		cell = strings.ReplaceAll(cell, `"`, "'")
	}
	return `"` + cell + `"`
}

// parityNeutral reports whether cell holds an even number of quotes and
// every comma in it has an even number of quotes to its right.
func parityNeutral(cell string) bool {
	quotes := 0
	for i := len(cell) - 1; i >= 0; i-- {
		switch cell[i] {
		case '"':
			quotes++
		case ',':
			if quotes%2 != 0 {
				return false
			}
		}
	}
	return quotes%2 == 0
}
