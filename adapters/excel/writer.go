package excel

import (
	"io"

	"github.com/xuri/excelize/v2"

	"tabscout/domain/profile"
)

// PreviewSheet is the sheet WritePreview fills.
const PreviewSheet = "Sheet1"

// WritePreview writes the profile's column names and preview rows to an XLSX
// workbook. Values are written as text, exactly as they appeared in the file.
func WritePreview(w io.Writer, p *profile.DatasetProfile) error {
	f := excelize.NewFile()
	defer f.Close()

	if idx, err := f.GetSheetIndex(PreviewSheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(PreviewSheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	names := p.ColumnNames()
	for i, name := range names {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(PreviewSheet, cell, name); err != nil {
			return err
		}
	}
	if len(names) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(names), 1)
		if err := f.SetCellStyle(PreviewSheet, "A1", last, bold); err != nil {
			return err
		}
	}

	for r, row := range p.Preview {
		rowIdx := r + 2
		for c, name := range names {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellStr(PreviewSheet, cell, row[name]); err != nil {
				return err
			}
		}
	}

	_, err = f.WriteTo(w)
	return err
}
