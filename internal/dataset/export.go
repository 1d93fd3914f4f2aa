package dataset

import (
	"strings"

	"tabscout/domain/profile"
)

// ExportPreviewCSV renders the preview rows as comma-separated text. The
// header line holds the bare column names; every data field is quoted with
// embedded quotes doubled, and absent values export as "".
func ExportPreviewCSV(p *profile.DatasetProfile) string {
	names := p.ColumnNames()

	var b strings.Builder
	b.WriteString(strings.Join(names, ","))
	for _, row := range p.Preview {
		b.WriteByte('\n')
		for i, name := range names {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteField(row[name]))
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func quoteField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
