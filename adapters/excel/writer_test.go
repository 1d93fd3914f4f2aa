package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tabscout/domain/profile"
)

func TestWritePreview(t *testing.T) {
	p := &profile.DatasetProfile{
		FileName:  "people.csv",
		Delimiter: ",",
		RowCount:  2,
		Columns: []profile.ColumnInfo{
			{Name: "name", Type: profile.TypeString},
			{Name: "age", Type: profile.TypeNumeric},
		},
		Preview: []profile.PreviewRow{
			{"name": "Smith, John", "age": "34"},
			{"name": "Doe"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, p))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(PreviewSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "age"}, rows[0])
	assert.Equal(t, []string{"Smith, John", "34"}, rows[1])
	// GetRows drops trailing empty cells.
	assert.Equal(t, []string{"Doe"}, rows[2])
}

func TestWritePreviewRoundTripsThroughWorkbookText(t *testing.T) {
	p := &profile.DatasetProfile{
		Columns: []profile.ColumnInfo{{Name: "id"}, {Name: "city"}},
		Preview: []profile.PreviewRow{{"id": "1", "city": "Austin, TX"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, p))

	text, err := WorkbookText(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "\"id\",\"city\"\n\"1\",\"Austin, TX\"\n", text)
}
