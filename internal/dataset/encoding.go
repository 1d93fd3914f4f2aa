package dataset

import (
	"bytes"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"tabscout/adapters/excel"
	apperrors "tabscout/internal/errors"
)

// ToText turns an uploaded file into the text the profiler reads. XLSX
// workbooks are flattened to comma-delimited text; anything else is decoded.
func ToText(filename string, raw []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		text, err := excel.WorkbookText(bytes.NewReader(raw))
		if err != nil {
			return "", apperrors.WithCode(apperrors.CodeInvalidInput, err)
		}
		return text, nil
	}
	return DecodeText(raw)
}

// DecodeText converts raw upload bytes to a string. A UTF-8 or UTF-16 byte
// order mark selects the encoding and is dropped; without one the bytes are
// read as UTF-8. Invalid sequences become U+FFFD, which profiling rejects.
func DecodeText(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to decode upload")
	}
	return string(out), nil
}
