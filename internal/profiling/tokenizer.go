package profiling

import "strings"

const quoteChar = '"'

// SplitLine splits one line into fields. A delimiter separates fields only
// when the number of quote characters to its right is even, so delimiters
// inside a balanced quoted field are kept. Each field is trimmed and loses at
// most one leading and one trailing quote; doubled quotes are left as is.
//
// Unbalanced quotes are not repaired: the resulting field count will simply
// disagree with the header and the row is treated as malformed.
func SplitLine(line string, delimiter rune) []string {
	quotesRight := strings.Count(line, string(quoteChar))

	fields := make([]string, 0, 8)
	start := 0
	for i, r := range line {
		switch {
		case r == quoteChar:
			quotesRight--
		case r == delimiter && quotesRight%2 == 0:
			fields = append(fields, cleanField(line[start:i]))
			start = i + len(string(delimiter))
		}
	}
	return append(fields, cleanField(line[start:]))
}

func cleanField(raw string) string {
	f := strings.TrimSpace(raw)
	f = strings.TrimPrefix(f, string(quoteChar))
	f = strings.TrimSuffix(f, string(quoteChar))
	return f
}
