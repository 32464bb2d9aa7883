package damage

import "strings"

// SplitCSVLine splits one CSV line into fields. Double quotes group a field
// and "" inside quotes is a literal quote.
func SplitCSVLine(line string) []string {
	var (
		fields  []string
		cur     strings.Builder
		inQuote bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case inQuote && ch == '"':
			if i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			inQuote = false
		case inQuote:
			cur.WriteByte(ch)
		case ch == '"':
			inQuote = true
		case ch == ',':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// HasHeaderPrefix reports whether line starts with the named column, e.g. "kg,".
func HasHeaderPrefix(line, column string) bool {
	line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
	return len(line) > len(column) &&
		strings.EqualFold(line[:len(column)], column) &&
		line[len(column)] == ','
}
