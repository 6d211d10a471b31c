package textfile

import (
	"bytes"
	"encoding/csv"
	"strings"

	connector "github.com/schemafx/connector-google"
)

// detectDelimiter examines only the first line of the content and picks tab
// over comma only when the line holds strictly more tabs than commas. Ties
// go to comma.
func detectDelimiter(content string) rune {
	line, _, _ := strings.Cut(content, "\n")
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t'
	}
	return ','
}

// parseContent performs header-driven record parsing. The first record is
// the header line (fields trimmed); every cell stays text - typing is the
// codec's responsibility downstream. Cells a record does not physically
// hold are absent from its row, so the header union over rows can shrink.
func parseContent(content string, delim rune) ([]string, []connector.Row, error) {
	r := csv.NewReader(strings.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return []string{}, []connector.Row{}, nil
	}

	headers := make([]string, len(records[0]))
	for i, field := range records[0] {
		headers[i] = strings.TrimSpace(field)
	}

	rows := []connector.Row{}
	for _, record := range records[1:] {
		row := connector.Row{}
		for j, header := range headers {
			if j < len(record) {
				row[header] = record[j]
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// writeContent serializes the table back to delimited text. The header line
// is always present; nil and absent cells are written as empty text.
func writeContent(headers []string, rows []connector.Row, delim rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delim

	if err := w.Write(headers); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := make([]string, len(headers))
		for i, header := range headers {
			if v, ok := row[header]; ok && v != nil {
				record[i] = connector.CoerceString(v)
			}
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
