package reference

import (
	"encoding/csv"
	"io"
	"strings"
)

// csvTable reads a CSV stream and hands each record, together with a
// lowercase header index, to fn
func csvTable(r io.Reader, fn func(record []string, headerMap map[string]int)) error {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true    // Handle malformed quotes in CSV
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	header, err := reader.Read()
	if err != nil {
		return err
	}

	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		headerMap[strings.ToLower(strings.Trim(strings.TrimSpace(h), "'\""))] = i
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		fn(record, headerMap)
	}
}

// getField safely retrieves a field from a CSV record by the first header name present
func getField(record []string, headerMap map[string]int, fieldNames ...string) string {
	for _, name := range fieldNames {
		if idx, ok := headerMap[name]; ok && idx < len(record) {
			return strings.Trim(strings.TrimSpace(record[idx]), "'\"")
		}
	}
	return ""
}
