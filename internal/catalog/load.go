package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
)

var reLetters = regexp.MustCompile(`\p{L}{2,}`)

// LoadFile ingests a supplier list file (xlsx or pdf) as suggestion
// values for one field. Returns how many values were stored.
func (s *Store) LoadFile(path, fieldName string) (int, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var values []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		values, err = valuesFromXLSX(blob)
	case ".pdf":
		values, err = valuesFromPDF(blob)
	default:
		return 0, fmt.Errorf("unsupported list format: %s", filepath.Ext(path))
	}
	if err != nil {
		return 0, err
	}

	return s.Upsert(fieldName, values, filepath.Base(path))
}

// valuesFromXLSX takes the first non-empty cell of every row on every
// sheet. Rows whose first cell looks like a header for a known field
// are skipped.
func valuesFromXLSX(content []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []string{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for _, row := range rows {
			value := firstNonEmpty(row)
			if value == "" || isFieldHeader(value) {
				continue
			}
			out = append(out, value)
		}
	}
	return out, nil
}

func valuesFromPDF(content []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []string{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || !reLetters.MatchString(line) || isFieldHeader(line) {
				continue
			}
			out = append(out, line)
		}
	}
	return out, nil
}

func firstNonEmpty(cells []string) string {
	for _, c := range cells {
		if v := strings.TrimSpace(c); v != "" {
			return v
		}
	}
	return ""
}

func isFieldHeader(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, f := range Fields {
		if strings.HasPrefix(v, f) {
			return true
		}
	}
	return false
}
