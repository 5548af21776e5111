// Package ingest parses pasted supplier tables (HTML or XLSX) into
// raw line items. Values stay uncommitted; the caller runs them
// through the session store so the usual field normalization applies.
package ingest

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"pedidos/internal"
)

type columns struct {
	pallets   int
	especie   int
	variedad  int
	formato   int
	calibre   int
	categoria int
	precios   int
	estado    int
}

func probeColumns(headers []string) (columns, bool) {
	norm := make([]string, 0, len(headers))
	for _, h := range headers {
		norm = append(norm, strings.ToLower(strings.TrimSpace(h)))
	}
	cols := columns{
		pallets:   findHeaderIndex(norm, []string{"pallet", "palet", "cant"}),
		especie:   findHeaderIndex(norm, []string{"especie", "producto", "fruta"}),
		variedad:  findHeaderIndex(norm, []string{"variedad"}),
		formato:   findHeaderIndex(norm, []string{"formato", "embalaje", "envase"}),
		calibre:   findHeaderIndex(norm, []string{"calibre"}),
		categoria: findHeaderIndex(norm, []string{"categor", "cat."}),
		precios:   findHeaderIndex(norm, []string{"precio", "fob"}),
		estado:    findHeaderIndex(norm, []string{"estado", "observ", "nota"}),
	}
	return cols, cols.especie >= 0 || cols.variedad >= 0 || cols.pallets >= 0
}

// ItemsFromHTML extracts line items from the first recognizable table
// in pasted HTML. Tables whose header row matches no known column are
// skipped.
func ItemsFromHTML(html string) []internal.LineItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	out := []internal.LineItem{}
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return true
		}

		headers := []string{}
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, cell.Text())
		})
		cols, ok := probeColumns(headers)
		if !ok {
			return true
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, normalizeSpaces(cell.Text()))
			})
			if item, ok := rowToItem(cols, cells); ok {
				out = append(out, item)
			}
		})
		return false
	})

	return out
}

// ItemsFromXLSX extracts line items from the first sheet whose header
// row is recognizable.
func ItemsFromXLSX(content []byte) ([]internal.LineItem, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := []internal.LineItem{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}
		cols, ok := probeColumns(rows[0])
		if !ok {
			continue
		}
		for _, row := range rows[1:] {
			cells := make([]string, 0, len(row))
			for _, c := range row {
				cells = append(cells, normalizeSpaces(c))
			}
			if item, ok := rowToItem(cols, cells); ok {
				out = append(out, item)
			}
		}
		break
	}
	return out, nil
}

func rowToItem(cols columns, cells []string) (internal.LineItem, bool) {
	item := internal.LineItem{
		Pallets:    pickCell(cells, cols.pallets),
		Especie:    pickCell(cells, cols.especie),
		Variedad:   pickCell(cells, cols.variedad),
		Formato:    pickCell(cells, cols.formato),
		Calibre:    pickCell(cells, cols.calibre),
		Categoria:  pickCell(cells, cols.categoria),
		PreciosFOB: pickCell(cells, cols.precios),
		Estado:     pickCell(cells, cols.estado),
	}
	if item.Especie == "" && item.Variedad == "" && item.Pallets == "" {
		return internal.LineItem{}, false
	}
	return item, true
}

func findHeaderIndex(headers []string, probes []string) int {
	for i, h := range headers {
		for _, probe := range probes {
			if strings.Contains(h, probe) {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	return ""
}

var reSpaces = regexp.MustCompile(`\s+`)

func normalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}
