package ingest

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestItemsFromHTML(t *testing.T) {
	html := `<table>
<tr><th>Especie</th><th>Variedad</th><th>Calibre</th><th>Pallets</th><th>Precio FOB</th></tr>
<tr><td>Manzana</td><td>Gala</td><td>100;113</td><td>10</td><td>14.5</td></tr>
<tr><td>Uva</td><td>Red Globe</td><td>XL</td><td>4</td><td>20,0</td></tr>
</table>`
	items := ItemsFromHTML(html)
	if len(items) != 2 {
		t.Fatalf("len=%d", len(items))
	}
	if items[0].Especie != "Manzana" || items[0].Pallets != "10" || items[0].PreciosFOB != "14.5" {
		t.Fatalf("items[0]=%+v", items[0])
	}
	if items[1].Variedad != "Red Globe" {
		t.Fatalf("items[1]=%+v", items[1])
	}
}

func TestItemsFromHTMLSkipsUnknownTable(t *testing.T) {
	html := `<table><tr><th>Foo</th><th>Bar</th></tr><tr><td>1</td><td>2</td></tr></table>`
	if items := ItemsFromHTML(html); len(items) != 0 {
		t.Fatalf("items=%v", items)
	}
}

func mkXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	buf := bytes.NewBuffer(nil)
	_, _ = f.WriteTo(buf)
	return buf.Bytes()
}

func TestItemsFromXLSX(t *testing.T) {
	blob := mkXLSX(t, [][]any{
		{"Especie", "Variedad", "Pallets", "Observaciones"},
		{"Cereza", "Lapins", 6, "llega tarde"},
		{"", "", "", ""},
	})
	items, err := ItemsFromXLSX(blob)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("len=%d", len(items))
	}
	if items[0].Especie != "Cereza" || items[0].Pallets != "6" || items[0].Estado != "llega tarde" {
		t.Fatalf("items[0]=%+v", items[0])
	}
}
