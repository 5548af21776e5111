package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalogo.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertAndSuggest(t *testing.T) {
	s := openTestStore(t)
	n, err := s.Upsert("especie", []string{"manzana", " uva ", "", "MANZANA"}, "test")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("n=%d", n)
	}

	got, err := s.Suggest("especie", "man", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "MANZANA" {
		t.Fatalf("got %v", got)
	}

	all, err := s.List("especie")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("all=%v", all)
	}
}

func TestUpsertUnknownField(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Upsert("color", []string{"ROJO"}, "test"); err == nil {
		t.Fatal("expected error")
	}
}

func TestSeedDefaults(t *testing.T) {
	s := openTestStore(t)
	if err := s.SeedDefaults(); err != nil {
		t.Fatal(err)
	}
	especies, err := s.List("especie")
	if err != nil {
		t.Fatal(err)
	}
	if len(especies) == 0 {
		t.Fatal("no seeded species")
	}
	last, err := s.GetMetadata("catalog.last_seed")
	if err != nil {
		t.Fatal(err)
	}
	if last == nil {
		t.Fatal("seed metadata missing")
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

func TestLoadFileXLSX(t *testing.T) {
	s := openTestStore(t)
	blob := mkXLSX(t, [][]any{
		{"Variedad"},
		{"Flame Seedless"},
		{"Crimson Seedless"},
		{""},
	})
	path := filepath.Join(t.TempDir(), "variedades.xlsx")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := s.LoadFile(path, "variedad")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("n=%d", n)
	}
	got, err := s.Suggest("variedad", "fla", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "FLAME SEEDLESS" {
		t.Fatalf("got %v", got)
	}
}

func TestLoadFileUnsupported(t *testing.T) {
	s := openTestStore(t)
	path := filepath.Join(t.TempDir(), "lista.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.LoadFile(path, "especie"); err == nil {
		t.Fatal("expected error")
	}
}
