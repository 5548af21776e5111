package render

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"pedidos/internal"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func sampleItems() []internal.LineItem {
	return []internal.LineItem{
		{ID: "a", Pallets: "10", Especie: "MANZANA", Variedad: "GALA", Calibre: "100 - 113", PreciosFOB: "$ 14,50", Estado: "Daño leve"},
		{ID: "b", Pallets: "2.5", Especie: "UVA", Estado: internal.EstadoCancelado, IsCanceled: true},
		{ID: "c", Pallets: "4", Especie: "CEREZA", Estado: "Llega tarde"},
	}
}

func TestOrderTable(t *testing.T) {
	r := New(zap.NewNop())
	header := internal.OrderHeader{DeNombrePais: "CHINA", Nave: "MSC OSCAR", FechaCarga: "2026-02-10", Exporta: "ANDES"}
	doc := parseHTML(t, r.Order(header, sampleItems()))

	rows := doc.Find("table tr")
	// header + 3 items + total
	if rows.Length() != 5 {
		t.Fatalf("rows=%d", rows.Length())
	}

	// Canceled row is rendered, struck through.
	canceled := rows.Eq(2)
	if !strings.Contains(canceled.AttrOr("style", ""), "line-through") {
		t.Fatalf("canceled row style=%q", canceled.AttrOr("style", ""))
	}
	if !strings.Contains(canceled.Text(), "UVA") {
		t.Fatalf("canceled row text=%q", canceled.Text())
	}

	// Total covers non-canceled items only: 10 + 4.
	total := rows.Eq(4).Find("td").First().Text()
	if total != "14" {
		t.Fatalf("total=%q", total)
	}
}

func TestOrderObservationsLine(t *testing.T) {
	r := New(zap.NewNop())
	doc := parseHTML(t, r.Order(internal.OrderHeader{}, sampleItems()))
	obs := doc.Find("p.observaciones").Text()
	if obs != "Observaciones: Daño leve; Llega tarde" {
		t.Fatalf("obs=%q", obs)
	}
}

func TestOrderObservationsLineEmittedWhenEmpty(t *testing.T) {
	r := New(zap.NewNop())
	items := []internal.LineItem{{ID: "a", Estado: internal.EstadoCancelado, IsCanceled: true}}
	doc := parseHTML(t, r.Order(internal.OrderHeader{}, items))
	sel := doc.Find("p.observaciones")
	if sel.Length() != 1 {
		t.Fatal("observations line missing")
	}
	if got := strings.TrimSpace(sel.Text()); got != "Observaciones:" {
		t.Fatalf("obs=%q", got)
	}
}

func TestDateFormatting(t *testing.T) {
	r := New(zap.NewNop())
	if got := r.formatDate("2026-02-10"); got != "Martes 10 de Febrero de 2026" {
		t.Fatalf("got %q", got)
	}
	if got := r.formatDate("pronto"); got != "pronto" {
		t.Fatalf("invalid date must render as stored, got %q", got)
	}
	if got := r.formatDate(""); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestBatchHeadings(t *testing.T) {
	r := New(zap.NewNop())
	orders := []internal.OrderRecord{
		{Header: internal.OrderHeader{Nave: "UNO"}, Items: sampleItems()},
		{Header: internal.OrderHeader{Nave: "DOS"}, Items: sampleItems()},
	}
	doc := parseHTML(t, r.Batch(orders))

	headings := doc.Find("h3")
	if headings.Length() != 2 {
		t.Fatalf("headings=%d", headings.Length())
	}
	if headings.Eq(0).Text() != "Pedido #1" || headings.Eq(1).Text() != "Pedido #2" {
		t.Fatalf("headings=%q %q", headings.Eq(0).Text(), headings.Eq(1).Text())
	}
	if doc.Find("div.pedido").Length() != 2 {
		t.Fatalf("orders=%d", doc.Find("div.pedido").Length())
	}
}

func TestBatchEmptyPlaceholder(t *testing.T) {
	r := New(zap.NewNop())
	doc := parseHTML(t, r.Batch(nil))
	if doc.Find("table").Length() != 0 {
		t.Fatal("empty batch must not render tables")
	}
	if !strings.Contains(doc.Text(), "No hay pedidos para previsualizar") {
		t.Fatalf("placeholder missing: %q", doc.Text())
	}
}

func TestOrderEscapesUserText(t *testing.T) {
	r := New(zap.NewNop())
	items := []internal.LineItem{{ID: "a", Especie: "<script>alert(1)</script>"}}
	html := r.Order(internal.OrderHeader{}, items)
	if strings.Contains(html, "<script>") {
		t.Fatal("unescaped user input in output")
	}
}
