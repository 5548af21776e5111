// Package render turns orders into the HTML document pasted into the
// outgoing email. It never mutates its inputs.
package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"pedidos/internal"
	"pedidos/internal/field"
)

var diasSemana = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

var meses = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

const orderTemplateText = `<div class="pedido">
<p><strong>País:</strong> {{.Pais}}</p>
<p><strong>Nave:</strong> {{.Nave}}</p>
<p><strong>Fecha de carga:</strong> {{.FechaCarga}}</p>
<p><strong>Exportadora:</strong> {{.Exporta}}</p>
<table border="1" cellspacing="0" cellpadding="4">
<tr><th>Pallets</th><th>Especie</th><th>Variedad</th><th>Formato</th><th>Calibre</th><th>Categoría</th><th>Precio FOB</th><th>Estado</th></tr>
{{range .Rows -}}
<tr{{if .Canceled}} style="text-decoration: line-through;"{{end}}><td>{{.Pallets}}</td><td>{{.Especie}}</td><td>{{.Variedad}}</td><td>{{.Formato}}</td><td>{{.Calibre}}</td><td>{{.Categoria}}</td><td>{{.PreciosFOB}}</td><td>{{.Estado}}</td></tr>
{{end -}}
<tr class="total"><td><strong>{{.TotalPallets}}</strong></td><td colspan="7"><strong>Total pallets</strong></td></tr>
</table>
<p class="observaciones"><strong>Observaciones:</strong> {{.Observaciones}}</p>
</div>
`

var orderTemplate = template.Must(template.New("pedido").Parse(orderTemplateText))

type rowView struct {
	Pallets    string
	Especie    string
	Variedad   string
	Formato    string
	Calibre    string
	Categoria  string
	PreciosFOB string
	Estado     string
	Canceled   bool
}

type orderView struct {
	Pais          string
	Nave          string
	FechaCarga    string
	Exporta       string
	Rows          []rowView
	TotalPallets  string
	Observaciones string
}

type Renderer struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log}
}

// Order renders a single order: header, one table row per item in
// original order (canceled rows struck through, never omitted), a
// total over non-canceled items and the consolidated observations
// line.
func (r *Renderer) Order(header internal.OrderHeader, items []internal.LineItem) string {
	view := orderView{
		Pais:          header.DeNombrePais,
		Nave:          header.Nave,
		FechaCarga:    r.formatDate(header.FechaCarga),
		Exporta:       header.Exporta,
		Observaciones: consolidateObservations(items),
	}

	total := 0.0
	for _, item := range items {
		view.Rows = append(view.Rows, rowView{
			Pallets:    item.Pallets,
			Especie:    item.Especie,
			Variedad:   item.Variedad,
			Formato:    item.Formato,
			Calibre:    item.Calibre,
			Categoria:  item.Categoria,
			PreciosFOB: item.PreciosFOB,
			Estado:     item.Estado,
			Canceled:   item.IsCanceled,
		})
		if !item.IsCanceled {
			total += field.ParsePallets(item.Pallets)
		}
	}
	view.TotalPallets = strconv.FormatFloat(total, 'f', -1, 64)

	var b strings.Builder
	if err := orderTemplate.Execute(&b, view); err != nil {
		r.log.Error("order template failed", zap.Error(err))
		return ""
	}
	return b.String()
}

// Batch renders every order under a sequential "Pedido #N" heading
// inside one container. An empty batch renders a placeholder instead
// of a table.
func (r *Renderer) Batch(orders []internal.OrderRecord) string {
	var b strings.Builder
	b.WriteString(`<div class="pedidos">` + "\n")
	if len(orders) == 0 {
		b.WriteString("<p>No hay pedidos para previsualizar</p>\n")
	}
	for i, order := range orders {
		fmt.Fprintf(&b, "<h3>Pedido #%d</h3>\n", i+1)
		b.WriteString(r.Order(order.Header, order.Items))
	}
	b.WriteString("</div>\n")
	return b.String()
}

// formatDate renders an ISO calendar date as e.g.
// "Martes 10 de Febrero de 2026". Unparsable input is rendered as
// stored and logged.
func (r *Renderer) formatDate(iso string) string {
	if strings.TrimSpace(iso) == "" {
		return ""
	}
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		r.log.Warn("unparsable load date", zap.String("fechaCarga", iso))
		return iso
	}
	return fmt.Sprintf("%s %d de %s de %d", diasSemana[t.Weekday()], t.Day(), meses[t.Month()-1], t.Year())
}

// consolidateObservations joins every non-empty observation that is
// not the cancellation sentinel. The line is rendered even when empty.
func consolidateObservations(items []internal.LineItem) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		estado := strings.TrimSpace(item.Estado)
		if estado == "" || strings.EqualFold(estado, internal.EstadoCancelado) {
			continue
		}
		out = append(out, estado)
	}
	return strings.Join(out, "; ")
}
