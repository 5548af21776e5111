package export

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pedidos/internal"
)

// BatchToXLSX writes one workbook row per line item across the whole
// batch, canceled items included.
func BatchToXLSX(orders []internal.OrderRecord, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"pedido", "proveedor", "pais", "nave", "fecha_carga", "exportadora",
		"pallets", "especie", "variedad", "formato", "calibre", "categoria",
		"precios_fob", "estado", "cancelado",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	r := 1
	for orderNo, order := range orders {
		for _, item := range order.Items {
			r++
			set := func(col int, value any) {
				cell, _ := excelize.CoordinatesToCellName(col, r)
				_ = f.SetCellValue(sheet, cell, value)
			}
			set(1, orderNo+1)
			set(2, order.Header.ReDestinatarios)
			set(3, order.Header.DeNombrePais)
			set(4, order.Header.Nave)
			set(5, order.Header.FechaCarga)
			set(6, order.Header.Exporta)
			set(7, item.Pallets)
			set(8, item.Especie)
			set(9, item.Variedad)
			set(10, item.Formato)
			set(11, item.Calibre)
			set(12, item.Categoria)
			set(13, item.PreciosFOB)
			set(14, item.Estado)
			set(15, item.IsCanceled)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
