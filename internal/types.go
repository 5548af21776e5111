package internal

// Field keys as committed by the form layer.
const (
	FieldReDestinatarios = "reDestinatarios"
	FieldDeNombrePais    = "deNombrePais"
	FieldNave            = "nave"
	FieldFechaCarga      = "fechaCarga"
	FieldExporta         = "exporta"
	FieldEmailSubject    = "emailSubject"

	FieldPallets    = "pallets"
	FieldEspecie    = "especie"
	FieldVariedad   = "variedad"
	FieldFormato    = "formato"
	FieldCalibre    = "calibre"
	FieldCategoria  = "categoria"
	FieldPreciosFOB = "preciosFOB"
	FieldEstado     = "estado"
)

// EstadoCancelado is the sentinel stored in Estado while an item is canceled.
const EstadoCancelado = "CANCELADO"

type LineItem struct {
	ID         string
	Pallets    string
	Especie    string
	Variedad   string
	Formato    string
	Calibre    string
	Categoria  string
	PreciosFOB string
	Estado     string
	IsCanceled bool
}

type OrderHeader struct {
	ReDestinatarios string
	DeNombrePais    string
	Nave            string
	FechaCarga      string
	Exporta         string
	EmailSubject    string
}

// OrderRecord is one shipment order: header plus its line items in
// display order.
type OrderRecord struct {
	Header OrderHeader
	Items  []LineItem
}

func (r OrderRecord) Clone() OrderRecord {
	return OrderRecord{Header: r.Header, Items: CloneItems(r.Items)}
}

func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func CloneOrders(orders []OrderRecord) []OrderRecord {
	out := make([]OrderRecord, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Clone())
	}
	return out
}
