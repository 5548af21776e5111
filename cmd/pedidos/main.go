package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"pedidos/internal"
	"pedidos/internal/catalog"
	"pedidos/internal/config"
	"pedidos/internal/export"
	"pedidos/internal/ingest"
	"pedidos/internal/render"
	"pedidos/internal/session"
	"pedidos/internal/subject"
)

type rawItem struct {
	Pallets    string `json:"pallets"`
	Especie    string `json:"especie"`
	Variedad   string `json:"variedad"`
	Formato    string `json:"formato"`
	Calibre    string `json:"calibre"`
	Categoria  string `json:"categoria"`
	PreciosFOB string `json:"preciosFOB"`
	Estado     string `json:"estado"`
	Cancelado  bool   `json:"cancelado"`
}

type rawOrder struct {
	ReDestinatarios string    `json:"reDestinatarios"`
	DeNombrePais    string    `json:"deNombrePais"`
	Nave            string    `json:"nave"`
	FechaCarga      string    `json:"fechaCarga"`
	Exporta         string    `json:"exporta"`
	EmailSubject    string    `json:"emailSubject"`
	Items           []rawItem `json:"items"`
}

func main() {
	cfg, err := config.Load()
	must(err)

	logger, err := zap.NewDevelopment()
	must(err)
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "render":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw batch json file")
		out := fs.String("out", "", "output html path (default: OUTPUT_DIR)")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		orders, batchSubject, err := replayBatch(*input, logger)
		must(err)
		html := render.New(logger).Batch(orders)
		path := *out
		if path == "" {
			path, err = export.WriteHTMLFile(cfg.OutputDir, batchSubject, html)
			must(err)
		} else {
			must(os.MkdirAll(filepath.Dir(path), 0o755))
			must(os.WriteFile(path, []byte(html), 0o644))
		}
		fmt.Printf("render done orders=%d subject=%s output=%s\n", len(orders), batchSubject, path)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw batch json file")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || strings.TrimSpace(*out) == "" {
			must(fmt.Errorf("--input and --out are required"))
		}
		orders, _, err := replayBatch(*input, logger)
		must(err)
		must(export.BatchToXLSX(orders, *out))
		fmt.Printf("exported %d orders to %s\n", len(orders), *out)
	case "send":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw batch json file")
		provider := fs.String("provider", cfg.ExportProvider, "gmail|imap|clipboard")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		orders, batchSubject, err := replayBatch(*input, logger)
		must(err)
		html := render.New(logger).Batch(orders)
		deliverer, err := makeDeliverer(cfg, *provider)
		must(err)
		must(deliverer.Deliver(batchSubject, html))
		fmt.Printf("send done provider=%s orders=%d subject=%s\n", *provider, len(orders), batchSubject)
	case "ingest:preview":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "pasted table file (.html or .xlsx)")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		items, err := ingestFile(*input)
		must(err)
		blob, _ := json.MarshalIndent(items, "", "  ")
		fmt.Println(string(blob))
	case "catalog:seed":
		store, err := catalog.Open(cfg.DBPath)
		must(err)
		defer store.Close()
		must(store.SeedDefaults())
		fmt.Println("catalog seeded")
	case "catalog:load":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "list file (.xlsx or .pdf)")
		fieldName := fs.String("field", "", strings.Join(catalog.Fields, "|"))
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *fieldName == "" {
			must(fmt.Errorf("--input and --field are required"))
		}
		store, err := catalog.Open(cfg.DBPath)
		must(err)
		defer store.Close()
		count, err := store.LoadFile(*input, *fieldName)
		must(err)
		fmt.Printf("catalog load done field=%s values=%d\n", *fieldName, count)
	case "catalog:suggest":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		fieldName := fs.String("field", "", strings.Join(catalog.Fields, "|"))
		prefix := fs.String("prefix", "", "value prefix")
		limit := fs.Int("limit", 10, "max suggestions")
		_ = fs.Parse(os.Args[2:])
		if *fieldName == "" {
			must(fmt.Errorf("--field is required"))
		}
		store, err := catalog.Open(cfg.DBPath)
		must(err)
		defer store.Close()
		values, err := store.Suggest(*fieldName, *prefix, *limit)
		must(err)
		for _, v := range values {
			fmt.Println(v)
		}
	default:
		usage()
		os.Exit(1)
	}
}

// replayBatch feeds a raw batch file through the session engine so
// every value passes the same commit normalization the form applies,
// then finalizes the session and derives the batch subject.
func replayBatch(path string, logger *zap.Logger) ([]internal.OrderRecord, string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	var raws []rawOrder
	if err := json.Unmarshal(blob, &raws); err != nil {
		return nil, "", fmt.Errorf("parse batch file: %w", err)
	}

	store := session.New(logger)
	for i, raw := range raws {
		if i > 0 {
			store.AddOrder()
		}
		store.CommitHeaderField(internal.FieldReDestinatarios, raw.ReDestinatarios)
		store.CommitHeaderField(internal.FieldDeNombrePais, raw.DeNombrePais)
		store.CommitHeaderField(internal.FieldNave, raw.Nave)
		store.CommitHeaderField(internal.FieldFechaCarga, raw.FechaCarga)
		store.CommitHeaderField(internal.FieldExporta, raw.Exporta)

		items := make([]internal.LineItem, 0, len(raw.Items))
		for _, item := range raw.Items {
			items = append(items, internal.LineItem{
				Pallets:    item.Pallets,
				Especie:    item.Especie,
				Variedad:   item.Variedad,
				Formato:    item.Formato,
				Calibre:    item.Calibre,
				Categoria:  item.Categoria,
				PreciosFOB: item.PreciosFOB,
				Estado:     item.Estado,
				IsCanceled: item.Cancelado,
			})
		}
		store.PrefillItems(items)

		// A non-empty subject in the file counts as a manual edit made
		// after the last dependency change.
		if strings.TrimSpace(raw.EmailSubject) != "" {
			store.CommitHeaderField(internal.FieldEmailSubject, raw.EmailSubject)
		}
	}

	orders := store.FinalizeAndReset()
	return orders, subject.ForBatch(time.Now(), orders), nil
}

func ingestFile(path string) ([]internal.LineItem, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ingest.ItemsFromHTML(string(blob)), nil
	case ".xlsx", ".xls":
		return ingest.ItemsFromXLSX(blob)
	default:
		return nil, fmt.Errorf("unsupported table format: %s", filepath.Ext(path))
	}
}

func makeDeliverer(cfg config.Config, provider string) (export.Deliverer, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gmail":
		return export.NewGmailDeliverer(cfg)
	case "imap":
		return export.NewIMAPDraftDeliverer(cfg)
	case "clipboard":
		return export.ClipboardDeliverer{}, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func usage() {
	fmt.Println("usage: pedidos <command>")
	fmt.Println("commands:")
	fmt.Println("  render --input=batch.json [--out=./out/pedidos.html]")
	fmt.Println("  export:xlsx --input=batch.json --out=./out/pedidos.xlsx")
	fmt.Println("  send --input=batch.json --provider=gmail|imap|clipboard")
	fmt.Println("  ingest:preview --input=tabla.html|lista.xlsx")
	fmt.Println("  catalog:seed")
	fmt.Println("  catalog:load --input=lista.xlsx|lista.pdf --field=especie")
	fmt.Println("  catalog:suggest --field=especie --prefix=MAN")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
