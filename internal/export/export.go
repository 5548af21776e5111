// Package export hands a finalized batch to the outside world: HTML
// file, XLSX workbook, clipboard, or a draft in the user's mail
// account. The engine itself never blocks on any of this; export runs
// once, as the terminal step of a session.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Deliverer places one composed export somewhere the user can send it
// from.
type Deliverer interface {
	Deliver(subject, html string) error
}

// WriteHTMLFile writes the rendered batch under outputDir and returns
// the file path.
func WriteHTMLFile(outputDir, subject, html string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_%s.html", time.Now().Format("20060102-150405"), sanitizeFilename(subject))
	path := filepath.Join(outputDir, filename)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func sanitizeFilename(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(input)
	if len(out) > 120 {
		out = out[:120]
	}
	if out == "" {
		out = "pedidos"
	}
	return out
}
