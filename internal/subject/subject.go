// Package subject derives the canonical email subject for one order or
// for a whole exported batch: "PED–W{week}–{supplier}–{species}".
package subject

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"pedidos/internal"
)

const (
	defaultSupplier = "PROVEEDOR"
	defaultSpecies  = "ESPECIE"
)

var reNonAlnum = regexp.MustCompile(`[^A-Z0-9]+`)

// ForOrder builds the subject for a single order from its supplier and
// the species of its first line item.
func ForOrder(at time.Time, supplier, species string) string {
	return build(at, []string{supplier}, []string{species})
}

// ForBatch builds the export subject from the union of every order's
// supplier and every item's species.
func ForBatch(at time.Time, orders []internal.OrderRecord) string {
	suppliers := make([]string, 0, len(orders))
	species := make([]string, 0, len(orders))
	for _, o := range orders {
		suppliers = append(suppliers, o.Header.ReDestinatarios)
		for _, item := range o.Items {
			species = append(species, item.Especie)
		}
	}
	return build(at, suppliers, species)
}

func build(at time.Time, suppliers, species []string) string {
	_, week := at.ISOWeek()

	supplier := defaultSupplier
	for _, s := range suppliers {
		if token := sanitize(s); token != "" {
			supplier = token
			break
		}
	}

	seen := map[string]struct{}{}
	distinct := make([]string, 0, len(species))
	for _, s := range species {
		token := sanitize(s)
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		distinct = append(distinct, token)
	}
	joined := defaultSpecies
	if len(distinct) > 0 {
		joined = strings.Join(distinct, "-")
	}

	return fmt.Sprintf("PED–W%d–%s–%s", week, supplier, joined)
}

func sanitize(input string) string {
	return reNonAlnum.ReplaceAllString(strings.ToUpper(strings.TrimSpace(input)), "")
}
