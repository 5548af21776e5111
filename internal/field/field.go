package field

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"pedidos/internal"
)

var (
	reNumber     = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	reCalibreSep = regexp.MustCompile(`[,;\s-]+`)
	reAlnumRun   = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

// Normalize canonicalizes a committed raw value for the given field.
// It is invoked once per commit (focus leaving the field), never per
// keystroke. Estado is excluded: observations are normalized only by
// NormalizeObservation.
func Normalize(fieldName, raw string) string {
	switch fieldName {
	case internal.FieldPreciosFOB:
		return NormalizePrices(raw)
	case internal.FieldCalibre:
		return NormalizeCalibre(raw)
	case internal.FieldCategoria:
		return NormalizeCategoria(raw)
	case internal.FieldPallets, internal.FieldFechaCarga, internal.FieldEmailSubject, internal.FieldEstado:
		return raw
	default:
		return strings.ToUpper(raw)
	}
}

// NormalizePrices extracts every decimal number from the raw string and
// reformats each as "$ D,DD", joined with " - ". No numeric substring
// means empty result, not an error.
func NormalizePrices(raw string) string {
	matches := reNumber.FindAllString(raw, -1)
	if len(matches) == 0 {
		return ""
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		value, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
		if err != nil {
			continue
		}
		formatted := strings.ReplaceAll(fmt.Sprintf("%.2f", value), ".", ",")
		out = append(out, "$ "+formatted)
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, " - ")
}

// NormalizeCalibre splits on runs of comma/semicolon/space/hyphen and
// rejoins the upper-cased fragments with " - ". Idempotent.
func NormalizeCalibre(raw string) string {
	parts := reCalibreSep.Split(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return strings.Join(out, " - ")
}

// NormalizeCategoria keeps only maximal alphanumeric runs.
func NormalizeCategoria(raw string) string {
	runs := reAlnumRun.FindAllString(raw, -1)
	if len(runs) == 0 {
		return ""
	}
	return strings.ToUpper(strings.Join(runs, " - "))
}

// NormalizeObservation upper-cases the first character and lower-cases
// the rest.
func NormalizeObservation(raw string) string {
	r := []rune(raw)
	if len(r) == 0 {
		return ""
	}
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

// ParsePallets reads a pallet count from its display string. Anything
// unparsable or negative counts as 0.
func ParsePallets(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if s == "" {
		return 0
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
