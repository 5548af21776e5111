package catalog

import "time"

// Built-in suggestion lists. The form offers these before any supplier
// list has been loaded.
var defaults = map[string][]string{
	"especie": {
		"ARANDANO", "CEREZA", "CIRUELA", "CLEMENTINA", "DURAZNO", "KIWI",
		"LIMON", "MANDARINA", "MANZANA", "NARANJA", "NECTARIN", "PALTA",
		"PERA", "UVA",
	},
	"variedad": {
		"CRIMSON SEEDLESS", "FLAME SEEDLESS", "FUJI", "GALA", "GRANNY SMITH",
		"HASS", "LAPINS", "PACKHAM", "RED GLOBE", "ROYAL GALA", "SANTINA",
		"THOMPSON SEEDLESS",
	},
	"formato": {
		"BOLSA 4.5 KG", "CAJA 5 KG", "CAJA 8.2 KG", "CAJA 10 KG",
		"CLAMSHELL 125 G", "GRANEL",
	},
}

func (s *Store) SeedDefaults() error {
	for fieldName, values := range defaults {
		if _, err := s.Upsert(fieldName, values, "seed"); err != nil {
			return err
		}
	}
	return s.SetMetadata("catalog.last_seed", time.Now().UTC().Format(time.RFC3339))
}
