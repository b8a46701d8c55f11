package config

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"

	"github.com/ohmkit/resistor-search/internal/logging"
	"github.com/ohmkit/resistor-search/pkg/eseries"
)

// CatalogEntry defines one custom value table.
type CatalogEntry struct {
	// Name identifies the table in search requests, e.g. "lab-drawer".
	Name string `yaml:"name" json:"name"`

	// Values lists the resistances of the table in ohms. Order and
	// duplicates do not matter; the table is normalized on load.
	Values []float64 `yaml:"values" json:"values"`
}

// Validate checks for an unusable catalog entry.
func (e *CatalogEntry) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("catalog entry must have a name")
	}
	if len(e.Values) == 0 {
		return fmt.Errorf("catalog entry %q has no values", e.Name)
	}
	return nil
}

// Catalog maps custom table names onto their normalized values.
type Catalog map[string][]float64

// catalogFile is the YAML document shape of a catalog:
//
//	series:
//	  - name: lab-drawer
//	    values: [100, 220, 470, 1000]
type catalogFile struct {
	Series []CatalogEntry `yaml:"series"`
}

// ParseCatalog parses custom value tables from YAML. A malformed document is
// an error; a malformed entry is skipped with a logged reason. Duplicate
// names keep the first entry.
func ParseCatalog(logger logr.Logger, data []byte) (Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	out := make(Catalog)
	for _, entry := range file.Series {
		if err := entry.Validate(); err != nil {
			logger.Info("Invalid catalog entry, skipping",
				"name", entry.Name,
				"error", err)
			continue
		}

		values, err := eseries.Normalize(entry.Values)
		if err != nil {
			logger.Info("Invalid catalog entry, skipping",
				"name", entry.Name,
				"error", err)
			continue
		}

		if _, exists := out[entry.Name]; exists {
			logger.Info("Duplicate catalog entry - first one wins",
				"name", entry.Name)
			continue
		}
		out[entry.Name] = values
	}

	logger.V(logging.DEBUG).Info("Parsed value table catalog",
		"tableCount", len(out))

	return out, nil
}

// LoadCatalog reads and parses the catalog file at path.
func LoadCatalog(logger logr.Logger, path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	return ParseCatalog(logger, data)
}
