// Package benchmark holds the industry benchmark reference table and compares
// businesses against it.
package benchmark

import (
	"bytes"
	_ "embed"
	"io"
	"strings"
	"sync"

	"github.com/iwvelando/acquisition-forecast/pkg/business"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed data/industries.yaml
var industriesYAML []byte

// Benchmark holds the reference statistics for one industry.
type Benchmark struct {
	Industry            string             `yaml:"industry" json:"industry"`
	RevenueMultiple     float64            `yaml:"revenueMultiple" json:"revenueMultiple"`
	ProfitMultiple      float64            `yaml:"profitMultiple" json:"profitMultiple"`
	EBITDAMultiple      float64            `yaml:"ebitdaMultiple" json:"ebitdaMultiple"`
	SDEMultiple         float64            `yaml:"sdeMultiple" json:"sdeMultiple"`
	AverageBusinessSize float64            `yaml:"averageBusinessSize" json:"averageBusinessSize"`
	TypicalGrowthRate   float64            `yaml:"typicalGrowthRate" json:"typicalGrowthRate"`
	RiskLevel           business.RiskLevel `yaml:"riskLevel" json:"riskLevel"`
}

// Catalog is an immutable, ordered set of industry benchmarks with a
// fallback entry.
type Catalog struct {
	entries  []Benchmark
	fallback Benchmark
}

type catalogFile struct {
	Fallback   string      `yaml:"fallback"`
	Industries []Benchmark `yaml:"industries"`
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	catalog, err := LoadCatalog(bytes.NewReader(industriesYAML))
	if err != nil {
		panic(eris.Wrap(err, "benchmark: embedded catalog is invalid"))
	}
	return catalog
})

// Default returns the process-wide catalog built from the embedded table.
func Default() *Catalog {
	return defaultCatalog()
}

// Lookup resolves label against the default catalog.
func Lookup(label string) Benchmark {
	return Default().Lookup(label)
}

// NewCatalog builds a catalog from entries. fallbackIndustry must name one
// of the entries.
func NewCatalog(entries []Benchmark, fallbackIndustry string) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, eris.New("benchmark: catalog has no entries")
	}

	c := &Catalog{entries: make([]Benchmark, len(entries))}
	copy(c.entries, entries)

	found := false
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range c.entries {
		key := strings.ToLower(strings.TrimSpace(entry.Industry))
		if key == "" {
			return nil, eris.New("benchmark: entry with empty industry name")
		}
		if _, dup := seen[key]; dup {
			return nil, eris.Errorf("benchmark: duplicate industry %q", entry.Industry)
		}
		seen[key] = struct{}{}
		if !found && strings.EqualFold(entry.Industry, fallbackIndustry) {
			c.fallback = entry
			found = true
		}
	}
	if !found {
		return nil, eris.Errorf("benchmark: fallback industry %q not in catalog", fallbackIndustry)
	}
	return c, nil
}

// LoadCatalog decodes a YAML catalog document.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, eris.Wrap(err, "benchmark: decode catalog")
	}
	return NewCatalog(file.Industries, file.Fallback)
}

// Lookup resolves an industry label. An exact case-insensitive match wins;
// otherwise the first entry whose name contains the label, or is contained
// by it, is returned; otherwise the fallback entry. Lookup never fails.
func (c *Catalog) Lookup(label string) Benchmark {
	needle := strings.ToLower(strings.TrimSpace(label))
	if needle == "" {
		return c.fallback
	}

	for _, entry := range c.entries {
		if strings.ToLower(entry.Industry) == needle {
			return entry
		}
	}

	for _, entry := range c.entries {
		name := strings.ToLower(entry.Industry)
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return entry
		}
	}

	return c.fallback
}

// Fallback returns the entry used when no industry matches.
func (c *Catalog) Fallback() Benchmark {
	return c.fallback
}

// Entries returns a copy of the catalog in iteration order.
func (c *Catalog) Entries() []Benchmark {
	out := make([]Benchmark, len(c.entries))
	copy(out, c.entries)
	return out
}
