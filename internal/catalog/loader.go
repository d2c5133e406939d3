// Package catalog loads the filter catalog: speed tiers, data tiers and
// sort options with their labels.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
)

//go:embed default.yaml
var defaultYAML []byte

// Loader reads a catalog file. An empty path means the built-in catalog.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Path returns the watched file, "" for the built-in catalog.
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads, parses and validates the catalog.
func (l *Loader) Load() (*Catalog, error) {
	if l.filePath == "" {
		return Parse(defaultYAML)
	}
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if err := checkTiers("speedTiers", c.SpeedTiers, domain.TierAny); err != nil {
		return err
	}
	if err := checkTiers("dataTiers", c.DataTiers, domain.TierAny, domain.TierUnlimited); err != nil {
		return err
	}
	if len(c.SortOptions) == 0 {
		return fmt.Errorf("sortOptions: empty")
	}
	for i, o := range c.SortOptions {
		if _, err := domain.ParseSortKey(o.Value); err != nil {
			return fmt.Errorf("sortOptions[%d]: %w", i, err)
		}
		if strings.TrimSpace(o.Label) == "" {
			return fmt.Errorf("sortOptions[%d]: empty label", i)
		}
	}
	return nil
}

// checkTiers requires an "any" entry and that every other value is one of
// the keywords or a number.
func checkTiers(name string, opts []Option, keywords ...string) error {
	hasAny := false
	seen := map[string]bool{}
	for i, o := range opts {
		v := strings.TrimSpace(o.Value)
		if seen[v] {
			return fmt.Errorf("%s[%d]: duplicate value %q", name, i, v)
		}
		seen[v] = true
		if strings.TrimSpace(o.Label) == "" {
			return fmt.Errorf("%s[%d]: empty label", name, i)
		}
		if v == domain.TierAny {
			hasAny = true
		}
		if isKeyword(v, keywords) {
			continue
		}
		if n, err := strconv.ParseFloat(v, 64); err != nil || n < 0 {
			return fmt.Errorf("%s[%d]: %q is not a tier", name, i, v)
		}
	}
	if !hasAny {
		return fmt.Errorf("%s: missing %q entry", name, domain.TierAny)
	}
	return nil
}

func isKeyword(v string, keywords []string) bool {
	for _, k := range keywords {
		if v == k {
			return true
		}
	}
	return false
}
