package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SortKey selects the single comparator applied to the displayed list.
type SortKey string

const (
	SortNone         SortKey = ""
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
	SortSpeedAsc     SortKey = "speed_asc"
	SortSpeedDesc    SortKey = "speed_desc"
	SortContractAsc  SortKey = "contract_asc"
	SortContractDesc SortKey = "contract_desc"
)

// SortKeys lists every accepted key, none first.
var SortKeys = []SortKey{
	SortNone,
	SortPriceAsc, SortPriceDesc,
	SortSpeedAsc, SortSpeedDesc,
	SortContractAsc, SortContractDesc,
}

// ParseSortKey validates a raw sort key. Unknown keys are an error so a typo
// on the command line does not silently disable sorting.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.TrimSpace(s))
	for _, known := range SortKeys {
		if k == known {
			return k, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort key %q", s)
}

const (
	// TierAny disables the speed or data tier filter.
	TierAny = "any"
	// TierUnlimited matches offers without data cap.
	TierUnlimited = "unlimited"
	// UnlimitedDataGb is the cap from which an offer counts as unlimited.
	UnlimitedDataGb = 10000
)

// Selections is the user's current sort and filter choice.
// The zero value (after Normalize) shows every offer unsorted.
type Selections struct {
	SortBy          SortKey  `json:"sortBy"`
	ConnectionTypes []string `json:"selectedConnectionTypes"`
	Providers       []string `json:"selectedProviders"`
	ContractTerms   []string `json:"selectedContractTerms"`
	MinSpeed        string   `json:"minSpeed"`
	MinDataLimit    string   `json:"minDataLimit"`
}

// DefaultSelections is what every new search starts from.
func DefaultSelections() Selections {
	return Selections{
		SortBy:          SortNone,
		ConnectionTypes: []string{},
		Providers:       []string{},
		ContractTerms:   []string{},
		MinSpeed:        TierAny,
		MinDataLimit:    TierAny,
	}
}

// Normalize fills empty tiers with "any", replaces nil sets with empty ones
// and drops blank or duplicate set entries.
func (s Selections) Normalize() Selections {
	s.ConnectionTypes = cleanSet(s.ConnectionTypes)
	s.Providers = cleanSet(s.Providers)
	s.ContractTerms = cleanSet(s.ContractTerms)
	if strings.TrimSpace(s.MinSpeed) == "" {
		s.MinSpeed = TierAny
	}
	if strings.TrimSpace(s.MinDataLimit) == "" {
		s.MinDataLimit = TierAny
	}
	return s
}

// Validate checks that the tiers are either a keyword or a number.
func (s Selections) Validate() error {
	if _, err := ParseSortKey(string(s.SortBy)); err != nil {
		return err
	}
	if s.MinSpeed != TierAny {
		if _, err := strconv.ParseFloat(s.MinSpeed, 64); err != nil {
			return fmt.Errorf("invalid speed tier %q", s.MinSpeed)
		}
	}
	if s.MinDataLimit != TierAny && s.MinDataLimit != TierUnlimited {
		if _, err := strconv.ParseFloat(s.MinDataLimit, 64); err != nil {
			return fmt.Errorf("invalid data tier %q", s.MinDataLimit)
		}
	}
	return nil
}

// Equal compares two normalized selections, set order included.
func (s Selections) Equal(o Selections) bool {
	return s.SortBy == o.SortBy &&
		s.MinSpeed == o.MinSpeed &&
		s.MinDataLimit == o.MinDataLimit &&
		equalStrings(s.ConnectionTypes, o.ConnectionTypes) &&
		equalStrings(s.Providers, o.Providers) &&
		equalStrings(s.ContractTerms, o.ContractTerms)
}

// IsDefault reports whether nothing is filtered or sorted.
func (s Selections) IsDefault() bool {
	return s.Normalize().Equal(DefaultSelections())
}

func cleanSet(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
