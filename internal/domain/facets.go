package domain

import (
	"sort"
	"strconv"
)

// Facets are the distinct values present in a result set, used to render
// the filter checkboxes.
type Facets struct {
	ConnectionTypes []string `json:"connectionTypes"`
	Providers       []string `json:"providers"`
	ContractTerms   []string `json:"contractTerms"`
}

// CollectFacets scans the full (unfiltered) offer list. Contract terms are
// ordered numerically, the rest alphabetically.
func CollectFacets(offers []Offer) Facets {
	conn := map[string]bool{}
	prov := map[string]bool{}
	terms := map[int]bool{}

	for _, o := range offers {
		if o.ConnectionType != "" {
			conn[o.ConnectionType] = true
		}
		if o.ProviderName != "" {
			prov[o.ProviderName] = true
		}
		if o.ContractTermMonths != nil {
			terms[*o.ContractTermMonths] = true
		}
	}

	f := Facets{
		ConnectionTypes: sortedKeys(conn),
		Providers:       sortedKeys(prov),
		ContractTerms:   make([]string, 0, len(terms)),
	}
	months := make([]int, 0, len(terms))
	for m := range terms {
		months = append(months, m)
	}
	sort.Ints(months)
	for _, m := range months {
		f.ContractTerms = append(f.ContractTerms, strconv.Itoa(m))
	}
	return f
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
