package domain

import (
	"math"
	"sort"
	"strconv"
)

// Apply projects the full offer list through the selections and returns a
// new slice; the input is never reordered.
//
// Filters run first (set filters, then speed tier, then data tier), then at
// most one stable sort. Missing numeric values sort as +Inf: after every
// defined value ascending, before them descending.
func Apply(offers []Offer, sel Selections) []Offer {
	sel = sel.Normalize()

	conn := toSet(sel.ConnectionTypes)
	prov := toSet(sel.Providers)
	terms := toSet(sel.ContractTerms)
	speedMin, speedOn := parseTier(sel.MinSpeed)
	dataMatch := dataTierMatcher(sel.MinDataLimit)

	out := make([]Offer, 0, len(offers))
	for _, o := range offers {
		if conn != nil && !conn[o.ConnectionType] {
			continue
		}
		if prov != nil && !prov[o.ProviderName] {
			continue
		}
		if terms != nil && !terms[o.ContractTerm()] {
			continue
		}
		if speedOn && (o.DownloadSpeedMbps == nil || *o.DownloadSpeedMbps < speedMin) {
			continue
		}
		if dataMatch != nil && !dataMatch(o.DataLimitGb) {
			continue
		}
		out = append(out, o)
	}

	if less := comparator(sel.SortBy); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func comparator(key SortKey) func(a, b Offer) bool {
	switch key {
	case SortPriceAsc:
		return func(a, b Offer) bool { return orInf(a.MonthlyPriceEur) < orInf(b.MonthlyPriceEur) }
	case SortPriceDesc:
		return func(a, b Offer) bool { return orInf(a.MonthlyPriceEur) > orInf(b.MonthlyPriceEur) }
	case SortSpeedAsc:
		return func(a, b Offer) bool { return orInf(a.DownloadSpeedMbps) < orInf(b.DownloadSpeedMbps) }
	case SortSpeedDesc:
		return func(a, b Offer) bool { return orInf(a.DownloadSpeedMbps) > orInf(b.DownloadSpeedMbps) }
	case SortContractAsc:
		return func(a, b Offer) bool { return intOrInf(a.ContractTermMonths) < intOrInf(b.ContractTermMonths) }
	case SortContractDesc:
		return func(a, b Offer) bool { return intOrInf(a.ContractTermMonths) > intOrInf(b.ContractTermMonths) }
	default:
		return nil
	}
}

// dataTierMatcher returns nil when the tier does not filter.
func dataTierMatcher(tier string) func(*float64) bool {
	switch tier {
	case TierAny, "":
		return nil
	case TierUnlimited:
		return func(v *float64) bool { return v == nil || *v >= UnlimitedDataGb }
	}
	threshold, ok := parseTier(tier)
	if !ok {
		return nil
	}
	return func(v *float64) bool { return v != nil && *v >= threshold }
}

// parseTier reads a numeric tier; "any" and garbage disable the filter.
func parseTier(tier string) (float64, bool) {
	if tier == TierAny || tier == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tier, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

func orInf(v *float64) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return *v
}

func intOrInf(v *int) float64 {
	if v == nil {
		return math.Inf(1)
	}
	return float64(*v)
}
