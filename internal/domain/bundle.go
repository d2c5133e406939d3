package domain

// ResultsBundle is the persisted snapshot of the last result set together
// with the selections that were active on it.
//
// The selection fields are inlined so the stored JSON stays flat:
// {offers, hasSearched, sortBy, selectedConnectionTypes, ...}.
type ResultsBundle struct {
	Offers      []Offer `json:"offers"`
	HasSearched bool    `json:"hasSearched"`
	Selections
}

// NewResultsBundle returns the bundle written right after a successful
// search: fresh offers, default selections.
func NewResultsBundle(offers []Offer) ResultsBundle {
	if offers == nil {
		offers = []Offer{}
	}
	return ResultsBundle{
		Offers:      offers,
		HasSearched: true,
		Selections:  DefaultSelections(),
	}
}
