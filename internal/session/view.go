package session

import "github.com/MrSnakeDoc/netcompare/internal/domain"

// Card is one rendered offer.
type Card struct {
	Key          string          `json:"key"`
	Offer        domain.Offer    `json:"offer"`
	Price        string          `json:"price"`
	PriceAfter2Y string          `json:"priceAfter2Years,omitempty"`
	Details      []domain.Detail `json:"details"`
}

// View is the read model of a session, computed from scratch on each call.
type View struct {
	Address     domain.Address    `json:"address"`
	HasSearched bool              `json:"hasSearched"`
	Loading     bool              `json:"loading"`
	Error       string            `json:"error,omitempty"`
	ShareURL    string            `json:"shareUrl,omitempty"`
	Selections  domain.Selections `json:"selections"`
	Facets      domain.Facets     `json:"facets"`
	Total       int               `json:"total"`
	Offers      []Card            `json:"offers"`
}

// View projects the current state.
func (c *Controller) View() View {
	c.mu.Lock()
	v := View{
		Address:     c.address,
		HasSearched: c.hasSearched,
		Loading:     c.loading,
		Error:       c.errMsg,
		ShareURL:    c.shareURL,
		Selections:  c.selections,
		Total:       len(c.offers),
	}
	offers := c.offers
	sel := c.selections
	c.mu.Unlock()

	v.Facets = domain.CollectFacets(offers)
	v.Offers = Cards(domain.Apply(offers, sel))
	return v
}

// Cards renders offers in order. Also used for shared snapshots.
func Cards(offers []domain.Offer) []Card {
	cards := make([]Card, len(offers))
	for i, o := range offers {
		cards[i] = Card{
			Key:     o.Key(i),
			Offer:   o,
			Price:   domain.FormatPrice(o.MonthlyPriceEur),
			Details: domain.Details(o),
		}
		if showPriceAfter2Y(o) {
			cards[i].PriceAfter2Y = domain.FormatPrice(o.MonthlyPriceAfter2Y)
		}
	}
	return cards
}

// showPriceAfter2Y hides a zero follow-up price and one equal to the
// monthly price.
func showPriceAfter2Y(o domain.Offer) bool {
	after := o.MonthlyPriceAfter2Y
	if after == nil || *after == 0 {
		return false
	}
	return o.MonthlyPriceEur == nil || *after != *o.MonthlyPriceEur
}
