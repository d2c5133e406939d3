// Package session holds the state of one visitor: the submitted address,
// the fetched offers, the active selections and the last error. The
// displayed list is always derived from that state, never stored.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/offerapi"
	"github.com/MrSnakeDoc/netcompare/internal/persist"
)

var (
	// ErrSuperseded is returned by Search when a newer search started
	// before this one finished. Its result is discarded.
	ErrSuperseded = errors.New("search superseded by a newer one")
	// ErrNothingToShare is returned by Share when the displayed list is empty.
	ErrNothingToShare = errors.New("there are no offers to share")
)

const fetchFailedMessage = "Failed to fetch offers. Please try again."

// OfferSource is the backend the controller talks to.
type OfferSource interface {
	FetchOffers(ctx context.Context, addr domain.Address) ([]domain.Offer, error)
	CreateShare(ctx context.Context, offers []domain.Offer) (string, error)
}

// Controller is safe for concurrent use.
type Controller struct {
	api     OfferSource
	persist *persist.Adapter
	logger  logger.Logger

	mu          sync.Mutex
	seq         uint64
	address     domain.Address
	offers      []domain.Offer
	hasSearched bool
	selections  domain.Selections
	loading     bool
	errMsg      string
	shareURL    string
}

// New returns a controller with empty state. Call Restore to load the
// persisted snapshot.
func New(api OfferSource, p *persist.Adapter, log logger.Logger) *Controller {
	return &Controller{
		api:        api,
		persist:    p,
		logger:     log,
		offers:     []domain.Offer{},
		selections: domain.DefaultSelections(),
	}
}

// Restore loads the last address and results bundle. Missing or unreadable
// keys leave the defaults in place.
func (c *Controller) Restore(ctx context.Context) {
	snap := c.persist.Restore(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if snap.Address != nil {
		c.address = *snap.Address
	}
	if snap.Results != nil {
		c.offers = snap.Results.Offers
		c.hasSearched = snap.Results.HasSearched
		c.selections = snap.Results.Selections
	}
}

// Search validates the address, replaces the offer list with the backend's
// answer and resets every selection. Validation errors block the request.
// Backend errors are kept as the banner message and returned.
func (c *Controller) Search(ctx context.Context, addr domain.Address) error {
	if err := addr.Validate(); err != nil {
		c.mu.Lock()
		c.errMsg = err.Error()
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.address = addr
	c.offers = []domain.Offer{}
	c.hasSearched = true
	c.selections = domain.DefaultSelections()
	c.loading = true
	c.errMsg = ""
	c.shareURL = ""
	c.mu.Unlock()

	offers, err := c.api.FetchOffers(ctx, addr)

	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		c.logger.Debug("dropping stale search response", logger.String("postal_code", addr.PostalCode))
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		c.errMsg = bannerMessage(err)
		c.mu.Unlock()
		return err
	}
	c.offers = offers
	c.mu.Unlock()

	if err := c.persist.SaveSearch(ctx, addr, offers); err != nil {
		c.logger.Error("failed to persist search", logger.Error(err))
	}
	return nil
}

// UpdateSelections replaces the sort and filter choice. The results bundle
// is rewritten only once a search has happened.
func (c *Controller) UpdateSelections(ctx context.Context, sel domain.Selections) error {
	sel = sel.Normalize()
	if err := sel.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.selections = sel
	c.shareURL = ""
	bundle := c.bundleLocked()
	c.mu.Unlock()

	if !bundle.HasSearched {
		return nil
	}
	if err := c.persist.SaveResults(ctx, bundle); err != nil {
		c.logger.Error("failed to persist selections", logger.Error(err))
	}
	return nil
}

// ResetSelections clears every filter and the sort key.
func (c *Controller) ResetSelections(ctx context.Context) error {
	return c.UpdateSelections(ctx, domain.DefaultSelections())
}

// Share publishes the currently displayed offers and returns the link
// built from origin.
func (c *Controller) Share(ctx context.Context, origin string) (string, error) {
	c.mu.Lock()
	displayed := domain.Apply(c.offers, c.selections)
	c.mu.Unlock()

	if len(displayed) == 0 {
		return "", ErrNothingToShare
	}

	id, err := c.api.CreateShare(ctx, displayed)
	if err != nil {
		c.mu.Lock()
		c.errMsg = "Failed to create share link: " + err.Error()
		c.mu.Unlock()
		return "", err
	}

	link := offerapi.ShareURL(origin, id)
	c.mu.Lock()
	c.shareURL = link
	c.mu.Unlock()
	return link, nil
}

// Forget clears the state and deletes the persisted snapshot.
func (c *Controller) Forget(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	c.address = domain.Address{}
	c.offers = []domain.Offer{}
	c.hasSearched = false
	c.selections = domain.DefaultSelections()
	c.loading = false
	c.errMsg = ""
	c.shareURL = ""
	c.mu.Unlock()

	return c.persist.Forget(ctx)
}

// Selections returns the active selections.
func (c *Controller) Selections() domain.Selections {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selections
}

func (c *Controller) bundleLocked() domain.ResultsBundle {
	return domain.ResultsBundle{
		Offers:      c.offers,
		HasSearched: c.hasSearched,
		Selections:  c.selections,
	}
}

func bannerMessage(err error) string {
	var herr *offerapi.HTTPError
	if errors.As(err, &herr) {
		return herr.Message
	}
	if err.Error() == "" {
		return fetchFailedMessage
	}
	return err.Error()
}
