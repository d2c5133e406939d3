package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/offerapi"
	"github.com/MrSnakeDoc/netcompare/internal/persist"
	"github.com/MrSnakeDoc/netcompare/internal/store/memory"
)

var berlin = domain.NewAddress("Teststr.", "1", "10115", "Berlin")

type fakeAPI struct {
	mu       sync.Mutex
	offers   []domain.Offer
	err      error
	shareID  string
	shareErr error
	fetches  int
	shared   []domain.Offer
	block    chan struct{}
}

func (f *fakeAPI) FetchOffers(ctx context.Context, _ domain.Address) ([]domain.Offer, error) {
	f.mu.Lock()
	f.fetches++
	block := f.block
	offers, err := f.offers, f.err
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return offers, err
}

func (f *fakeAPI) CreateShare(_ context.Context, offers []domain.Offer) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shared = offers
	return f.shareID, f.shareErr
}

func offers() []domain.Offer {
	return []domain.Offer{
		{ProviderName: "A", ConnectionType: "DSL", DownloadSpeedMbps: domain.Float(50), MonthlyPriceEur: domain.Float(30)},
		{ProviderName: "B", ConnectionType: "Cable", DownloadSpeedMbps: domain.Float(100), MonthlyPriceEur: domain.Float(20)},
		{ProviderName: "C", ConnectionType: "Fiber", DownloadSpeedMbps: domain.Float(1000), MonthlyPriceEur: domain.Float(45)},
	}
}

func newController(api OfferSource) (*Controller, *memory.Store) {
	kv := memory.New()
	return New(api, persist.New(kv, logger.Nop()), logger.Nop()), kv
}

func TestSearchRejectsIncompleteAddress(t *testing.T) {
	api := &fakeAPI{}
	c, kv := newController(api)

	err := c.Search(context.Background(), domain.NewAddress("Teststr.", "", "10115", "Berlin"))
	if !errors.Is(err, domain.ErrAddressIncomplete) {
		t.Fatalf("Search() error = %v", err)
	}
	if api.fetches != 0 {
		t.Errorf("backend called %d times for an invalid address", api.fetches)
	}
	if v := c.View(); v.Error != domain.ErrAddressIncomplete.Error() {
		t.Errorf("banner = %q", v.Error)
	}
	if kv.Len() != 0 {
		t.Error("invalid search was persisted")
	}
}

func TestSearchResetsSelectionsAndPersists(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{offers: offers()}
	c, _ := newController(api)

	_ = c.UpdateSelections(ctx, domain.Selections{SortBy: domain.SortPriceAsc, MinSpeed: "100"})
	if err := c.Search(ctx, berlin); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if !c.Selections().IsDefault() {
		t.Errorf("selections after search = %+v", c.Selections())
	}

	v := c.View()
	if !v.HasSearched || v.Loading || v.Error != "" {
		t.Errorf("view flags = %+v", v)
	}
	if len(v.Offers) != 3 || v.Total != 3 {
		t.Errorf("displayed %d of %d, want 3 of 3", len(v.Offers), v.Total)
	}

	restored := New(api, c.persist, logger.Nop())
	restored.Restore(ctx)
	if rv := restored.View(); rv.Address != berlin || len(rv.Offers) != 3 {
		t.Errorf("restored view = %+v", rv)
	}
}

func TestSearchBackendError(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{offers: offers()}
	c, _ := newController(api)
	_ = c.Search(ctx, berlin)

	api.err = &offerapi.HTTPError{Status: 500, Message: "boom"}
	if err := c.Search(ctx, berlin); err == nil {
		t.Fatal("Search() error = nil")
	}
	v := c.View()
	if v.Error != "boom" {
		t.Errorf("banner = %q, want boom", v.Error)
	}
	if len(v.Offers) != 0 {
		t.Errorf("offers kept after failed search: %d", len(v.Offers))
	}
}

func TestFailedSearchResetsSelections(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{offers: offers()}
	c, _ := newController(api)
	_ = c.Search(ctx, berlin)
	_ = c.UpdateSelections(ctx, domain.Selections{SortBy: domain.SortPriceAsc, MinSpeed: "100"})

	api.err = &offerapi.HTTPError{Status: 500, Message: "boom"}
	_ = c.Search(ctx, berlin)

	if !c.Selections().IsDefault() {
		t.Errorf("selections after failed search = %+v", c.Selections())
	}
}

func TestCardsPriceAfter2Years(t *testing.T) {
	tests := []struct {
		name    string
		monthly *float64
		after   *float64
		want    bool
	}{
		{"absent", domain.Float(30), nil, false},
		{"zero", domain.Float(30), domain.Float(0), false},
		{"same as monthly", domain.Float(30), domain.Float(30), false},
		{"higher", domain.Float(30), domain.Float(45), true},
		{"no monthly price", nil, domain.Float(45), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := domain.Offer{ProviderName: "A", MonthlyPriceEur: tt.monthly, MonthlyPriceAfter2Y: tt.after}
			got := Cards([]domain.Offer{o})[0].PriceAfter2Y
			if (got != "") != tt.want {
				t.Errorf("PriceAfter2Y = %q, want shown = %v", got, tt.want)
			}
			if tt.want && got != domain.FormatPrice(tt.after) {
				t.Errorf("PriceAfter2Y = %q, want %q", got, domain.FormatPrice(tt.after))
			}
		})
	}
}

func TestUpdateSelectionsFiltersAndPersists(t *testing.T) {
	ctx := context.Background()
	c, _ := newController(&fakeAPI{offers: offers()})
	_ = c.Search(ctx, berlin)

	sel := domain.Selections{SortBy: domain.SortPriceAsc, MinSpeed: "100"}
	if err := c.UpdateSelections(ctx, sel); err != nil {
		t.Fatalf("UpdateSelections() error = %v", err)
	}
	v := c.View()
	if len(v.Offers) != 2 || v.Offers[0].Offer.ProviderName != "B" {
		t.Errorf("displayed = %+v", v.Offers)
	}
	if v.Total != 3 {
		t.Errorf("Total = %d, want 3", v.Total)
	}
	if len(v.Facets.Providers) != 3 {
		t.Errorf("facets use the filtered list: %+v", v.Facets)
	}

	snap := c.persist.Restore(ctx)
	if snap.Results == nil || snap.Results.SortBy != domain.SortPriceAsc || snap.Results.MinSpeed != "100" {
		t.Errorf("persisted bundle = %+v", snap.Results)
	}

	if err := c.ResetSelections(ctx); err != nil {
		t.Fatalf("ResetSelections() error = %v", err)
	}
	if len(c.View().Offers) != 3 {
		t.Error("reset did not restore the full list")
	}
}

func TestUpdateSelectionsBeforeSearchIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	c, kv := newController(&fakeAPI{})
	if err := c.UpdateSelections(ctx, domain.Selections{SortBy: domain.SortSpeedDesc}); err != nil {
		t.Fatalf("UpdateSelections() error = %v", err)
	}
	if kv.Len() != 0 {
		t.Errorf("store has %d keys before any search", kv.Len())
	}
}

func TestUpdateSelectionsRejectsBadTier(t *testing.T) {
	c, _ := newController(&fakeAPI{})
	if err := c.UpdateSelections(context.Background(), domain.Selections{MinSpeed: "fast"}); err == nil {
		t.Error("invalid speed tier accepted")
	}
}

func TestShareUsesDisplayedOffers(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{offers: offers(), shareID: "abc123"}
	c, _ := newController(api)
	_ = c.Search(ctx, berlin)
	_ = c.UpdateSelections(ctx, domain.Selections{ConnectionTypes: []string{"Fiber"}})

	link, err := c.Share(ctx, "https://compare.example/")
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if link != "https://compare.example/share/abc123" {
		t.Errorf("link = %q", link)
	}
	if len(api.shared) != 1 || api.shared[0].ProviderName != "C" {
		t.Errorf("shared = %+v, want only the displayed offer", api.shared)
	}
	if c.View().ShareURL != link {
		t.Error("share URL missing from view")
	}
}

func TestShareFailures(t *testing.T) {
	ctx := context.Background()

	c, _ := newController(&fakeAPI{})
	if _, err := c.Share(ctx, "http://x"); !errors.Is(err, ErrNothingToShare) {
		t.Errorf("Share() with no offers error = %v", err)
	}

	api := &fakeAPI{offers: offers(), shareErr: offerapi.ErrMissingShareID}
	c, _ = newController(api)
	_ = c.Search(ctx, berlin)
	if _, err := c.Share(ctx, "http://x"); !errors.Is(err, offerapi.ErrMissingShareID) {
		t.Errorf("Share() error = %v", err)
	}
	if c.View().Error == "" {
		t.Error("share failure not surfaced")
	}
}

func TestStaleSearchIsDropped(t *testing.T) {
	ctx := context.Background()
	slow := &fakeAPI{offers: offers()[:1], block: make(chan struct{})}
	c, _ := newController(slow)

	done := make(chan error, 1)
	go func() { done <- c.Search(ctx, berlin) }()

	// Wait until the slow fetch is in flight.
	for {
		slow.mu.Lock()
		n := slow.fetches
		slow.mu.Unlock()
		if n == 1 {
			break
		}
	}

	c.api = &fakeAPI{offers: offers()}
	if err := c.Search(ctx, berlin); err != nil {
		t.Fatalf("second Search() error = %v", err)
	}
	close(slow.block)

	if err := <-done; !errors.Is(err, ErrSuperseded) {
		t.Errorf("first Search() error = %v, want ErrSuperseded", err)
	}
	if got := len(c.View().Offers); got != 3 {
		t.Errorf("displayed %d offers, stale response overwrote newer state", got)
	}
}

func TestForget(t *testing.T) {
	ctx := context.Background()
	c, kv := newController(&fakeAPI{offers: offers()})
	_ = c.Search(ctx, berlin)

	if err := c.Forget(ctx); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if kv.Len() != 0 {
		t.Errorf("store has %d keys", kv.Len())
	}
	if v := c.View(); v.HasSearched || !v.Address.IsZero() {
		t.Errorf("view after Forget = %+v", v)
	}
}

func TestSearchAgainstBackend(t *testing.T) {
	var posts atomic.Int32
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/offers" {
			posts.Add(1)
			raw, _ := io.ReadAll(r.Body)
			body = string(raw)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"providerName":"ByteMe","downloadSpeedMbps":100}]`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := newController(offerapi.New(offerapi.Options{BaseURL: srv.URL}, logger.Nop()))
	addr := domain.Address{Street: "Teststr.", HouseNumber: "1", PostalCode: "10115", City: "Berlin", Country: "DE"}
	if err := c.Search(context.Background(), addr); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if posts.Load() != 1 {
		t.Errorf("POST /api/offers called %d times, want 1", posts.Load())
	}
	want := `{"strasse":"Teststr.","hausnummer":"1","postleitzahl":"10115","stadt":"Berlin","land":"DE"}` + "\n"
	if body != want {
		t.Errorf("body = %q, want %q", body, want)
	}
}

func TestSearchBackend500ShowsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"boom"}`))
	}))
	defer srv.Close()

	c, _ := newController(offerapi.New(offerapi.Options{BaseURL: srv.URL}, logger.Nop()))
	_ = c.Search(context.Background(), berlin)
	if got := c.View().Error; got != "boom" {
		t.Errorf("banner = %q, want boom", got)
	}
}
