package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/netcompare/internal/catalog"
	"github.com/MrSnakeDoc/netcompare/internal/config"
	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/views"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/offerapi"
	"github.com/MrSnakeDoc/netcompare/internal/store/memory"
)

type fakeAPI struct {
	offers    []domain.Offer
	fetchErr  error
	shareID   string
	shared    map[string][]domain.Offer
	getErr    error
	fetchCall int
}

func (f *fakeAPI) FetchOffers(context.Context, domain.Address) ([]domain.Offer, error) {
	f.fetchCall++
	return f.offers, f.fetchErr
}

func (f *fakeAPI) CreateShare(_ context.Context, offers []domain.Offer) (string, error) {
	if f.shared == nil {
		f.shared = map[string][]domain.Offer{}
	}
	f.shared[f.shareID] = offers
	return f.shareID, nil
}

func (f *fakeAPI) GetShare(_ context.Context, id string) ([]domain.Offer, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.shared[id], nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func testOffers() []domain.Offer {
	return []domain.Offer{
		{ProviderName: "WebWunder", ProductName: "Wunder 50", ConnectionType: "DSL", DownloadSpeedMbps: domain.Float(50), MonthlyPriceEur: domain.Float(24.99), ContractTermMonths: domain.Int(24)},
		{ProviderName: "ByteMe", ProductName: "Byte 100", ConnectionType: "Cable", DownloadSpeedMbps: domain.Float(100), MonthlyPriceEur: domain.Float(29.99), ContractTermMonths: domain.Int(12)},
		{ProviderName: "Servus", ProductName: "Glasfaser 1000", ConnectionType: "Fiber", DownloadSpeedMbps: domain.Float(1000), MonthlyPriceEur: domain.Float(59.99), ContractTermMonths: domain.Int(24)},
	}
}

type harness struct {
	t       *testing.T
	handler http.Handler
	api     *fakeAPI
	cookie  *http.Cookie
	reload  chan struct{}
}

func newHarness(t *testing.T, mutate func(*config.Config, *deps.Deps)) *harness {
	t.Helper()
	renderer, err := views.New()
	if err != nil {
		t.Fatalf("views.New() error = %v", err)
	}
	api := &fakeAPI{offers: testOffers(), shareID: "abc123"}
	cfg := &config.Config{
		APITimeout:           time.Second,
		RateLimitBurst:       100,
		RateLimitRefillPerMn: 100,
	}
	reload := make(chan struct{}, 1)
	d := deps.Deps{
		Logger:        logger.Nop(),
		StartTime:     time.Now(),
		API:           api,
		Store:         memory.New(),
		StoreBackend:  config.BackendMemory,
		Catalog:       catalog.NewHolder(catalog.Default()),
		Views:         renderer,
		PublicURL:     "https://compare.example",
		CookieName:    "sid",
		SessionTTL:    time.Hour,
		ReloadTrigger: reload,
	}
	if mutate != nil {
		mutate(cfg, &d)
	}
	return &harness{t: t, handler: NewHandler(cfg, logger.Nop(), d), api: api, reload: reload}
}

func (h *harness) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			h.cookie = c
		}
	}
	return rec
}

func (h *harness) state() stateBody {
	h.t.Helper()
	rec := h.do(http.MethodGet, "/state", nil)
	if rec.Code != http.StatusOK {
		h.t.Fatalf("GET /state = %d", rec.Code)
	}
	var s stateBody
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		h.t.Fatalf("decode state: %v", err)
	}
	return s
}

type stateBody struct {
	HasSearched bool              `json:"hasSearched"`
	Total       int               `json:"total"`
	Error       string            `json:"error"`
	Selections  domain.Selections `json:"selections"`
	Offers      []struct {
		Offer domain.Offer `json:"offer"`
	} `json:"offers"`
}

var validAddress = url.Values{
	"strasse":      {"Teststr."},
	"hausnummer":   {"1"},
	"postleitzahl": {"10115"},
	"stadt":        {"Berlin"},
}

func TestHomeSetsSessionCookie(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	if h.cookie == nil || h.cookie.Value == "" {
		t.Fatal("no session cookie set")
	}
	if !strings.Contains(rec.Body.String(), `name="postleitzahl"`) {
		t.Error("address form missing")
	}
}

func TestSearchValidationError(t *testing.T) {
	h := newHarness(t, nil)
	form := url.Values{"strasse": {"Teststr."}, "stadt": {"Berlin"}}
	rec := h.do(http.MethodPost, "/search", form)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("POST /search = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "All address fields (Street, House No., PLZ, City) are required.") {
		t.Error("validation message not rendered")
	}
	if !strings.Contains(rec.Body.String(), `value="Teststr."`) {
		t.Error("form values not kept")
	}
	if h.api.fetchCall != 0 {
		t.Error("backend called for an invalid address")
	}
}

func TestSearchFilterAndRestore(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(http.MethodPost, "/search", validAddress)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("POST /search = %d %q", rec.Code, rec.Header().Get("Location"))
	}

	s := h.state()
	if !s.HasSearched || s.Total != 3 || len(s.Offers) != 3 {
		t.Fatalf("state after search = %+v", s)
	}

	rec = h.do(http.MethodPost, "/filters", url.Values{"minSpeed": {"100"}, "sortBy": {"price_desc"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("POST /filters = %d", rec.Code)
	}
	s = h.state()
	if len(s.Offers) != 2 || s.Offers[0].Offer.ProviderName != "Servus" {
		t.Errorf("filtered offers = %+v", s.Offers)
	}

	page := h.do(http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(page, "Glasfaser 1000") || strings.Contains(page, "Wunder 50") {
		t.Error("rendered list does not follow the filters")
	}

	rec = h.do(http.MethodPost, "/filters", url.Values{"reset": {"1"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("reset = %d", rec.Code)
	}
	if s = h.state(); len(s.Offers) != 3 || !s.Selections.IsDefault() {
		t.Errorf("state after reset = %+v", s)
	}
}

func TestFiltersRejectInvalidTier(t *testing.T) {
	h := newHarness(t, nil)
	h.do(http.MethodPost, "/search", validAddress)
	rec := h.do(http.MethodPost, "/filters", url.Values{"minSpeed": {"warp"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /filters = %d, want 400", rec.Code)
	}
}

func TestSearchBackendError(t *testing.T) {
	h := newHarness(t, nil)
	h.api.fetchErr = &offerapi.HTTPError{Status: 500, Message: "boom"}

	rec := h.do(http.MethodPost, "/search", validAddress)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("POST /search = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "boom") {
		t.Error("backend message not shown")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHarness(t, nil)
	h.do(http.MethodPost, "/search", validAddress)

	other := &harness{t: t, handler: h.handler, api: h.api}
	if s := other.state(); s.HasSearched {
		t.Error("a new visitor sees another session's results")
	}
}

func TestShareAndSharedView(t *testing.T) {
	h := newHarness(t, nil)
	h.do(http.MethodPost, "/search", validAddress)
	h.do(http.MethodPost, "/filters", url.Values{"connectionType": {"Fiber"}})

	rec := h.do(http.MethodPost, "/share", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /share = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "https://compare.example/share/abc123") {
		t.Error("share link not rendered")
	}
	if got := h.api.shared["abc123"]; len(got) != 1 || got[0].ProviderName != "Servus" {
		t.Errorf("shared offers = %+v", got)
	}

	rec = h.do(http.MethodGet, "/share/abc123", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Glasfaser 1000") {
		t.Errorf("GET /share/abc123 = %d", rec.Code)
	}
}

func TestShareWithoutResults(t *testing.T) {
	h := newHarness(t, nil)
	if rec := h.do(http.MethodPost, "/share", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("POST /share before search = %d, want 400", rec.Code)
	}
}

func TestSharedViewErrors(t *testing.T) {
	h := newHarness(t, nil)
	h.api.getErr = &offerapi.HTTPError{Status: http.StatusNotFound, Message: "Share not found"}
	rec := h.do(http.MethodGet, "/share/missing", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "Share not found") {
		t.Errorf("GET /share/missing = %d %s", rec.Code, rec.Body.String())
	}

	h.api.getErr = errors.New("dial tcp: refused")
	if rec := h.do(http.MethodGet, "/share/x", nil); rec.Code != http.StatusBadGateway {
		t.Errorf("GET /share/x with transport error = %d, want 502", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(http.MethodGet, "/does/not/exist", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "/does/not/exist") {
		t.Errorf("GET unknown = %d", rec.Code)
	}
}

func TestProbes(t *testing.T) {
	h := newHarness(t, func(_ *config.Config, d *deps.Deps) {
		d.StorePinger = fakePinger{err: errors.New("connection refused")}
	})
	if rec := h.do(http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Errorf("GET /healthz = %d", rec.Code)
	}
	if rec := h.do(http.MethodGet, "/readyz", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /readyz with store down = %d, want 503", rec.Code)
	}
	rec := h.do(http.MethodGet, "/infra", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"mode":"degraded"`) {
		t.Errorf("GET /infra = %d %s", rec.Code, rec.Body.String())
	}
}

func TestReloadTrigger(t *testing.T) {
	h := newHarness(t, nil)
	if rec := h.do(http.MethodPost, "/reload", nil); rec.Code != http.StatusAccepted {
		t.Errorf("first POST /reload = %d, want 202", rec.Code)
	}
	if rec := h.do(http.MethodPost, "/reload", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second POST /reload = %d, want 429", rec.Code)
	}
	<-h.reload
}

func TestRateLimitOnSearch(t *testing.T) {
	h := newHarness(t, func(cfg *config.Config, _ *deps.Deps) {
		cfg.RateLimitBurst = 1
		cfg.RateLimitRefillPerMn = 1
	})
	if rec := h.do(http.MethodPost, "/search", validAddress); rec.Code != http.StatusSeeOther {
		t.Fatalf("first search = %d", rec.Code)
	}
	rec := h.do(http.MethodPost, "/search", validAddress)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second search = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}
}

func TestEnforceHost(t *testing.T) {
	h := newHarness(t, func(_ *config.Config, d *deps.Deps) {
		d.AllowedHosts = []string{"compare.example"}
	})
	// httptest requests use Host example.com
	if rec := h.do(http.MethodGet, "/", nil); rec.Code != http.StatusForbidden {
		t.Errorf("GET / from foreign host = %d, want 403", rec.Code)
	}
}
