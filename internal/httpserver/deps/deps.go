package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/netcompare/internal/catalog"
	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/views"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/store"
)

// OfferAPI is the subset of the offer backend client used by handlers.
type OfferAPI interface {
	FetchOffers(ctx context.Context, addr domain.Address) ([]domain.Offer, error)
	CreateShare(ctx context.Context, offers []domain.Offer) (string, error)
	GetShare(ctx context.Context, id string) ([]domain.Offer, error)
}

type Middleware = func(http.Handler) http.Handler

// Pinger is implemented by store backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	AllowedHosts  []string         // Host headers allowed to access the server
	AllowedCIDRS  []string         // IPs allowed to access readyz/infra/reload endpoints
	TrustProxy    bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	API           OfferAPI         // offer/share backend
	Store         store.KV         // session snapshot store (unscoped)
	StoreBackend  string           // "redis" | "sqlite" | "memory", for infra
	StorePinger   Pinger           // optional, nil = always ready
	Catalog       *catalog.Holder  // filter catalog
	Views         *views.Renderer  // HTML templates
	PublicURL     string           // origin for share links, empty = from request
	CookieName    string           // session cookie name
	CookieSecure  bool             // Secure flag on the session cookie
	SessionTTL    time.Duration    // cookie max age
	BackendLimit  Middleware       // shared per-IP limiter for routes that reach the backend
	ReloadTrigger chan struct{}    // Channel to trigger manual catalog reload
}
