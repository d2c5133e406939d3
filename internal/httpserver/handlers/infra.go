package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Backend    string `json:"backend,omitempty"`
	Keys       *int   `json:"keys,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Entries    *int   `json:"entries,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// keyCounter is implemented by stores that can count their keys.
type keyCounter interface {
	Count(ctx context.Context) (int, error)
}

// Infra reports the state of the store and the catalog.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		c := d.Catalog.Get()
		tiers := len(c.SpeedTiers) + len(c.DataTiers)
		components := map[string]componentStatus{
			"store": checkStore(ctx, d),
			"catalog": {
				OK:         tiers > 0,
				Entries:    &tiers,
				LastReload: d.Catalog.LoadedAt().Format("2006-01-02 15:04:05"),
			},
		}

		mode := "ok"
		if !components["store"].OK {
			mode = "degraded"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{Mode: mode, Components: components})
	}
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	st := componentStatus{OK: true, Backend: d.StoreBackend}
	if d.StorePinger != nil {
		if err := d.StorePinger.Ping(ctx); err != nil {
			st.OK = false
			st.Error = err.Error()
			return st
		}
	}
	if counter, ok := d.Store.(keyCounter); ok {
		if n, err := counter.Count(ctx); err == nil {
			st.Keys = &n
		}
	}
	return st
}
