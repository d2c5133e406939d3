package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/mw"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/persist"
	"github.com/MrSnakeDoc/netcompare/internal/session"
	"github.com/MrSnakeDoc/netcompare/internal/store"
)

// controller builds the visitor's controller over their slice of the store
// and restores the persisted snapshot.
func controller(d deps.Deps, r *http.Request) *session.Controller {
	sid := mw.SessionID(r.Context())
	log := d.Logger.With(logger.String("session", sid))
	c := session.New(d.API, persist.New(store.Scope(d.Store, sid), log), log)
	c.Restore(r.Context())
	return c
}

// origin is the scheme://host used in share links.
func origin(d deps.Deps, r *http.Request) string {
	if d.PublicURL != "" {
		return d.PublicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if d.TrustProxy {
		if p := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); p != "" {
			scheme = strings.ToLower(p)
		}
	}
	return scheme + "://" + r.Host
}

func render(d deps.Deps, w http.ResponseWriter, status int, page string, data any) {
	if err := d.Views.Render(w, status, page, data); err != nil {
		d.Logger.Error("failed to render page",
			logger.String("page", page),
			logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
