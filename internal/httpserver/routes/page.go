package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/mw"
)

func init() { Register(registerPage) }

func registerPage(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger), sessionMW(d))
		r.Get("/", handlers.Home(d))
		r.Get("/state", handlers.State(d))
		r.Post("/filters", handlers.Filters(d))
	})
}

func sessionMW(d deps.Deps) Middleware {
	return mw.Session(mw.SessionConfig{
		CookieName: d.CookieName,
		Secure:     d.CookieSecure,
		MaxAge:     d.SessionTTL,
	}, d.Logger)
}
