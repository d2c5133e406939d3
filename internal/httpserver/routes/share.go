package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/mw"
)

func init() { Register(registerShare) }

func registerShare(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), sessionMW(d), d.BackendLimit).Post("/share", handlers.Share(d))
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger), d.BackendLimit).Get("/share/{shareId}", handlers.Shared(d))
}
