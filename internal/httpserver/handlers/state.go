package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/netcompare/internal/catalog"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/session"
)

type stateResponse struct {
	session.View
	Catalog *catalog.Catalog `json:"catalog"`
}

// State returns the visitor's view model as JSON.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := stateResponse{
			View:    controller(d, r).View(),
			Catalog: d.Catalog.Get(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
