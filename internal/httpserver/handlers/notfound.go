package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/views"
)

func NotFound(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(d, w, http.StatusNotFound, views.PageNotFound, views.NotFoundPage{Path: r.URL.Path})
	}
}
