package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/views"
	"github.com/MrSnakeDoc/netcompare/internal/session"
)

// Home renders the form and the restored result list.
func Home(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := controller(d, r).View()
		render(d, w, http.StatusOK, views.PageIndex, indexPage(d, v, v.Address, ""))
	}
}

func indexPage(d deps.Deps, v session.View, form domain.Address, formError string) views.IndexPage {
	return views.IndexPage{
		View:      v,
		Catalog:   d.Catalog.Get(),
		Form:      form,
		FormError: formError,
	}
}
