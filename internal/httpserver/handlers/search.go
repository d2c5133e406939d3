package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/views"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/session"
)

// Search handles the address form. Validation errors re-render the form
// (422), backend errors show the banner (502), success redirects to /.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		addr := domain.NewAddress(
			r.PostForm.Get("strasse"),
			r.PostForm.Get("hausnummer"),
			r.PostForm.Get("postleitzahl"),
			r.PostForm.Get("stadt"),
		)

		c := controller(d, r)
		err := c.Search(r.Context(), addr)
		switch {
		case err == nil:
			d.Logger.Debug("search completed", logger.String("postal_code", addr.PostalCode))
			http.Redirect(w, r, "/", http.StatusSeeOther)
		case errors.Is(err, domain.ErrAddressIncomplete):
			v := c.View()
			v.Error = ""
			render(d, w, http.StatusUnprocessableEntity, views.PageIndex, indexPage(d, v, addr, err.Error()))
		case errors.Is(err, session.ErrSuperseded):
			http.Redirect(w, r, "/", http.StatusSeeOther)
		default:
			render(d, w, http.StatusBadGateway, views.PageIndex, indexPage(d, c.View(), addr, ""))
		}
	}
}
