package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/netcompare/internal/domain"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/views"
)

// Filters applies the posted sort and filter choice, or resets it when
// reset=1, then redirects to /.
func Filters(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		c := controller(d, r)
		var err error
		if r.PostForm.Get("reset") == "1" {
			err = c.ResetSelections(r.Context())
		} else {
			err = c.UpdateSelections(r.Context(), selectionsFromForm(r))
		}
		if err != nil {
			v := c.View()
			v.Error = err.Error()
			render(d, w, http.StatusBadRequest, views.PageIndex, indexPage(d, v, v.Address, ""))
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func selectionsFromForm(r *http.Request) domain.Selections {
	f := r.PostForm
	return domain.Selections{
		SortBy:          domain.SortKey(f.Get("sortBy")),
		ConnectionTypes: f["connectionType"],
		Providers:       f["provider"],
		ContractTerms:   f["contractTerm"],
		MinSpeed:        f.Get("minSpeed"),
		MinDataLimit:    f.Get("minDataLimit"),
	}
}
