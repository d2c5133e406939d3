package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/netcompare/internal/httpserver/deps"
	"github.com/MrSnakeDoc/netcompare/internal/httpserver/views"
	"github.com/MrSnakeDoc/netcompare/internal/logger"
	"github.com/MrSnakeDoc/netcompare/internal/offerapi"
	"github.com/MrSnakeDoc/netcompare/internal/session"
)

// Share publishes the displayed offers and renders the page with the link.
func Share(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controller(d, r)
		link, err := c.Share(r.Context(), origin(d, r))

		status := http.StatusOK
		switch {
		case err == nil:
			d.Logger.Info("results shared", logger.String("url", link))
		case errors.Is(err, session.ErrNothingToShare):
			status = http.StatusBadRequest
		default:
			status = http.StatusBadGateway
		}

		v := c.View()
		if errors.Is(err, session.ErrNothingToShare) {
			v.Error = err.Error()
		}
		render(d, w, status, views.PageIndex, indexPage(d, v, v.Address, ""))
	}
}

// Shared renders a share snapshot read-only. The visitor's own session is
// not touched.
func Shared(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "shareId")
		offers, err := d.API.GetShare(r.Context(), id)
		if err != nil {
			status := http.StatusBadGateway
			var herr *offerapi.HTTPError
			switch {
			case errors.Is(err, offerapi.ErrNoShareID):
				status = http.StatusBadRequest
			case errors.As(err, &herr) && herr.Status == http.StatusNotFound:
				status = http.StatusNotFound
			}
			render(d, w, status, views.PageShared, views.SharedPage{ShareID: id, Error: sharedErrorMessage(err)})
			return
		}
		render(d, w, http.StatusOK, views.PageShared, views.SharedPage{
			ShareID: id,
			Offers:  session.Cards(offers),
		})
	}
}

func sharedErrorMessage(err error) string {
	var herr *offerapi.HTTPError
	if errors.As(err, &herr) || errors.Is(err, offerapi.ErrNoShareID) {
		return err.Error()
	}
	return "Failed to load shared offers."
}
