package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nefeygt/wowscraper/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/deals", func(r chi.Router) {
				r.Get("/", handler(s.getV1Deals))
				r.Get("/page", handler(s.getV1DealsPage))
			})
			r.Get("/items/{id}/prices", handler(s.getV1ItemPrices))
			r.Post("/scans", handler(s.postV1Scans))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
