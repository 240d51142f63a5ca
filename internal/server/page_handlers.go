package server

import (
	"errors"
	"net/http"

	"github.com/goodsone/console/internal/router"
	"github.com/goodsone/console/internal/session"
)

// PageResponse describes the page the guard let through.
type PageResponse struct {
	Location *router.Location `json:"location"`
}

func (h *handlers) routerFor(_ http.ResponseWriter, r *http.Request) (*router.Router, error) {
	store, ok := session.FromContext(r.Context())
	if !ok {
		return nil, errors.New("no session store on request")
	}
	return router.New(h.table, store, h.routerOpts), nil
}

// page answers page requests that passed the navigation guard. Paths
// outside the route table reach it without a location.
func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	loc, ok := router.LocationFrom(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	writeJSON(w, http.StatusOK, PageResponse{Location: loc})
}
