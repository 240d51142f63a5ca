package server

import (
	"log"
	"net/http"

	"github.com/goodsone/console/internal/navigation"
	"github.com/goodsone/console/pkg/sdk"
)

// NavigationResponse is a menu layout trimmed to what the caller may see.
type NavigationResponse struct {
	Layout string            `json:"layout"`
	Items  []navigation.Node `json:"items"`
}

// navigation serves GET /api/navigation?layout=vertical&filter=<bexpr>.
func (h *handlers) navigation(w http.ResponseWriter, r *http.Request) {
	layout := r.URL.Query().Get("layout")
	if layout == "" {
		layout = "vertical"
	}
	nodes, ok := h.menus.Layout(layout)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown layout "+layout)
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}
	s, err := sdk.LoadSession(r.Context(), store)
	if err != nil {
		log.Printf("server: load session: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	ab, err := h.abilities.ForSession(s)
	if err != nil {
		log.Printf("server: build ability: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to build ability")
		return
	}

	items := navigation.Visible(nodes, h.table.Viewable(ab))
	items, err = navigation.Filter(items, r.URL.Query().Get("filter"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if items == nil {
		items = []navigation.Node{}
	}
	writeJSON(w, http.StatusOK, NavigationResponse{Layout: layout, Items: items})
}
