package server

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goodsone/console/internal/router"
	"github.com/goodsone/console/pkg/sdk"
)

// forwarded request and response headers, besides the body
var (
	forwardRequestHeaders  = []string{"Content-Type", "Accept", "Accept-Language"}
	forwardResponseHeaders = []string{"Content-Type", "Content-Disposition", "Cache-Control"}
)

// backend forwards /backend/<path> to the backend API with the session's
// bearer token. A 401 clears the session and answers 401 with the login
// location the router settled on.
func (h *handlers) backend(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	rt := router.New(h.table, store, h.routerOpts)
	client, err := sdk.NewClient(h.opts.APIBaseURL, store,
		sdk.WithHTTPClient(h.opts.HTTPClient),
		sdk.WithNavigator(rt),
		sdk.WithLoginPath(h.opts.LoginPath),
		sdk.WithUnauthorizedHook(func() {
			if h.opts.BackendMetrics != nil {
				h.opts.BackendMetrics.RecordUnauthorized(ctx)
			}
		}),
	)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	path := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	req, err := client.NewRequest(ctx, r.Method, path, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, name := range forwardRequestHeaders {
		if v := r.Header.Get(name); v != "" {
			req.Header.Set(name, v)
		}
	}
	if r.Body != nil && r.ContentLength != 0 {
		req.Body = http.MaxBytesReader(w, r.Body, 10*maxBodyBytes)
		req.ContentLength = r.ContentLength
	}

	resp, err := client.Do(req)
	var apiErr *sdk.APIError
	switch {
	case errors.As(err, &apiErr):
		h.recordBackend(r, apiErr.StatusCode)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.StatusCode)
		_, _ = w.Write(apiErr.Body)
		return
	case err != nil:
		log.Printf("server: backend %s %s: %v", r.Method, path, err)
		writeError(w, http.StatusBadGateway, "backend unavailable")
		return
	case resp == nil:
		h.recordBackend(r, http.StatusUnauthorized)
		redirect := h.opts.LoginPath
		if loc := rt.Current(); loc != nil {
			redirect = loc.FullPath
		}
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Redirect: redirect})
		return
	}
	defer resp.Body.Close()

	h.recordBackend(r, resp.StatusCode)
	for _, name := range forwardResponseHeaders {
		if v := resp.Header.Get(name); v != "" {
			w.Header().Set(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("server: copy backend response: %v", err)
	}
}

func (h *handlers) recordBackend(r *http.Request, status int) {
	if h.opts.BackendMetrics != nil {
		h.opts.BackendMetrics.RecordRequest(r.Context(), r.Method, status)
	}
}
