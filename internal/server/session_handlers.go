package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/goodsone/console/internal/ability"
	"github.com/goodsone/console/internal/session"
	"github.com/goodsone/console/pkg/sdk"
)

const maxBodyBytes = 1 << 20

// SessionResponse describes the session of the caller. The access token
// itself is never echoed back.
type SessionResponse struct {
	LoggedIn  bool              `json:"loggedIn"`
	Role      string            `json:"role,omitempty"`
	UserData  *sdk.UserData     `json:"userData,omitempty"`
	Roles     []string          `json:"roles"`
	Abilities []sdk.AbilityRule `json:"userAbilities"`
	Token     *sdk.TokenInfo    `json:"token,omitempty"`
}

func newSessionResponse(s *sdk.Session) SessionResponse {
	roles := s.RoleNames()
	if roles == nil {
		roles = []string{}
	}
	return SessionResponse{
		LoggedIn:  s.IsLoggedIn(),
		Role:      s.Role,
		UserData:  s.UserData,
		Roles:     roles,
		Abilities: ability.RulesFor(s),
		Token:     sdk.InspectToken(s.AccessToken, time.Now()),
	}
}

func (h *handlers) store(w http.ResponseWriter, r *http.Request) (sdk.SessionStore, bool) {
	store, ok := session.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "session unavailable")
	}
	return store, ok
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, newSessionResponse(s))
}

// postSession stores the login response of the backend: profile, token,
// abilities and role. Any previous session is destroyed first.
func (h *handlers) postSession(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req sdk.Session
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AccessToken == "" || req.UserData == nil {
		writeError(w, http.StatusBadRequest, "userData and accessToken are required")
		return
	}

	ctx := r.Context()
	if err := sdk.DestroySession(ctx, store); err != nil {
		log.Printf("server: reset session: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store session")
		return
	}
	if err := sdk.SaveSession(ctx, store, &req); err != nil {
		log.Printf("server: save session: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store session")
		return
	}

	s, err := sdk.LoadSession(ctx, store)
	if err != nil {
		log.Printf("server: reload session: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(s))
}

func (h *handlers) deleteSession(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}
	if err := sdk.DestroySession(r.Context(), store); err != nil {
		log.Printf("server: destroy session: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to destroy session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
