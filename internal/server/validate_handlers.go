package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goodsone/console/pkg/validators"
)

// ValidateRequest runs one named rule against a value.
type ValidateRequest struct {
	Rule   string   `json:"rule"`
	Params []string `json:"params,omitempty"`
	Value  any      `json:"value"`
}

// ValidateResponse carries the rule result both as flags and in the form
// libraries' true-or-message encoding.
type ValidateResponse struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message,omitempty"`
	Result  validators.Result `json:"result"`
}

func (h *handlers) validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rule, err := validators.Lookup(req.Rule, req.Params...)
	switch {
	case errors.Is(err, validators.ErrUnknownRule), errors.Is(err, validators.ErrInvalidParams):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res := rule(req.Value)
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:   res.OK(),
		Message: res.Message(),
		Result:  res,
	})
}

func (h *handlers) validatorNames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"rules": validators.Names()})
}
