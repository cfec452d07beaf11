package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/voatnetwork/voat/internal/logging"
)

// errorBody is the shape of every non-2xx reply. The client surfaces
// Message verbatim.
type errorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	b, err := json.Marshal(payload)
	if err != nil {
		logging.FromContext(r.Context(), h.log).Error(r.Context(), "encode response", "status", status, "error", err)
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.respondJSON(w, r, status, errorBody{Message: msg})
}

func (h *Handler) respondValidation(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	h.respondJSON(w, r, http.StatusUnprocessableEntity, errorBody{Message: "Validation failed", Errors: fields})
}

// decodeJSON reads a JSON body into v. An empty body is an error.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
