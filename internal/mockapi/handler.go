package mockapi

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/voatnetwork/voat/internal/logging"
)

// Handler serves the remote API contract from a Store.
type Handler struct {
	store     *Store
	log       logging.Logger
	validate  *validator.Validate
	maxUpload int64
}

func NewHandler(store *Store, log logging.Logger, maxUpload int64) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	return &Handler{store: store, log: log, validate: v, maxUpload: maxUpload}
}

// validateStruct maps each failing field to the rule it broke, or returns
// nil when v is valid.
func (h *Handler) validateStruct(v any) map[string]string {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"general": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

func (h *Handler) logger(r *http.Request) logging.Logger {
	return logging.FromContext(r.Context(), h.log)
}

func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, r, http.StatusOK, map[string]any{"success": true, "message": "Connection successful"})
}
