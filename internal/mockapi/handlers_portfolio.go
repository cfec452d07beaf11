package mockapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/voatnetwork/voat/internal/client/models"
)

// PortfolioStatus replies {status: null} when nothing was submitted.
func (h *Handler) PortfolioStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := h.store.Portfolio(chi.URLParam(r, "userId"))
	if !ok {
		h.respondJSON(w, r, http.StatusOK, map[string]any{"status": nil})
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{"status": p.Status})
}

// ReviewPortfolio sets the review outcome, standing in for the back office.
func (h *Handler) ReviewPortfolio(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required,oneof=pending approved rejected"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := h.validateStruct(&req); fields != nil {
		h.respondValidation(w, r, fields)
		return
	}
	if err := h.store.ReviewPortfolio(chi.URLParam(r, "userId"), models.PortfolioStatus(req.Status)); err != nil {
		h.respondError(w, r, http.StatusNotFound, "Portfolio not found")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{"success": true, "status": req.Status})
}

func (h *Handler) UserPortfolio(w http.ResponseWriter, r *http.Request) {
	p, ok := h.store.Portfolio(chi.URLParam(r, "userId"))
	if !ok {
		h.respondJSON(w, r, http.StatusOK, map[string]any{"hasPortfolio": false})
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{"hasPortfolio": true, "portfolio": p})
}

// SubmitPortfolio takes the multipart portfolio form. Structured parts
// (service, catalogueTags, portfolioGrid) arrive as JSON strings.
func (h *Handler) SubmitPortfolio(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	p := Portfolio{
		UserID:         r.FormValue("userId"),
		Name:           strings.TrimSpace(r.FormValue("name")),
		Email:          strings.TrimSpace(r.FormValue("email")),
		Profession:     r.FormValue("profession"),
		Headline:       r.FormValue("headline"),
		About:          r.FormValue("about"),
		WorkExperience: r.FormValue("workExperience"),
		PortfolioLink:  r.FormValue("portfolioLink"),
	}
	if hasImage, _ := strconv.ParseBool(r.FormValue("hasProfileImage")); hasImage {
		p.ProfileImage = r.FormValue("profileImagePath")
	} else {
		p.Initials = r.FormValue("profileInitials")
	}

	fields := map[string]string{}
	if p.UserID == "" {
		fields["userId"] = "required"
	}
	if p.Name == "" {
		fields["name"] = "required"
	}
	if p.Email == "" {
		fields["email"] = "required"
	}

	if v := r.FormValue("service"); v != "" {
		var svc models.ServicePayload
		if err := json.Unmarshal([]byte(v), &svc); err != nil {
			fields["service"] = "json"
		} else {
			svc.UserID = p.UserID
			p.Service = &svc
		}
	}
	if err := unmarshalField(r, "catalogueTags", &p.CatalogueTags); err != nil || len(p.CatalogueTags) == 0 {
		fields["catalogueTags"] = "required"
	}
	if err := unmarshalField(r, "portfolioGrid", &p.Grid); err != nil || !anyComplete(p.Grid) {
		fields["portfolioGrid"] = "required"
	}
	if len(fields) > 0 {
		h.respondValidation(w, r, fields)
		return
	}

	saved := h.store.SubmitPortfolio(p)
	h.logger(r).Info(r.Context(), "portfolio submitted", "user_id", p.UserID, "tags", len(p.CatalogueTags), "rows", len(p.Grid))
	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "Portfolio submitted for review",
		"status":  saved.Status,
	})
}

func unmarshalField(r *http.Request, name string, v any) error {
	return json.Unmarshal([]byte(r.FormValue(name)), v)
}

func anyComplete(rows []models.GridRow) bool {
	for _, row := range rows {
		if row.Complete() {
			return true
		}
	}
	return false
}

func (h *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID      string               `json:"userId" validate:"required"`
		Name        string               `json:"name" validate:"required"`
		Description string               `json:"description"`
		Pricing     []models.PricingTier `json:"pricing"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := h.validateStruct(&req); fields != nil {
		h.respondValidation(w, r, fields)
		return
	}
	h.store.AddService(models.ServicePayload{
		UserID:      req.UserID,
		Name:        req.Name,
		Description: req.Description,
		Pricing:     req.Pricing,
	})
	h.respondJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

// Upload serves a stored profile image.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	data, mime, err := h.store.Upload(chi.URLParam(r, "name"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
