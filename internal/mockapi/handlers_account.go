package mockapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/voatnetwork/voat/internal/client/models"
)

type userReply struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	User    models.User `json:"user"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Location = strings.TrimSpace(req.Location)
	if fields := h.validateStruct(&req); fields != nil {
		h.respondValidation(w, r, fields)
		return
	}

	user, code, err := h.store.Signup(req)
	switch {
	case errors.Is(err, ErrEmailTaken):
		h.respondError(w, r, http.StatusConflict, "User already exists")
		return
	case err != nil:
		h.logger(r).Error(r.Context(), "signup", "error", err)
		h.respondError(w, r, http.StatusInternalServerError, "Signup failed")
		return
	}

	h.logger(r).Info(r.Context(), "otp issued", "email", req.Email, "otp", code)
	h.respondJSON(w, r, http.StatusOK, userReply{Success: true, Message: "OTP sent to your email", User: user})
}

func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := h.validateStruct(&req); fields != nil {
		h.respondValidation(w, r, fields)
		return
	}

	code, err := h.store.ResendOtp(req.Email)
	switch {
	case errors.Is(err, ErrNoPendingSignup):
		h.respondError(w, r, http.StatusNotFound, "No pending registration for this email")
		return
	case err != nil:
		h.logger(r).Error(r.Context(), "resend otp", "error", err)
		h.respondError(w, r, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	h.logger(r).Info(r.Context(), "otp issued", "email", req.Email, "otp", code)
	h.respondJSON(w, r, http.StatusOK, map[string]any{"success": true, "message": "OTP sent"})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required"`
		Otp   string `json:"otp" validate:"required,len=6,numeric"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := h.validateStruct(&req); fields != nil {
		h.respondValidation(w, r, fields)
		return
	}

	user, err := h.store.VerifyOtp(req.Email, req.Otp)
	switch {
	case errors.Is(err, ErrInvalidOtp):
		h.respondError(w, r, http.StatusBadRequest, "Invalid OTP")
		return
	case errors.Is(err, ErrOtpExpired):
		h.respondError(w, r, http.StatusBadRequest, "OTP expired. Please request a new one.")
		return
	case errors.Is(err, ErrNoPendingSignup):
		h.respondError(w, r, http.StatusNotFound, "No pending registration for this email")
		return
	case err != nil:
		h.respondError(w, r, http.StatusInternalServerError, "Verification failed")
		return
	}

	h.logger(r).Info(r.Context(), "account created", "user_id", string(user.ID))
	h.respondJSON(w, r, http.StatusOK, userReply{Success: true, Message: "Registration complete", User: user})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := h.validateStruct(&req); fields != nil {
		h.respondValidation(w, r, fields)
		return
	}

	user, err := h.store.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		h.respondError(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	case err != nil:
		h.logger(r).Error(r.Context(), "login", "error", err)
		h.respondError(w, r, http.StatusInternalServerError, "Login failed")
		return
	}
	h.respondJSON(w, r, http.StatusOK, userReply{Success: true, User: user})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.User(chi.URLParam(r, "userId"))
	if err != nil {
		h.respondError(w, r, http.StatusNotFound, "User not found")
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]any{"user": user})
}

func (h *Handler) UpdateUserData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string `json:"userId" validate:"required"`
		VoatID     string `json:"voatId"`
		VoatPoints int    `json:"voatPoints" validate:"gte=0"`
		Badge      string `json:"badge"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if fields := h.validateStruct(&req); fields != nil {
		h.respondValidation(w, r, fields)
		return
	}

	user, err := h.store.UpdateUserData(req.UserID, req.VoatID, req.VoatPoints)
	if err != nil {
		h.respondError(w, r, http.StatusNotFound, "User not found")
		return
	}
	h.respondJSON(w, r, http.StatusOK, userReply{Success: true, User: user})
}

// UpdateProfile accepts the multipart profile form with an optional image.
// The stored image path is returned as profileImage.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.respondError(w, r, http.StatusBadRequest, "Invalid form data")
		return
	}

	userID := r.FormValue("userId")
	if userID == "" {
		h.respondValidation(w, r, map[string]string{"userId": "required"})
		return
	}

	ch := ProfileChange{
		Name:       strings.TrimSpace(r.FormValue("name")),
		Email:      strings.TrimSpace(r.FormValue("email")),
		Role:       r.FormValue("role"),
		Profession: r.FormValue("profession"),
		Phone:      r.FormValue("phone"),
	}

	file, fh, err := r.FormFile("profileImage")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		h.respondError(w, r, http.StatusBadRequest, "Invalid profile image")
		return
	default:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "Invalid profile image")
			return
		}
		mt := mimetype.Detect(data)
		if !strings.HasPrefix(mt.String(), "image/") {
			h.respondError(w, r, http.StatusUnsupportedMediaType, "Profile image must be an image")
			return
		}
		path := "/uploads/" + h.store.SaveUpload(fh.Filename, data, mt.String())
		ch.Image = &path
	}

	user, err := h.store.UpdateProfile(userID, ch)
	switch {
	case errors.Is(err, ErrUserNotFound):
		h.respondError(w, r, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, ErrEmailTaken):
		h.respondError(w, r, http.StatusConflict, "Email already in use")
		return
	case err != nil:
		h.respondError(w, r, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	h.respondJSON(w, r, http.StatusOK, map[string]any{
		"success":      true,
		"message":      "Profile updated",
		"profileImage": user.ProfileImage,
		"user":         user,
	})
}
