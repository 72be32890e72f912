package handler

import (
	"encoding/json"
	"net/http"

	"github.com/storefront-api/internal/application/theme"
	"github.com/storefront-api/internal/domain"
	s3infra "github.com/storefront-api/internal/infrastructure/s3"
)

// ThemeHandler handles the public theme read and admin customization.
type ThemeHandler struct {
	svc theme.Service
}

func NewThemeHandler(svc theme.Service) *ThemeHandler { return &ThemeHandler{svc: svc} }

func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Get(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *ThemeHandler) LogoURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.LogoURL(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *ThemeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t, err := h.svc.Update(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *ThemeHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "logo file required")
		return
	}
	defer file.Close()

	t, err := h.svc.UploadLogo(r.Context(), header.Filename,
		s3infra.DetectContentType(header.Filename), file)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
