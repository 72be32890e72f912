package handler

import (
	"encoding/json"
	"net/http"

	"github.com/storefront-api/internal/application/phoneauth"
	"github.com/storefront-api/internal/domain"
)

// PhoneAuthHandler handles the phone OTP login flow.
type PhoneAuthHandler struct {
	svc phoneauth.Service
}

func NewPhoneAuthHandler(svc phoneauth.Service) *PhoneAuthHandler {
	return &PhoneAuthHandler{svc: svc}
}

func (h *PhoneAuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req domain.RequestCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.RequestCode(r.Context(), req.Phone); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification code sent"})
}

func (h *PhoneAuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req domain.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.VerifyCode(r.Context(), req.Phone, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{
		Bearer:       result.Bearer,
		SessionToken: result.Session.SessionToken,
		Session:      result.Session,
	})
}
