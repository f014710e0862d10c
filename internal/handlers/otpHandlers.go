package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"votegate/internal/services"
	"votegate/internal/utils"
)

type OTPHandler struct {
	otpService services.OTPService
}

func NewOTPHandler(otpService services.OTPService) *OTPHandler {
	return &OTPHandler{otpService: otpService}
}

type sendRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.otpService.Send(r.Context(), req.Email)
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
	case errors.Is(err, services.ErrValidation):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrTooSoon):
		utils.SendJSONError(w, "Vui long cho truoc khi gui lai ma", http.StatusTooManyRequests)
	case errors.Is(err, services.ErrNoTransport), errors.Is(err, services.ErrDelivery):
		log.Error().Err(err).Msg("OTP dispatch failed")
		utils.SendJSONError(w, "Khong gui duoc email xac thuc", http.StatusInternalServerError)
	default:
		log.Error().Err(err).Msg("OTP send failed")
		utils.SendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.otpService.Verify(r.Context(), req.Email, req.Code)
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "token": token})
	case errors.Is(err, services.ErrAuth):
		utils.SendJSONError(w, "Ma khong hop le hoac da het han", http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("OTP verify failed")
		utils.SendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
