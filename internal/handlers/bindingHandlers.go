package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"votegate/internal/services"
	"votegate/internal/utils"
)

type BindingHandler struct {
	bindingService services.BindingService
}

func NewBindingHandler(bindingService services.BindingService) *BindingHandler {
	return &BindingHandler{bindingService: bindingService}
}

type bindRequest struct {
	Email  string `json:"email"`
	Token  string `json:"token"`
	Wallet string `json:"wallet"`
}

func (h *BindingHandler) Bind(w http.ResponseWriter, r *http.Request) {
	var req bindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Token == "" || req.Wallet == "" {
		utils.SendJSONError(w, "Thieu email, token hoac vi", http.StatusBadRequest)
		return
	}

	wallet, err := h.bindingService.Bind(r.Context(), req.Email, req.Token, req.Wallet)

	var conflict *services.ConflictError
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "wallet": wallet})
	case errors.As(err, &conflict):
		utils.SendJSONError(w, conflict.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrAuth):
		utils.SendJSONError(w, "Token khong hop le hoac da het han", http.StatusBadRequest)
	case errors.Is(err, services.ErrValidation):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("Wallet bind failed")
		utils.SendJSONError(w, "Internal server error", http.StatusInternalServerError)
	}
}
