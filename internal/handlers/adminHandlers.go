package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/rs/zerolog/log"

	"votegate/internal/services"
	"votegate/internal/utils"
)

type AdminHandler struct {
	adminService services.AdminService
	apiKey       string
}

func NewAdminHandler(adminService services.AdminService, apiKey string) *AdminHandler {
	return &AdminHandler{adminService: adminService, apiKey: apiKey}
}

// authorized compares x-api-key against the shared secret in constant time.
// Missing key, wrong key and unconfigured server all answer the same 401.
func (h *AdminHandler) authorized(r *http.Request) bool {
	if h.apiKey == "" {
		return false
	}
	got := r.Header.Get("x-api-key")
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.apiKey)) == 1
}

func (h *AdminHandler) ListConflicts(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	records, err := h.adminService.ListConflicts(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list conflict records")
		utils.SendJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "data": records})
}
