package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/codegate/gateway-server-go/internal/audit"
	apperrors "github.com/codegate/gateway-server-go/internal/errors"
	"github.com/codegate/gateway-server-go/internal/service"
	"github.com/codegate/gateway-server-go/internal/util"
)

type AuthHandler struct {
	verificationService *service.VerificationService
}

func NewAuthHandler(verificationService *service.VerificationService) *AuthHandler {
	return &AuthHandler{
		verificationService: verificationService,
	}
}

// POST /api/verify-code
// Core API: validate an access code and bind it to the requesting device.
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code     string `json:"code"`
		DeviceID string `json:"deviceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if req.Code == "" || req.DeviceID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and deviceId are required"})
		return
	}

	result, err := h.verificationService.Verify(r.Context(), req.Code, req.DeviceID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeDeviceConflict {
			audit.LogFromRequest(r, audit.Event{
				Type:     audit.EventDeviceConflict,
				Code:     util.MaskCode(req.Code),
				DeviceID: req.DeviceID,
			})
			writeError(w, err)
			return
		}

		log.Error().Err(err).Msg("failed to verify code")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	eventType := audit.EventVerifySuccess
	if !result.Valid {
		eventType = audit.EventVerifyRejected
	}
	audit.LogFromRequest(r, audit.Event{
		Type:     eventType,
		Code:     util.MaskCode(req.Code),
		DeviceID: req.DeviceID,
	})

	writeJSON(w, http.StatusOK, result)
}

// POST /api/logout
// Clears the device binding for a code. No device ownership check is made:
// logout is available to whoever knows the code.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code is required"})
		return
	}

	if err := h.verificationService.Logout(r.Context(), req.Code); err != nil {
		log.Error().Err(err).Msg("failed to logout")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type: audit.EventLogout,
		Code: util.MaskCode(req.Code),
	})

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
