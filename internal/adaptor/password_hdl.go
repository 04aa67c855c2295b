package adaptor

import (
	"encoding/json"
	"net/http"

	"user-accounts/internal/dto/request"
	"user-accounts/internal/usecase"
	"user-accounts/pkg/utils"

	"go.uber.org/zap"
)

type PasswordHandler struct {
	service usecase.PasswordService
	baseURL string
	log     *zap.Logger
}

func NewPasswordHandler(service usecase.PasswordService, baseURL string, log *zap.Logger) *PasswordHandler {
	return &PasswordHandler{
		service: service,
		baseURL: baseURL,
		log:     log,
	}
}

// RequestReset handles POST /password-reset
func (h *PasswordHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordResetRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	req.BaseURL = linkBase(h.baseURL, r)

	if err := h.service.RequestReset(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "request password reset")
		return
	}

	utils.ResponseSuccess(w, utils.Response{Message: "Password reset email sent"})
}

// ConfirmReset handles PATCH /password-reset-confirm
func (h *PasswordHandler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req request.PasswordResetConfirmRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ConfirmReset(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "confirm password reset")
		return
	}

	utils.ResponseSuccess(w, utils.Response{Message: "Password reset successful"})
}
