package adaptor

import (
	"encoding/json"
	"net/http"

	"user-accounts/internal/dto/request"
	"user-accounts/internal/usecase"
	"user-accounts/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	baseURL string
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, baseURL string, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		baseURL: baseURL,
		log:     log,
	}
}

// SignUp handles POST /signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest

	// Decode request body
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	req.BaseURL = linkBase(h.baseURL, r)

	user, err := h.service.SignUp(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "sign up")
		return
	}

	utils.ResponseCreated(w, utils.Response{User: user})
}

// VerifyUser handles GET /verify-user?token=
func (h *AuthHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	if err := h.service.VerifyEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
		handleServiceError(w, h.log, err, "verify user")
		return
	}

	utils.ResponseSuccess(w, utils.Response{Message: "User has been successfully verified."})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	tokens, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, utils.Response{Message: "Login successful", Tokens: tokens})
}

// Refresh handles POST /token/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "refresh token")
		return
	}

	utils.ResponseSuccess(w, utils.Response{Tokens: tokens})
}
