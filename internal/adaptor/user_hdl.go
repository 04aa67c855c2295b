package adaptor

import (
	"net/http"

	"user-accounts/internal/usecase"
	"user-accounts/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// GetAll handles GET /u/all (admin only)
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get all users")
		return
	}

	utils.ResponseSuccess(w, utils.Response{Users: users})
}

// Search handles GET /u/search?query= (verified users)
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		handleServiceError(w, h.log, err, "search users")
		return
	}

	utils.ResponseSuccess(w, utils.Response{Message: "Below are your search results", Users: users})
}

// GetByID handles GET /u/{id} (admin only)
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get user")
		return
	}

	utils.ResponseSuccess(w, utils.Response{User: user})
}
