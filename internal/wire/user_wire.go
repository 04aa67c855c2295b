package wire

import (
	"user-accounts/internal/adaptor"
	"user-accounts/internal/data/repository"
	"user-accounts/pkg/middleware"
	"user-accounts/pkg/token"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures the lookup routes. /u/all and /u/search are static
// segments, so chi matches them before /u/{id}.
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	tokens *token.Manager,
	log *zap.Logger,
) {
	r.Route("/u", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, log))

		// ==================== VERIFIED USERS ====================
		r.With(middleware.Verified(repo.User, log)).Get("/search", userHandler.Search)

		// ==================== ADMIN ROUTES ====================
		r.With(middleware.Admin(repo.User, log)).Get("/all", userHandler.GetAll)
		r.With(middleware.Admin(repo.User, log)).Get("/{id}", userHandler.GetByID)
	})
}
