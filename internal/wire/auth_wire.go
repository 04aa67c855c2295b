package wire

import (
	"user-accounts/internal/adaptor"
	"user-accounts/pkg/middleware"
	"user-accounts/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	passwordHandler *adaptor.PasswordHandler,
	cache *redis.Client,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/signup", authHandler.SignUp)
	r.Get("/verify-user", authHandler.VerifyUser)
	r.With(middleware.LoginRateLimit(cache, config.RateLimit.LoginPerMinute, log)).Post("/login", authHandler.Login)
	r.Post("/token/refresh", authHandler.Refresh)

	// ==================== PASSWORD RESET ====================
	r.Post("/password-reset", passwordHandler.RequestReset)
	r.Patch("/password-reset-confirm", passwordHandler.ConfirmReset)
}
