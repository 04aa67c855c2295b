package middleware

import (
	"net/http"
	"strings"

	"user-accounts/internal/data/entity"
	"user-accounts/internal/data/repository"
	"user-accounts/pkg/token"
	"user-accounts/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate validates the Bearer access token and stores the user id in
// the request context.
func Authenticate(tokens *token.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Authentication credentials were not provided.")
				return
			}

			scheme, raw, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(raw), token.TypeAccess)
			if err != nil {
				logger.Warn("Access token rejected", zap.Error(err), zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Given token not valid for any token type")
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin allows only staff users. Must run after Authenticate.
func Admin(userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return requireUser(userRepo, logger, "admin", func(u *entity.User) bool { return u.IsStaff })
}

// Verified allows only users that confirmed their email. Must run after
// Authenticate.
func Verified(userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return requireUser(userRepo, logger, "verified", func(u *entity.User) bool { return u.IsVerified })
}

func requireUser(
	userRepo repository.UserRepository,
	logger *zap.Logger,
	check string,
	allowed func(*entity.User) bool,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Get user ID from context (set by Authenticate)
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication credentials were not provided.")
				return
			}

			// 2. Load user
			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Permission check: failed to get user",
					zap.Error(err), zap.String("user_id", userID), zap.String("check", check))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			// a token for a user that no longer exists is not valid
			if user == nil {
				utils.ResponseUnauthorized(w, "User not found")
				return
			}

			// 3. Check permission
			if !allowed(user) {
				logger.Warn("Permission check: access denied",
					zap.String("user_id", userID),
					zap.String("check", check),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "You do not have permission to perform this action.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
