package adaptor

import (
	"net/http"
	"strings"

	"user-accounts/internal/usecase"
	"user-accounts/pkg/apperror"
	"user-accounts/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Password *PasswordHandler
	User     *UserHandler
}

// NewHandler builds the HTTP handlers. baseURL prefixes the links mailed to
// users; when empty the request host is used.
func NewHandler(service *usecase.Service, baseURL string, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, baseURL, log),
		Password: NewPasswordHandler(service.Password, baseURL, log),
		User:     NewUserHandler(service.User, log),
	}
}

// handleServiceError writes the envelope for an error returned by a service
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := apperror.KindOf(err)

	if kind == apperror.KindInternal {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	} else {
		log.Warn(operation+" failed", zap.Error(err), zap.String("kind", string(kind)))
	}

	var fields any
	if errs := apperror.FieldErrors(err); errs != nil {
		fields = errs
	}

	utils.ResponseError(w, apperror.StatusCode(err), apperror.PublicMessage(err), fields)
}

func linkBase(configured string, r *http.Request) string {
	if configured != "" {
		return strings.TrimRight(configured, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
