package wire

import (
	"fmt"
	"net/http"

	"user-accounts/internal/adaptor"
	"user-accounts/internal/data/repository"
	"user-accounts/internal/usecase"
	"user-accounts/pkg/mailer"
	"user-accounts/pkg/middleware"
	"user-accounts/pkg/token"
	"user-accounts/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dependencies are the collaborators built by main and shared by the routes.
// A nil Mailer is replaced by one built from the email config; a nil Redis
// disables the login rate limit.
type Dependencies struct {
	Repo   *repository.Repository
	Mailer mailer.Dispatcher
	Redis  *redis.Client
}

// App holds the router and the services behind it
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Tokens  *token.Manager
}

// Close waits for background work started by the services
func (a *App) Close() {
	a.Service.Close()
}

// Wiring builds services, handlers and routes
func Wiring(deps Dependencies, config *utils.Config, logger *zap.Logger) (*App, error) {
	tokens, err := token.NewManager(
		config.JWT.Secret,
		config.JWT.Algorithm,
		config.JWT.AccessTTL,
		config.JWT.RefreshTTL,
		config.JWT.VerifyTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	dispatcher := deps.Mailer
	if dispatcher == nil {
		dispatcher = mailer.NewDispatcher(config.Email, logger)
	}

	creds := usecase.Credentials{
		Tokens: tokens,
		Resets: token.NewResetTokens(config.JWT.Secret, config.JWT.PasswordResetTimeout),
	}

	// Initialize services and handlers
	service := usecase.NewService(deps.Repo, creds, dispatcher, logger)
	handler := adaptor.NewHandler(service, config.App.BaseURL, logger)

	router := setupRouter(handler, deps, tokens, config, logger)

	return &App{
		Router:  router,
		Service: service,
		Tokens:  tokens,
	}, nil
}

func setupRouter(
	handler *adaptor.Handler,
	deps Dependencies,
	tokens *token.Manager,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, handler.Password, deps.Redis, config, logger)
	wireUser(r, handler.User, deps.Repo, tokens, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, utils.Response{Message: "OK"})
	})

	// keep the envelope for unknown routes too
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseError(w, http.StatusMethodNotAllowed, "Method not allowed.", nil)
	})

	return r
}
