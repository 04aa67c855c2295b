package usecase

import (
	"user-accounts/internal/data/repository"
	"user-accounts/pkg/mailer"
	"user-accounts/pkg/token"

	"go.uber.org/zap"
)

type Service struct {
	Auth     AuthService
	Password PasswordService
	User     UserService

	background *background
}

// Credentials groups the token issuers shared by the services.
type Credentials struct {
	Tokens *token.Manager
	Resets *token.ResetTokens
}

func NewService(
	repo *repository.Repository,
	creds Credentials,
	dispatcher mailer.Dispatcher,
	log *zap.Logger,
) *Service {
	bg := newBackground(log)

	return &Service{
		Auth:       NewAuthService(repo.User, creds.Tokens, dispatcher, bg, log),
		Password:   NewPasswordService(repo.User, creds.Resets, dispatcher, log),
		User:       NewUserService(repo.User, log),
		background: bg,
	}
}

// Close waits for in-flight background work such as verification emails.
func (s *Service) Close() {
	s.background.Wait()
}
