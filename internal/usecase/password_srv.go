package usecase

import (
	"context"

	"user-accounts/internal/data/entity"
	"user-accounts/internal/data/repository"
	"user-accounts/internal/dto/request"
	"user-accounts/pkg/apperror"
	"user-accounts/pkg/mailer"
	"user-accounts/pkg/token"
	"user-accounts/pkg/utils"

	"go.uber.org/zap"
)

const msgUserNotFound = "User not found."

type PasswordService interface {
	RequestReset(ctx context.Context, req *request.PasswordResetRequest) error
	ConfirmReset(ctx context.Context, req *request.PasswordResetConfirmRequest) error
}

type passwordService struct {
	userRepo   repository.UserRepository
	resets     *token.ResetTokens
	dispatcher mailer.Dispatcher
	log        *zap.Logger
}

func NewPasswordService(
	userRepo repository.UserRepository,
	resets *token.ResetTokens,
	dispatcher mailer.Dispatcher,
	log *zap.Logger,
) PasswordService {
	return &passwordService{
		userRepo:   userRepo,
		resets:     resets,
		dispatcher: dispatcher,
		log:        log,
	}
}

func (s *passwordService) RequestReset(ctx context.Context, req *request.PasswordResetRequest) error {
	if req.Email == "" {
		return apperror.Validation("", "Email is required")
	}

	email := normalizeEmail(req.Email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for password reset", zap.Error(err), zap.String("email", email))
		return apperror.Internal("failed to find user", err)
	}
	if user == nil {
		return apperror.NotFound(msgUserNotFound)
	}

	link := buildLink(req.BaseURL, "/password-reset-confirm",
		"uid", utils.EncodeUID(user.ID),
		"token", s.resets.Make(resetState(user)),
	)

	// sent inline so the caller learns about delivery failures
	if err := s.dispatcher.SendPasswordReset(ctx, user.Username, user.Email, link); err != nil {
		s.log.Error("Failed to send password reset email", zap.Error(err), zap.String("user_id", user.ID))
		return apperror.Internal("failed to send password reset email", err)
	}

	s.log.Info("Password reset requested", zap.String("user_id", user.ID))
	return nil
}

func (s *passwordService) ConfirmReset(ctx context.Context, req *request.PasswordResetConfirmRequest) error {
	// 1. Validate
	if req.UID == "" || req.Token == "" || req.Password == "" {
		return apperror.Validation("", "All fields are required")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.Invalid(errs)
	}

	// 2. Resolve uid
	userID, err := utils.DecodeUID(req.UID)
	if err != nil {
		s.log.Warn("Undecodable uid in password reset", zap.String("uid", req.UID))
		return apperror.NotFound(msgUserNotFound)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user for password reset", zap.Error(err), zap.String("user_id", userID))
		return apperror.Internal("failed to find user", err)
	}
	if user == nil {
		return apperror.NotFound(msgUserNotFound)
	}

	// 3. Token must match the user's current state
	if !s.resets.Check(resetState(user), req.Token) {
		s.log.Warn("Password reset token rejected", zap.String("user_id", user.ID))
		return apperror.Token(msgInvalidToken, nil)
	}

	// 4. Store new password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return apperror.Internal("failed to process password", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID))
		return apperror.Internal("failed to reset password", err)
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID))
	return nil
}

func resetState(user *entity.User) token.ResetState {
	return token.ResetState{
		UserID:       user.ID,
		PasswordHash: user.PasswordHash,
		Email:        user.Email,
		LastLogin:    user.LastLogin,
	}
}
