package usecase

import (
	"context"
	"errors"
	"time"

	"user-accounts/internal/data/entity"
	"user-accounts/internal/data/repository"
	"user-accounts/internal/dto/request"
	"user-accounts/internal/dto/response"
	"user-accounts/pkg/apperror"
	"user-accounts/pkg/mailer"
	"user-accounts/pkg/token"
	"user-accounts/pkg/utils"

	"go.uber.org/zap"
)

// maxIDAttempts bounds retries when a generated id collides.
const maxIDAttempts = 5

const (
	msgInvalidCredentials = "Invalid credentials. Try again."
	msgInvalidToken       = "Invalid token."
	msgLinkExpired        = "Activation link expired."
	msgTokenExpired       = "Token expired."
)

type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest) (*response.UserResponse, error)
	VerifyEmail(ctx context.Context, tokenString string) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.TokensResponse, error)
	Refresh(ctx context.Context, req *request.RefreshRequest) (*response.TokensResponse, error)
	CreateSuperuser(ctx context.Context, req *request.SignUpRequest) (*response.UserResponse, error)
}

type authService struct {
	userRepo   repository.UserRepository
	tokens     *token.Manager
	dispatcher mailer.Dispatcher
	background *background
	log        *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *token.Manager,
	dispatcher mailer.Dispatcher,
	bg *background,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		tokens:     tokens,
		dispatcher: dispatcher,
		background: bg,
		log:        log,
	}
}

func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest) (*response.UserResponse, error) {
	user, err := s.createUser(ctx, req, false)
	if err != nil {
		return nil, err
	}

	// verification link is mailed in the background, failures are only logged
	verifyToken, err := s.tokens.IssueVerification(user.ID)
	if err != nil {
		s.log.Error("Failed to issue verification token", zap.Error(err), zap.String("user_id", user.ID))
	} else {
		link := buildLink(req.BaseURL, "/verify-user", "token", verifyToken)
		username, email := user.Username, user.Email
		s.background.Go("send verification email", func(ctx context.Context) error {
			return s.dispatcher.SendVerification(ctx, username, email, link)
		})
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) CreateSuperuser(ctx context.Context, req *request.SignUpRequest) (*response.UserResponse, error) {
	user, err := s.createUser(ctx, req, true)
	if err != nil {
		return nil, err
	}

	s.log.Info("Superuser created",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) VerifyEmail(ctx context.Context, tokenString string) error {
	// 1. Check signature, expiry and token type
	claims, err := s.tokens.Parse(tokenString, token.TypeVerification)
	if err != nil {
		s.log.Warn("Verification token rejected", zap.Error(err))
		if errors.Is(err, token.ErrExpiredToken) {
			return apperror.Token(msgLinkExpired, err)
		}
		return apperror.Token(msgInvalidToken, err)
	}

	// 2. Find user
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		s.log.Error("Failed to find user for verification", zap.Error(err), zap.String("user_id", claims.UserID))
		return apperror.Internal("failed to verify user", err)
	}
	if user == nil {
		return apperror.NotFound("User not found")
	}

	// 3. Verifying twice is a no-op
	if user.IsVerified {
		s.log.Info("User already verified", zap.String("user_id", user.ID))
		return nil
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		s.log.Error("Failed to mark user verified", zap.Error(err), zap.String("user_id", user.ID))
		return apperror.Internal("failed to verify user", err)
	}

	s.log.Info("Email verified",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))

	return nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.TokensResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, apperror.Invalid(errs)
	}

	// 2. Find user, unknown email and wrong password answer the same
	email := normalizeEmail(req.Email)
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, apperror.Internal("failed to find user", err)
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", email))
		return nil, apperror.Authentication(msgInvalidCredentials)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID))
		return nil, apperror.Authentication(msgInvalidCredentials)
	}

	// 3. Issue tokens
	pair, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		s.log.Error("Failed to issue tokens", zap.Error(err), zap.String("user_id", user.ID))
		return nil, apperror.Internal("failed to issue tokens", err)
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.log.Warn("Failed to update last login", zap.Error(err), zap.String("user_id", user.ID))
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))

	return &response.TokensResponse{Refresh: pair.Refresh, Access: pair.Access}, nil
}

func (s *authService) Refresh(ctx context.Context, req *request.RefreshRequest) (*response.TokensResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperror.Invalid(errs)
	}

	claims, err := s.tokens.Parse(req.Refresh, token.TypeRefresh)
	if err != nil {
		s.log.Warn("Refresh token rejected", zap.Error(err))
		if errors.Is(err, token.ErrExpiredToken) {
			return nil, apperror.Token(msgTokenExpired, err)
		}
		return nil, apperror.Token(msgInvalidToken, err)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		s.log.Error("Failed to find user for refresh", zap.Error(err), zap.String("user_id", claims.UserID))
		return nil, apperror.Internal("failed to refresh token", err)
	}
	if user == nil {
		return nil, apperror.Token(msgInvalidToken, nil)
	}

	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		s.log.Error("Failed to issue access token", zap.Error(err), zap.String("user_id", user.ID))
		return nil, apperror.Internal("failed to refresh token", err)
	}

	return &response.TokensResponse{Access: access}, nil
}

// createUser validates req and inserts the user, retrying when the random
// id collides with an existing one.
func (s *authService) createUser(ctx context.Context, req *request.SignUpRequest, superuser bool) (*entity.User, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Sign up validation failed", zap.Any("errors", errs))
		return nil, apperror.Invalid(errs)
	}

	dob, err := time.Parse(response.DateLayout, req.DateOfBirth)
	if err != nil {
		return nil, apperror.Validation("date_of_birth", "Date has wrong format. Use YYYY-MM-DD")
	}

	// 2. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, apperror.Internal("failed to process password", err)
	}

	// 3. Build entity
	user := &entity.User{
		Base: entity.Base{
			CreatedAt: time.Now().UTC(),
		},
		Name:          req.Name,
		Gender:        req.Gender,
		Email:         normalizeEmail(req.Email),
		Username:      req.Username,
		PhoneNumber:   req.PhoneNumber,
		DateOfBirth:   dob,
		Address:       req.Address,
		LicenseNumber: req.LicenseNumber,
		PasswordHash:  hashedPassword,
		IsVerified:    superuser,
		IsStaff:       superuser,
		IsSuperuser:   superuser,
	}

	// 4. Save, uniqueness is enforced by the table
	for attempt := 1; ; attempt++ {
		user.ID = utils.GenerateUserID()

		err = s.userRepo.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrDuplicateID) || attempt == maxIDAttempts {
			break
		}
		s.log.Warn("Generated user id collided, retrying", zap.String("user_id", user.ID))
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		s.log.Warn("User rejected by store", zap.String("field", appErr.Field), zap.String("reason", appErr.Message))
		return nil, err
	}

	s.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
	return nil, apperror.Internal("failed to create account", err)
}
