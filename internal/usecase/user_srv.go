package usecase

import (
	"context"
	"strings"

	"user-accounts/internal/data/repository"
	"user-accounts/internal/dto/response"
	"user-accounts/pkg/apperror"

	"go.uber.org/zap"
)

type UserService interface {
	GetByID(ctx context.Context, id string) (*response.UserResponse, error)
	GetAll(ctx context.Context) ([]response.UserResponse, error)
	Search(ctx context.Context, query string) ([]response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (us *userService) GetByID(ctx context.Context, id string) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id))
		return nil, apperror.Internal("failed to get user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetAll(ctx context.Context) ([]response.UserResponse, error) {
	users, err := us.userRepo.FindAll(ctx)
	if err != nil {
		us.log.Error("Failed to get all users", zap.Error(err))
		return nil, apperror.Internal("failed to get users", err)
	}

	us.log.Info("Users retrieved", zap.Int("count", len(users)))
	return response.UsersToResponse(users), nil
}

func (us *userService) Search(ctx context.Context, query string) ([]response.UserResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.Validation("query", "Please provide a search query")
	}

	users, err := us.userRepo.Search(ctx, query)
	if err != nil {
		us.log.Error("Failed to search users", zap.Error(err), zap.String("query", query))
		return nil, apperror.Internal("failed to search users", err)
	}

	us.log.Info("Users searched", zap.String("query", query), zap.Int("count", len(users)))
	return response.UsersToResponse(users), nil
}
