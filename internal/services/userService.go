package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/apperrors"
	"sharemark/internal/models"
	"sharemark/internal/repositories"
)

// UserService exposes the user directory used when picking share targets.
type UserService interface {
	ListShareable(ctx context.Context, requester primitive.ObjectID, search string) ([]models.ShareableUser, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListShareable(ctx context.Context, requester primitive.ObjectID, search string) ([]models.ShareableUser, error) {
	log.Debug().Str("userID", requester.Hex()).Str("search", search).Msg("Attempting to list shareable users")

	users, err := s.userRepo.FindShareable(ctx, requester, strings.TrimSpace(search))
	if err != nil {
		log.Error().Err(err).Str("userID", requester.Hex()).Msg("Error listing shareable users")
		return nil, apperrors.Internal("failed to list users", err)
	}
	return users, nil
}
