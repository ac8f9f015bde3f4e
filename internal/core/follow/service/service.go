package followapp

import (
	"context"
	"errors"

	"yatube/internal/core/apperr"
	followEntity "yatube/internal/core/follow"
	followPort "yatube/internal/ports/follow"
	userPort "yatube/internal/ports/user"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// FollowService toggles follow edges. Both directions are idempotent.
type FollowService struct {
	FollowRepository followPort.FollowRepository
	UserRepository   userPort.UserRepository
	Logger           *zap.Logger
}

func NewFollowService(followRepo followPort.FollowRepository, userRepo userPort.UserRepository, logger *zap.Logger) *FollowService {
	return &FollowService{
		FollowRepository: followRepo,
		UserRepository:   userRepo,
		Logger:           logger,
	}
}

// FollowUser makes requesterID follow username. Following yourself or
// someone already followed does nothing.
func (s *FollowService) FollowUser(ctx context.Context, requesterID uuid.UUID, username string) error {
	author, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if author.ID == requesterID {
		return nil
	}

	exists, err := s.FollowRepository.Exists(ctx, requesterID, author.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	_, err = s.FollowRepository.Create(ctx, &followEntity.Follow{
		UserID:   requesterID,
		AuthorID: author.ID,
	})
	if errors.Is(err, apperr.ErrConflict) {
		// a concurrent request inserted the same edge
		s.Logger.Debug("Follow already recorded", zap.String("author", username))
		return nil
	}
	if err != nil {
		return err
	}
	s.Logger.Info("Followed author",
		zap.String("user_id", requesterID.String()),
		zap.String("author", username),
	)
	return nil
}

// UnfollowUser removes the edge if there is one.
func (s *FollowService) UnfollowUser(ctx context.Context, requesterID uuid.UUID, username string) error {
	author, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	n, err := s.FollowRepository.Delete(ctx, requesterID, author.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.Logger.Info("Unfollowed author",
			zap.String("user_id", requesterID.String()),
			zap.String("author", username),
		)
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	return s.FollowRepository.Exists(ctx, userID, authorID)
}
