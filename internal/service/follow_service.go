package service

import (
	"context"
	"log"
	"yatube/internal/events"
	"yatube/internal/models"
	"yatube/internal/repository"
)

type FollowService interface {
	Follow(ctx context.Context, userID, authorID string) (bool, error)
	Unfollow(ctx context.Context, userID, authorID string) error
	IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
}

type followService struct {
	followRepo repository.FollowRepository
	publisher  events.Publisher
}

func NewFollowService(followRepo repository.FollowRepository, publisher events.Publisher) FollowService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &followService{
		followRepo: followRepo,
		publisher:  publisher,
	}
}

// Follow reports whether a new subscription was stored. Following yourself
// or someone already followed stores nothing.
func (s *followService) Follow(ctx context.Context, userID, authorID string) (bool, error) {
	if userID == authorID {
		return false, nil
	}

	follow := &models.Follow{UserID: userID, AuthorID: authorID}

	created, err := s.followRepo.Create(ctx, follow)
	if err != nil {
		return false, err
	}

	if created {
		if err := s.publisher.PublishFollowCreated(ctx, follow); err != nil {
			log.Printf("Не удалось опубликовать событие о подписке: %v", err)
		}
	}

	return created, nil
}

func (s *followService) Unfollow(ctx context.Context, userID, authorID string) error {
	return s.followRepo.Delete(ctx, userID, authorID)
}

func (s *followService) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	if userID == "" || userID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}
