package service

import (
	"errors"
	"yatube/internal/config"
	"yatube/internal/events"
	"yatube/internal/repository"
	"yatube/internal/storage"
)

var (
	ErrNotOwner           = errors.New("редактировать пост может только автор")
	ErrInvalidGroup       = errors.New("группа не существует")
	ErrStorageUnavailable = errors.New("хранилище изображений не настроено")
	ErrUserExists         = errors.New("пользователь уже существует")
)

type Service struct {
	Post   PostService
	Follow FollowService
	Auth   AuthService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, publisher events.Publisher) *Service {
	return &Service{
		Post:   NewPostService(rep.Post, rep.Group, rep.Comment, storage, publisher),
		Follow: NewFollowService(rep.Follow, publisher),
		Auth:   NewAuthService(rep.User, cfg),
	}
}
