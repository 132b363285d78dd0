package handlers

import (
	"yatube/internal/config"
	"yatube/internal/forms"
	"yatube/internal/paginator"
	"yatube/internal/repository"
	"yatube/internal/service"

	"github.com/go-playground/validator/v10"
)

// HealthChecker reports whether the backing store answers.
type HealthChecker interface {
	HealthCheck() error
}

type Handlers struct {
	PostService   service.PostService
	FollowService service.FollowService
	AuthService   service.AuthService
	UserRepo      repository.UserRepository
	PostRepo      repository.PostRepository
	GroupRepo     repository.GroupRepository
	CommentRepo   repository.CommentRepository
	Paginator     *paginator.Paginator
	DB            HealthChecker
	Cfg           *config.Config
	Validate      *validator.Validate
}

func NewHandlers(repo *repository.Repository, service *service.Service, db HealthChecker, config *config.Config) *Handlers {
	return &Handlers{
		PostService:   service.Post,
		FollowService: service.Follow,
		AuthService:   service.Auth,
		UserRepo:      repo.User,
		PostRepo:      repo.Post,
		GroupRepo:     repo.Group,
		CommentRepo:   repo.Comment,
		Paginator:     paginator.New(config.PostsPerPage),
		DB:            db,
		Cfg:           config,
		Validate:      forms.NewValidator(),
	}
}
