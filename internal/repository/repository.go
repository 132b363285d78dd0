package repository

import (
	"context"
	"errors"
	"time"
	"yatube/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("запись не найдена")

// uniqueViolation is the postgres SQLSTATE for a unique constraint conflict.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	VerifyPassword(ctx context.Context, username, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

// PostFilter narrows a post listing; empty fields are ignored.
type PostFilter struct {
	GroupID    string
	AuthorID   string
	FollowerID string
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID string) error
	Count(ctx context.Context, filter PostFilter) (int, error)
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error)
}

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, groupID string) (*models.Group, error)
	GetBySlug(ctx context.Context, slug string) (*models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	Delete(ctx context.Context, groupID string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByPostID(ctx context.Context, postID string) ([]models.Comment, error)
}

type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) (bool, error)
	Exists(ctx context.Context, userID, authorID string) (bool, error)
	Delete(ctx context.Context, userID, authorID string) error
}

type Repository struct {
	User    UserRepository
	Post    PostRepository
	Group   GroupRepository
	Comment CommentRepository
	Follow  FollowRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:    NewUserRepository(db),
		Post:    NewPostRepository(db),
		Group:   NewGroupRepository(db),
		Comment: NewCommentRepository(db),
		Follow:  NewFollowRepository(db),
	}
}
