package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"yatube/internal/events"
	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/storage"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	AuthorID string
	Text     string
	GroupID  *string
	Image    *storage.Upload
}

type UpdatePostRequest struct {
	PostID   string
	EditorID string
	Text     string
	GroupID  *string
	Image    *storage.Upload
}

type PostService interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*models.Post, error)
	AddComment(ctx context.Context, postID, authorID, text string) (*models.Comment, error)
}

type postService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	commentRepo repository.CommentRepository
	storage     storage.Storage
	publisher   events.Publisher
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	commentRepo repository.CommentRepository,
	storage storage.Storage,
	publisher events.Publisher,
) PostService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &postService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
		storage:     storage,
		publisher:   publisher,
	}
}

func (p *postService) checkGroup(ctx context.Context, groupID *string) error {
	if groupID == nil {
		return nil
	}

	_, err := p.groupRepo.GetByID(ctx, *groupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidGroup
		}
		return err
	}
	return nil
}

// uploadImage stores the upload under postID and returns the object name and
// public URL; both are empty when there is nothing to upload.
func (p *postService) uploadImage(ctx context.Context, postID string, upload *storage.Upload) (string, string, error) {
	if upload == nil {
		return "", "", nil
	}
	if p.storage == nil {
		return "", "", ErrStorageUnavailable
	}

	objectName, imageURL, err := p.storage.UploadImage(ctx, postID, upload)
	if err != nil {
		return "", "", fmt.Errorf("ошибка загрузки изображения в MinIO: %w", err)
	}
	return objectName, imageURL, nil
}

func (p *postService) discardImage(ctx context.Context, objectName string) {
	if objectName == "" {
		return
	}
	if err := p.storage.DeleteImage(ctx, objectName); err != nil {
		log.Printf("Предупреждение: не удалось удалить из MinIO: %v", err)
	}
}

func (p *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	if err := p.checkGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		PostID:   uuid.New().String(),
		AuthorID: req.AuthorID,
		Text:     req.Text,
		GroupID:  req.GroupID,
	}

	objectName, imageURL, err := p.uploadImage(ctx, post.PostID, req.Image)
	if err != nil {
		return nil, err
	}
	if imageURL != "" {
		post.Image = &imageURL
	}

	err = p.postRepo.Create(ctx, post)
	if err != nil {
		p.discardImage(ctx, objectName)
		return nil, fmt.Errorf("ошибка сохранения поста в БД: %w", err)
	}

	if err := p.publisher.PublishPostCreated(ctx, post); err != nil {
		log.Printf("Не удалось опубликовать событие о посте %s: %v", post.PostID, err)
	}

	return post, nil
}

// UpdatePost rewrites text, group and optionally the image of a post owned by
// the editor. A post without a new upload keeps its current image.
func (p *postService) UpdatePost(ctx context.Context, req UpdatePostRequest) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != req.EditorID {
		return post, ErrNotOwner
	}

	if err := p.checkGroup(ctx, req.GroupID); err != nil {
		return nil, err
	}

	objectName, imageURL, err := p.uploadImage(ctx, post.PostID, req.Image)
	if err != nil {
		return nil, err
	}
	if imageURL != "" {
		post.Image = &imageURL
	}

	post.Text = req.Text
	post.GroupID = req.GroupID

	err = p.postRepo.Update(ctx, post)
	if err != nil {
		p.discardImage(ctx, objectName)
		return nil, err
	}

	return post, nil
}

func (p *postService) AddComment(ctx context.Context, postID, authorID, text string) (*models.Comment, error) {
	if _, err := p.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}

	err := p.commentRepo.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	return comment, nil
}
