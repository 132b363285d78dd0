package repository

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"time"
	"yatube/internal/models"
)

type CommentRepositoryImpl struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepositoryImpl {
	return &CommentRepositoryImpl{db: db}
}

func (r *CommentRepositoryImpl) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (comment_id, post_id, author_id, text, created_at)
		VALUES (:comment_id, :post_id, :author_id, :text, :created_at)
	`

	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}

	return nil
}

// GetByPostID returns the comments in the order they were stored.
func (r *CommentRepositoryImpl) GetByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	query := `
		SELECT c.comment_id, c.post_id, c.author_id, u.username AS author_username, c.text, c.created_at
		FROM comments c
		JOIN users u ON u.user_id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at
	`

	comments := []models.Comment{}
	err := r.db.SelectContext(ctx, &comments, query, postID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	return comments, nil
}
