package repository

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"time"
	"yatube/internal/models"
)

type followRepository struct {
	db *sqlx.DB
}

func NewFollowRepository(db *sqlx.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts the pair unless it already exists and reports whether a row
// was written.
func (r *followRepository) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	query := `
		INSERT INTO follows (follow_id, user_id, author_id, created_at)
		VALUES (:follow_id, :user_id, :author_id, :created_at)
		ON CONFLICT (user_id, author_id) DO NOTHING
	`

	if follow.FollowID == "" {
		follow.FollowID = uuid.New().String()
	}

	if follow.CreatedAt.IsZero() {
		follow.CreatedAt = time.Now()
	}

	result, err := r.db.NamedExecContext(ctx, query, follow)
	if err != nil {
		return false, fmt.Errorf("ошибка при создании подписки: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке вставленных строк: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("ошибка при проверке подписки: %w", err)
	}

	return exists, nil
}

func (r *followRepository) Delete(ctx context.Context, userID, authorID string) error {
	query := `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, authorID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении подписки: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("подписка %s на %s: %w", userID, authorID, ErrNotFound)
	}

	return nil
}
