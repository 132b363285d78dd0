package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"yatube/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const postSelect = `
	SELECT p.post_id, p.text, p.created_at, p.image, p.author_id, p.group_id,
	       u.username AS author_username, g.slug AS group_slug, g.title AS group_title
	FROM posts p
	JOIN users u ON u.user_id = p.author_id
	LEFT JOIN post_groups g ON g.group_id = p.group_id
`

type PostRepositoryImpl struct {
	DB *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{DB: db}
}

// where renders the filter as a WHERE clause with positional arguments.
func (f PostFilter) where() (string, []interface{}) {
	var conditions []string
	var args []interface{}

	add := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, strings.ReplaceAll(condition, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.GroupID != "" {
		add("p.group_id = ?", f.GroupID)
	}
	if f.AuthorID != "" {
		add("p.author_id = ?", f.AuthorID)
	}
	if f.FollowerID != "" {
		add("p.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)", f.FollowerID)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
        INSERT INTO posts
        (post_id, text, created_at, image, author_id, group_id)
        VALUES
        (:post_id, :text, :created_at, :image, :author_id, :group_id)
    `

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}

	_, err := r.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	return nil
}

// validPostID reports whether id can be a posts.post_id; anything else would be
// rejected by postgres with a cast error instead of matching no row.
func validPostID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	if !validPostID(postID) {
		return nil, fmt.Errorf("пост с ID %s: %w", postID, ErrNotFound)
	}

	query := postSelect + ` WHERE p.post_id = $1`

	var post models.Post
	err := r.DB.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %s: %w", postID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

// Update rewrites the editable fields; created_at and author_id never change.
func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			text = :text,
			image = :image,
			group_id = :group_id
		WHERE post_id = :post_id AND author_id = :author_id
	`

	result, err := r.DB.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост %s: %w", post.PostID, ErrNotFound)
	}

	return nil
}

// Delete removes the post; its comments go with it by cascade.
func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) error {
	if !validPostID(postID) {
		return fmt.Errorf("пост %s: %w", postID, ErrNotFound)
	}

	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := r.DB.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост %s: %w", postID, ErrNotFound)
	}

	return nil
}

func (r *PostRepositoryImpl) Count(ctx context.Context, filter PostFilter) (int, error) {
	where, args := filter.where()
	query := `SELECT COUNT(*) FROM posts p` + where

	var count int
	err := r.DB.GetContext(ctx, &count, query, args...)
	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте постов: %w", err)
	}

	return count, nil
}

// List returns one page of posts, newest first.
func (r *PostRepositoryImpl) List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error) {
	where, args := filter.where()
	args = append(args, limit, offset)
	query := postSelect + where +
		fmt.Sprintf(` ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	posts := []models.Post{}
	err := r.DB.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	return posts, nil
}
