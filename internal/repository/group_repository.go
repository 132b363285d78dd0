package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"yatube/internal/models"
)

// ErrSlugTaken is returned when a group slug is already in use.
var ErrSlugTaken = errors.New("адрес группы уже занят")

type groupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO post_groups (group_id, title, slug, description)
		VALUES (:group_id, :title, :slug, :description)
	`

	if group.GroupID == "" {
		group.GroupID = uuid.New().String()
	}

	_, err := r.db.NamedExecContext(ctx, query, group)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", group.Slug, ErrSlugTaken)
		}
		return fmt.Errorf("ошибка при создании группы: %w", err)
	}

	return nil
}

func (r *groupRepository) GetByID(ctx context.Context, groupID string) (*models.Group, error) {
	query := `SELECT group_id, title, slug, description FROM post_groups WHERE group_id = $1`

	var group models.Group
	err := r.db.GetContext(ctx, &group, query, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("группа с ID %s: %w", groupID, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении группы: %w", err)
	}

	return &group, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	query := `SELECT group_id, title, slug, description FROM post_groups WHERE slug = $1`

	var group models.Group
	err := r.db.GetContext(ctx, &group, query, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("группа %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении группы: %w", err)
	}

	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]models.Group, error) {
	query := `SELECT group_id, title, slug, description FROM post_groups ORDER BY title`

	groups := []models.Group{}
	err := r.db.SelectContext(ctx, &groups, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении групп: %w", err)
	}

	return groups, nil
}

// Delete removes the group; its posts stay with group_id set to NULL.
func (r *groupRepository) Delete(ctx context.Context, groupID string) error {
	query := `DELETE FROM post_groups WHERE group_id = $1`

	result, err := r.db.ExecContext(ctx, query, groupID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении группы: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("группа %s: %w", groupID, ErrNotFound)
	}

	return nil
}
