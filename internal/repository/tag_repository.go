package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tastebook/api/internal/models"
)

var ErrTagNotFound = errors.New("tag not found")

type TagRepository struct {
	pool *pgxpool.Pool
}

func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

// UpsertByName creates the tag on first sight of the name and returns
// the existing row's ID otherwise. Uniqueness is case-insensitive; the
// first-seen spelling wins. Requires a unique index on LOWER(name).
func (r *TagRepository) UpsertByName(ctx context.Context, id string, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty tag name")
	}

	const query = `
		INSERT INTO tags (id, name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (LOWER(name))
		DO UPDATE SET name = tags.name
		RETURNING id
	`

	var tagID string
	if err := r.pool.QueryRow(ctx, query, id, name).Scan(&tagID); err != nil {
		return "", err
	}
	return tagID, nil
}

func (r *TagRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
		SELECT id, name, created_at
		FROM tags
		WHERE id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (r *TagRepository) FindByName(ctx context.Context, name string) (models.Tag, error) {
	const query = `
		SELECT id, name, created_at
		FROM tags
		WHERE LOWER(name) = LOWER($1)
	`
	var tag models.Tag
	if err := r.pool.QueryRow(ctx, query, name).Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Tag{}, ErrTagNotFound
		}
		return models.Tag{}, err
	}
	return tag, nil
}
