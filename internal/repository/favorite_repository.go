package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewFavoriteRepository(pool *pgxpool.Pool) *FavoriteRepository {
	return &FavoriteRepository{pool: pool}
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, recipeID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND recipe_id = $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, recipeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *FavoriteRepository) Create(ctx context.Context, userID, recipeID string) error {
	const query = `
		INSERT INTO favorites (user_id, recipe_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, recipe_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, userID, recipeID)
	return err
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, recipeID string) error {
	const query = `DELETE FROM favorites WHERE user_id = $1 AND recipe_id = $2`
	_, err := r.pool.Exec(ctx, query, userID, recipeID)
	return err
}

func (r *FavoriteRepository) RecipeIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT recipe_id FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FilterFavorited reports which of recipeIDs the user has favorited.
func (r *FavoriteRepository) FilterFavorited(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	favorited := make(map[string]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return favorited, nil
	}

	const query = `
		SELECT recipe_id FROM favorites
		WHERE user_id = $1 AND recipe_id = ANY($2)
	`
	rows, err := r.pool.Query(ctx, query, userID, recipeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		favorited[id] = true
	}
	return favorited, rows.Err()
}

// DeleteByRecipe clears the join rows when a recipe is removed.
func (r *FavoriteRepository) DeleteByRecipe(ctx context.Context, recipeID string) error {
	const query = `DELETE FROM favorites WHERE recipe_id = $1`
	_, err := r.pool.Exec(ctx, query, recipeID)
	return err
}
