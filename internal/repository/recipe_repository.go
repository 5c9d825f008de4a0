package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tastebook/api/internal/models"
)

var ErrRecipeNotFound = errors.New("recipe not found")

type RecipeRepository struct {
	pool *pgxpool.Pool
}

func NewRecipeRepository(pool *pgxpool.Pool) *RecipeRepository {
	return &RecipeRepository{pool: pool}
}

const recipeColumns = `id, author_id, title, description, ingredients, instructions, cook_time, type, tag_ids, photo_url, photo_key, created_at, updated_at`

func scanRecipe(row pgx.Row) (models.Recipe, error) {
	var recipe models.Recipe
	if err := row.Scan(
		&recipe.ID,
		&recipe.AuthorID,
		&recipe.Title,
		&recipe.Description,
		&recipe.Ingredients,
		&recipe.Instructions,
		&recipe.CookTime,
		&recipe.Type,
		&recipe.TagIDs,
		&recipe.PhotoURL,
		&recipe.PhotoKey,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Recipe{}, ErrRecipeNotFound
		}
		return models.Recipe{}, err
	}
	return recipe, nil
}

func collectRecipes(rows pgx.Rows) ([]models.Recipe, error) {
	defer rows.Close()

	var recipes []models.Recipe
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return recipes, rows.Err()
}

func (r *RecipeRepository) Create(ctx context.Context, recipe models.Recipe) error {
	const query = `
		INSERT INTO recipes (
			id, author_id, title, description, ingredients, instructions, cook_time, type, tag_ids, photo_url, photo_key, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.AuthorID,
		recipe.Title,
		recipe.Description,
		recipe.Ingredients,
		recipe.Instructions,
		recipe.CookTime,
		recipe.Type,
		recipe.TagIDs,
		recipe.PhotoURL,
		recipe.PhotoKey,
	)
	return err
}

func (r *RecipeRepository) GetByID(ctx context.Context, id string) (models.Recipe, error) {
	const query = `
		SELECT ` + recipeColumns + `
		FROM recipes WHERE id = $1
	`
	return scanRecipe(r.pool.QueryRow(ctx, query, id))
}

// List returns recipes newest first, optionally filtered by type.
func (r *RecipeRepository) List(ctx context.Context, recipeType models.RecipeType, limit, offset int) ([]models.Recipe, error) {
	const query = `
		SELECT ` + recipeColumns + `
		FROM recipes
		WHERE ($1 = '' OR type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, string(recipeType), limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

func (r *RecipeRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
		SELECT ` + recipeColumns + `
		FROM recipes
		WHERE id = ANY($1)
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

func (r *RecipeRepository) Search(ctx context.Context, keyword string, limit, offset int) ([]models.Recipe, error) {
	const query = `
		SELECT ` + recipeColumns + `
		FROM recipes
		WHERE title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, keyword, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectRecipes(rows)
}

func (r *RecipeRepository) Update(ctx context.Context, recipe models.Recipe) error {
	const query = `
		UPDATE recipes
		SET title = $2,
		    description = $3,
		    ingredients = $4,
		    instructions = $5,
		    cook_time = $6,
		    type = $7,
		    tag_ids = $8,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.Title,
		recipe.Description,
		recipe.Ingredients,
		recipe.Instructions,
		recipe.CookTime,
		recipe.Type,
		recipe.TagIDs,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// SetPhoto records (or clears, with nils) the stored photo reference.
func (r *RecipeRepository) SetPhoto(ctx context.Context, id string, photoURL, photoKey *string) error {
	const query = `
		UPDATE recipes
		SET photo_url = $2,
		    photo_key = $3,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, photoURL, photoKey)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func (r *RecipeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM recipes WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}
