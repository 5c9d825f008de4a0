package service

import (
	"context"

	"tastebook/api/internal/models"
)

// Store interfaces are satisfied by the pgx repositories; tests supply
// in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
}

type RecipeStore interface {
	Create(ctx context.Context, recipe models.Recipe) error
	GetByID(ctx context.Context, id string) (models.Recipe, error)
	List(ctx context.Context, recipeType models.RecipeType, limit, offset int) ([]models.Recipe, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Recipe, error)
	Search(ctx context.Context, keyword string, limit, offset int) ([]models.Recipe, error)
	Update(ctx context.Context, recipe models.Recipe) error
	SetPhoto(ctx context.Context, id string, photoURL, photoKey *string) error
	Delete(ctx context.Context, id string) error
}

type TagStore interface {
	UpsertByName(ctx context.Context, id string, name string) (string, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Tag, error)
}

type FavoriteStore interface {
	Exists(ctx context.Context, userID, recipeID string) (bool, error)
	Create(ctx context.Context, userID, recipeID string) error
	Delete(ctx context.Context, userID, recipeID string) error
	RecipeIDs(ctx context.Context, userID string) ([]string, error)
	FilterFavorited(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)
	DeleteByRecipe(ctx context.Context, recipeID string) error
}
