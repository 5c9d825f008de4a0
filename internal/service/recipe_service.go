package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"tastebook/api/internal/ids"
	"tastebook/api/internal/models"
)

var (
	ErrNotOwner          = errors.New("not the recipe owner")
	ErrInvalidRecipeType = errors.New("invalid recipe type")
)

type RecipeService struct {
	recipes   RecipeStore
	tags      TagStore
	favorites FavoriteStore
	log       zerolog.Logger
}

func NewRecipeService(recipes RecipeStore, tags TagStore, favorites FavoriteStore, log zerolog.Logger) *RecipeService {
	return &RecipeService{
		recipes:   recipes,
		tags:      tags,
		favorites: favorites,
		log:       log,
	}
}

type RecipeInput struct {
	Title        string
	Description  string
	Ingredients  string
	Instructions string
	CookTime     int
	Type         models.RecipeType
	Tags         []string
}

// RecipeView is a recipe joined with its tag names and, when an
// identity is present, whether that identity favorited it.
type RecipeView struct {
	Recipe   models.Recipe
	Tags     []string
	Favorite bool
}

func (s *RecipeService) Create(ctx context.Context, authorID string, input RecipeInput) (RecipeView, error) {
	if !input.Type.Valid() {
		return RecipeView{}, ErrInvalidRecipeType
	}

	tagIDs, tagNames, err := s.upsertTags(ctx, input.Tags)
	if err != nil {
		return RecipeView{}, err
	}

	recipe := models.Recipe{
		ID:           ids.New(),
		AuthorID:     authorID,
		Title:        input.Title,
		Description:  input.Description,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		CookTime:     input.CookTime,
		Type:         input.Type,
		TagIDs:       tagIDs,
	}

	if err := s.recipes.Create(ctx, recipe); err != nil {
		return RecipeView{}, fmt.Errorf("create recipe: %w", err)
	}

	return RecipeView{Recipe: recipe, Tags: tagNames}, nil
}

func (s *RecipeService) Update(ctx context.Context, identity models.Identity, id string, input RecipeInput) (RecipeView, error) {
	if !input.Type.Valid() {
		return RecipeView{}, ErrInvalidRecipeType
	}

	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return RecipeView{}, err
	}
	if !identity.IsAdmin && recipe.AuthorID != identity.ID {
		return RecipeView{}, ErrNotOwner
	}

	tagIDs, tagNames, err := s.upsertTags(ctx, input.Tags)
	if err != nil {
		return RecipeView{}, err
	}

	recipe.Title = input.Title
	recipe.Description = input.Description
	recipe.Ingredients = input.Ingredients
	recipe.Instructions = input.Instructions
	recipe.CookTime = input.CookTime
	recipe.Type = input.Type
	recipe.TagIDs = tagIDs

	if err := s.recipes.Update(ctx, recipe); err != nil {
		return RecipeView{}, fmt.Errorf("update recipe: %w", err)
	}

	favorite, err := s.favorites.Exists(ctx, identity.ID, recipe.ID)
	if err != nil {
		return RecipeView{}, err
	}

	return RecipeView{Recipe: recipe, Tags: tagNames, Favorite: favorite}, nil
}

// Delete removes the recipe and its favorite rows, returning the
// deleted recipe so the caller can dispose of its photo.
func (s *RecipeService) Delete(ctx context.Context, identity models.Identity, id string) (models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return models.Recipe{}, err
	}
	if !identity.IsAdmin && recipe.AuthorID != identity.ID {
		return models.Recipe{}, ErrNotOwner
	}

	if err := s.recipes.Delete(ctx, id); err != nil {
		return models.Recipe{}, err
	}
	if err := s.favorites.DeleteByRecipe(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("recipe_id", id).Msg("favorite cleanup failed")
	}
	return recipe, nil
}

func (s *RecipeService) Get(ctx context.Context, identity *models.Identity, id string) (RecipeView, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return RecipeView{}, err
	}
	views, err := s.buildViews(ctx, identity, []models.Recipe{recipe})
	if err != nil {
		return RecipeView{}, err
	}
	return views[0], nil
}

func (s *RecipeService) List(ctx context.Context, identity *models.Identity, recipeType models.RecipeType, limit, offset int) ([]RecipeView, error) {
	recipes, err := s.recipes.List(ctx, recipeType, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, identity, recipes)
}

func (s *RecipeService) Search(ctx context.Context, identity *models.Identity, keyword string, limit, offset int) ([]RecipeView, error) {
	recipes, err := s.recipes.Search(ctx, keyword, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, identity, recipes)
}

func (s *RecipeService) Favorites(ctx context.Context, identity models.Identity) ([]RecipeView, error) {
	recipeIDs, err := s.favorites.RecipeIDs(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.recipes.ListByIDs(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, &identity, recipes)
}

// SetPhoto records or clears a recipe's stored photo reference.
func (s *RecipeService) SetPhoto(ctx context.Context, id string, photoURL, photoKey *string) error {
	return s.recipes.SetPhoto(ctx, id, photoURL, photoKey)
}

// ToggleFavorite flips the (user, recipe) pair and reports the new state.
func (s *RecipeService) ToggleFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	if _, err := s.recipes.GetByID(ctx, recipeID); err != nil {
		return false, err
	}

	exists, err := s.favorites.Exists(ctx, userID, recipeID)
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.favorites.Delete(ctx, userID, recipeID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.favorites.Create(ctx, userID, recipeID); err != nil {
		return false, err
	}
	return true, nil
}

// upsertTags resolves tag names to IDs in submission order, creating
// unseen names. Each upsert commits on its own as it happens; there is
// no surrounding transaction, so tags created before a later failure
// stay created.
func (s *RecipeService) upsertTags(ctx context.Context, names []string) ([]string, []string, error) {
	tagIDs := make([]string, 0, len(names))
	tagNames := make([]string, 0, len(names))
	for _, name := range names {
		tagID, err := s.tags.UpsertByName(ctx, ids.New(), name)
		if err != nil {
			return nil, nil, fmt.Errorf("upsert tag %q: %w", name, err)
		}
		tagIDs = append(tagIDs, tagID)
		tagNames = append(tagNames, name)
	}
	return tagIDs, tagNames, nil
}

func (s *RecipeService) buildViews(ctx context.Context, identity *models.Identity, recipes []models.Recipe) ([]RecipeView, error) {
	idSet := make(map[string]struct{})
	var tagIDs []string
	recipeIDs := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		for _, tagID := range recipe.TagIDs {
			if _, seen := idSet[tagID]; !seen {
				idSet[tagID] = struct{}{}
				tagIDs = append(tagIDs, tagID)
			}
		}
	}

	tags, err := s.tags.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	tagNames := make(map[string]string, len(tags))
	for _, tag := range tags {
		tagNames[tag.ID] = tag.Name
	}

	favorited := map[string]bool{}
	if identity != nil {
		favorited, err = s.favorites.FilterFavorited(ctx, identity.ID, recipeIDs)
		if err != nil {
			return nil, err
		}
	}

	views := make([]RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		names := make([]string, 0, len(recipe.TagIDs))
		for _, tagID := range recipe.TagIDs {
			if name, ok := tagNames[tagID]; ok {
				names = append(names, name)
			}
		}
		views = append(views, RecipeView{
			Recipe:   recipe,
			Tags:     names,
			Favorite: favorited[recipe.ID],
		})
	}
	return views, nil
}
