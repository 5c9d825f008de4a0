package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tastebook/api/internal/models"
	"tastebook/api/internal/repository"
)

type recipeFixture struct {
	svc       *RecipeService
	recipes   *fakeRecipeStore
	tags      *fakeTagStore
	favorites *fakeFavoriteStore
}

func newRecipeFixture() recipeFixture {
	recipes := newFakeRecipeStore()
	tags := newFakeTagStore()
	favorites := newFakeFavoriteStore()
	return recipeFixture{
		svc:       NewRecipeService(recipes, tags, favorites, zerolog.Nop()),
		recipes:   recipes,
		tags:      tags,
		favorites: favorites,
	}
}

func validInput() RecipeInput {
	return RecipeInput{
		Title:        "Shakshuka",
		Description:  "Eggs poached in tomato sauce",
		Ingredients:  "eggs, tomatoes, peppers",
		Instructions: "simmer sauce, crack eggs, cover",
		CookTime:     25,
		Type:         models.RecipeTypeBreakfast,
		Tags:         []string{"Eggs", "Vegetarian"},
	}
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "author-1", validInput())
	require.NoError(t, err)
	assert.Equal(t, "author-1", view.Recipe.AuthorID)
	assert.Equal(t, []string{"Eggs", "Vegetarian"}, view.Tags)
	assert.Len(t, view.Recipe.TagIDs, 2)
	assert.False(t, view.Favorite)
}

func TestCreateRecipeInvalidType(t *testing.T) {
	f := newRecipeFixture()

	input := validInput()
	input.Type = "brunch"
	_, err := f.svc.Create(context.Background(), "author-1", input)
	assert.ErrorIs(t, err, ErrInvalidRecipeType)
}

func TestTagUpsertIsCaseInsensitive(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	first, err := f.svc.Create(ctx, "author-1", RecipeInput{
		Title: "One", Ingredients: "x", Instructions: "y", CookTime: 5,
		Type: models.RecipeTypeSnacks, Tags: []string{"Vegan"},
	})
	require.NoError(t, err)

	second, err := f.svc.Create(ctx, "author-2", RecipeInput{
		Title: "Two", Ingredients: "x", Instructions: "y", CookTime: 5,
		Type: models.RecipeTypeSnacks, Tags: []string{"VEGAN"},
	})
	require.NoError(t, err)

	assert.Equal(t, first.Recipe.TagIDs, second.Recipe.TagIDs, "both spellings resolve to one tag")
}

func TestUpdateRecipeOwnership(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "author-1", validInput())
	require.NoError(t, err)

	input := validInput()
	input.Title = "Shakshuka v2"

	_, err = f.svc.Update(ctx, models.Identity{ID: "someone-else"}, view.Recipe.ID, input)
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := f.svc.Update(ctx, models.Identity{ID: "author-1"}, view.Recipe.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Shakshuka v2", updated.Recipe.Title)

	input.Title = "Shakshuka v3"
	updated, err = f.svc.Update(ctx, models.Identity{ID: "admin", IsAdmin: true}, view.Recipe.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Shakshuka v3", updated.Recipe.Title)
}

func TestDeleteRecipeCleansFavorites(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "author-1", validInput())
	require.NoError(t, err)

	_, err = f.svc.ToggleFavorite(ctx, "fan-1", view.Recipe.ID)
	require.NoError(t, err)

	_, err = f.svc.Delete(ctx, models.Identity{ID: "someone-else"}, view.Recipe.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	deleted, err := f.svc.Delete(ctx, models.Identity{ID: "author-1"}, view.Recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Recipe.ID, deleted.ID)

	_, err = f.svc.Get(ctx, nil, view.Recipe.ID)
	assert.ErrorIs(t, err, repository.ErrRecipeNotFound)

	fav, err := f.favorites.Exists(ctx, "fan-1", view.Recipe.ID)
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestToggleFavoriteAlternates(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "author-1", validInput())
	require.NoError(t, err)

	on, err := f.svc.ToggleFavorite(ctx, "fan-1", view.Recipe.ID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := f.svc.ToggleFavorite(ctx, "fan-1", view.Recipe.ID)
	require.NoError(t, err)
	assert.False(t, off)

	on, err = f.svc.ToggleFavorite(ctx, "fan-1", view.Recipe.ID)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestToggleFavoriteMissingRecipe(t *testing.T) {
	f := newRecipeFixture()

	_, err := f.svc.ToggleFavorite(context.Background(), "fan-1", "missing")
	assert.ErrorIs(t, err, repository.ErrRecipeNotFound)
}

func TestListFiltersByType(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	breakfast := validInput()
	_, err := f.svc.Create(ctx, "author-1", breakfast)
	require.NoError(t, err)

	dinner := validInput()
	dinner.Title = "Roast"
	dinner.Type = models.RecipeTypeDinner
	_, err = f.svc.Create(ctx, "author-1", dinner)
	require.NoError(t, err)

	all, err := f.svc.List(ctx, nil, "", 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	dinners, err := f.svc.List(ctx, nil, models.RecipeTypeDinner, 20, 0)
	require.NoError(t, err)
	require.Len(t, dinners, 1)
	assert.Equal(t, "Roast", dinners[0].Recipe.Title)
}

func TestFavoritesListMarksFavorite(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	view, err := f.svc.Create(ctx, "author-1", validInput())
	require.NoError(t, err)
	other := validInput()
	other.Title = "Granola"
	_, err = f.svc.Create(ctx, "author-1", other)
	require.NoError(t, err)

	identity := models.Identity{ID: "fan-1"}
	_, err = f.svc.ToggleFavorite(ctx, identity.ID, view.Recipe.ID)
	require.NoError(t, err)

	favorites, err := f.svc.Favorites(ctx, identity)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, view.Recipe.ID, favorites[0].Recipe.ID)
	assert.True(t, favorites[0].Favorite)
	assert.Equal(t, []string{"Eggs", "Vegetarian"}, favorites[0].Tags)
}

func TestSearchMatchesTitleAndDescription(t *testing.T) {
	f := newRecipeFixture()
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "author-1", validInput())
	require.NoError(t, err)

	byTitle, err := f.svc.Search(ctx, nil, "shak", 20, 0)
	require.NoError(t, err)
	assert.Len(t, byTitle, 1)

	byDescription, err := f.svc.Search(ctx, nil, "tomato", 20, 0)
	require.NoError(t, err)
	assert.Len(t, byDescription, 1)

	none, err := f.svc.Search(ctx, nil, "sushi", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
