package service

import (
	"context"
	"strings"
	"sync"

	"tastebook/api/internal/models"
	"tastebook/api/internal/repository"
)

type fakeUserStore struct {
	mu        sync.Mutex
	users     map[string]models.User
	createErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) List(_ context.Context, limit, offset int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users, nil
}

func (s *fakeUserStore) Update(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeRecipeStore struct {
	mu      sync.Mutex
	recipes map[string]models.Recipe
	order   []string
}

func newFakeRecipeStore() *fakeRecipeStore {
	return &fakeRecipeStore{recipes: map[string]models.Recipe{}}
}

func (s *fakeRecipeStore) Create(_ context.Context, recipe models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[recipe.ID] = recipe
	s.order = append(s.order, recipe.ID)
	return nil
}

func (s *fakeRecipeStore) GetByID(_ context.Context, id string) (models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recipe, ok := s.recipes[id]
	if !ok {
		return models.Recipe{}, repository.ErrRecipeNotFound
	}
	return recipe, nil
}

func (s *fakeRecipeStore) List(_ context.Context, recipeType models.RecipeType, limit, offset int) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Recipe
	for _, id := range s.order {
		recipe := s.recipes[id]
		if recipeType != "" && recipe.Type != recipeType {
			continue
		}
		out = append(out, recipe)
	}
	return out, nil
}

func (s *fakeRecipeStore) ListByIDs(_ context.Context, recipeIDs []string) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Recipe
	for _, id := range recipeIDs {
		if recipe, ok := s.recipes[id]; ok {
			out = append(out, recipe)
		}
	}
	return out, nil
}

func (s *fakeRecipeStore) Search(_ context.Context, keyword string, limit, offset int) ([]models.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keyword = strings.ToLower(keyword)
	var out []models.Recipe
	for _, id := range s.order {
		recipe := s.recipes[id]
		if strings.Contains(strings.ToLower(recipe.Title), keyword) ||
			strings.Contains(strings.ToLower(recipe.Description), keyword) {
			out = append(out, recipe)
		}
	}
	return out, nil
}

func (s *fakeRecipeStore) Update(_ context.Context, recipe models.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[recipe.ID]; !ok {
		return repository.ErrRecipeNotFound
	}
	s.recipes[recipe.ID] = recipe
	return nil
}

func (s *fakeRecipeStore) SetPhoto(_ context.Context, id string, photoURL, photoKey *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	recipe, ok := s.recipes[id]
	if !ok {
		return repository.ErrRecipeNotFound
	}
	recipe.PhotoURL = photoURL
	recipe.PhotoKey = photoKey
	s.recipes[id] = recipe
	return nil
}

func (s *fakeRecipeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recipes[id]; !ok {
		return repository.ErrRecipeNotFound
	}
	delete(s.recipes, id)
	for i, rid := range s.order {
		if rid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeTagStore struct {
	mu   sync.Mutex
	tags map[string]models.Tag
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{tags: map[string]models.Tag{}}
}

func (s *fakeTagStore) UpsertByName(_ context.Context, id string, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tag := range s.tags {
		if strings.EqualFold(tag.Name, name) {
			return tag.ID, nil
		}
	}
	s.tags[id] = models.Tag{ID: id, Name: name}
	return id, nil
}

func (s *fakeTagStore) GetByIDs(_ context.Context, ids []string) ([]models.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Tag
	for _, id := range ids {
		if tag, ok := s.tags[id]; ok {
			out = append(out, tag)
		}
	}
	return out, nil
}

type fakeFavoriteStore struct {
	mu    sync.Mutex
	pairs map[string]map[string]bool
}

func newFakeFavoriteStore() *fakeFavoriteStore {
	return &fakeFavoriteStore{pairs: map[string]map[string]bool{}}
}

func (s *fakeFavoriteStore) Exists(_ context.Context, userID, recipeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pairs[userID][recipeID], nil
}

func (s *fakeFavoriteStore) Create(_ context.Context, userID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pairs[userID] == nil {
		s.pairs[userID] = map[string]bool{}
	}
	s.pairs[userID][recipeID] = true
	return nil
}

func (s *fakeFavoriteStore) Delete(_ context.Context, userID, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pairs[userID], recipeID)
	return nil
}

func (s *fakeFavoriteStore) RecipeIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for recipeID := range s.pairs[userID] {
		out = append(out, recipeID)
	}
	return out, nil
}

func (s *fakeFavoriteStore) FilterFavorited(_ context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]bool{}
	for _, recipeID := range recipeIDs {
		if s.pairs[userID][recipeID] {
			out[recipeID] = true
		}
	}
	return out, nil
}

func (s *fakeFavoriteStore) DeleteByRecipe(_ context.Context, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID := range s.pairs {
		delete(s.pairs[userID], recipeID)
	}
	return nil
}
