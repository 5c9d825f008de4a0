package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tastebook/api/internal/middleware"
	"tastebook/api/internal/models"
	"tastebook/api/internal/repository"
	"tastebook/api/internal/service"
)

type recipeResponse struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Ingredients  string    `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CookTime     int       `json:"cookTime"`
	Type         string    `json:"type"`
	Tags         []string  `json:"tags"`
	PhotoURL     *string   `json:"photoUrl"`
	Favorite     bool      `json:"favorite"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toRecipeResponse(view service.RecipeView) recipeResponse {
	tags := view.Tags
	if tags == nil {
		tags = []string{}
	}
	return recipeResponse{
		ID:           view.Recipe.ID,
		AuthorID:     view.Recipe.AuthorID,
		Title:        view.Recipe.Title,
		Description:  view.Recipe.Description,
		Ingredients:  view.Recipe.Ingredients,
		Instructions: view.Recipe.Instructions,
		CookTime:     view.Recipe.CookTime,
		Type:         string(view.Recipe.Type),
		Tags:         tags,
		PhotoURL:     view.Recipe.PhotoURL,
		Favorite:     view.Favorite,
		CreatedAt:    view.Recipe.CreatedAt,
		UpdatedAt:    view.Recipe.UpdatedAt,
	}
}

func toRecipeResponses(views []service.RecipeView) []recipeResponse {
	out := make([]recipeResponse, 0, len(views))
	for _, view := range views {
		out = append(out, toRecipeResponse(view))
	}
	return out
}

// identityRef adapts the gate's optional identity to the service's
// *Identity, nil meaning anonymous.
func identityRef(c *gin.Context) *models.Identity {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil
	}
	return &identity
}

type recipeRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Ingredients  string   `json:"ingredients" binding:"required"`
	Instructions string   `json:"instructions" binding:"required"`
	CookTime     int      `json:"cookTime" binding:"required,gt=0"`
	Type         string   `json:"type" binding:"required"`
	Tags         []string `json:"tags"`
}

func (r recipeRequest) toInput() service.RecipeInput {
	return service.RecipeInput{
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CookTime:     r.CookTime,
		Type:         models.RecipeType(r.Type),
		Tags:         r.Tags,
	}
}

func (h HandlerSet) ListRecipes(c *gin.Context) {
	limit, offset := pagination(c)
	recipeType := models.RecipeType(c.Query("type"))
	if recipeType != "" && !recipeType.Valid() {
		fail(c, http.StatusBadRequest, "invalid recipe type")
		return
	}

	views, err := h.recipes.List(c.Request.Context(), identityRef(c), recipeType, limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, http.StatusOK, toRecipeResponses(views))
}

func (h HandlerSet) GetRecipe(c *gin.Context) {
	view, err := h.recipes.Get(c.Request.Context(), identityRef(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			fail(c, http.StatusNotFound, "recipe not found")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, http.StatusOK, toRecipeResponse(view))
}

func (h HandlerSet) CreateRecipe(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.recipes.Create(c.Request.Context(), identity.ID, req.toInput())
	if err != nil {
		if errors.Is(err, service.ErrInvalidRecipeType) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, http.StatusCreated, toRecipeResponse(view))
}

func (h HandlerSet) UpdateRecipe(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.recipes.Update(c.Request.Context(), identity, c.Param("id"), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecipeNotFound):
			fail(c, http.StatusNotFound, "recipe not found")
		case errors.Is(err, service.ErrNotOwner):
			fail(c, http.StatusForbidden, "not allowed to modify this recipe")
		case errors.Is(err, service.ErrInvalidRecipeType):
			fail(c, http.StatusBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, toRecipeResponse(view))
}

func (h HandlerSet) DeleteRecipe(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	recipe, err := h.recipes.Delete(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecipeNotFound):
			fail(c, http.StatusNotFound, "recipe not found")
		case errors.Is(err, service.ErrNotOwner):
			fail(c, http.StatusForbidden, "not allowed to delete this recipe")
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if recipe.PhotoKey != nil {
		h.photos.Remove(c.Request.Context(), *recipe.PhotoKey)
	}
	ok(c, http.StatusOK, nil)
}

func (h HandlerSet) SearchRecipes(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		fail(c, http.StatusBadRequest, "keyword required")
		return
	}

	limit, offset := pagination(c)
	views, err := h.recipes.Search(c.Request.Context(), identityRef(c), keyword, limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, http.StatusOK, toRecipeResponses(views))
}

func (h HandlerSet) FavoriteRecipes(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	views, err := h.recipes.Favorites(c.Request.Context(), identity)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, http.StatusOK, toRecipeResponses(views))
}

func (h HandlerSet) ToggleFavorite(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	favorite, err := h.recipes.ToggleFavorite(c.Request.Context(), identity.ID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			fail(c, http.StatusNotFound, "recipe not found")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"favorite": favorite})
}
