package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tastebook/api/internal/media/sniffer"
	"tastebook/api/internal/middleware"
	"tastebook/api/internal/models"
	"tastebook/api/internal/repository"
	"tastebook/api/internal/service"
)

// photoStatus separates what the client sent wrong from what the
// backend failed to do.
func photoStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrPhotoTooLarge),
		errors.Is(err, service.ErrPhotoTypeMismatch),
		errors.Is(err, sniffer.ErrUnknownType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// loadOwnedRecipe fetches the recipe and enforces owner-or-admin,
// writing the error response itself when it fails.
func (h HandlerSet) loadOwnedRecipe(c *gin.Context) (models.Recipe, bool) {
	identity, _ := middleware.IdentityFrom(c)

	view, err := h.recipes.Get(c.Request.Context(), &identity, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			fail(c, http.StatusNotFound, "recipe not found")
		} else {
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return models.Recipe{}, false
	}

	recipe := view.Recipe
	if !identity.IsAdmin && recipe.AuthorID != identity.ID {
		fail(c, http.StatusForbidden, "not allowed to modify this recipe")
		return models.Recipe{}, false
	}
	return recipe, true
}

func (h HandlerSet) UploadPhoto(c *gin.Context) {
	recipe, allowed := h.loadOwnedRecipe(c)
	if !allowed {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		fail(c, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	url, key, err := h.photos.Attach(c.Request.Context(), recipe, file, header)
	if err != nil {
		fail(c, photoStatus(err), err.Error())
		return
	}

	if err := h.recipes.SetPhoto(c.Request.Context(), recipe.ID, &url, &key); err != nil {
		h.photos.Remove(c.Request.Context(), key)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	// the old object goes only once the row points at the new one
	if recipe.PhotoKey != nil {
		h.photos.Remove(c.Request.Context(), *recipe.PhotoKey)
	}

	ok(c, http.StatusOK, gin.H{"photoUrl": url})
}

func (h HandlerSet) DeletePhoto(c *gin.Context) {
	recipe, allowed := h.loadOwnedRecipe(c)
	if !allowed {
		return
	}

	if recipe.PhotoKey == nil {
		fail(c, http.StatusNotFound, "recipe has no photo")
		return
	}

	if err := h.recipes.SetPhoto(c.Request.Context(), recipe.ID, nil, nil); err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.photos.Remove(c.Request.Context(), *recipe.PhotoKey)
	ok(c, http.StatusOK, nil)
}
