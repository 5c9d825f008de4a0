package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tastebook/api/internal/blog"
)

func blogStatus(err error) int {
	switch {
	case errors.Is(err, blog.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, blog.ErrCMSDown):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h HandlerSet) ListBlogPosts(c *gin.Context) {
	posts, err := h.blog.Posts(c.Request.Context())
	if err != nil {
		fail(c, blogStatus(err), err.Error())
		return
	}
	ok(c, http.StatusOK, posts)
}

func (h HandlerSet) GetBlogPost(c *gin.Context) {
	post, err := h.blog.Post(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, blog.ErrPostNotFound) {
			fail(c, http.StatusNotFound, "post not found")
			return
		}
		fail(c, blogStatus(err), err.Error())
		return
	}
	ok(c, http.StatusOK, post)
}

func (h HandlerSet) ListBlogCategories(c *gin.Context) {
	categories, err := h.blog.Categories(c.Request.Context())
	if err != nil {
		fail(c, blogStatus(err), err.Error())
		return
	}
	ok(c, http.StatusOK, categories)
}
