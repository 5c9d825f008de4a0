package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tastebook/api/internal/middleware"
	"tastebook/api/internal/repository"
	"tastebook/api/internal/service"
)

func (h HandlerSet) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)

	users, err := h.users.List(c.Request.Context(), limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	ok(c, http.StatusOK, out)
}

func (h HandlerSet) GetUser(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	user, err := h.users.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAllowed):
			fail(c, http.StatusForbidden, "not allowed")
		case errors.Is(err, repository.ErrUserNotFound):
			fail(c, http.StatusNotFound, "user not found")
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, toUserResponse(user))
}

type createUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	IsAdmin   bool   `json:"isAdmin"`
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Create(c.Request.Context(), service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, http.StatusCreated, toUserResponse(user))
}

type updateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=8"`
	IsActive  *bool   `json:"isActive"`
	IsAdmin   *bool   `json:"isAdmin"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Update(c.Request.Context(), identity, c.Param("id"), service.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsActive:  req.IsActive,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotAllowed):
			fail(c, http.StatusForbidden, "not allowed")
		case errors.Is(err, repository.ErrUserNotFound):
			fail(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrEmailTaken):
			fail(c, http.StatusBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, toUserResponse(user))
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "user not found")
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, http.StatusOK, nil)
}
