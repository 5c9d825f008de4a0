package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tastebook/api/internal/middleware"
	"tastebook/api/internal/models"
	"tastebook/api/internal/security"
	"tastebook/api/internal/service"
	"tastebook/api/internal/transport"
)

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	IsActive  bool      `json:"isActive"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsActive:  user.IsActive,
		IsAdmin:   user.IsAdmin,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// authPayload carries the pair in the body as well as in cookies, so
// non-browser clients can mirror it into their own token store.
type authPayload struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

func (h HandlerSet) sendAuthPayload(c *gin.Context, status int, user models.User, pair security.TokenPair) {
	transport.SetAuthCookies(c, pair, h.codec.AccessTTL(), h.codec.RefreshTTL(), !h.cfg.IsDevelopment())
	ok(c, status, authPayload{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, pair, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.sendAuthPayload(c, http.StatusCreated, user, pair)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserDeactivated):
			fail(c, http.StatusUnauthorized, "invalid email or password")
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.sendAuthPayload(c, http.StatusOK, user, pair)
}

func (h HandlerSet) Logout(c *gin.Context) {
	transport.ClearAuthCookies(c, !h.cfg.IsDevelopment())
	ok(c, http.StatusOK, nil)
}

type renewRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h HandlerSet) Renew(c *gin.Context) {
	var req renewRequest
	_ = c.ShouldBindJSON(&req) // body is optional when the cookie is present

	refreshToken := transport.RefreshTokenFrom(c.Request, req.RefreshToken)
	if refreshToken == "" {
		fail(c, http.StatusUnauthorized, "refresh token required")
		return
	}

	user, pair, err := h.auth.Renew(c.Request.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUserDeactivated):
			transport.ClearAuthCookies(c, !h.cfg.IsDevelopment())
			fail(c, http.StatusUnauthorized, "invalid refresh token")
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.sendAuthPayload(c, http.StatusOK, user, pair)
}

func (h HandlerSet) CurrentUser(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c)

	user, err := h.users.Get(c.Request.Context(), identity, identity.ID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, http.StatusOK, toUserResponse(user))
}
