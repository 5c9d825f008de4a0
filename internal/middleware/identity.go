package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"tastebook/api/internal/models"
	"tastebook/api/internal/security"
	"tastebook/api/internal/transport"
)

const identityKey = "identity"

// UserSource resolves the user a token claim points at.
// *repository.UserRepository satisfies it.
type UserSource interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// Identity resolves a bearer identity from the request and attaches it
// to the context. It never halts: on any failure (no token, malformed,
// wrong type, expired, unknown or deactivated user) the chain simply
// continues with no identity set, and each handler decides whether that
// is a 401. This keeps the same gate usable on public and private routes.
func Identity(codec *security.TokenCodec, users UserSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := transport.AccessTokenFrom(c.Request)
		if tokenStr == "" {
			c.Next()
			return
		}

		claims, err := codec.Verify(tokenStr, security.TokenTypeAccess)
		if err != nil {
			c.Next()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil || !user.IsActive {
			// a structurally valid token for a deactivated user is
			// treated as unauthenticated everywhere
			c.Next()
			return
		}

		c.Set(identityKey, models.Identity{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			IsAdmin:   user.IsAdmin,
		})

		c.Next()
	}
}

// IdentityFrom reports the identity the gate attached, if any.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := val.(models.Identity)
	return identity, ok
}
