// Package transport moves bearer tokens between HTTP and the token
// codec: cookies on the browser path, an Authorization header on the
// fetch path.
package transport

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tastebook/api/internal/security"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// SetAuthCookies writes both token cookies with max-age matching each
// token's TTL. httpOnly always; Secure outside development.
func SetAuthCookies(c *gin.Context, pair security.TokenPair, accessTTL, refreshTTL time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, pair.AccessToken, int(accessTTL.Seconds()), "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, pair.RefreshToken, int(refreshTTL.Seconds()), "/", "", secure, true)
}

// ClearAuthCookies expires both cookies, which is all logout amounts to:
// the tokens themselves stay valid until their expiry.
func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}

// AccessTokenFrom resolves the bearer credential for a request: the
// access_token cookie first, then an Authorization: Bearer header.
func AccessTokenFrom(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// RefreshTokenFrom prefers the refresh_token cookie, falling back to a
// value carried in the request body.
func RefreshTokenFrom(r *http.Request, bodyToken string) string {
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return bodyToken
}
