package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/core/apperr"
	userPort "yatube/internal/ports/user"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

const (
	// TokenCookie is the cookie the login handler stores the session token in.
	TokenCookie = "token"
	userIDKey   = "userID"
)

// Authenticator verifies session tokens and resolves their subject.
type Authenticator interface {
	ParseToken(token string) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*userPort.UserDTO, error)
}

// Authenticate resolves the requester from the token cookie or a bearer
// header. A missing or bad token, or one whose user no longer exists,
// leaves the request anonymous.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(TokenCookie)
		}
		if token == "" {
			c.Next()
			return
		}
		id, err := auth.ParseToken(token)
		if err != nil {
			c.Next()
			return
		}

		_, err = auth.GetByID(c.Request.Context(), id)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			// deleted since the token was issued
		case err != nil:
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		default:
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// LoginRequired sends anonymous requests to loginURL with the requested
// path in "next".
func LoginRequired(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); ok {
			c.Next()
			return
		}
		next := url.Values{"next": {c.Request.URL.RequestURI()}}
		c.Redirect(http.StatusFound, loginURL+"?"+next.Encode())
		c.Abort()
	}
}

// UserID returns the authenticated requester, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
