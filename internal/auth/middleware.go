package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyClaims = "auth_claims"

// ErrNoToken is returned by Require when the request carries no bearer token.
var ErrNoToken = errors.New("access token required")

// TokenVerifier is what the authenticator needs from TokenManager.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Authenticator turns a raw bearer token into an authenticated identity.
type Authenticator struct {
	tokens TokenVerifier
}

func NewAuthenticator(tokens TokenVerifier) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Require returns ErrNoToken for an empty token, the verifier's error for a bad one, claims otherwise.
func (a *Authenticator) Require(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	return a.tokens.Verify(token)
}

// Optional returns claims for a valid token and nil for a missing or bad one.
func (a *Authenticator) Optional(token string) *Claims {
	if token == "" {
		return nil
	}
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil
	}
	return claims
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireToken rejects requests without a token (401) or with an invalid or expired one (403).
func RequireToken(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.Require(BearerToken(c.GetHeader("Authorization")))
		if err != nil {
			if errors.Is(err, ErrNoToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}

// OptionalToken sets claims when a valid token is present and never rejects.
func OptionalToken(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := a.Optional(BearerToken(c.GetHeader("Authorization"))); claims != nil {
			c.Set(contextKeyClaims, claims)
		}
		c.Next()
	}
}

// ClaimsFromContext returns the claims set by RequireToken or OptionalToken, nil if none.
func ClaimsFromContext(c *gin.Context) *Claims {
	v, ok := c.Get(contextKeyClaims)
	if !ok {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
