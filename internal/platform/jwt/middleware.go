package jwtmw

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ContextUserID = "userID"

var (
	errMissingToken   = errors.New("missing bearer token")
	errMisconfigured  = errors.New("server misconfigured")
	errInvalidToken   = errors.New("invalid token")
	errMissingSubject = errors.New("token has no subject")
)

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingToken.Error()})
			return
		}
		if !authenticate(c, strings.TrimPrefix(auth, "Bearer ")) {
			return
		}
		c.Next()
	}
}

// Authenticate resolves the current user if a bearer token is present and
// lets anonymous requests through with no user set. Handlers decide how to
// treat an anonymous caller. A token that is present but invalid is still rejected.
func Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingToken.Error()})
			return
		}
		if !authenticate(c, strings.TrimPrefix(auth, "Bearer ")) {
			return
		}
		c.Next()
	}
}

// authenticate verifies tokenStr and stores the subject in the context.
// It aborts the request and returns false on failure.
func authenticate(c *gin.Context, tokenStr string) bool {
	// Load secret key from environment variable
	secret := os.Getenv(EnvKeyJWTSecret)
	if secret == "" {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errMisconfigured.Error()})
		return false
	}

	sub, err := parseSubject(tokenStr, []byte(secret))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken.Error()})
		return false
	}
	c.Set(ContextUserID, sub)
	return true
}

func parseSubject(tokenStr string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Check signing algorithm (only HMAC allowed)
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errMissingSubject
	}
	return sub, nil
}

// UserID returns the authenticated user's ID, or false for anonymous requests.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
