package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"artnexus/internal/domain/auth"
	"artnexus/internal/pkg/jwt"
	"artnexus/internal/pkg/response"
)

// JWTAuth verifies the bearer token and stores user_id and role in the
// context. It never touches the database.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		tokenStr := strings.TrimSpace(parts[1])
		if tokenStr == "" {
			abortUnauthorized(c, "INVALID_AUTH_FORMAT", "Empty token")
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortUnauthorized(c, "TOKEN_EXPIRED", "Token has expired")
				return
			}
			abortUnauthorized(c, "INVALID_TOKEN", "Invalid token")
			return
		}

		role, ok := auth.ParseRole(claims.Role)
		if !ok {
			abortUnauthorized(c, "INVALID_TOKEN", "Unknown role in token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", string(role))

		c.Next()
	}
}

// IdentityFrom reads what JWTAuth stored.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	userID := c.GetInt64("user_id")
	role, ok := auth.ParseRole(c.GetString("role"))
	if userID == 0 || !ok {
		return auth.Identity{}, false
	}
	return auth.Identity{UserID: userID, Role: role}, true
}

func abortUnauthorized(c *gin.Context, code, message string) {
	response.Error(c, http.StatusUnauthorized, code, message)
	c.Abort()
}
