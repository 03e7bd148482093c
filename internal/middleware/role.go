package middleware

import (
	"github.com/gin-gonic/gin"

	"artnexus/internal/domain/auth"
	"artnexus/internal/pkg/response"
)

// RequireRole lets the request through only when the authenticated role is
// exactly one of roles. Admin does not satisfy an artiste-only gate.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Abort(c, auth.ErrUnauthorized)
			return
		}

		if _, err := auth.Authorize(id, roles...); err != nil {
			response.Abort(c, err)
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(auth.RoleAdmin)
}

// WalletHolders gates routes that touch a wallet: buyers and artistes.
func WalletHolders() gin.HandlerFunc {
	return RequireRole(auth.RoleUser, auth.RoleArtiste)
}
