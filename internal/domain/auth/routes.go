package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts register/login. guards run before both, e.g.
// the per-IP rate limiter.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup, guards ...gin.HandlerFunc) {
	authGroup := v1.Group("/auth", guards...)
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}
