package response

import (
	"github.com/gin-gonic/gin"

	"artnexus/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes err using its apperr kind. Internal errors are attached to
// the gin context so ErrorLogger reports them, and masked for the client.
func FromError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		_ = c.Error(err)
	}
	Error(c, apperr.HTTPStatus(kind), string(kind), apperr.MessageOf(err))
}

// Abort is FromError followed by c.Abort, for middleware.
func Abort(c *gin.Context, err error) {
	FromError(c, err)
	c.Abort()
}
