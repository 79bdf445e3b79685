package utils

import (
	"github.com/gin-gonic/gin"

	"hotel-ops/apperr"
)

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes err using the status of its apperr kind.
func JSONError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	c.AbortWithStatusJSON(kind.HTTPStatus(), gin.H{
		"success": false,
		"error":   apperr.Message(err),
		"code":    kind,
	})
}
