package middleware

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// BindJSON decodes the JSON body into obj and answers 400 when it cannot.
// Field rules are checked by the services, so gin's own validator is not
// involved. An empty body leaves obj untouched.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindWith(obj, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		HandleBindError(c, err)
		return false
	}
	return true
}

// Bind decodes a JSON, urlencoded or multipart body into obj, picking the
// decoder from the Content-Type, and answers 400 when it cannot.
func Bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil && !errors.Is(err, io.EOF) {
		HandleBindError(c, err)
		return false
	}
	return true
}
