package middleware

import (
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the first error a handler attached to the context
// as a JSON error response with the status mapped from its mark.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors[0].Err
		c.JSON(ierr.HTTPStatusFromError(err), ierr.NewErrorResponse(err))
	}
}
