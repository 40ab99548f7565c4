package respond

import (
	"github.com/gin-gonic/gin"
	"github.com/mcncl/jsonenv/internal/models"
)

// GinSuccess writes a success envelope through a gin context
func (r *Responder) GinSuccess(c *gin.Context, httpStatus int, message string) {
	r.Success(c.Writer, httpStatus, message)
}

// GinResponse writes a generic envelope through a gin context
func (r *Responder) GinResponse(c *gin.Context, httpStatus int, status, message string, data models.Value) {
	r.Response(c.Writer, httpStatus, status, message, data)
}

// GinError writes an error envelope and aborts the remaining handlers
func (r *Responder) GinError(c *gin.Context, httpStatus int, code string, details []models.ErrorDetail) {
	r.Error(c.Writer, httpStatus, code, details)
	c.Abort()
}
