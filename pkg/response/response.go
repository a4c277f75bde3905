package response

import (
	"github.com/gin-gonic/gin"
)

// Detail is the uniform error body: {"detail": ...}. The detail is a fixed
// human-readable string for domain errors, or a field→message map for
// validation failures. Request ids travel in the X-Request-ID header, never
// in the body.
type Detail struct {
	Detail any `json:"detail"`
}

// JSON writes data as-is with the given status.
func JSON(c *gin.Context, status int, data any) {
	writeRequestID(c)
	c.JSON(status, data)
}

// Error writes a {"detail": ...} body and aborts the request.
func Error(c *gin.Context, status int, detail any) {
	writeRequestID(c)
	c.AbortWithStatusJSON(status, Detail{Detail: detail})
}

func writeRequestID(c *gin.Context) {
	if id := c.GetString("request_id"); id != "" {
		c.Header("X-Request-ID", id)
	}
}
