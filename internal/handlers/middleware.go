package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const studentIDHeader = "X-Student-ID"

// StudentIdentity reads the caller identity set by the API gateway and
// stores it in the request context. Requests without it are rejected
// before any handler runs.
func StudentIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		studentID := strings.TrimSpace(c.GetHeader(studentIDHeader))
		if studentID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing student identity",
				Details: studentIDHeader + " header is required",
			})
			return
		}
		c.Set("student_id", studentID)
		c.Next()
	}
}

func extractStudentID(c *gin.Context) string {
	if studentID, exists := c.Get("student_id"); exists {
		if s, ok := studentID.(string); ok {
			return s
		}
	}
	return ""
}
