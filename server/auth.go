package server

import "github.com/gin-gonic/gin"

// AuthStub always allows the request and attaches a demo user.
// Authentication is an external collaborator concern; this mirrors the
// MVP behavior the frontend expects.
func AuthStub() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user", "Demo User")
		c.Next()
	}
}
