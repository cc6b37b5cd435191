package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"calshare/utils"
)

// Authenticate guards the owner endpoints. It verifies the Authorization token
// and puts the verified username into the context for the handlers.
func Authenticate(c *gin.Context) {
	token := c.Request.Header.Get("Authorization")
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return
	}

	username, err := utils.VerifyToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized."})
		return
	}

	c.Set("username", username)
	c.Next()
}
