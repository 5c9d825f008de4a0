package handlers

import "github.com/gin-gonic/gin"

// Every endpoint answers the same envelope: success flag, optional
// data, optional message.

func ok(c *gin.Context, status int, data any) {
	if data == nil {
		c.JSON(status, gin.H{"success": true})
		return
	}
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
