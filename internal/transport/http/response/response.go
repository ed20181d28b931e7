package response

import "github.com/gin-gonic/gin"

// The public API contract is plain JSON bodies: failures always carry
// {"error": string}, simple confirmations carry {"message": string}.

func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"error": message})
}

func Message(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"message": message})
}
