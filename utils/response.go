package utils

import "github.com/gin-gonic/gin"

// Error writes the flat {"error": ...} shape the API uses for every failure.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// Message writes a {"message": ...} acknowledgement.
func Message(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"message": message})
}
