package middleware

import (
	"github.com/gin-gonic/gin"
)

func Cors() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Header("Access-Control-Allow-Origin", "*") // You can replace * with the specified domain name
		context.Header("Access-Control-Allow-Headers", "Content-Type, X-Address, X-Timestamp, X-Signature, X-Request-ID")
		context.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		context.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Request-ID, Access-Control-Allow-Origin, Access-Control-Allow-Headers")
		if context.Request.Method == "OPTIONS" {
			context.AbortWithStatus(200)
			return
		}
		context.Next()
	}
}
