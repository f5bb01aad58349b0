package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件。探活请求不记录
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		if path == "/health" {
			return
		}

		latency := time.Since(start)
		status := c.Writer.Status()

		prefix := "[HTTP]"
		if status >= 500 {
			// 5xx 带上错误标记，方便 grep
			prefix = "[HTTP][ERROR]"
		}

		log.Printf("%s %s %s 用户:%d 状态:%d 耗时:%v 来源:%s",
			prefix,
			c.Request.Method,
			path,
			GetUserID(c),
			status,
			latency,
			c.ClientIP(),
		)
	}
}
