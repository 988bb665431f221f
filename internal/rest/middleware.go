package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/errors"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/logger"
	"github.com/muhammadchandra19/exchange/services/candlestick-service/pkg/util"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// requestID stamps the request context with the caller's id or a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := util.WithRequestID(c.Request.Context(), c.GetHeader(RequestIDHeader))
		ctx = util.WithClientIP(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, util.GetRequestID(ctx))
		c.Next()
	}
}

func accessLog(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.DebugContext(c.Request.Context(), "http request",
			logger.Field{Key: "action", Value: "http_request"},
			logger.Field{Key: "method", Value: c.Request.Method},
			logger.Field{Key: "path", Value: c.FullPath()},
			logger.Field{Key: "status", Value: c.Writer.Status()},
			logger.Field{Key: "duration", Value: time.Since(start).String()},
			logger.Field{Key: "client_ip", Value: util.GetClientIP(c.Request.Context())},
		)
	}
}

func rateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Reason: errors.RateLimited.String()})
			return
		}
		c.Next()
	}
}
