package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mealpersona-backend/internal/platform/httpx"
	"github.com/yungbote/mealpersona-backend/internal/services"
)

const requestMetaKey = "request_meta"

// AttachRequestContext records the caller's address and user agent for
// audit entries.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(requestMetaKey, services.RequestMeta{
			IP:        httpx.ClientIP(c.Request),
			UserAgent: c.Request.UserAgent(),
		})
		c.Next()
	}
}

func RequestMeta(c *gin.Context) services.RequestMeta {
	if v, ok := c.Get(requestMetaKey); ok {
		if meta, ok := v.(services.RequestMeta); ok {
			return meta
		}
	}
	return services.RequestMeta{IP: httpx.ClientIP(c.Request), UserAgent: c.Request.UserAgent()}
}
