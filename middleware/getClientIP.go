package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP returns the caller's address for rate limiting and request
// logs. The first parseable X-Forwarded-For entry wins, then X-Real-IP,
// then the socket peer. Header values that are not IPs are ignored.
func getClientIP(c *gin.Context) string {
	for _, candidate := range strings.Split(c.GetHeader("X-Forwarded-For"), ",") {
		if ip := canonicalIP(candidate); ip != "" {
			return ip
		}
	}
	if ip := canonicalIP(c.GetHeader("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

func canonicalIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
