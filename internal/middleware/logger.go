// Package middleware holds the gin middleware shared by all routes.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
)

// Logger logs one line per request through glog. Successful requests are
// logged at V(1); client and server errors always.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)

		switch {
		case status >= 500:
			glog.Errorf("%s %s -> %d (%v) %s", c.Request.Method, path, status, latency, c.Errors.String())
		case status >= 400:
			glog.Warningf("%s %s -> %d (%v)", c.Request.Method, path, status, latency)
		default:
			glog.V(1).Infof("%s %s -> %d (%v)", c.Request.Method, path, status, latency)
		}
	}
}
