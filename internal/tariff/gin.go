package tariff

import (
	"log/slog"
	"net"

	"github.com/gin-gonic/gin"
)

// Gin returns the layer as gin middleware. The delay is keyed on the
// connection's peer address; forwarding headers are ignored.
func (l *Layer) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := net.ParseIP(c.RemoteIP())
		if err := l.Hold(c.Request.Context(), ip); err != nil {
			slog.Debug("request cancelled while delayed", "path", c.Request.URL.Path, "error", err)
			c.Abort()
			return
		}
		c.Next()
	}
}
