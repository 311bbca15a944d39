package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"hidden-market/internal/clientstate"
	"hidden-market/internal/session"
	"hidden-market/services/market/helpers"
	"hidden-market/utils"

	"github.com/gin-gonic/gin"
)

// SessionRestorer turns a session token back into the tab's client
type SessionRestorer interface {
	Restore(ctx context.Context, token string) (*clientstate.Client, error)
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// SessionMiddleware attaches the caller's client to the request. The token
// comes from the Authorization header (a tab's own storage) or, failing
// that, the browser-session cookie.
func SessionMiddleware(sessions SessionRestorer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(session.CookieName)
		}
		if token == "" {
			token = c.Query("token") // websocket handshakes cannot set headers
		}

		client, err := sessions.Restore(c.Request.Context(), token)
		if err != nil {
			status := http.StatusInternalServerError
			if session.IsUnauthenticated(err) {
				status = http.StatusUnauthorized
			}
			utils.JSONError(c, status, err, "로그인이 필요합니다.")
			utils.Warn("SessionMiddleware: request without session", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			return
		}

		helpers.SetSession(c, client.Session().SessionID, client)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
