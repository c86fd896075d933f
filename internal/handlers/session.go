package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "session_id"
	sessionHeaderName = "x-session-id"
	sessionMaxAge     = 30 * 24 * 3600 // 30 jours
)

// sessionFromRequest lit l'identifiant de session : cookie d'abord,
// header x-session-id en repli (clients sans cookies).
func sessionFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(sessionCookieName); err == nil && v != "" {
		return v
	}
	return c.GetHeader(sessionHeaderName)
}

// ensureSession renvoie la session existante ou en crée une nouvelle,
// posée en cookie httpOnly pour les requêtes suivantes.
func ensureSession(c *gin.Context) string {
	if sid := sessionFromRequest(c); sid != "" {
		return sid
	}
	sid := newSessionID()
	c.SetCookie(sessionCookieName, sid, sessionMaxAge, "/", "", false, true)
	return sid
}

func newSessionID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("guest_%d_%s", time.Now().UnixMilli(), suffix)
}
