package auth

import (
	"strings"
	"time"

	"hrms-gateway/internal/session"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// LoadSession resolves the caller's session, if any, and injects it into
// the request context. It never aborts: route-level policy (redirect vs
// 401) belongs to the authorization layer, not here.
//
// A token that verifies but points at a deleted or expired store record
// is treated as absent. That covers logout-then-back-button and store
// eviction without any token revocation list.
func LoadSession(m *Manager, store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.Next()
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		claims, err := m.Verify(tok, time.Now())
		if err != nil {
			c.Next()
			return
		}

		sess, ok, err := store.Get(c.Request.Context(), claims.SessionID)
		if err != nil || !ok {
			c.Next()
			return
		}

		ctx := WithSession(c.Request.Context(), claims.SessionID, sess)
		c.Request = c.Request.WithContext(ctx)

		// Also store on gin context for handler convenience.
		c.Set("session_id", claims.SessionID)
		c.Set("employee_id", sess.EmployeeID)
		c.Set("role", string(sess.Role))

		c.Next()
	}
}
