package authz

import (
	"context"
	"net/http"

	"hrms-gateway/internal/auth"
	"hrms-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

const loginRoute = "/login"

// DenialAuditor records navigations the grant table turned away.
// audit.Service satisfies it; nil disables recording.
type DenialAuditor interface {
	LogRouteDenied(ctx context.Context, employeeID, role, ip, path string) error
}

// Middleware applies the grant decision to every dashboard navigation.
// It must run after auth.LoadSession in the chain.
//
// Redirect decisions use 302 so the browser follows them on plain GET
// navigations; render decisions fall through to the view handler.
// Denials are audited best-effort: a failed append is logged, never
// surfaced to the caller.
func Middleware(grant RouteGrant, aud DenialAuditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		sess, authenticated := auth.CurrentSession(c.Request.Context())

		switch grant.Resolve(path, sess, authenticated) {
		case DecisionRender:
			c.Next()
		case DecisionRedirectHome:
			home, _ := HomeRoute(sess.Role)
			logger.FromGin(c).Warn("route denied",
				"path", path,
				"role", string(sess.Role),
				"redirect", home,
			)
			if aud != nil {
				if err := aud.LogRouteDenied(c.Request.Context(), sess.EmployeeID, string(sess.Role), c.ClientIP(), path); err != nil {
					logger.FromGin(c).Warn("audit append failed", "err", err)
				}
			}
			c.Redirect(http.StatusFound, home)
			c.Abort()
		default:
			c.Redirect(http.StatusFound, loginRoute)
			c.Abort()
		}
	}
}
