package httpapi

import (
	"errors"
	"net/http"
	"time"

	"hrms-gateway/internal/attendance"
	"hrms-gateway/internal/audit"
	"hrms-gateway/internal/auth"
	"hrms-gateway/internal/authz"
	"hrms-gateway/internal/gateway"
	"hrms-gateway/internal/session"
	"hrms-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal modules, return JSON.

type Handlers struct {
	Auth       *auth.Manager
	Sessions   session.Store
	AuthClient *gateway.Client
	Attendance *attendance.Service
	Audit      *audit.Service
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type upstreamLoginResponse struct {
	AccessToken string `json:"accessToken"`
	Role        string `json:"role"`
	EmployeeID  string `json:"employeeId"`
}

// Login authenticates against the upstream user-management service and,
// for a recognized role, creates a gateway session and tells the client
// where to navigate. An unrecognized role gets an inline error and no
// session: navigation never happens for a role the grant table does not
// know.
func (h Handlers) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	ctx := gateway.WithRequestID(c.Request.Context(), logger.RequestID(c))
	var out upstreamLoginResponse
	if err := h.AuthClient.Post(ctx, "/api/auth/login", req, &out); err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			h.auditBestEffort(c, h.Audit.LogLogin(ctx, false, "", "", c.ClientIP(), "bad credentials"))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid login credentials"})
			return
		}
		h.writeUpstreamError(c, err)
		return
	}
	if out.AccessToken == "" {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "login failed upstream", "retryable": true})
		return
	}

	role, ok := session.ParseRole(out.Role)
	if !ok {
		h.auditBestEffort(c, h.Audit.LogUnknownRole(ctx, out.Role, c.ClientIP()))
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown role"})
		return
	}
	home, _ := authz.HomeRoute(role)

	now := time.Now().UTC()
	sid := uuid.NewString()
	sess := session.Session{
		Role:          role,
		EmployeeID:    out.EmployeeID,
		UpstreamToken: out.AccessToken,
		CreatedAt:     now,
	}
	if err := h.Sessions.Put(ctx, sid, sess); err != nil {
		logger.FromGin(c).Error("session store failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session creation failed"})
		return
	}

	tok, err := h.Auth.Issue(now, sid, out.EmployeeID, string(role))
	if err != nil {
		logger.FromGin(c).Error("token issuance failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}

	h.auditBestEffort(c, h.Audit.LogLogin(ctx, true, out.EmployeeID, string(role), c.ClientIP(), ""))
	c.JSON(http.StatusOK, gin.H{
		"token":      tok,
		"role":       string(role),
		"employeeId": out.EmployeeID,
		"redirectTo": home,
	})
}

// Logout destroys the session and everything derived from it. Idempotent:
// calling it without a session still succeeds.
func (h Handlers) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := auth.CurrentSession(ctx)
	if ok {
		sid, err := auth.SessionID(ctx)
		if err == nil {
			if err := h.Sessions.Delete(ctx, sid); err != nil {
				logger.FromGin(c).Error("session delete failed", "err", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
				return
			}
		}
		h.auditBestEffort(c, h.Audit.LogLogout(ctx, sess.EmployeeID, string(sess.Role), c.ClientIP()))
	}
	c.JSON(http.StatusOK, gin.H{"redirectTo": "/login"})
}

// --- error mapping ---

// writeUpstreamError maps gateway client failures onto the response
// contract: 401 clears the session (re-authentication required), other
// failures surface as retryable inline messages. Nothing is swallowed.
func (h Handlers) writeUpstreamError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, gateway.ErrUnauthorized):
		// The upstream token is no longer valid; the whole session goes.
		if sid, sidErr := auth.SessionID(ctx); sidErr == nil {
			_ = h.Sessions.Delete(ctx, sid)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":      "session expired",
			"redirectTo": "/login",
		})
	case errors.Is(err, gateway.ErrForbidden):
		sess, _ := auth.CurrentSession(ctx)
		home, ok := authz.HomeRoute(sess.Role)
		if !ok {
			home = "/login"
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":      "not permitted",
			"redirectTo": home,
		})
	default:
		var ne *gateway.NetworkError
		if errors.As(err, &ne) {
			logger.FromGin(c).Error("upstream unreachable", "err", err)
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"error":     "service unreachable, please retry",
				"retryable": true,
			})
			return
		}
		var se *gateway.ServerError
		if errors.As(err, &se) {
			msg := se.Message
			if msg == "" {
				msg = "upstream error"
			}
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"error":     msg,
				"retryable": true,
			})
			return
		}
		logger.FromGin(c).Error("upstream call failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
			"error":     "unexpected upstream response",
			"retryable": true,
		})
	}
}

func (h Handlers) auditBestEffort(c *gin.Context, err error) {
	if err != nil {
		logger.FromGin(c).Warn("audit append failed", "err", err)
	}
}
