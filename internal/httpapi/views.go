package httpapi

import (
	"net/http"

	"hrms-gateway/internal/auth"
	"hrms-gateway/internal/authz"

	"github.com/gin-gonic/gin"
)

// Dashboard view models. These are pure presentation: the sections
// mirror each role's sidebar and every entry points into the same route
// subtree the grant table permits. Permissions are decided before these
// handlers run; nothing here re-derives them.

type dashboardView struct {
	Role       string   `json:"role"`
	EmployeeID string   `json:"employeeId"`
	Home       string   `json:"home"`
	Sections   []string `json:"sections"`
}

var roleSections = map[string][]string{
	"ADMIN":           {"summary", "profile", "departments", "employees", "leaves", "attendance", "access", "assets", "documents"},
	"HR":              {"summary", "profile", "departments", "employees", "leaves", "attendance", "assets", "documents"},
	"TEMPORARY_ADMIN": {"summary", "profile", "departments", "employees", "leaves", "attendance"},
	"EMPLOYEE":        {"profile", "leaves", "attendance", "documents", "change-password"},
}

// Dashboard renders the role's dashboard entry point.
func (h Handlers) Dashboard(c *gin.Context) {
	sess, ok := auth.CurrentSession(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	home, _ := authz.HomeRoute(sess.Role)
	c.JSON(http.StatusOK, dashboardView{
		Role:       string(sess.Role),
		EmployeeID: sess.EmployeeID,
		Home:       home,
		Sections:   roleSections[string(sess.Role)],
	})
}

// Section renders a named dashboard section. The underlying CRUD data
// comes from the upstream services; the gateway only shapes the page
// envelope here.
func (h Handlers) Section(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := auth.CurrentSession(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"role":       string(sess.Role),
			"employeeId": sess.EmployeeID,
			"section":    name,
		})
	}
}
