package main

import (
	"net/http"

	"hrms-gateway/internal/authz"
	"hrms-gateway/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
//
// Every dashboard subtree registered here has a matching prefix in
// authz.DefaultGrant; the authorization middleware decides render vs
// redirect before any view handler runs.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})
	r.GET("/login", func(c *gin.Context) {
		c.JSON(200, gin.H{"page": "login"})
	})

	// session lifecycle
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	// dashboards, one subtree per role
	grant := authz.DefaultGrant()

	admin := r.Group("/admin/dashboard")
	admin.Use(authz.Middleware(grant, h.Audit))
	{
		admin.GET("", h.Dashboard)
		admin.GET("/profile", h.Section("profile"))
		admin.GET("/departments", h.Section("departments"))
		admin.GET("/employees", h.Section("employees"))
		admin.GET("/leaves", h.Section("leaves"))
		admin.GET("/attendance", h.HRDailyAttendance)
		admin.GET("/attendance/range", h.HRRangeAttendance)
		admin.GET("/attendance/summary", h.HRAttendanceSummary)
		admin.GET("/access", h.Section("access"))
		admin.GET("/assets", h.Section("assets"))
		admin.GET("/documents", h.Section("documents"))
	}

	hr := r.Group("/hr/dashboard")
	hr.Use(authz.Middleware(grant, h.Audit))
	{
		hr.GET("", h.Dashboard)
		hr.GET("/profile", h.Section("profile"))
		hr.GET("/departments", h.Section("departments"))
		hr.GET("/employees", h.Section("employees"))
		hr.GET("/leaves", h.Section("leaves"))
		hr.GET("/attendance", h.HRDailyAttendance)
		hr.GET("/attendance/range", h.HRRangeAttendance)
		hr.GET("/attendance/summary", h.HRAttendanceSummary)
		hr.GET("/assets", h.Section("assets"))
		hr.GET("/documents", h.Section("documents"))
	}

	tmp := r.Group("/temporary/admin/dashboard")
	tmp.Use(authz.Middleware(grant, h.Audit))
	{
		tmp.GET("", h.Dashboard)
		tmp.GET("/profile", h.Section("profile"))
		tmp.GET("/departments", h.Section("departments"))
		tmp.GET("/employees", h.Section("employees"))
		tmp.GET("/leaves", h.Section("leaves"))
		tmp.GET("/attendance", h.HRDailyAttendance)
	}

	emp := r.Group("/employee/dashboard")
	emp.Use(authz.Middleware(grant, h.Audit))
	{
		emp.GET("", h.Dashboard)
		emp.GET("/profile", h.Section("profile"))
		emp.GET("/leaves", h.Section("leaves"))
		emp.GET("/documents", h.Section("documents"))
		emp.GET("/change-password", h.Section("change-password"))

		emp.GET("/attendance", h.AttendanceStatus)
		emp.GET("/attendance/stream", h.AttendanceStream)
		emp.POST("/attendance/check-in", h.AttendanceCheckIn)
		emp.POST("/attendance/check-out", h.AttendanceCheckOut)
	}
}
