package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hrms-gateway/internal/attendance"
	"hrms-gateway/internal/auth"
	"hrms-gateway/internal/gateway"
	"hrms-gateway/internal/reporting"
	"hrms-gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AttendanceStatus returns the employee's timer state and records.
// GET /employee/dashboard/attendance
func (h Handlers) AttendanceStatus(c *gin.Context) {
	ctx := gateway.WithRequestID(c.Request.Context(), logger.RequestID(c))
	sid, sess, ok := h.identity(c)
	if !ok {
		return
	}

	st, err := h.Attendance.Status(ctx, sid, sess.EmployeeID)
	if err != nil {
		h.writeAttendanceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// AttendanceCheckIn records today's check-in.
// POST /employee/dashboard/attendance/check-in
func (h Handlers) AttendanceCheckIn(c *gin.Context) {
	ctx := gateway.WithRequestID(c.Request.Context(), logger.RequestID(c))
	sid, sess, ok := h.identity(c)
	if !ok {
		return
	}

	st, err := h.Attendance.CheckIn(ctx, sid, sess.EmployeeID)
	if err != nil {
		h.writeAttendanceError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type checkoutRequest struct {
	WorkDescription string `json:"workDescription"`
	EarlyConfirmed  bool   `json:"earlyConfirmed"`
}

// AttendanceCheckOut requests a checkout. Before the nine-hour mark the
// first call answers with outcome confirmation_required and performs no
// checkout; the client repeats the call with earlyConfirmed=true once
// the employee has answered yes. Answering no is simply not repeating.
// POST /employee/dashboard/attendance/check-out
func (h Handlers) AttendanceCheckOut(c *gin.Context) {
	ctx := gateway.WithRequestID(c.Request.Context(), logger.RequestID(c))
	sid, sess, ok := h.identity(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	res, err := h.Attendance.RequestCheckout(ctx, sid, sess.EmployeeID, req.WorkDescription, req.EarlyConfirmed)
	if err != nil {
		h.writeAttendanceError(c, err)
		return
	}
	if res.Outcome == attendance.OutcomeCheckedOut && res.Early {
		h.auditBestEffort(c, h.Audit.LogEarlyCheckout(ctx, sess.EmployeeID, c.ClientIP()))
	}
	c.JSON(http.StatusOK, res)
}

// AttendanceStream pushes the running elapsed time once per second over
// Server-Sent Events while the employee stays checked in. The ticker is
// stopped when the client disconnects; it never outlives the request.
// A checkout in another tab closes the stream client-side.
// GET /employee/dashboard/attendance/stream
func (h Handlers) AttendanceStream(c *gin.Context) {
	ctx := gateway.WithRequestID(c.Request.Context(), logger.RequestID(c))
	sid, sess, ok := h.identity(c)
	if !ok {
		return
	}

	st, err := h.Attendance.Status(ctx, sid, sess.EmployeeID)
	if err != nil {
		h.writeAttendanceError(c, err)
		return
	}
	if st.State != attendance.StateCheckedIn.String() {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "not checked in"})
		return
	}
	checkInAt := time.UnixMilli(st.CheckInTimestamp)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	flusher, ok2 := c.Writer.(http.Flusher)
	if !ok2 {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	events := make(chan int64, 1)
	ticker := attendance.StartTicker(time.Second, time.Now, func(now time.Time) {
		select {
		case events <- int64(now.Sub(checkInAt) / time.Second):
		default: // drop a tick rather than block the ticker
		}
	})
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case elapsed := <-events:
			fmt.Fprintf(c.Writer, "event: elapsed\ndata: %d\n\n", elapsed)
			flusher.Flush()
		}
	}
}

// HRDailyAttendance lists all employees' records for one date.
// The result is cached per session so repeat navigations within the
// dashboard do not refetch; logout or session expiry drops the cache
// with everything else.
// GET /hr/dashboard/attendance (also mounted under /admin/dashboard)
func (h Handlers) HRDailyAttendance(c *gin.Context) {
	ctx := gateway.WithRequestID(c.Request.Context(), logger.RequestID(c))
	sid, _, ok := h.identity(c)
	if !ok {
		return
	}

	cacheKey := "attendance:daily:" + c.Query("date")
	if cached, hit, err := h.Sessions.Cache(ctx, sid, cacheKey); err == nil && hit {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	records, err := h.Attendance.DailyReport(ctx, c.Query("date"))
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}

	body, err := json.Marshal(gin.H{"records": records})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "encoding failed"})
		return
	}
	if err := h.Sessions.SetCache(ctx, sid, cacheKey, string(body)); err != nil {
		logger.FromGin(c).Warn("report cache write failed", "err", err)
	}
	c.Data(http.StatusOK, "application/json", body)
}

// HRRangeAttendance lists all employees' records between two dates.
// GET /hr/dashboard/attendance/range
func (h Handlers) HRRangeAttendance(c *gin.Context) {
	start, end := c.Query("startDate"), c.Query("endDate")
	if start == "" || end == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate required"})
		return
	}

	ctx := gateway.WithRequestID(c.Request.Context(), logger.RequestID(c))
	records, err := h.Attendance.RangeReport(ctx, start, end)
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// HRAttendanceSummary aggregates a date range into workforce metrics:
// presence, full days, early checkouts, worked time per employee.
// GET /hr/dashboard/attendance/summary
func (h Handlers) HRAttendanceSummary(c *gin.Context) {
	start, end := c.Query("startDate"), c.Query("endDate")
	if start == "" || end == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate required"})
		return
	}

	ctx := gateway.WithRequestID(c.Request.Context(), logger.RequestID(c))
	records, err := h.Attendance.RangeReport(ctx, start, end)
	if err != nil {
		h.writeUpstreamError(c, err)
		return
	}

	sum, err := reporting.Summarize(reporting.SummaryRequest{
		Range:      reporting.DateRange{StartDate: start, EndDate: end},
		EmployeeID: c.Query("employeeId"),
	}, records)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// identity pulls the resolved session out of the request context.
// Routes registered behind the authorization layer always have one; the
// guard protects against misregistration.
func (h Handlers) identity(c *gin.Context) (string, sessionIdentity, bool) {
	ctx := c.Request.Context()
	sess, ok := auth.CurrentSession(ctx)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", sessionIdentity{}, false
	}
	sid, err := auth.SessionID(ctx)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return "", sessionIdentity{}, false
	}
	return sid, sessionIdentity{EmployeeID: sess.EmployeeID, Role: string(sess.Role)}, true
}

type sessionIdentity struct {
	EmployeeID string
	Role       string
}

// writeAttendanceError maps state-machine errors inline and defers the
// rest to the upstream error mapping.
func (h Handlers) writeAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "already checked in today"})
	case errors.Is(err, attendance.ErrNotCheckedIn):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "not checked in"})
	case errors.Is(err, attendance.ErrDayComplete):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "attendance for today is already complete"})
	default:
		h.writeUpstreamError(c, err)
	}
}
