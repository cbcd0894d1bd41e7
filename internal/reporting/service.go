package reporting

import (
	"errors"
	"sort"

	"hrms-gateway/internal/attendance"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Summarize aggregates upstream attendance records into range metrics.
// It is a pure fold over the records the gateway already fetched: the
// upstream service stays the source of truth and nothing here writes.
//
// A closed record whose instants cannot be parsed still counts toward
// presence but not toward worked time; Unparseable tracks how many rows
// were skipped that way so the HR view can flag incomplete upstream data.
func Summarize(req SummaryRequest, records []attendance.Record) (Summary, error) {
	if req.Range.StartDate == "" || req.Range.EndDate == "" {
		return Summary{}, ErrInvalidRequest
	}
	if req.Range.EndDate < req.Range.StartDate {
		return Summary{}, ErrInvalidRequest
	}

	out := Summary{
		StartDate:  req.Range.StartDate,
		EndDate:    req.Range.EndDate,
		EmployeeID: req.EmployeeID,
	}
	perEmployee := map[string]*EmployeeSummary{}

	for _, r := range records {
		if req.EmployeeID != "" && r.EmployeeID != req.EmployeeID {
			continue
		}
		out.TotalRecords++

		es := perEmployee[r.EmployeeID]
		if es == nil {
			es = &EmployeeSummary{EmployeeID: r.EmployeeID}
			perEmployee[r.EmployeeID] = es
		}
		es.DaysPresent++

		if r.Open() {
			out.OpenRecords++
			continue
		}
		out.ClosedRecords++

		in, okIn := attendance.ParseInstant(r.CheckInTime)
		outAt, okOut := attendance.ParseInstant(r.CheckOutTime)
		if !okIn || !okOut || outAt.Before(in) {
			out.Unparseable++
			continue
		}

		worked := outAt.Sub(in)
		seconds := int64(worked.Seconds())
		out.TotalWorkedSeconds += seconds
		es.TotalWorkedSeconds += seconds

		if worked >= attendance.FullDayThreshold {
			out.FullDays++
			es.FullDays++
		} else {
			out.EarlyCheckouts++
			es.EarlyCheckouts++
		}
	}

	if out.ClosedRecords > out.Unparseable {
		out.AverageWorkedSeconds = out.TotalWorkedSeconds / int64(out.ClosedRecords-out.Unparseable)
	}

	out.Employees = make([]EmployeeSummary, 0, len(perEmployee))
	for _, es := range perEmployee {
		out.Employees = append(out.Employees, *es)
	}
	sort.Slice(out.Employees, func(i, j int) bool {
		return out.Employees[i].EmployeeID < out.Employees[j].EmployeeID
	})

	return out, nil
}
