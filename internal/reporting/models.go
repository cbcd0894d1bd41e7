package reporting

// Common filtering inputs.

type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// SummaryRequest requests aggregated attendance metrics over a date range.

type SummaryRequest struct {
	Range      DateRange `json:"range"`
	EmployeeID string    `json:"employeeId,omitempty"`
}

type Summary struct {
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	EmployeeID string `json:"employeeId,omitempty"`

	TotalRecords   int `json:"totalRecords"`
	OpenRecords    int `json:"openRecords"`
	ClosedRecords  int `json:"closedRecords"`
	FullDays       int `json:"fullDays"`
	EarlyCheckouts int `json:"earlyCheckouts"`
	Unparseable    int `json:"unparseable"`

	TotalWorkedSeconds   int64 `json:"totalWorkedSeconds"`
	AverageWorkedSeconds int64 `json:"averageWorkedSeconds"`

	Employees []EmployeeSummary `json:"employees"`
}

// EmployeeSummary is one employee's slice of the range.

type EmployeeSummary struct {
	EmployeeID string `json:"employeeId"`

	DaysPresent    int `json:"daysPresent"`
	FullDays       int `json:"fullDays"`
	EarlyCheckouts int `json:"earlyCheckouts"`

	TotalWorkedSeconds int64 `json:"totalWorkedSeconds"`
}
