package models

import "time"

type Leave struct {
	ID         string    `json:"_id"`
	Student    *UserRef  `json:"student,omitempty"`
	LeaveType  string    `json:"leaveType"`
	FromDate   time.Time `json:"fromDate"`
	ToDate     time.Time `json:"toDate"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	ReviewedBy *UserRef  `json:"reviewedBy,omitempty"`
	Remarks    string    `json:"remarks,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}

// Days is the inclusive number of calendar days covered, for display only.
func (l Leave) Days() int {
	if l.FromDate.IsZero() || l.ToDate.IsZero() || l.ToDate.Before(l.FromDate) {
		return 0
	}
	from := time.Date(l.FromDate.Year(), l.FromDate.Month(), l.FromDate.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(l.ToDate.Year(), l.ToDate.Month(), l.ToDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours()/24) + 1
}
