package models

import "time"

type Fee struct {
	ID         string     `json:"_id"`
	Student    *UserRef   `json:"student,omitempty"`
	RoomNumber string     `json:"roomNumber,omitempty"`
	Block      string     `json:"block,omitempty"`
	FeeType    string     `json:"feeType"`
	Amount     float64    `json:"amount"`
	PaidAmount float64    `json:"paidAmount"`
	Status     string     `json:"status"`
	Month      string     `json:"month,omitempty"`
	Year       int        `json:"year,omitempty"`
	DueDate    time.Time  `json:"dueDate,omitempty"`
	PaidAt     *time.Time `json:"paidAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt,omitempty"`
}

// Outstanding is what remains to be paid; never negative.
func (f Fee) Outstanding() float64 {
	if f.PaidAmount >= f.Amount {
		return 0
	}
	return f.Amount - f.PaidAmount
}
