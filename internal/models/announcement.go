package models

import "time"

type Announcement struct {
	ID             string     `json:"_id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Category       string     `json:"category"`
	Priority       string     `json:"priority"`
	TargetAudience string     `json:"targetAudience"`
	IsActive       bool       `json:"isActive"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
	CreatedBy      *UserRef   `json:"createdBy,omitempty"`
	CreatedAt      time.Time  `json:"createdAt,omitempty"`
}
