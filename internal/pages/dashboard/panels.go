package dashboard

import (
	"fmt"

	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

func complaintFields(s models.ComplaintStats) []pages.Field {
	return []pages.Field{
		{Label: "Total", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Pending", Value: fmt.Sprint(s.Overview.Pending)},
		{Label: "In progress", Value: fmt.Sprint(s.Overview.InProgress)},
		{Label: "Resolved", Value: fmt.Sprint(s.Overview.Resolved)},
		{Label: "Urgent", Value: fmt.Sprint(s.ByPriority.Urgent)},
	}
}

func leaveFields(s models.LeaveStats) []pages.Field {
	return []pages.Field{
		{Label: "Total", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Pending", Value: fmt.Sprint(s.Overview.Pending)},
		{Label: "Approved", Value: fmt.Sprint(s.Overview.Approved)},
		{Label: "Rejected", Value: fmt.Sprint(s.Overview.Rejected)},
	}
}

func feeFields(s models.FeeStats) []pages.Field {
	return []pages.Field{
		{Label: "Billed", Value: pages.Money(s.Overview.TotalAmount)},
		{Label: "Collected", Value: pages.Money(s.Overview.CollectedAmount)},
		{Label: "Outstanding", Value: pages.Money(s.Overview.PendingAmount)},
		{Label: "Overdue", Value: fmt.Sprint(s.ByStatus.Overdue)},
	}
}

func roomFields(s models.RoomStats) []pages.Field {
	return []pages.Field{
		{Label: "Rooms", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Available", Value: fmt.Sprint(s.Overview.Available)},
		{Label: "Occupancy", Value: fmt.Sprintf("%.0f%%", s.OccupancyRate())},
	}
}

func announcementFields(s models.AnnouncementStats) []pages.Field {
	return []pages.Field{
		{Label: "Active", Value: fmt.Sprint(s.Overview.Active)},
		{Label: "Expired", Value: fmt.Sprint(s.Overview.Expired)},
		{Label: "Urgent", Value: fmt.Sprint(s.ByPriority.Urgent)},
	}
}

func userFields(s models.UserStats) []pages.Field {
	return []pages.Field{
		{Label: "Total", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Students", Value: fmt.Sprint(s.ByRole.Student)},
		{Label: "Inactive", Value: fmt.Sprint(s.Overview.Inactive)},
	}
}

func wardenFields(s models.WardenStats) []pages.Field {
	return []pages.Field{
		{Label: "Total", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Active", Value: fmt.Sprint(s.Overview.Active)},
		{Label: "Unassigned", Value: fmt.Sprint(s.Overview.Unassigned)},
	}
}
