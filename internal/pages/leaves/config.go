package leaves

import (
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

const (
	Resource            = "leaves"
	defaultItemsPerPage = 10
	basePath            = "/leaves"
)

var reviewStatuses = []string{"approved", "rejected"}

var facets = []listing.Facet{
	{Key: "status", Label: "Status", Values: []string{"all", "pending", "approved", "rejected"}},
	{Key: "leaveType", Label: "Type", Values: []string{"all", "home", "medical", "emergency", "other"}},
	{Key: "fromDate", Label: "From (YYYY-MM-DD)"},
	{Key: "toDate", Label: "To (YYYY-MM-DD)"},
}

var permissions = pages.Permissions{
	models.RoleAdmin:   {pages.ActionStatus, pages.ActionBulk, pages.ActionDelete},
	models.RoleWarden:  {pages.ActionStatus, pages.ActionBulk},
	models.RoleStudent: {pages.ActionCreate, pages.ActionDelete},
}

var payloadSchema = map[string]pages.Kind{
	"leaveType": pages.KindString,
	"fromDate":  pages.KindString,
	"toDate":    pages.KindString,
	"reason":    pages.KindString,
}

type endpoints struct {
	list  string
	stats string
}

func endpointsFor(role models.Role) endpoints {
	if role.IsStaff() {
		return endpoints{list: basePath, stats: basePath + "/stats"}
	}
	return endpoints{list: basePath + "/my"}
}

func validReview(s string) bool {
	return s == reviewStatuses[0] || s == reviewStatuses[1]
}
