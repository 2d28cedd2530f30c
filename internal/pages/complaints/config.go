package complaints

import (
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

const (
	Resource            = "complaints"
	defaultItemsPerPage = 10
	basePath            = "/complaints"
)

var statuses = []string{"pending", "in-progress", "resolved", "rejected"}

var facets = []listing.Facet{
	{Key: "status", Label: "Status", Values: append([]string{"all"}, statuses...)},
	{Key: "priority", Label: "Priority", Values: []string{"all", "low", "medium", "high", "urgent"}},
	{Key: "category", Label: "Category", Values: []string{"all", "electrical", "plumbing", "cleaning", "internet", "furniture", "other"}},
}

var permissions = pages.Permissions{
	models.RoleAdmin:   {pages.ActionStatus, pages.ActionBulk, pages.ActionDelete},
	models.RoleWarden:  {pages.ActionStatus, pages.ActionBulk},
	models.RoleStudent: {pages.ActionCreate, pages.ActionDelete},
}

var payloadSchema = map[string]pages.Kind{
	"title":       pages.KindString,
	"description": pages.KindString,
	"category":    pages.KindString,
	"priority":    pages.KindString,
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

func validStatus(s string) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
