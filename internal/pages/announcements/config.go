package announcements

import (
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

const (
	Resource            = "announcements"
	defaultItemsPerPage = 12
	basePath            = "/announcements"
)

var facets = []listing.Facet{
	{Key: "category", Label: "Category", Values: []string{"all", "general", "maintenance", "event", "emergency", "academic"}},
	{Key: "priority", Label: "Priority", Values: []string{"all", "low", "medium", "high", "urgent"}},
	{Key: "targetAudience", Label: "Audience", Values: []string{"all", "students", "wardens"}},
	{Key: "active", Label: "Active", Values: []string{"all", "true", "false"}},
}

var permissions = pages.Permissions{
	models.RoleAdmin:  {pages.ActionCreate, pages.ActionUpdate, pages.ActionDelete, pages.ActionToggle},
	models.RoleWarden: {pages.ActionCreate, pages.ActionUpdate, pages.ActionDelete, pages.ActionToggle},
}

var payloadSchema = map[string]pages.Kind{
	"title":          pages.KindString,
	"content":        pages.KindString,
	"category":       pages.KindString,
	"priority":       pages.KindString,
	"targetAudience": pages.KindString,
	"expiresAt":      pages.KindString,
	"isActive":       pages.KindBool,
}

// endpoints is the role-bound set of paths, resolved once per view.
type endpoints struct {
	list  string
	stats string
}

func endpointsFor(role models.Role) endpoints {
	if role.IsStaff() {
		return endpoints{list: basePath + "/admin", stats: basePath + "/stats"}
	}
	return endpoints{list: basePath}
}

// defaultFilters hides inactive notices from staff until asked; the student
// listing only ever returns active ones.
func defaultFilters(role models.Role) map[string]string {
	if role.IsStaff() {
		return map[string]string{"active": "true"}
	}
	return nil
}
