package fees

import (
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

const (
	Resource            = "fees"
	defaultItemsPerPage = 20
	basePath            = "/fees"
)

var statuses = []string{"paid", "pending", "partial", "overdue"}

var facets = []listing.Facet{
	{Key: "status", Label: "Status", Values: append([]string{"all"}, statuses...)},
	{Key: "feeType", Label: "Type", Values: []string{"all", "hostel", "mess", "maintenance", "security"}},
	{Key: "month", Label: "Month"},
	{Key: "year", Label: "Year"},
	{Key: "block", Label: "Block"},
}

var permissions = pages.Permissions{
	models.RoleAdmin:  {pages.ActionCreate, pages.ActionUpdate, pages.ActionDelete, pages.ActionBulk},
	models.RoleWarden: {pages.ActionUpdate, pages.ActionBulk},
}

var createSchema = map[string]pages.Kind{
	"student": pages.KindString,
	"feeType": pages.KindString,
	"amount":  pages.KindFloat,
	"month":   pages.KindString,
	"year":    pages.KindInt,
	"dueDate": pages.KindString,
}

var updateSchema = map[string]pages.Kind{
	"amount":     pages.KindFloat,
	"paidAmount": pages.KindFloat,
	"status":     pages.KindString,
	"dueDate":    pages.KindString,
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

// defaultFilters scopes wardens to their own block.
func defaultFilters(role models.Role, block string) map[string]string {
	if role == models.RoleWarden && block != "" {
		return map[string]string{"block": block}
	}
	return nil
}

func validStatus(s string) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
