package users

import (
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

const (
	Resource            = "users"
	defaultItemsPerPage = 10
	basePath            = "/users"

	defaultDirectoryLimit = 1000
)

var facets = []listing.Facet{
	{Key: "role", Label: "Role", Values: []string{"all", "admin", "warden", "student"}},
	{Key: "block", Label: "Block"},
	{Key: "isActive", Label: "Active", Values: []string{"all", "true", "false"}},
}

var permissions = pages.Permissions{
	models.RoleAdmin: {pages.ActionCreate, pages.ActionUpdate, pages.ActionDelete, pages.ActionToggle},
}

var createKinds = map[string]pages.Kind{
	"name":      pages.KindString,
	"email":     pages.KindString,
	"role":      pages.KindString,
	"phone":     pages.KindString,
	"studentId": pages.KindString,
	"block":     pages.KindString,
	"password":  pages.KindString,
}

var updateKinds = map[string]pages.Kind{
	"name":      pages.KindString,
	"phone":     pages.KindString,
	"studentId": pages.KindString,
	"block":     pages.KindString,
	"role":      pages.KindString,
	"isActive":  pages.KindBool,
}

func defaultFilters(role models.Role, block string) map[string]string {
	if role == models.RoleWarden && block != "" {
		return map[string]string{"block": block}
	}
	return nil
}
