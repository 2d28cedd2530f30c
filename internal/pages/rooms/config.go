package rooms

import (
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

const (
	Resource            = "rooms"
	defaultItemsPerPage = 12
	basePath            = "/rooms"
)

var facets = []listing.Facet{
	{Key: "block", Label: "Block"},
	{Key: "type", Label: "Type", Values: []string{"all", "single", "double", "triple"}},
	{Key: "status", Label: "Status", Values: []string{"all", "available", "occupied", "maintenance"}},
	{Key: "floor", Label: "Floor"},
}

var permissions = pages.Permissions{
	models.RoleAdmin:  {pages.ActionCreate, pages.ActionUpdate, pages.ActionDelete},
	models.RoleWarden: {pages.ActionUpdate},
}

var fieldKinds = map[string]pages.Kind{
	"roomNumber": pages.KindString,
	"block":      pages.KindString,
	"floor":      pages.KindInt,
	"type":       pages.KindString,
	"capacity":   pages.KindInt,
	"status":     pages.KindString,
	"rent":       pages.KindFloat,
}

// wardenEditable limits wardens to housekeeping fields.
var wardenEditable = map[string]pages.Kind{
	"status": pages.KindString,
}

// defaultFilters scopes everyone but admins to their own block.
func defaultFilters(role models.Role, block string) map[string]string {
	if role == models.RoleAdmin || block == "" {
		return nil
	}
	return map[string]string{"block": block}
}
