package console

import (
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
	"hostel-portal/internal/pages/announcements"
	"hostel-portal/internal/pages/complaints"
	"hostel-portal/internal/pages/fees"
	"hostel-portal/internal/pages/leaves"
	"hostel-portal/internal/pages/rooms"
	"hostel-portal/internal/pages/users"
	"hostel-portal/internal/pages/wardens"
)

// viewSpec registers one list view and the roles that may open it.
type viewSpec struct {
	Name        string
	Description string
	Roles       []models.Role
	Open        func(pages.Deps) pages.View
}

var (
	everyone  = []models.Role{models.RoleAdmin, models.RoleWarden, models.RoleStudent}
	staff     = []models.Role{models.RoleAdmin, models.RoleWarden}
	adminOnly = []models.Role{models.RoleAdmin}
)

var views = []viewSpec{
	{announcements.Resource, "Notices for residents", everyone, func(d pages.Deps) pages.View { return announcements.New(d) }},
	{complaints.Resource, "Maintenance and service complaints", everyone, func(d pages.Deps) pages.View { return complaints.New(d) }},
	{leaves.Resource, "Leave applications", everyone, func(d pages.Deps) pages.View { return leaves.New(d) }},
	{fees.Resource, "Fee records and payments", everyone, func(d pages.Deps) pages.View { return fees.New(d) }},
	{rooms.Resource, "Rooms and occupancy", everyone, func(d pages.Deps) pages.View { return rooms.New(d) }},
	{users.Resource, "Resident and staff accounts", staff, func(d pages.Deps) pages.View { return users.New(d) }},
	{wardens.Resource, "Warden accounts", adminOnly, func(d pages.Deps) pages.View { return wardens.New(d) }},
}

// Available lists the views role may open, in menu order.
func Available(role models.Role) []viewSpec {
	var out []viewSpec
	for _, v := range views {
		for _, r := range v.Roles {
			if r == role {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func lookupView(role models.Role, name string) (viewSpec, bool) {
	for _, v := range Available(role) {
		if v.Name == name {
			return v, true
		}
	}
	return viewSpec{}, false
}
