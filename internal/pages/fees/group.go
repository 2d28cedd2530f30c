package fees

import (
	"sort"

	"hostel-portal/internal/models"
)

// RoomGroup totals the fee records of one room on the current page.
type RoomGroup struct {
	RoomNumber string
	Block      string
	Records    int
	Amount     float64
	Paid       float64
	Pending    float64
	Students   []string
}

const unassignedRoom = "Unassigned"

// GroupByRoom buckets fees by block and room, sorted by block then room.
// Records without a room land in a trailing "Unassigned" group.
func GroupByRoom(fees []models.Fee) []RoomGroup {
	index := make(map[string]int)
	var groups []RoomGroup
	seen := make(map[string]map[string]bool)

	for _, f := range fees {
		room := f.RoomNumber
		if room == "" {
			room = unassignedRoom
		}
		key := f.Block + "/" + room
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, RoomGroup{RoomNumber: room, Block: f.Block})
			seen[key] = make(map[string]bool)
		}
		g := &groups[i]
		g.Records++
		g.Amount += f.Amount
		g.Paid += f.PaidAmount
		g.Pending += f.Outstanding()
		if name := f.Student.DisplayName(); name != "-" && !seen[key][name] {
			seen[key][name] = true
			g.Students = append(g.Students, name)
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		ga, gb := groups[a], groups[b]
		if (ga.RoomNumber == unassignedRoom) != (gb.RoomNumber == unassignedRoom) {
			return gb.RoomNumber == unassignedRoom
		}
		if ga.Block != gb.Block {
			return ga.Block < gb.Block
		}
		return ga.RoomNumber < gb.RoomNumber
	})
	return groups
}
