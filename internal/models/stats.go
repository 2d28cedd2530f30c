package models

// Stats snapshots mirror the aggregate endpoints. Every field is a plain
// number or nested struct so the zero value is a complete all-zero snapshot.

type AnnouncementStats struct {
	Overview struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Inactive int `json:"inactive"`
		Expired  int `json:"expired"`
	} `json:"overview"`
	ByPriority struct {
		Low    int `json:"low"`
		Medium int `json:"medium"`
		High   int `json:"high"`
		Urgent int `json:"urgent"`
	} `json:"byPriority"`
	ByCategory struct {
		General     int `json:"general"`
		Maintenance int `json:"maintenance"`
		Event       int `json:"event"`
		Emergency   int `json:"emergency"`
		Academic    int `json:"academic"`
	} `json:"byCategory"`
}

type ComplaintStats struct {
	Overview struct {
		Total      int `json:"total"`
		Pending    int `json:"pending"`
		InProgress int `json:"inProgress"`
		Resolved   int `json:"resolved"`
		Rejected   int `json:"rejected"`
	} `json:"overview"`
	ByPriority struct {
		Low    int `json:"low"`
		Medium int `json:"medium"`
		High   int `json:"high"`
		Urgent int `json:"urgent"`
	} `json:"byPriority"`
	ByCategory struct {
		Electrical int `json:"electrical"`
		Plumbing   int `json:"plumbing"`
		Cleaning   int `json:"cleaning"`
		Internet   int `json:"internet"`
		Furniture  int `json:"furniture"`
		Other      int `json:"other"`
	} `json:"byCategory"`
}

type LeaveStats struct {
	Overview struct {
		Total    int `json:"total"`
		Pending  int `json:"pending"`
		Approved int `json:"approved"`
		Rejected int `json:"rejected"`
	} `json:"overview"`
	ByType struct {
		Home      int `json:"home"`
		Medical   int `json:"medical"`
		Emergency int `json:"emergency"`
		Other     int `json:"other"`
	} `json:"byType"`
}

type FeeStats struct {
	Overview struct {
		TotalRecords    int     `json:"totalRecords"`
		TotalAmount     float64 `json:"totalAmount"`
		CollectedAmount float64 `json:"collectedAmount"`
		PendingAmount   float64 `json:"pendingAmount"`
	} `json:"overview"`
	ByStatus struct {
		Paid    int `json:"paid"`
		Pending int `json:"pending"`
		Partial int `json:"partial"`
		Overdue int `json:"overdue"`
	} `json:"byStatus"`
	ByType struct {
		Hostel      float64 `json:"hostel"`
		Mess        float64 `json:"mess"`
		Maintenance float64 `json:"maintenance"`
		Security    float64 `json:"security"`
	} `json:"byType"`
}

type RoomStats struct {
	Overview struct {
		Total         int `json:"total"`
		Available     int `json:"available"`
		Occupied      int `json:"occupied"`
		Maintenance   int `json:"maintenance"`
		TotalCapacity int `json:"totalCapacity"`
		TotalOccupied int `json:"totalOccupied"`
	} `json:"overview"`
	ByType struct {
		Single int `json:"single"`
		Double int `json:"double"`
		Triple int `json:"triple"`
	} `json:"byType"`
}

// OccupancyRate returns occupied beds over capacity as a percentage.
func (s RoomStats) OccupancyRate() float64 {
	if s.Overview.TotalCapacity == 0 {
		return 0
	}
	return float64(s.Overview.TotalOccupied) * 100 / float64(s.Overview.TotalCapacity)
}

type UserStats struct {
	Overview struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Inactive int `json:"inactive"`
	} `json:"overview"`
	ByRole struct {
		Admin   int `json:"admin"`
		Warden  int `json:"warden"`
		Student int `json:"student"`
	} `json:"byRole"`
}

type WardenStats struct {
	Overview struct {
		Total      int `json:"total"`
		Active     int `json:"active"`
		Inactive   int `json:"inactive"`
		Unassigned int `json:"unassigned"`
	} `json:"overview"`
}
