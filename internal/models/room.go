package models

type Room struct {
	ID         string    `json:"_id"`
	RoomNumber string    `json:"roomNumber"`
	Block      string    `json:"block"`
	Floor      int       `json:"floor"`
	Type       string    `json:"type"`
	Capacity   int       `json:"capacity"`
	Occupants  []UserRef `json:"occupants,omitempty"`
	Status     string    `json:"status"`
	Rent       float64   `json:"rent,omitempty"`
	Amenities  []string  `json:"amenities,omitempty"`
}

// Vacancies is the number of free beds.
func (r Room) Vacancies() int {
	if n := r.Capacity - len(r.Occupants); n > 0 {
		return n
	}
	return 0
}

// RoomRef is the display data attached to a user by the room directory.
type RoomRef struct {
	RoomID     string `json:"roomId"`
	RoomNumber string `json:"roomNumber"`
	Block      string `json:"block"`
	Floor      int    `json:"floor"`
}
