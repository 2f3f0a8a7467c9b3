package model

import "frontdesk/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID         = "id"
	FieldRoomNumber = "room_number"
	FieldRoomTypeID = "room_type_id"
	FieldFloor      = "floor"
	FieldStatus     = "status"
	FieldAmenities  = "amenities"
	FieldNotes      = "notes"
	FieldActive     = "active"
)

// Room lifecycle states. The booking table remains the source of truth
// for occupancy; this column is a denormalized view updated on every
// booking transition so dashboard reads stay a single indexed query.
const (
	StatusAvailable   = "AVAILABLE"
	StatusReserved    = "RESERVED"
	StatusOccupied    = "OCCUPIED"
	StatusMaintenance = "MAINTENANCE"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusAvailable, StatusReserved, StatusOccupied, StatusMaintenance:
		return true
	}

	return false
}

type Room struct {
	ID         string `db:"id"`
	RoomNumber string `db:"room_number"`
	RoomTypeID string `db:"room_type_id"`
	Floor      int    `db:"floor"`
	Status     string `db:"status"`
	Amenities  string `db:"amenities"`
	Notes      string `db:"notes"`
	Active     bool   `db:"active"`
	model.Metadata
}
