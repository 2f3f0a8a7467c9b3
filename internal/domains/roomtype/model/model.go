package model

import "frontdesk/shared/model"

const (
	TableName  = "room_types"
	EntityName = "room_type"

	FieldID       = "id"
	FieldName     = "name"
	FieldBaseRate = "base_rate"
	FieldCapacity = "capacity"
	FieldImage    = "image"
	FieldActive   = "active"
)

type RoomType struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	// BaseRate is the nightly rate in the smallest currency unit so
	// totals multiply without floating point drift.
	BaseRate int64  `db:"base_rate"`
	Capacity int    `db:"capacity"`
	Image    string `db:"image"`
	Active   bool   `db:"active"`
	model.Metadata
}
