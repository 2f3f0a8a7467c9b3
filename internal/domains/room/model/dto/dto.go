package dto

import (
	"frontdesk/internal/domains/room/model"
	"frontdesk/shared"
	gDto "frontdesk/shared/dto"
	gModel "frontdesk/shared/model"
	"frontdesk/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomRequest struct {
	RoomNumber string `json:"room_number"  validate:"required,max=10"`
	RoomTypeID string `json:"room_type_id" validate:"required,uuid4"`
	Floor      int    `json:"floor"        validate:"omitempty,min=0"`
	Amenities  string `json:"amenities"    validate:"omitempty,max=500"`
	Notes      string `json:"notes"        validate:"omitempty,max=255"`
	Active     *bool  `json:"active"       validate:"omitempty"`
}

func (c *CreateRoomRequest) ToModel(user string) model.Room {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Room{
		ID:         uuid.NewString(),
		RoomNumber: c.RoomNumber,
		RoomTypeID: c.RoomTypeID,
		Floor:      c.Floor,
		Status:     model.StatusAvailable,
		Amenities:  c.Amenities,
		Notes:      c.Notes,
		Active:     active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomRequest struct {
	RoomNumber string `db:"room_number"  json:"room_number"  validate:"omitempty,max=10"`
	RoomTypeID string `db:"room_type_id" json:"room_type_id" validate:"omitempty,uuid4"`
	Floor      *int   `db:"floor"        json:"floor"        validate:"omitempty,min=0"`
	Amenities  string `db:"amenities"    json:"amenities"    validate:"omitempty,max=500"`
	Notes      string `db:"notes"        json:"notes"        validate:"omitempty,max=255"`
	Active     *bool  `db:"active"       json:"active"       validate:"omitempty"`
}

type SetRoomStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE RESERVED OCCUPIED MAINTENANCE"`
}

type RoomResponse struct {
	ID         string `json:"id"`
	RoomNumber string `json:"room_number"`
	RoomTypeID string `json:"room_type_id"`
	Floor      int    `json:"floor"`
	Status     string `json:"status"`
	Amenities  string `json:"amenities"`
	Notes      string `json:"notes"`
	Active     bool   `json:"active"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.RoomNumber = model.RoomNumber
	r.RoomTypeID = model.RoomTypeID
	r.Floor = model.Floor
	r.Status = model.Status
	r.Amenities = model.Amenities
	r.Notes = model.Notes
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

type RoomStatusSummaryResponse struct {
	Available   int `json:"available"`
	Reserved    int `json:"reserved"`
	Occupied    int `json:"occupied"`
	Maintenance int `json:"maintenance"`
}

func (r *RoomStatusSummaryResponse) FromCounts(counts map[string]int) {
	r.Available = counts[model.StatusAvailable]
	r.Reserved = counts[model.StatusReserved]
	r.Occupied = counts[model.StatusOccupied]
	r.Maintenance = counts[model.StatusMaintenance]
}
