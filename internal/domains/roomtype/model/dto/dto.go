package dto

import (
	"mime/multipart"

	"frontdesk/internal/domains/roomtype/model"
	"frontdesk/shared"
	gDto "frontdesk/shared/dto"
	gModel "frontdesk/shared/model"
	"frontdesk/shared/timezone"

	"github.com/google/uuid"
)

type CreateRoomTypeRequest struct {
	Name      string                `json:"name"      validate:"required,max=100"`
	BaseRate  int64                 `json:"base_rate" validate:"required,min=0"`
	Capacity  int                   `json:"capacity"  validate:"omitempty,min=1"`
	Image     *multipart.FileHeader `json:"image"     validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
	Active    *bool                 `json:"active"    validate:"omitempty"`
}

func (c *CreateRoomTypeRequest) ToModel(user string, imageURL string) model.RoomType {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	capacity := c.Capacity
	if capacity == 0 {
		capacity = 1
	}

	return model.RoomType{
		ID:       uuid.NewString(),
		Name:     c.Name,
		BaseRate: c.BaseRate,
		Capacity: capacity,
		Image:    imageURL,
		Active:   active,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateRoomTypeRequest struct {
	Name      string                `db:"name"      json:"name"                                                                 validate:"omitempty,max=100"`
	BaseRate  *int64                `db:"base_rate" json:"base_rate"                                                            validate:"omitempty,min=0"`
	Capacity  *int                  `db:"capacity"  json:"capacity"                                                             validate:"omitempty,min=1"`
	Image     *multipart.FileHeader `json:"image"   validate:"omitempty,mimetypes=image/png image/jpg image/jpeg,maxfilesize=1"`
	ImageFile multipart.File        `json:"-"`
	Active    *bool                 `db:"active"    json:"active"                                                               validate:"omitempty"`
}

type RoomTypeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	BaseRate int64  `json:"base_rate"`
	Capacity int    `json:"capacity"`
	Image    string `json:"image"`
	Active   bool   `json:"active"`
	gDto.Metadata
}

func (r *RoomTypeResponse) FromModel(model model.RoomType) {
	r.ID = model.ID
	r.Name = model.Name
	r.BaseRate = model.BaseRate
	r.Capacity = model.Capacity
	r.Image = model.Image
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomTypesResponse struct {
	RoomTypes []RoomTypeResponse `json:"room_types"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetRoomTypesResponse) FromModels(models []model.RoomType, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.RoomTypes = make([]RoomTypeResponse, len(models))
	for i, mod := range models {
		r.RoomTypes[i].FromModel(mod)
	}
}
