package dto

import (
	"frontdesk/internal/domains/guest/model"
	"frontdesk/shared"
	gDto "frontdesk/shared/dto"
	gModel "frontdesk/shared/model"
	"frontdesk/shared/timezone"

	"github.com/google/uuid"
)

type CreateGuestRequest struct {
	FullName string `json:"full_name" validate:"required,max=150"`
	Email    string `json:"email"     validate:"omitempty,email"`
	Phone    string `json:"phone"     validate:"omitempty,max=30"`
	IDNumber string `json:"id_number" validate:"omitempty,max=50"`
	Address  string `json:"address"   validate:"omitempty,max=255"`
}

func (c *CreateGuestRequest) ToModel(user string) model.Guest {
	return model.Guest{
		ID:       uuid.NewString(),
		FullName: c.FullName,
		Email:    c.Email,
		Phone:    c.Phone,
		IDNumber: c.IDNumber,
		Address:  c.Address,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateGuestRequest struct {
	FullName string `db:"full_name" json:"full_name" validate:"omitempty,max=150"`
	Email    string `db:"email"     json:"email"     validate:"omitempty,email"`
	Phone    string `db:"phone"     json:"phone"     validate:"omitempty,max=30"`
	IDNumber string `db:"id_number" json:"id_number" validate:"omitempty,max=50"`
	Address  string `db:"address"   json:"address"   validate:"omitempty,max=255"`
}

type GuestResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IDNumber string `json:"id_number"`
	Address  string `json:"address"`
	gDto.Metadata
}

func (g *GuestResponse) FromModel(model model.Guest) {
	g.ID = model.ID
	g.FullName = model.FullName
	g.Email = model.Email
	g.Phone = model.Phone
	g.IDNumber = model.IDNumber
	g.Address = model.Address
	g.Metadata.FromModel(model.Metadata)
}

type GetGuestsResponse struct {
	Guests    []GuestResponse `json:"guests"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (g *GetGuestsResponse) FromModels(models []model.Guest, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Guests = make([]GuestResponse, len(models))
	for i, mod := range models {
		g.Guests[i].FromModel(mod)
	}
}
