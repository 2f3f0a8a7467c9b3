package dto

import (
	"time"

	"frontdesk/internal/domains/booking/model"
	"frontdesk/shared"
	gDto "frontdesk/shared/dto"
	gModel "frontdesk/shared/model"
	"frontdesk/shared/timezone"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	GuestID      string `json:"guest_id"       validate:"required,uuid4"`
	RoomID       string `json:"room_id"        validate:"required,uuid4"`
	CheckInDate  string `json:"check_in_date"  validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
	Source       string `json:"source"         validate:"omitempty,oneof=FRONT_DESK WEB PHONE"`
	Notes        string `json:"notes"          validate:"omitempty,max=255"`
}

func (c *CreateBookingRequest) ToModel(user, code string, rate int64) (model.Booking, error) {
	checkIn, err := time.Parse(dateLayout, c.CheckInDate)
	if err != nil {
		return model.Booking{}, err
	}

	checkOut, err := time.Parse(dateLayout, c.CheckOutDate)
	if err != nil {
		return model.Booking{}, err
	}

	source := model.SourceFrontDesk
	if c.Source != "" {
		source = c.Source
	}

	// A booking taken at the desk (or over the phone) is confirmed the
	// moment it is written. Web bookings arrive unconfirmed and wait for
	// staff to confirm them.
	status := model.StatusConfirmed
	if source == model.SourceWeb {
		status = model.StatusPending
	}

	nights := model.NightsBetween(checkIn, checkOut)

	return model.Booking{
		ID:           uuid.NewString(),
		BookingCode:  code,
		GuestID:      c.GuestID,
		RoomID:       c.RoomID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		Status:       status,
		Source:       source,
		RoomRate:     rate,
		TotalNights:  nights,
		TotalAmount:  rate * nights,
		Notes:        c.Notes,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

// StayDates parses the scheduled interval without building the model,
// for availability checks that run before the booking exists.
func (c *CreateBookingRequest) StayDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(dateLayout, c.CheckInDate)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = time.Parse(dateLayout, c.CheckOutDate)

	return checkIn, checkOut, err
}

type UpdateBookingRequest struct {
	Notes string `db:"notes" json:"notes" validate:"omitempty,max=255"`
}

type AvailabilityRequest struct {
	RoomID       string `json:"room_id"        validate:"required,uuid4"`
	CheckInDate  string `json:"check_in_date"  validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
}

func (a *AvailabilityRequest) StayDates() (checkIn, checkOut time.Time, err error) {
	checkIn, err = time.Parse(dateLayout, a.CheckInDate)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = time.Parse(dateLayout, a.CheckOutDate)

	return checkIn, checkOut, err
}

type AvailabilityResponse struct {
	RoomID    string `json:"room_id"`
	Available bool   `json:"available"`
}

// TransitionResponse reports whether a lifecycle operation actually ran.
// A false Performed with a 200 means the booking was not in a state the
// operation applies to.
type TransitionResponse struct {
	BookingID string `json:"booking_id"`
	Performed bool   `json:"performed"`
	Status    string `json:"status"`
}

type BookingResponse struct {
	ID             string `json:"id"`
	BookingCode    string `json:"booking_code"`
	GuestID        string `json:"guest_id"`
	RoomID         string `json:"room_id"`
	CheckInDate    string `json:"check_in_date"`
	CheckOutDate   string `json:"check_out_date"`
	ActualCheckIn  string `json:"actual_check_in,omitempty"`
	ActualCheckOut string `json:"actual_check_out,omitempty"`
	Status         string `json:"status"`
	Source         string `json:"source"`
	RoomRate       int64  `json:"room_rate"`
	TotalNights    int64  `json:"total_nights"`
	TotalAmount    int64  `json:"total_amount"`
	Notes          string `json:"notes"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.BookingCode = model.BookingCode
	r.GuestID = model.GuestID
	r.RoomID = model.RoomID
	r.CheckInDate = model.CheckInDate.Format(dateLayout)
	r.CheckOutDate = model.CheckOutDate.Format(dateLayout)

	if model.ActualCheckIn != nil {
		r.ActualCheckIn = model.ActualCheckIn.Format(time.RFC3339)
	}

	if model.ActualCheckOut != nil {
		r.ActualCheckOut = model.ActualCheckOut.Format(time.RFC3339)
	}

	r.Status = model.Status
	r.Source = model.Source
	r.RoomRate = model.RoomRate
	r.TotalNights = model.TotalNights
	r.TotalAmount = model.TotalAmount
	r.Notes = model.Notes
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

// BookingEvent is the lifecycle message published to the broker on
// every successful create and transition.
type BookingEvent struct {
	BookingID   string    `json:"booking_id"`
	BookingCode string    `json:"booking_code"`
	RoomID      string    `json:"room_id"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type TodayActivityResponse struct {
	CheckIns  []BookingResponse `json:"check_ins"`
	CheckOuts []BookingResponse `json:"check_outs"`
}
