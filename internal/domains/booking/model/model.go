package model

import (
	"time"

	"frontdesk/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID             = "id"
	FieldBookingCode    = "booking_code"
	FieldGuestID        = "guest_id"
	FieldRoomID         = "room_id"
	FieldCheckInDate    = "check_in_date"
	FieldCheckOutDate   = "check_out_date"
	FieldActualCheckIn  = "actual_check_in"
	FieldActualCheckOut = "actual_check_out"
	FieldStatus         = "status"
	FieldSource         = "source"
	FieldRoomRate       = "room_rate"
	FieldTotalNights    = "total_nights"
	FieldTotalAmount    = "total_amount"
	FieldNotes          = "notes"
)

// Booking lifecycle. CANCELLED is reachable from any state except the
// two terminal ones; everything else moves strictly forward.
const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusCheckedIn  = "CHECKED_IN"
	StatusCheckedOut = "CHECKED_OUT"
	StatusCancelled  = "CANCELLED"
)

const (
	SourceFrontDesk = "FRONT_DESK"
	SourceWeb       = "WEB"
	SourcePhone     = "PHONE"
)

// CanTransition reports whether a booking may move from one status to
// another. Illegal moves are not errors for callers, they simply do not
// happen, so the answer is a plain bool.
func CanTransition(from, to string) bool {
	switch to {
	case StatusConfirmed:
		return from == StatusPending
	case StatusCheckedIn:
		return from == StatusPending || from == StatusConfirmed
	case StatusCheckedOut:
		return from == StatusCheckedIn
	case StatusCancelled:
		return from == StatusPending || from == StatusConfirmed || from == StatusCheckedIn
	}

	return false
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share at least one night. A check-out day and a
// check-in day on the same date do not collide.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

type Booking struct {
	ID             string     `db:"id"`
	BookingCode    string     `db:"booking_code"`
	GuestID        string     `db:"guest_id"`
	RoomID         string     `db:"room_id"`
	CheckInDate    time.Time  `db:"check_in_date"`
	CheckOutDate   time.Time  `db:"check_out_date"`
	ActualCheckIn  *time.Time `db:"actual_check_in"`
	ActualCheckOut *time.Time `db:"actual_check_out"`
	Status         string     `db:"status"`
	Source         string     `db:"source"`
	// RoomRate and TotalAmount are kept in the smallest currency unit.
	// The rate is frozen at creation so the total stays verifiable after
	// the room type's rate changes.
	RoomRate    int64  `db:"room_rate"`
	TotalNights int64  `db:"total_nights"`
	TotalAmount int64  `db:"total_amount"`
	Notes       string `db:"notes"`
	model.Metadata
}

// Blocks reports whether this booking still claims its room for the
// given stay. Cancelled and checked-out bookings release the room.
func (b *Booking) Blocks(checkIn, checkOut time.Time) bool {
	if b.Status == StatusCancelled || b.Status == StatusCheckedOut {
		return false
	}

	return Overlaps(b.CheckInDate, b.CheckOutDate, checkIn, checkOut)
}

// Nights counts whole nights between the scheduled dates.
func (b *Booking) Nights() int64 {
	return NightsBetween(b.CheckInDate, b.CheckOutDate)
}

// NightsBetween counts whole nights in the half-open stay interval.
func NightsBetween(checkIn, checkOut time.Time) int64 {
	return int64(checkOut.Sub(checkIn) / (24 * time.Hour))
}

// TotalFor computes the stay total from a nightly rate in minor units.
func TotalFor(rate int64, checkIn, checkOut time.Time) int64 {
	return rate * NightsBetween(checkIn, checkOut)
}
