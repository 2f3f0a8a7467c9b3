package model_test

import (
	"testing"
	"time"

	"frontdesk/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}

	return t
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{model.StatusPending, model.StatusConfirmed, true},
		{model.StatusConfirmed, model.StatusCheckedIn, true},
		{model.StatusCheckedIn, model.StatusCheckedOut, true},
		{model.StatusPending, model.StatusCancelled, true},
		{model.StatusConfirmed, model.StatusCancelled, true},
		{model.StatusCheckedIn, model.StatusCancelled, true},

		// A walk-in checks in straight from pending.
		{model.StatusPending, model.StatusCheckedIn, true},

		// Skipping to checked out is not allowed.
		{model.StatusPending, model.StatusCheckedOut, false},
		{model.StatusConfirmed, model.StatusCheckedOut, false},

		// Terminal states stay terminal.
		{model.StatusCheckedOut, model.StatusCancelled, false},
		{model.StatusCheckedOut, model.StatusConfirmed, false},
		{model.StatusCancelled, model.StatusConfirmed, false},
		{model.StatusCancelled, model.StatusCancelled, false},

		// No moving backwards.
		{model.StatusConfirmed, model.StatusConfirmed, false},
		{model.StatusCheckedIn, model.StatusConfirmed, false},
		{model.StatusCheckedOut, model.StatusCheckedIn, false},

		// PENDING is never a target.
		{model.StatusConfirmed, model.StatusPending, false},
		{model.StatusCancelled, model.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart string
		aEnd   string
		bStart string
		bEnd   string
		want   bool
	}{
		{
			name:   "identical stays",
			aStart: "2026-03-10", aEnd: "2026-03-13",
			bStart: "2026-03-10", bEnd: "2026-03-13",
			want: true,
		},
		{
			name:   "partial overlap at the tail",
			aStart: "2026-03-10", aEnd: "2026-03-13",
			bStart: "2026-03-12", bEnd: "2026-03-15",
			want: true,
		},
		{
			name:   "one stay fully inside the other",
			aStart: "2026-03-10", aEnd: "2026-03-20",
			bStart: "2026-03-12", bEnd: "2026-03-14",
			want: true,
		},
		{
			name:   "single shared night",
			aStart: "2026-03-10", aEnd: "2026-03-12",
			bStart: "2026-03-11", bEnd: "2026-03-13",
			want: true,
		},
		{
			name:   "back to back, checkout equals checkin",
			aStart: "2026-03-10", aEnd: "2026-03-13",
			bStart: "2026-03-13", bEnd: "2026-03-15",
			want: false,
		},
		{
			name:   "back to back, other order",
			aStart: "2026-03-13", aEnd: "2026-03-15",
			bStart: "2026-03-10", bEnd: "2026-03-13",
			want: false,
		},
		{
			name:   "fully disjoint",
			aStart: "2026-03-01", aEnd: "2026-03-05",
			bStart: "2026-03-20", bEnd: "2026-03-22",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.Overlaps(day(tt.aStart), day(tt.aEnd), day(tt.bStart), day(tt.bEnd))
			assert.Equal(t, tt.want, got)

			// Overlap is symmetric.
			mirrored := model.Overlaps(day(tt.bStart), day(tt.bEnd), day(tt.aStart), day(tt.aEnd))
			assert.Equal(t, tt.want, mirrored)
		})
	}
}

func TestBookingBlocks(t *testing.T) {
	booking := model.Booking{
		CheckInDate:  day("2026-03-10"),
		CheckOutDate: day("2026-03-13"),
	}

	blocking := []string{model.StatusPending, model.StatusConfirmed, model.StatusCheckedIn}
	for _, status := range blocking {
		booking.Status = status
		assert.True(t, booking.Blocks(day("2026-03-12"), day("2026-03-14")), status)
	}

	released := []string{model.StatusCancelled, model.StatusCheckedOut}
	for _, status := range released {
		booking.Status = status
		assert.False(t, booking.Blocks(day("2026-03-12"), day("2026-03-14")), status)
	}

	// A blocking booking does not claim adjacent dates.
	booking.Status = model.StatusConfirmed
	assert.False(t, booking.Blocks(day("2026-03-13"), day("2026-03-15")))
	assert.False(t, booking.Blocks(day("2026-03-08"), day("2026-03-10")))
}

func TestNights(t *testing.T) {
	booking := model.Booking{
		CheckInDate:  day("2026-03-10"),
		CheckOutDate: day("2026-03-13"),
	}
	assert.Equal(t, int64(3), booking.Nights())

	oneNight := model.Booking{
		CheckInDate:  day("2026-03-10"),
		CheckOutDate: day("2026-03-11"),
	}
	assert.Equal(t, int64(1), oneNight.Nights())
}

func TestTotalFor(t *testing.T) {
	// Rates are carried in the smallest currency unit so totals
	// multiply without rounding.
	total := model.TotalFor(500000, day("2026-03-10"), day("2026-03-13"))
	assert.Equal(t, int64(1500000), total)

	assert.Equal(t, int64(850000), model.TotalFor(850000, day("2026-03-10"), day("2026-03-11")))
	assert.Equal(t, int64(0), model.TotalFor(500000, day("2026-03-10"), day("2026-03-10")))
}

func TestValidStatusSets(t *testing.T) {
	assert.True(t, model.CanTransition(model.StatusPending, model.StatusCancelled))
	assert.False(t, model.CanTransition("UNKNOWN", model.StatusConfirmed))
	assert.False(t, model.CanTransition(model.StatusPending, "UNKNOWN"))
}
