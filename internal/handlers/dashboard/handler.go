package dashboard

import (
	"net/http"

	"frontdesk/infras/otel"
	bookingDto "frontdesk/internal/domains/booking/model/dto"
	bookingService "frontdesk/internal/domains/booking/service"
	roomDto "frontdesk/internal/domains/room/model/dto"
	roomService "frontdesk/internal/domains/room/service"
	"frontdesk/shared/constant"
	"frontdesk/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	bookings bookingService.Booking
	rooms    roomService.Room
	otel     otel.Otel
}

func New(bookings bookingService.Booking, rooms roomService.Room, otel otel.Otel) Handler {
	return Handler{
		bookings: bookings,
		rooms:    rooms,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/dashboard", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetDashboard)
	})
}

type Overview struct {
	Rooms roomDto.RoomStatusSummaryResponse `json:"rooms"`
	Today bookingDto.TodayActivityResponse  `json:"today"`
}

// GetDashboard assembles the front desk landing view: room occupancy
// counts plus today's expected arrivals and departures.
// @Summary Get the front desk dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} Overview
// @Failure 500 {object} response.Error
// @Router /v1/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	summary, err := handler.rooms.StatusSummary(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room status summary")

		response.WithError(w, err)

		return
	}

	today, err := handler.bookings.TodayActivity(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get today's activity")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, Overview{
		Rooms: summary,
		Today: today,
	})
}
