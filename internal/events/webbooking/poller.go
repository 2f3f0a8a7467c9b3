package webbooking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"frontdesk/config"
	"frontdesk/infras/otel"
	"frontdesk/internal/domains/booking/service"
	"frontdesk/shared/constant"
	"frontdesk/shared/timezone"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Poller watches for bookings arriving through the web channel and
// surfaces them to the front desk. Online bookings land in the database
// without anyone at the desk knowing, so a short fixed interval keeps
// the staff view current.
type Poller struct {
	bookings  service.Booking
	cfg       *config.Config
	otel      otel.Otel
	scheduler gocron.Scheduler

	mu       sync.Mutex
	lastSeen time.Time
}

func New(bookings service.Booking, cfg *config.Config, otel otel.Otel) *Poller {
	return &Poller{
		bookings: bookings,
		cfg:      cfg,
		otel:     otel,
		lastSeen: timezone.Now(),
	}
}

func (p *Poller) Start() error {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(timezone.GetLocation()),
	)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	interval := time.Duration(p.cfg.App.WebBookingPollSeconds) * time.Second

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(p.poll),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule web booking poll: %w", err)
	}

	p.scheduler = scheduler
	scheduler.Start()

	log.Info().Dur("interval", interval).Msg("Web booking poller started")

	return nil
}

func (p *Poller) Stop() error {
	if p.scheduler == nil {
		return nil
	}

	if err := p.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop web booking poller: %w", err)
	}

	return nil
}

func (p *Poller) poll() {
	ctx, scope := p.otel.NewScope(context.Background(), constant.OtelEventScopeName, constant.OtelEventScopeName+".webbooking.poll")
	defer scope.End()

	p.mu.Lock()
	since := p.lastSeen
	p.mu.Unlock()

	cutoff := timezone.Now()

	count, err := p.bookings.CountNewWebBookings(ctx, since)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to poll web bookings")

		return
	}

	if count > 0 {
		log.Info().Int("count", count).Msg("New web bookings received")
	}

	p.mu.Lock()
	p.lastSeen = cutoff
	p.mu.Unlock()
}
