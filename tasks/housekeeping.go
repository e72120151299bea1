package tasks

import (
	"context"
	"time"

	"online-canteen-api/logger"
	"online-canteen-api/repository"
	"online-canteen-api/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Cleaner drops stale per-client state and reports how many entries went away
type Cleaner interface {
	Cleanup() int
}

// Housekeeper runs the periodic maintenance jobs: rate limiter cleanup every
// minute and removal of queue counters from previous days once a night.
type Housekeeper struct {
	cron    *cron.Cron
	orders  repository.OrderRepository
	limiter Cleaner
	loc     *time.Location
	now     func() time.Time
	log     *zap.Logger
}

func NewHousekeeper(orders repository.OrderRepository, limiter Cleaner, loc *time.Location) *Housekeeper {
	if loc == nil {
		loc = time.Local
	}
	return &Housekeeper{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		orders:  orders,
		limiter: limiter,
		loc:     loc,
		now:     time.Now,
		log:     logger.GetLogger().Named("housekeeper"),
	}
}

// Start registers the jobs and starts the scheduler
func (h *Housekeeper) Start() error {
	if h.limiter != nil {
		if _, err := h.cron.AddFunc("0 * * * * *", func() { h.CleanupLimiter() }); err != nil {
			return err
		}
	}
	if _, err := h.cron.AddFunc("0 5 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := h.PurgeQueueCounters(ctx); err != nil {
			h.log.Error("purge queue counters failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	h.cron.Start()
	h.log.Info("housekeeping jobs started")
	return nil
}

// Stop waits for running jobs to finish
func (h *Housekeeper) Stop() {
	<-h.cron.Stop().Done()
	h.log.Info("housekeeping jobs stopped")
}

func (h *Housekeeper) CleanupLimiter() int {
	removed := h.limiter.Cleanup()
	if removed > 0 {
		h.log.Debug("rate limiter entries evicted", zap.Int("count", removed))
	}
	return removed
}

// PurgeQueueCounters deletes counters for every day before today. Today's
// counter is never touched, so numbering keeps running.
func (h *Housekeeper) PurgeQueueCounters(ctx context.Context) (int64, error) {
	today := services.QueueDay(h.now(), h.loc)
	n, err := h.orders.PurgeQueueCounters(ctx, today)
	if err != nil {
		return 0, err
	}
	h.log.Info("purged queue counters", zap.String("before", today), zap.Int64("count", n))
	return n, nil
}
