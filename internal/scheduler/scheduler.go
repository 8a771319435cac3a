package scheduler

import (
	"context"
	"time"

	"github.com/DarThunder/tienda-api/internal/service"
	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// StartLowStockMonitor schedules the periodic low-stock scan. The returned
// scheduler should be shut down when the server stops.
func StartLowStockMonitor(svc service.ProductService, interval time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DurationJob(
			interval,
		),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := svc.CheckLowStock(ctx); err != nil {
				log.Error().Err(err).Str("component", "StartLowStockMonitor").Msg("")
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()

	return s, nil
}
