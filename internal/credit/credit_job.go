package credit

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RegisterRolloverJob schedules Service.Rollover for the calendar year the job fires in.
func RegisterRolloverJob(c *cron.Cron, spec string, svc Service, logger *zap.Logger) (cron.EntryID, error) {
	if logger == nil {
		logger = zap.L()
	}
	logger = logger.Named("credit.rollover")

	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		year := time.Now().Year()
		res, err := svc.Rollover(ctx, year)
		if err != nil {
			logger.Error("credit rollover job failed", zap.Int("year", year), zap.Error(err))
			return
		}
		logger.Info("credit rollover job finished",
			zap.Int("year", res.Year),
			zap.Int64("created", res.Created),
		)
	})
}
