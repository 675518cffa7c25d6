package services

import (
	"campreserve-backend/config"

	"github.com/robfig/cron/v3"
)

// StartScheduler registers the periodic playbook poll and starts the cron
// runner. The poll shares RunDue with the manual trigger endpoint; the
// per-job claim keeps overlapping invocations safe.
func StartScheduler(dispatch *DispatchService, batchSize int) *cron.Cron {
	c := cron.New()

	c.AddFunc("@every 5m", func() {
		processed := dispatch.RunDue(nil, batchSize)
		if processed > 0 {
			config.Log.Infow("playbook poll complete", "processed", processed)
		}
	})

	c.Start()
	config.Log.Info("playbook scheduler started")
	return c
}
