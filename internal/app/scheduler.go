package app

import (
	"time"

	"github.com/robfig/cron/v3"
)

var globalScheduler *cron.Cron

// MustStartScheduler runs the maintenance jobs: expired session hints
// are pruned hourly and the overdue-task count is reported daily.
func MustStartScheduler() {
	globalScheduler = cron.New()

	_, err := globalScheduler.AddFunc("@hourly", func() {
		err := globalHintStore.PruneExpired()
		if err != nil {
			globalLogger.Error().
				Err(err).
				Msg("failed to prune session hints")
		}
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to schedule hint pruning")
		panic(err)
	}

	_, err = globalScheduler.AddFunc("@daily", func() {
		if !globalSessionStore.IsLoggedIn() {
			return
		}
		overdue := globalTaskStore.Overdue(time.Now())
		globalLogger.Info().
			Int("count", len(overdue)).
			Msg("overdue tasks report")
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to schedule overdue report")
		panic(err)
	}

	globalScheduler.Start()
	globalLogger.Info().Msg("started maintenance scheduler")
}

func StopScheduler() {
	globalScheduler.Stop()
	globalLogger.Info().Msg("stopped maintenance scheduler")
}
