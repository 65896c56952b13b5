package cronrunner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner schedules named background jobs. Jobs receive the process base
// context so an in-flight pass observes shutdown, and every run is logged
// with its duration and outcome.
type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

// AddJob registers a job under a cron spec. Job errors are logged, never
// fatal; the next scheduled run still happens.
func (r *Runner) AddJob(name, spec string, job func(context.Context) error) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		ctx := context.Background()
		if r != nil && r.baseCtx != nil {
			ctx = r.baseCtx
		}
		start := time.Now()
		err := job(ctx)
		if r == nil || r.logger == nil {
			return
		}
		if err != nil {
			r.logger.Warn("cron job failed",
				zap.String("job", name),
				zap.Duration("took", time.Since(start)),
				zap.Error(err))
			return
		}
		r.logger.Debug("cron job done",
			zap.String("job", name),
			zap.Duration("took", time.Since(start)))
	})
}

func (r *Runner) Start() {
	if r.logger != nil {
		r.logger.Info("cron started")
	}
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	if r.logger != nil {
		r.logger.Info("cron stopped")
	}
}
