package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger drops entries that stopped mattering before now.
type Purger interface {
	Purge(now time.Time) (int, error)
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler runs the housekeeping jobs.
type Scheduler struct {
	sched *cron.Cron
	now   func() time.Time
}

func New() *Scheduler {
	return &Scheduler{
		sched: cron.New(cron.WithLocation(time.UTC), cron.WithParser(cronParser)),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// AddPurge registers p to run on spec, e.g. "@every 10m" or "@hourly".
func (s *Scheduler) AddPurge(name, spec string, p Purger) error {
	_, err := s.sched.AddFunc(spec, func() { s.runPurge(name, p) })
	if err != nil {
		zap.S().Errorf("init job %s error %s", name, err.Error())
	}
	return err
}

func (s *Scheduler) runPurge(name string, p Purger) {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	n, err := p.Purge(s.now())
	if err != nil {
		zap.L().Error("purge failed", zap.String("job", name), zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("purged expired entries", zap.String("job", name), zap.Int("count", n))
	}
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.sched.Start()
	<-ctx.Done()
	<-s.sched.Stop().Done()
	return nil
}
