package scheduler

import (
	"context"
	"fmt"
	"time"

	cronlib "github.com/robfig/cron/v3"

	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/syncer"
)

// Runner runs one sync.
type Runner interface {
	Run(ctx context.Context) (syncer.Result, error)
}

// SyncSchedule runs the sync on a cron schedule. A run that is still going
// when the next one is due causes that tick to be skipped.
type SyncSchedule struct {
	expr    string
	runner  Runner
	timeout time.Duration
	logger  logger.Logger
	cron    *cronlib.Cron
	entry   cronlib.EntryID
	baseCtx context.Context
}

// ParseSchedule validates a five-field cron expression or descriptor
// (@hourly, @every 30m, ...).
func ParseSchedule(expr string) (cronlib.Schedule, error) {
	parser := cronlib.NewParser(cronlib.Minute | cronlib.Hour | cronlib.Dom | cronlib.Month | cronlib.Dow | cronlib.Descriptor)
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", expr, err)
	}
	return sched, nil
}

// NewSyncSchedule creates a schedule evaluated in loc. Each run gets its own
// timeout.
func NewSyncSchedule(
	expr string,
	loc *time.Location,
	runner Runner,
	timeout time.Duration,
	log logger.Logger,
) (*SyncSchedule, error) {
	sched, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}

	cl := cronLogger{logger: log}
	s := &SyncSchedule{
		expr:    expr,
		runner:  runner,
		timeout: timeout,
		logger:  log,
		baseCtx: context.Background(),
		cron: cronlib.New(
			cronlib.WithLocation(loc),
			cronlib.WithLogger(cl),
			cronlib.WithChain(cronlib.Recover(cl), cronlib.SkipIfStillRunning(cl)),
		),
	}
	s.entry = s.cron.Schedule(sched, cronlib.FuncJob(s.runOnce))
	return s, nil
}

// Start begins running on schedule. Runs stop being started once ctx is done.
func (s *SyncSchedule) Start(ctx context.Context) {
	s.baseCtx = ctx
	s.cron.Start()
	s.logger.Info("scheduled sync enabled",
		logger.String("schedule", s.expr),
		logger.Time("next_run", s.Next()))
}

// Stop stops the scheduler and waits for a running sync to finish.
func (s *SyncSchedule) Stop() {
	<-s.cron.Stop().Done()
}

// Expr returns the schedule expression.
func (s *SyncSchedule) Expr() string { return s.expr }

// Next returns the next activation time, zero before Start.
func (s *SyncSchedule) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

func (s *SyncSchedule) runOnce() {
	if s.baseCtx.Err() != nil {
		return
	}
	ctx := s.baseCtx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.runner.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled sync failed",
			logger.Duration("elapsed", time.Since(start)),
			logger.Error(err))
		return
	}
	s.logger.Info("scheduled sync done",
		logger.String("outcome", string(res.Outcome)),
		logger.String("message", res.Message()),
		logger.Duration("elapsed", time.Since(start)))
}

// cronLogger adapts logger.Logger to cron's key/value logger.
type cronLogger struct {
	logger logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(kvFields(keysAndValues), logger.Error(err))...)
}

func kvFields(kv []interface{}) []logger.Field {
	fields := make([]logger.Field, 0, len(kv)/2+1)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields = append(fields, logger.Any(key, kv[i+1]))
	}
	return fields
}
