package monitor

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/liquidmon/lmon/internal/alert"
	"github.com/liquidmon/lmon/internal/config"
	"github.com/liquidmon/lmon/internal/logger"
	"github.com/liquidmon/lmon/internal/scheduler"
	"github.com/liquidmon/lmon/internal/snapcache"
	"github.com/liquidmon/lmon/internal/telemetry"
	"golang.org/x/sync/errgroup"
)

// RunOptions wires the dashboard to its collaborators.
type RunOptions struct {
	Config *config.Config
	Source Source

	// Cache is the cold-start entity cache; nil disables it.
	Cache *snapcache.Cache

	// Metrics records loop telemetry; nil disables it. The /metrics
	// endpoint is served when Config.Metrics.Addr is set.
	Metrics *telemetry.Metrics

	Logger logger.Logger

	// ProgramOptions are passed to tea.NewProgram after the defaults.
	ProgramOptions []tea.ProgramOption
}

// programSender forwards loop results to a program created after the poller.
type programSender struct {
	p *tea.Program
}

func (s *programSender) Send(msg tea.Msg) {
	s.p.Send(msg)
}

// Run starts the polling loops and the dashboard, and blocks until the user
// quits or ctx is cancelled. Quitting cancels every loop.
func Run(ctx context.Context, opts RunOptions) error {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pollerOpts := PollerOptions{
		ServerURL:     cfg.ServerURL,
		Intervals:     cfg.Intervals,
		HistoryPeriod: cfg.History.Period,
		MaxPoints:     cfg.History.MaxPoints,
		AlertLimit:    cfg.Alerts.Limit,
		Engine:        alert.NewEngine(alert.WithCooldown(cfg.Alerts.Cooldown)),
		Cache:         opts.Cache,
		Logger:        logger.Named(log, "poller"),
		Location:      time.Local,
	}
	schedOpts := []scheduler.Option{scheduler.WithLogger(logger.Named(log, "scheduler"))}
	if opts.Metrics != nil {
		pollerOpts.Recorder = opts.Metrics
		schedOpts = append(schedOpts, scheduler.WithObserver(opts.Metrics))
	}

	sender := &programSender{}
	poller := NewPoller(opts.Source, sender, pollerOpts)

	model := NewModel(poller, Options{
		ServerURL:     cfg.ServerURL,
		HistoryPeriod: cfg.History.Period,
		Location:      time.Local,
	})
	programOpts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts.ProgramOptions...)
	sender.p = tea.NewProgram(model, programOpts...)

	sched := scheduler.New(schedOpts...)
	if err := poller.Register(sched); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.Metrics != nil && cfg.Metrics.Addr != "" {
		g.Go(func() error {
			err := opts.Metrics.Serve(gctx, cfg.Metrics.Addr, logger.Named(log, "metrics"))
			if err != nil {
				log.Error("metrics endpoint failed: %v", err)
				sender.p.Quit()
			}
			return err
		})
	}

	sched.Start(gctx)
	log.Info("dashboard started for %s", cfg.ServerURL)

	_, err := sender.p.Run()
	cancel()
	sched.Wait()

	if gerr := g.Wait(); gerr != nil {
		return gerr
	}
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
