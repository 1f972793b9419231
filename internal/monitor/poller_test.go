package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/clock"
	"github.com/liquidmon/lmon/internal/config"
	"github.com/liquidmon/lmon/internal/logger"
	"github.com/liquidmon/lmon/internal/scheduler"
	"github.com/liquidmon/lmon/internal/snapcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pollerStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type pollerFixture struct {
	src   *fakeSource
	send  *fakeSender
	rec   *fakeRecorder
	clock *clock.Fake
	log   *logger.BufferLogger
	cache *snapcache.Cache
	p     *Poller
}

func newPollerFixture(t *testing.T, src *fakeSource) *pollerFixture {
	t.Helper()
	f := &pollerFixture{
		src:   src,
		send:  &fakeSender{},
		rec:   &fakeRecorder{},
		clock: clock.NewFake(pollerStart),
		log:   logger.NewBufferLogger(),
		cache: snapcache.New(filepath.Join(t.TempDir(), "entities.json")),
	}
	f.p = NewPoller(src, f.send, PollerOptions{
		ServerURL: "http://mon.local",
		Intervals: config.DefaultConfig().Intervals,
		Cache:     f.cache,
		Recorder:  f.rec,
		Clock:     f.clock,
		Logger:    f.log,
		Location:  time.UTC,
	})
	return f
}

func TestPoller_Stats(t *testing.T) {
	src := &fakeSource{
		snapshot: &api.HostSnapshot{CPUUsage: 95, RAMUsage: 40, DiskUsage: 82},
		peaks:    &api.PeakSet{CPU: &api.Peak{Value: 99}},
	}
	f := newPollerFixture(t, src)

	require.NoError(t, f.p.stats(context.Background()))

	msg, ok := f.send.last().(statsMsg)
	require.True(t, ok, "expected statsMsg, got %T", f.send.last())
	assert.Equal(t, 95.0, msg.snapshot.CPUUsage)
	assert.Equal(t, 99.0, msg.peaks.CPU.Value)
	assert.Equal(t, pollerStart, msg.at)
	assert.Equal(t, api.LevelCritical, msg.eval.Status.Level)
	require.Len(t, msg.eval.Notifications, 2)

	assert.Equal(t, []string{"cpu/critical", "disk/warning"}, f.rec.notifications)
	assert.True(t, f.log.Contains("info", "CPU critical!"))
}

func TestPoller_StatsCooldownAcrossCycles(t *testing.T) {
	src := &fakeSource{
		snapshot: &api.HostSnapshot{CPUUsage: 95},
		peaks:    &api.PeakSet{},
	}
	f := newPollerFixture(t, src)

	require.NoError(t, f.p.stats(context.Background()))
	f.clock.Advance(5 * time.Second)
	require.NoError(t, f.p.stats(context.Background()))

	second := f.send.last().(statsMsg)
	assert.Empty(t, second.eval.Notifications, "cooldown suppresses the repeat")
	assert.Equal(t, api.LevelCritical, second.eval.Status.Level, "status ignores cooldown")
	assert.Len(t, f.rec.notifications, 1)
}

func TestPoller_StatsFailure(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"current fails", &fakeSource{currentErr: errors.New("boom"), peaks: &api.PeakSet{}}},
		{"peaks fails", &fakeSource{snapshot: &api.HostSnapshot{CPUUsage: 10}, peaksErr: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPollerFixture(t, tt.src)

			err := f.p.stats(context.Background())
			require.Error(t, err)

			msgs := f.send.all()
			require.Len(t, msgs, 1)
			em, ok := msgs[0].(loopErrorMsg)
			require.True(t, ok)
			assert.Equal(t, LoopStats, em.loop)
		})
	}
}

func TestPoller_EntitiesDerivesRates(t *testing.T) {
	src := &fakeSource{entityLists: [][]api.EntitySample{
		{
			{ID: "a", Name: "web", State: "running", NetRx: 1000, NetTx: 0, NetRxSpeed: ptr(7)},
			{ID: "b", Name: "db", State: "exited"},
		},
		{
			{ID: "a", Name: "web", State: "running", NetRx: 1000 + 5*30000, NetTx: 5 * 100, NetRxSpeed: ptr(7)},
			{ID: "b", Name: "db", State: "exited"},
		},
	}}
	f := newPollerFixture(t, src)

	require.NoError(t, f.p.entities(context.Background()))
	first := f.send.last().(entitiesMsg)
	require.Len(t, first.rates, 2)
	assert.Equal(t, 7.0, first.rates[0].Rx, "first sight falls back to the server speed")
	assert.False(t, first.rates[0].RxDerived)
	assert.Nil(t, first.talkers.Download)

	f.clock.Advance(5 * time.Second)
	require.NoError(t, f.p.entities(context.Background()))
	second := f.send.last().(entitiesMsg)
	assert.False(t, second.cached)
	assert.InDelta(t, 30000, second.rates[0].Rx, 0.001)
	assert.InDelta(t, 100, second.rates[0].Tx, 0.001)
	require.NotNil(t, second.talkers.Download)
	assert.Equal(t, "web", second.talkers.Download.Name)
	assert.Nil(t, second.talkers.Upload, "100 B/s is under the talker floor")

	assert.Equal(t, 2, f.rec.total)
	assert.Equal(t, 1, f.rec.running)

	snap, err := f.cache.Load("http://mon.local")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Len(t, snap.Entities, 2)
	assert.Equal(t, uint64(1000+5*30000), snap.Entities[0].NetRx)
}

func TestPoller_EntitiesCacheFailureIsNotFatal(t *testing.T) {
	src := &fakeSource{entityLists: [][]api.EntitySample{{{ID: "a", Name: "web"}}}}
	f := newPollerFixture(t, src)

	// A directory where the cache file should be makes every save fail.
	dir := t.TempDir()
	f.p.opts.Cache = snapcache.New(dir)

	require.NoError(t, f.p.entities(context.Background()))
	_, ok := f.send.last().(entitiesMsg)
	assert.True(t, ok)
	assert.True(t, f.log.Contains("warn", "entity cache not saved"))
}

func TestPoller_EntitiesFailure(t *testing.T) {
	f := newPollerFixture(t, &fakeSource{entitiesErr: errors.New("timeout")})

	require.Error(t, f.p.entities(context.Background()))
	em := f.send.last().(loopErrorMsg)
	assert.Equal(t, LoopEntities, em.loop)
}

func TestPoller_ColdStart(t *testing.T) {
	t.Run("no cache file", func(t *testing.T) {
		f := newPollerFixture(t, &fakeSource{})
		assert.Nil(t, f.p.ColdStart())
	})

	t.Run("cached entities use server speeds", func(t *testing.T) {
		f := newPollerFixture(t, &fakeSource{})
		saved := pollerStart.Add(-time.Hour)
		require.NoError(t, f.cache.Save("http://mon.local", []api.EntitySample{
			{ID: "a", Name: "web", State: "running", NetRx: 500, NetRxSpeed: ptr(50000)},
			{ID: "b", Name: "db", State: "running", NetTx: 900},
		}, saved))

		msg, ok := f.p.ColdStart().(entitiesMsg)
		require.True(t, ok)
		assert.True(t, msg.cached)
		assert.True(t, msg.at.Equal(saved))
		require.Len(t, msg.rates, 2)
		assert.Equal(t, 50000.0, msg.rates[0].Rx)
		assert.Zero(t, msg.rates[1].Tx)
		require.NotNil(t, msg.talkers.Download)
		assert.Equal(t, "web", msg.talkers.Download.Name)
		assert.Zero(t, f.p.opts.Deriver.Len(), "cached samples must not seed rate baselines")
	})

	t.Run("cache for another server", func(t *testing.T) {
		f := newPollerFixture(t, &fakeSource{})
		require.NoError(t, f.cache.Save("http://other", []api.EntitySample{{ID: "a"}}, pollerStart))
		assert.Nil(t, f.p.ColdStart())
	})
}

func TestPoller_HistoryPeriod(t *testing.T) {
	src := &fakeSource{history: []api.HistoryRecord{
		{Timestamp: api.Timestamp{Time: pollerStart}, CPUUsage: 10, NetRecvSpeed: 2048},
		{Timestamp: api.Timestamp{Time: pollerStart.Add(time.Minute)}, CPUUsage: 20},
	}}
	f := newPollerFixture(t, src)

	require.NoError(t, f.p.history(context.Background(), LoopHistory))
	msg := f.send.last().(historyMsg)
	assert.Equal(t, LoopHistory, msg.loop)
	assert.Equal(t, "24h", msg.series.Period)
	assert.Equal(t, []string{"12:00", "12:01"}, msg.series.Labels)
	assert.Equal(t, 2.0, msg.series.Down[0])

	f.p.SetPeriod(LoopNetworkHistory, "7d")
	assert.Equal(t, "24h", f.p.Period(LoopHistory), "periods are per loop")
	assert.Equal(t, "7d", f.p.Period(LoopNetworkHistory))

	require.NoError(t, f.p.history(context.Background(), LoopNetworkHistory))
	msg = f.send.last().(historyMsg)
	assert.Equal(t, LoopNetworkHistory, msg.loop)
	assert.Equal(t, "Mar 1 12:00", msg.series.Labels[0])
	assert.Equal(t, []string{"24h", "7d"}, src.historyPeriods)

	f.p.SetPeriod("bogus", "30d")
	assert.Equal(t, "", f.p.Period("bogus"))
}

func TestPoller_NotificationsOnlyWhenWanted(t *testing.T) {
	src := &fakeSource{alerts: []api.AlertRecord{{Message: "disk full", Level: api.LevelCritical}}}
	f := newPollerFixture(t, src)
	ctx := context.Background()

	require.NoError(t, f.p.notifications(ctx))
	assert.Empty(t, f.send.all(), "closed overlay gets nothing")
	assert.Equal(t, []int{50}, src.alertLimits, "the log is still fetched")

	f.p.Refresh()
	require.NoError(t, f.p.notifications(ctx))
	require.Len(t, f.send.all(), 1, "an explicit refresh is served once")
	require.NoError(t, f.p.notifications(ctx))
	assert.Len(t, f.send.all(), 1)

	f.p.SetAlertsOpen(true)
	require.NoError(t, f.p.notifications(ctx))
	require.NoError(t, f.p.notifications(ctx))
	assert.Len(t, f.send.all(), 3, "an open overlay is refreshed every cycle")

	f.p.SetAlertsOpen(false)
	require.NoError(t, f.p.notifications(ctx))
	assert.Len(t, f.send.all(), 3)
}

func TestPoller_ClearAlerts(t *testing.T) {
	t.Run("success requests a refetch", func(t *testing.T) {
		src := &fakeSource{alerts: []api.AlertRecord{{Message: "x"}}}
		f := newPollerFixture(t, src)

		msg := f.p.ClearAlerts()
		assert.Equal(t, alertsClearedMsg{}, msg)
		assert.Equal(t, 1, src.clearCalls)

		require.NoError(t, f.p.notifications(context.Background()))
		am := f.send.last().(alertsMsg)
		assert.Empty(t, am.records)
	})

	t.Run("failure is reported", func(t *testing.T) {
		src := &fakeSource{clearErr: errors.New("denied")}
		f := newPollerFixture(t, src)

		msg, ok := f.p.ClearAlerts().(alertsClearedMsg)
		require.True(t, ok)
		assert.Error(t, msg.err)
		assert.True(t, f.log.Contains("warn", "clear alerts"))
	})
}

func TestPoller_Register(t *testing.T) {
	f := newPollerFixture(t, &fakeSource{})
	s := scheduler.New(scheduler.WithClock(f.clock))

	require.NoError(t, f.p.Register(s))
	assert.Error(t, f.p.Register(s), "loop names are unique")
}

func TestPoller_LoopsRunUnderScheduler(t *testing.T) {
	src := &fakeSource{
		snapshot:    &api.HostSnapshot{CPUUsage: 12},
		peaks:       &api.PeakSet{},
		entityLists: [][]api.EntitySample{{{ID: "a", Name: "web", State: "running"}}},
	}
	f := newPollerFixture(t, src)
	s := scheduler.New(scheduler.WithClock(f.clock))
	require.NoError(t, f.p.Register(s))

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	// Every loop runs its first cycle, then waits on the clock.
	require.True(t, f.clock.BlockUntil(len(Loops), 2*time.Second))

	kinds := map[string]bool{}
	for _, m := range f.send.all() {
		switch m.(type) {
		case statsMsg:
			kinds["stats"] = true
		case entitiesMsg:
			kinds["entities"] = true
		case historyMsg:
			kinds["history"] = true
		}
	}
	assert.True(t, kinds["stats"])
	assert.True(t, kinds["entities"])
	assert.True(t, kinds["history"])

	cancel()
	s.Wait()
}
