package monitor

import (
	"testing"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/liquidmon/lmon/internal/derive"
	"github.com/stretchr/testify/assert"
)

func TestSortState_Select(t *testing.T) {
	s := DefaultSort()
	assert.Equal(t, SortByCPU, s.Column)
	assert.False(t, s.Ascending)

	s = s.Select(SortByCPU)
	assert.True(t, s.Ascending, "same column toggles")

	s = s.Select(SortByName)
	assert.Equal(t, SortByName, s.Column)
	assert.True(t, s.Ascending, "name starts ascending")

	s = s.Select(SortByName)
	assert.False(t, s.Ascending)

	s = s.Select(SortByState)
	assert.True(t, s.Ascending, "state starts ascending")

	s = s.Select(SortByNetDown)
	assert.False(t, s.Ascending, "numeric columns start descending")
	assert.Equal(t, "↓", s.Indicator())
}

func names(rates []derive.EntityRate) []string {
	out := make([]string, len(rates))
	for i, r := range rates {
		out[i] = r.Entity.Name
	}
	return out
}

func TestSortEntities(t *testing.T) {
	base := []derive.EntityRate{
		{Entity: api.EntitySample{Name: "web", State: "running", CPUPercent: 5, MemoryPercent: 30, MemoryUsage: 300, NetRx: 10, NetTx: 900}},
		{Entity: api.EntitySample{Name: "DB", State: "running", CPUPercent: 40, MemoryPercent: 60, MemoryUsage: 100, NetRx: 500, NetTx: 5}},
		{Entity: api.EntitySample{Name: "cache", State: "exited", CPUPercent: 0, MemoryPercent: 10, MemoryUsage: 200, NetRx: 50, NetTx: 50}},
	}

	tests := []struct {
		name string
		sort SortState
		want []string
	}{
		{"default cpu desc", DefaultSort(), []string{"DB", "web", "cache"}},
		{"name asc ignores case", SortState{Column: SortByName, Ascending: true}, []string{"cache", "DB", "web"}},
		{"state asc", SortState{Column: SortByState, Ascending: true}, []string{"cache", "web", "DB"}},
		{"mem desc", SortState{Column: SortByMem}, []string{"DB", "web", "cache"}},
		{"net_down desc", SortState{Column: SortByNetDown}, []string{"DB", "cache", "web"}},
		{"net_up asc", SortState{Column: SortByNetUp, Ascending: true}, []string{"DB", "cache", "web"}},
		{"ram_usage desc", SortState{Column: SortByRAMUsage}, []string{"web", "cache", "DB"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := append([]derive.EntityRate(nil), base...)
			SortEntities(rates, tt.sort)
			assert.Equal(t, tt.want, names(rates))
		})
	}
}

func TestRunningCount(t *testing.T) {
	rates := []derive.EntityRate{
		{Entity: api.EntitySample{State: "running"}},
		{Entity: api.EntitySample{State: "exited"}},
		{Entity: api.EntitySample{State: "running"}},
		{Entity: api.EntitySample{State: "paused"}},
	}
	assert.Equal(t, 2, RunningCount(rates))
	assert.Equal(t, 0, RunningCount(nil))
}
