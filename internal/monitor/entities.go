package monitor

import (
	"sort"
	"strings"

	"github.com/liquidmon/lmon/internal/derive"
)

// SortColumn identifies an entity table column.
type SortColumn int

const (
	SortByName SortColumn = iota
	SortByState
	SortByCPU
	SortByMem
	SortByNetDown
	SortByNetUp
	SortByRAMUsage
)

// sortColumns lists columns in the order of their number keys 1-7.
var sortColumns = []SortColumn{SortByName, SortByState, SortByCPU, SortByMem, SortByNetDown, SortByNetUp, SortByRAMUsage}

// String returns the column key used in help text.
func (c SortColumn) String() string {
	switch c {
	case SortByName:
		return "name"
	case SortByState:
		return "state"
	case SortByCPU:
		return "cpu"
	case SortByMem:
		return "mem"
	case SortByNetDown:
		return "net_down"
	case SortByNetUp:
		return "net_up"
	case SortByRAMUsage:
		return "ram_usage"
	default:
		return "cpu"
	}
}

// textual columns default to ascending order, numeric ones to descending.
func (c SortColumn) textual() bool {
	return c == SortByName || c == SortByState
}

// SortState is the current entity table ordering.
type SortState struct {
	Column    SortColumn
	Ascending bool
}

// DefaultSort orders by CPU, busiest first.
func DefaultSort() SortState {
	return SortState{Column: SortByCPU, Ascending: false}
}

// Select applies a column choice: the current column flips direction, a new
// column starts ascending when textual and descending otherwise.
func (s SortState) Select(c SortColumn) SortState {
	if c == s.Column {
		return SortState{Column: c, Ascending: !s.Ascending}
	}
	return SortState{Column: c, Ascending: c.textual()}
}

// Indicator is the arrow drawn next to the sorted column title.
func (s SortState) Indicator() string {
	if s.Ascending {
		return "↑"
	}
	return "↓"
}

// SortEntities orders rates in place. Ties keep their snapshot order.
func SortEntities(rates []derive.EntityRate, s SortState) {
	compare := func(a, b derive.EntityRate) int {
		ea, eb := a.Entity, b.Entity
		switch s.Column {
		case SortByName:
			return strings.Compare(strings.ToLower(ea.Name), strings.ToLower(eb.Name))
		case SortByState:
			return strings.Compare(ea.State, eb.State)
		case SortByMem:
			return cmpFloat(ea.MemoryPercent, eb.MemoryPercent)
		case SortByNetDown:
			return cmpUint(ea.NetRx, eb.NetRx)
		case SortByNetUp:
			return cmpUint(ea.NetTx, eb.NetTx)
		case SortByRAMUsage:
			return cmpUint(ea.MemoryUsage, eb.MemoryUsage)
		default:
			return cmpFloat(ea.CPUPercent, eb.CPUPercent)
		}
	}

	sort.SliceStable(rates, func(i, j int) bool {
		c := compare(rates[i], rates[j])
		if s.Ascending {
			return c < 0
		}
		return c > 0
	})
}

// RunningCount returns how many entities are in the running state.
func RunningCount(rates []derive.EntityRate) int {
	n := 0
	for _, r := range rates {
		if r.Entity.Running() {
			n++
		}
	}
	return n
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
