package derive

import (
	"testing"

	"github.com/liquidmon/lmon/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rates(pairs ...interface{}) []EntityRate {
	var out []EntityRate
	for i := 0; i < len(pairs); i += 3 {
		out = append(out, EntityRate{
			Entity: api.EntitySample{ID: pairs[i].(string), Name: pairs[i].(string) + "-svc"},
			Rx:     pairs[i+1].(float64),
			Tx:     pairs[i+2].(float64),
		})
	}
	return out
}

const kib = 1024.0

func TestRank(t *testing.T) {
	tests := []struct {
		name     string
		in       []EntityRate
		wantDown string
		wantUp   string
	}{
		{
			name:     "highest above floor wins",
			in:       rates("A", 30*kib, 0.0, "B", 25*kib, 0.0, "C", 15*kib, 0.0),
			wantDown: "A",
		},
		{
			name: "all below floor reports nothing",
			in:   rates("A", 19*kib, 1.0, "B", 18*kib, 2.0, "C", 15*kib, 3.0),
		},
		{
			name: "exactly at floor is not reported",
			in:   rates("A", 20*kib, 20*kib),
		},
		{
			name:     "directions are ranked independently",
			in:       rates("A", 50*kib, 21*kib, "B", 21*kib, 90*kib),
			wantDown: "A",
			wantUp:   "B",
		},
		{
			name:     "ties keep the first seen",
			in:       rates("A", 40*kib, 40*kib, "B", 40*kib, 40*kib),
			wantDown: "A",
			wantUp:   "A",
		},
		{
			name: "empty snapshot",
			in:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := Rank(tt.in)

			if tt.wantDown == "" {
				assert.Nil(t, top.Download)
			} else {
				require.NotNil(t, top.Download)
				assert.Equal(t, tt.wantDown, top.Download.ID)
				assert.Equal(t, tt.wantDown+"-svc", top.Download.Name)
			}

			if tt.wantUp == "" {
				assert.Nil(t, top.Upload)
			} else {
				require.NotNil(t, top.Upload)
				assert.Equal(t, tt.wantUp, top.Upload.ID)
			}
		})
	}
}

func TestRank_ReportsRate(t *testing.T) {
	top := Rank(rates("A", 30*kib, 0.0))
	require.NotNil(t, top.Download)
	assert.Equal(t, 30*kib, top.Download.Rate)
}
