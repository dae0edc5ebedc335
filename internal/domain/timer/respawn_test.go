package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		token  string
		hour   int
		minute int
		ok     bool
	}{
		{"1430", 14, 30, true},
		{"0000", 0, 0, true},
		{"2359", 23, 59, true},
		{"14:30", 14, 30, true},
		{"9:05", 9, 5, true},
		{"09:05", 9, 5, true},
		{" 1430 ", 14, 30, true},
		{"2430", 0, 0, false}, // hour out of range
		{"1260", 0, 0, false}, // minute out of range
		{"24:00", 0, 0, false},
		{"14:5", 0, 0, false}, // minutes must be two digits
		{"143", 0, 0, false},
		{"14300", 0, 0, false},
		{"ab:cd", 0, 0, false},
		{"小巴", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			h, m, err := ParseClock(tt.token)
			if !tt.ok {
				require.ErrorIs(t, err, ErrBadClockToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.hour, h)
			assert.Equal(t, tt.minute, m)
		})
	}
}

var taipei = time.FixedZone("CST", 8*3600)

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 10, hour, minute, 0, 0, taipei)
}

func TestAnchorToday(t *testing.T) {
	now := time.Date(2026, time.March, 10, 10, 0, 42, 999, taipei)
	anchor := AnchorToday(14, 30, now)
	assert.Equal(t, time.Date(2026, time.March, 10, 14, 30, 0, 0, taipei), anchor)
	assert.Equal(t, taipei, anchor.Location())
}

func TestExplicitRespawn(t *testing.T) {
	now := at(10, 0)

	// Future anchor stays as-is.
	assert.Equal(t, at(14, 0), ExplicitRespawn(at(14, 0), now))

	// Past or equal anchor means tomorrow's occurrence.
	assert.Equal(t, at(9, 0).AddDate(0, 0, 1), ExplicitRespawn(at(9, 0), now))
	assert.Equal(t, now.AddDate(0, 0, 1), ExplicitRespawn(now, now))
}

func TestExplicitRespawnAlwaysFuture(t *testing.T) {
	now := at(10, 0)
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 29, 59} {
			got := ExplicitRespawn(AnchorToday(hour, minute, now), now)
			assert.True(t, got.After(now), "anchor %02d:%02d", hour, minute)
		}
	}
}

func TestDeathRespawnSimple(t *testing.T) {
	// Death 08:00 with a 240m period at now 10:00: one period later, 12:00.
	now := at(10, 0)
	got := DeathRespawn(at(8, 0), now, 240*time.Minute, 5*time.Minute)
	assert.Equal(t, at(12, 0), got)

	// With a generous threshold a future-dated death is taken literally:
	// death 14:00 -> respawn 18:00.
	got = DeathRespawn(at(14, 0), now, 240*time.Minute, 12*time.Hour)
	assert.Equal(t, at(18, 0), got)
}

func TestDeathRespawnRollsPastNow(t *testing.T) {
	// Death 02:00 with a 240m period: 06:00 is already gone at 10:00, the
	// next multiple is 14:00.
	now := at(10, 0)
	got := DeathRespawn(at(2, 0), now, 240*time.Minute, 5*time.Minute)
	assert.Equal(t, at(14, 0), got)
}

func TestDeathRespawnYesterdayRollback(t *testing.T) {
	// now 10:00, death entered as 23:50: that is hours in the future, so the
	// death really happened yesterday. 23:50-1d + 240m = 03:50, rolled
	// forward past 10:00 in 240m steps: 07:50, then 11:50.
	now := at(10, 0)
	got := DeathRespawn(at(23, 50), now, 240*time.Minute, 5*time.Minute)
	assert.Equal(t, at(11, 50), got)
}

func TestDeathRespawnThresholdBoundary(t *testing.T) {
	now := at(10, 0)
	threshold := 5 * time.Minute

	// Exactly at the threshold: not rolled back, still today's death.
	got := DeathRespawn(at(10, 5), now, 240*time.Minute, threshold)
	assert.Equal(t, at(14, 5), got)

	// One minute past the threshold: treated as yesterday.
	got = DeathRespawn(at(10, 6), now, 240*time.Minute, threshold)
	// 10:06 yesterday + 240m = 14:06 yesterday, rolled forward to 10:06
	// today... which is after now, landing on 10:06.
	assert.Equal(t, at(10, 6), got)
}

func TestDeathRespawnProperties(t *testing.T) {
	now := at(10, 0)
	periods := []time.Duration{120 * time.Minute, 180 * time.Minute, 240 * time.Minute, 360 * time.Minute}

	for hour := 0; hour < 24; hour++ {
		for _, period := range periods {
			anchor := AnchorToday(hour, 30, now)
			got := DeathRespawn(anchor, now, period, 5*time.Minute)

			require.True(t, got.After(now), "anchor %02d:30 period %s", hour, period)

			// The distance from the (possibly rolled back) anchor is a whole
			// number of periods.
			effective := anchor
			if anchor.Sub(now) > 5*time.Minute {
				effective = anchor.AddDate(0, 0, -1)
			}
			delta := got.Sub(effective)
			require.Equal(t, time.Duration(0), delta%period, "anchor %02d:30 period %s", hour, period)
			require.Greater(t, delta, time.Duration(0))
		}
	}
}
