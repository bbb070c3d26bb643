package streakcore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-streak-ledger/inter"
)

func TestPeriod(t *testing.T) {
	tests := []struct {
		t, interval, want int64
	}{
		{0, 60, 0},
		{59, 60, 0},
		{60, 60, 1},
		{121, 60, 2},
		{-1, 60, -1},
		{-60, 60, -1},
		{-61, 60, -2},
		{1_700_000_000, 86_400, 19_675},
	}
	for _, tt := range tests {
		if got := Period(tt.t, tt.interval); got != tt.want {
			t.Errorf("Period(%d, %d) = %d, want %d", tt.t, tt.interval, got, tt.want)
		}
	}
}

// A player who checks in at t=0 and never again survives until the end of
// the following period.
func TestDeathBoundary(t *testing.T) {
	p := &inter.Player{IsActive: true, LastCheckin: 0, StartDay: 0}

	alive := []int64{0, 59, 60, 119}
	dead := []int64{120, 121, 1_000}
	for _, now := range alive {
		require.False(t, IsDead(p, now, 60), "t=%d", now)
	}
	for _, now := range dead {
		require.True(t, IsDead(p, now, 60), "t=%d", now)
	}
	require.Equal(t, int64(120), Deadline(p, 60))
}

func TestDeadlineSaturates(t *testing.T) {
	require := require.New(t)
	p := &inter.Player{IsActive: true, LastCheckin: 1_700_000_000, StartDay: 1_700_000_000}

	huge := int64(math.MaxInt64/2 + 1)
	require.Equal(int64(math.MaxInt64), Deadline(p, huge))
	require.False(IsDead(p, math.MaxInt64, huge))

	// the largest interval whose deadline still fits is exact
	fits := int64(math.MaxInt64 / 2)
	require.Equal(2*fits, Deadline(p, fits))
	require.False(IsDead(p, 2*fits-1, fits))
	require.True(IsDead(p, 2*fits, fits))

	require.Equal(int64(math.MaxInt64), Deadline(p, math.MaxInt64))
}

// Staking mid-period must not leave the player dead before their first chance to check in.
func TestStartDayAnchor(t *testing.T) {
	require := require.New(t)

	p := &inter.Player{IsActive: true, LastCheckin: 10, StartDay: 10}
	require.False(IsDead(p, 119, 60))
	require.True(IsDead(p, 130, 60))

	// a start day later than the last check-in moves the anchor forward
	p = &inter.Player{IsActive: true, LastCheckin: 0, StartDay: 125}
	require.False(IsDead(p, 170, 60))
	require.True(IsDead(p, 240, 60))

	require.False(IsDead(&inter.Player{LastCheckin: 0}, 1_000, 60), "inactive players are not dead")
}

func TestCanCheckin(t *testing.T) {
	require := require.New(t)

	p := &inter.Player{IsActive: true, LastCheckin: 0, StartDay: 0}
	require.False(CanCheckin(p, 30, 60), "same period")
	require.True(CanCheckin(p, 61, 60))
	require.True(CanCheckin(p, 119, 60))
	require.False(CanCheckin(p, 121, 60), "dead")

	p.IsActive = false
	require.False(CanCheckin(p, 61, 60))
}

func TestBonusActive(t *testing.T) {
	require := require.New(t)

	g := &inter.GameState{}
	require.False(BonusActive(g, 0), "no window ever started")

	g.CurrentBonusWindow = 1
	g.BonusWindowEnd = 900
	require.True(BonusActive(g, 0))
	require.True(BonusActive(g, 899))
	require.False(BonusActive(g, 900))
}

func TestStateOf(t *testing.T) {
	require := require.New(t)

	require.Equal(Nonexistent, StateOf(nil, 0, 60))
	p := &inter.Player{IsActive: true}
	require.Equal(Alive, StateOf(p, 100, 60))
	require.Equal(DeadPending, StateOf(p, 200, 60))
	p.IsActive = false
	require.Equal(Inactive, StateOf(p, 200, 60))
	require.Equal("dead-pending", DeadPending.String())
}
