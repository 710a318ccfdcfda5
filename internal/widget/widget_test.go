package widget

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/geo"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
)

func testSnapshot() schedule.Snapshot {
	return schedule.Snapshot{
		ID: "chain-1",
		Resolution: geo.Resolution{
			Location: geo.FallbackLocation,
			Label:    geo.FallbackLabel,
			Fallback: true,
			Reason:   geo.Reason(geo.ErrPermissionDenied),
		},
		Result: schedule.Result{
			Set: prayer.TimeSet{
				Date:       time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local),
				Provenance: prayer.ProvenanceCalculated,
				Fajr:       "04:30", Sunrise: "06:00", Dhuhr: "12:00", Asr: "15:15",
				Sunset: "17:30", Maghrib: "18:00", Isha: "19:30", Midnight: "00:00",
			},
			Disclaimer: schedule.DisclaimerCalculated,
		},
	}
}

type harness struct {
	now       time.Time
	refreshes int
	manual    int
	seen      []prayer.Next
}

func newHarness(t *testing.T) (*harness, Model) {
	t.Helper()
	h := &harness{now: time.Date(2026, 10, 19, 15, 0, 0, 0, time.Local)}
	m := New(context.Background(),
		func(ctx context.Context, now time.Time) schedule.Snapshot {
			h.refreshes++
			return testSnapshot()
		},
		WithClock(func() time.Time { return h.now }),
		WithNextFunc(func(n prayer.Next, _ schedule.Snapshot) { h.seen = append(h.seen, n) }),
		WithManualRefreshFunc(func() { h.manual++ }),
	)
	return h, m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_LoadingView(t *testing.T) {
	_, m := newHarness(t)

	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Memuat jadwal")
}

func TestModel_SnapshotArrives(t *testing.T) {
	h, m := newHarness(t)

	m, _ = update(t, m, snapshotMsg{snap: testSnapshot()})

	assert.False(t, m.loading)
	assert.Equal(t, prayer.Asr, m.next.Name)
	assert.Equal(t, 15*60, m.next.SecondsRemaining)
	require.Len(t, h.seen, 1)

	view := m.View()
	assert.Contains(t, view, "Jakarta, Indonesia")
	assert.Contains(t, view, "Izin lokasi ditolak")
	assert.Contains(t, view, "Ashar")
	assert.Contains(t, view, "00:15:00")
	assert.Contains(t, view, "perhitungan")
}

func TestModel_TickCountsDown(t *testing.T) {
	h, m := newHarness(t)
	m, _ = update(t, m, snapshotMsg{snap: testSnapshot()})

	h.now = h.now.Add(time.Second)
	m, cmd := update(t, m, tickMsg(h.now))

	assert.NotNil(t, cmd, "next tick must be scheduled")
	assert.Equal(t, 15*60-1, m.next.SecondsRemaining)
	assert.Contains(t, m.View(), "00:14:59")
	assert.Len(t, h.seen, 2)
}

func TestModel_TickAfterIshaWrapsToFajr(t *testing.T) {
	h, m := newHarness(t)
	m, _ = update(t, m, snapshotMsg{snap: testSnapshot()})

	h.now = time.Date(2026, 10, 19, 21, 0, 0, 0, time.Local)
	m, _ = update(t, m, tickMsg(h.now))

	assert.Equal(t, prayer.Fajr, m.next.Name)
	assert.True(t, m.next.Tomorrow)
	assert.Contains(t, m.View(), "(besok)")
}

func TestModel_DayChangeReloads(t *testing.T) {
	h, m := newHarness(t)
	m, _ = update(t, m, snapshotMsg{snap: testSnapshot()})

	h.now = time.Date(2026, 10, 20, 0, 0, 1, 0, time.Local)
	m, cmd := update(t, m, tickMsg(h.now))

	assert.True(t, m.loading)
	assert.NotNil(t, cmd)
}

func TestModel_RefreshKey(t *testing.T) {
	h, m := newHarness(t)
	m, _ = update(t, m, snapshotMsg{snap: testSnapshot()})

	m, cmd := update(t, m, keyMsg('r'))
	assert.True(t, m.loading)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, h.manual)

	_, cmd = update(t, m, keyMsg('r'))
	assert.Nil(t, cmd, "no second refresh while one is in flight")
	assert.Equal(t, 1, h.manual)
}

func TestModel_TickDoesNotReloadSameDay(t *testing.T) {
	h, m := newHarness(t)
	m, _ = update(t, m, snapshotMsg{snap: testSnapshot()})

	h.now = time.Date(2026, 10, 19, 23, 59, 59, 0, time.Local)
	m, _ = update(t, m, tickMsg(h.now))

	assert.False(t, m.loading)
	assert.Equal(t, 0, h.refreshes)
}

// On a UTC clock at 18:00 the Jakarta schedule already belongs to the next day.
func TestModel_DayTrackedInScheduleZone(t *testing.T) {
	now := time.Date(2026, 10, 19, 18, 0, 0, 0, time.UTC)
	svc := &schedule.Service{
		Resolver:  &geo.Resolver{Denied: true},
		Estimator: &schedule.Estimator{},
	}
	m := New(context.Background(), svc.Refresh, WithClock(func() time.Time { return now }))

	msg := m.load()()
	m, _ = update(t, m, msg)

	require.NotNil(t, m.snap)
	assert.Equal(t, "Asia/Jakarta", m.snap.Timezone)
	assert.Equal(t, "2026-10-20", m.day)
	assert.Equal(t, "2026-10-20", m.snap.Result.Set.Date.Format(dayLayout))

	now = now.Add(time.Second)
	m, _ = update(t, m, tickMsg(now))
	assert.False(t, m.loading, "same day in the schedule zone must not reload")
}

func TestModel_LoadRunsRefresh(t *testing.T) {
	h, m := newHarness(t)

	msg := m.load()()

	snap, ok := msg.(snapshotMsg)
	require.True(t, ok)
	assert.Equal(t, "chain-1", snap.snap.ID)
	assert.Equal(t, 1, h.refreshes)
}

func TestModel_Quit(t *testing.T) {
	_, m := newHarness(t)

	_, cmd := update(t, m, keyMsg('q'))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestModel_WithNamesAndTwelveHour(t *testing.T) {
	_, m := newHarness(t)
	m = New(m.ctx, m.refresh, WithClock(m.now), WithNames(prayer.CoreNames), WithTwelveHour(true))
	m, _ = update(t, m, snapshotMsg{snap: testSnapshot()})

	view := m.View()
	assert.Contains(t, view, "7:30 PM")
	assert.False(t, strings.Contains(view, "Terbit"), "sunrise not selected")
}
