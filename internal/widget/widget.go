// Package widget is the terminal rendition of the prayer-times card: it loads
// a schedule, highlights the next prayer, and ticks a countdown every second.
package widget

import (
	"context"
	"fmt"
	"strings"
	"time"

	bhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/jadwal-sholat/internal/prayer"
	"github.com/smokyabdulrahman/jadwal-sholat/internal/schedule"
)

const noteWidth = 46

const dayLayout = "2006-01-02"

// RefreshFunc runs one refresh chain for the day now falls on.
type RefreshFunc func(ctx context.Context, now time.Time) schedule.Snapshot

// NextFunc observes every recomputed next prayer, e.g. to announce changes.
type NextFunc func(next prayer.Next, snap schedule.Snapshot)

type snapshotMsg struct{ snap schedule.Snapshot }

type tickMsg time.Time

// Model is the bubbletea model for `jadwal-sholat widget`.
type Model struct {
	ctx     context.Context
	refresh RefreshFunc
	onNext  NextFunc
	onKey   func()
	now     func() time.Time

	names      []prayer.Name
	twelveHour bool

	snap    *schedule.Snapshot
	next    prayer.Next
	loading bool
	day     string

	spinner spinner.Model
	help    bhelp.Model
	keys    keyMap
	width   int
}

// Option customises a Model.
type Option func(*Model)

// WithNames selects which entries the card lists.
func WithNames(names []prayer.Name) Option {
	return func(m *Model) { m.names = names }
}

// WithTwelveHour renders clock times as 12-hour.
func WithTwelveHour(b bool) Option {
	return func(m *Model) { m.twelveHour = b }
}

// WithNextFunc registers an observer for the per-second recomputation.
func WithNextFunc(f NextFunc) Option {
	return func(m *Model) { m.onNext = f }
}

// WithManualRefreshFunc runs f whenever the user asks for a refresh.
func WithManualRefreshFunc(f func()) Option {
	return func(m *Model) { m.onKey = f }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New builds a model that loads its first snapshot on Init.
func New(ctx context.Context, refresh RefreshFunc, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = countdownStyle

	m := Model{
		ctx:     ctx,
		refresh: refresh,
		now:     time.Now,
		names:   prayer.DefaultDisplayNames,
		loading: true,
		spinner: s,
		help:    bhelp.New(),
		keys:    keys,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), tick())
}

// load runs a refresh chain off the update loop.
func (m Model) load() tea.Cmd {
	ctx, refresh, now := m.ctx, m.refresh, m.now()
	return func() tea.Msg {
		return snapshotMsg{snap: refresh(ctx, now)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			if m.onKey != nil {
				m.onKey()
			}
			return m, tea.Batch(m.spinner.Tick, m.load())
		}
		return m, nil

	case snapshotMsg:
		// Chains are not de-duplicated; the last one to arrive wins.
		snap := msg.snap
		m.snap = &snap
		m.loading = false
		m.day = snap.Result.Set.Date.Format(dayLayout)
		m.recompute()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tick()}
		if m.snap != nil {
			if !m.loading && m.now().In(m.snap.Location()).Format(dayLayout) != m.day {
				m.loading = true
				cmds = append(cmds, m.spinner.Tick, m.load())
			}
			m.recompute()
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) recompute() {
	m.next = m.snap.Next(m.now())
	if m.onNext != nil {
		m.onNext(m.next, *m.snap)
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Jadwal Sholat"))
	b.WriteString("\n\n")

	if m.snap == nil {
		b.WriteString(m.spinner.View() + " Memuat jadwal...\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	snap := m.snap
	b.WriteString(labelStyle.Render(snap.Resolution.Label))
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")
	if snap.Resolution.Fallback && snap.Resolution.Reason != "" {
		b.WriteString(reasonStyle.Width(noteWidth).Render(snap.Resolution.Reason) + "\n")
	}
	if snap.Result.Hijri != "" {
		b.WriteString(noteStyle.Render(snap.Result.Hijri) + "\n")
	}
	b.WriteString("\n")

	var rows []string
	for _, name := range m.names {
		clock := snap.Result.Set.Get(name)
		if clock == "" {
			continue
		}
		line := fmt.Sprintf("%-14s %8s", prayer.Localized[name], prayer.DisplayClock(clock, m.twelveHour))
		style := rowStyle
		if name == m.next.Name {
			style = nextRowStyle
		}
		rows = append(rows, style.Render(line))
	}
	b.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n\n")

	when := ""
	if m.next.Tomorrow {
		when = " (besok)"
	}
	b.WriteString(fmt.Sprintf("%s%s dalam %s\n",
		m.next.LocalizedName, when, countdownStyle.Render(prayer.FormatCountdown(m.next.SecondsRemaining))))

	if snap.Result.Disclaimer != "" {
		b.WriteString("\n" + noteStyle.Width(noteWidth).Render(snap.Result.Disclaimer) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, refresh RefreshFunc, opts ...Option) error {
	p := tea.NewProgram(New(ctx, refresh, opts...), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
