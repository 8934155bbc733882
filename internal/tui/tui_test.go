package tui

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/tunegrab/internal/download"
	"github.com/handiism/tunegrab/internal/model"
)

type fakeRunner struct {
	result model.AggregateResult
	err    error
	stops  atomic.Int32
}

func (f *fakeRunner) DownloadPlaylist(context.Context, []model.Track) (model.AggregateResult, error) {
	return f.result, f.err
}

func (f *fakeRunner) Snapshot() model.AggregateResult { return f.result }

func (f *fakeRunner) Stop() { f.stops.Add(1) }

func testTracks() []model.Track {
	return []model.Track{
		model.NewTrack("Daft Punk", "One More Time"),
		model.NewTrack("Radiohead", "Karma Police"),
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSize(tt.in))
	}
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "42s", FormatElapsed(42*time.Second))
	assert.Equal(t, "3m 05s", FormatElapsed(3*time.Minute+5*time.Second))
	assert.Equal(t, "1h 02m", FormatElapsed(time.Hour+2*time.Minute))
}

func TestModel_StartAndComplete(t *testing.T) {
	runner := &fakeRunner{result: model.AggregateResult{TotalCount: 2, SuccessCount: 1, FailedCount: 1, FailedQueries: []string{"Radiohead - Karma Police"}}}
	m := NewModel(context.Background(), runner, testTracks(), nil, Options{NewTracks: 2})

	assert.Contains(t, m.View(), "2 tracks, 2 new")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, StateDownloading, m.state)

	result, err := runner.DownloadPlaylist(context.Background(), nil)
	m, _ = update(t, m, DownloadDoneMsg{Result: result, Err: err})
	assert.Equal(t, StateComplete, m.state)

	view := m.View()
	assert.Contains(t, view, "Download Complete")
	assert.Contains(t, view, "Radiohead - Karma Police")

	got, err := m.Result()
	require.NoError(t, err)
	assert.Equal(t, 1, got.SuccessCount)
}

func TestModel_EscStopsOnce(t *testing.T) {
	runner := &fakeRunner{}
	m := NewModel(context.Background(), runner, testTracks(), nil, Options{})
	m, _ = update(t, m, StartMsg{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, m.stopping)
	assert.Equal(t, int32(1), runner.stops.Load())
	assert.Contains(t, m.View(), "Stopping")
}

func TestModel_QuitBeforeStart(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, testTracks(), nil, Options{})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	_, err := m.Result()
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestModel_VerboseFilter(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, testTracks(), nil, Options{})

	m, _ = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Skipping existing: x", Level: download.LevelVerbose}})
	assert.Empty(t, m.logs)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("v")})
	m, _ = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: "Skipping existing: x", Level: download.LevelVerbose}})
	assert.Len(t, m.logs, 1)
}

func TestModel_LogsAreBounded(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, testTracks(), nil, Options{})
	for i := 0; i < maxLogs+5; i++ {
		m, _ = update(t, m, ProgressMsg{Event: download.ProgressEvent{Message: strings.Repeat("x", i+1), Level: download.LevelInfo}})
	}
	require.Len(t, m.logs, maxLogs)
	assert.Equal(t, strings.Repeat("x", maxLogs+5), m.logs[maxLogs-1].Message)
}

func TestModel_DownloadError(t *testing.T) {
	m := NewModel(context.Background(), &fakeRunner{}, testTracks(), nil, Options{AutoStart: true})
	m, _ = update(t, m, StartMsg{})
	m, _ = update(t, m, DownloadDoneMsg{Err: errors.New("create output directory: permission denied")})

	assert.Equal(t, StateError, m.state)
	assert.Contains(t, m.View(), "permission denied")
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 1.0, percent(model.AggregateResult{}), 0.001)
	assert.InDelta(t, 0.5, percent(model.AggregateResult{TotalCount: 4, SuccessCount: 1, SkippedCount: 1}), 0.001)
}
