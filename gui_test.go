//go:build gui

package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/wrr/internal/config"
)

type gatedFetcher struct {
	calls   atomic.Int32
	release chan struct{}
}

func (g *gatedFetcher) Fetch(context.Context, string) ([]string, error) {
	g.calls.Add(1)
	<-g.release
	return []string{"One.", "Two", "three."}, nil
}

func newTestWindow(t *testing.T, fetcher *gatedFetcher) *window {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	w := newWindow(a, config.Default(), &options{URL: "https://example.com", Rate: "300"}, fetcher)
	t.Cleanup(w.ctrl.Close)
	return w
}

func TestWindowFetchesOneAtATime(t *testing.T) {
	fetcher := &gatedFetcher{release: make(chan struct{})}
	w := newTestWindow(t, fetcher)

	w.fetch()
	w.urlEntry.OnSubmitted(w.urlEntry.Text)
	w.fetch()
	assert.True(t, w.fetching.Load())

	close(fetcher.release)
	require.Eventually(t, func() bool { return !w.fetching.Load() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), fetcher.calls.Load())

	w.fetch()
	require.Eventually(t, func() bool { return fetcher.calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestWindowToggleCorrectsRate(t *testing.T) {
	fetcher := &gatedFetcher{release: make(chan struct{})}
	close(fetcher.release)
	w := newTestWindow(t, fetcher)

	require.NoError(t, w.ctrl.Fetch(context.Background(), "u"))
	w.rateEntry.SetText("abc")

	w.toggle()
	assert.True(t, w.ctrl.Snapshot().Running())
	assert.Equal(t, "300", w.rateEntry.Text)
}

func TestStatusLine(t *testing.T) {
	fetcher := &gatedFetcher{release: make(chan struct{})}
	close(fetcher.release)
	w := newTestWindow(t, fetcher)

	line := statusLine(w.ctrl.Snapshot(), 72)
	assert.Contains(t, line, "Word 0/0 | 300 WPM | Font: 72 [PAUSED]")
}
