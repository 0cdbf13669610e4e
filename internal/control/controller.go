// Package control connects the content fetcher to the playback engine. Both
// the terminal and the desktop surfaces drive the reader through it.
package control

import (
	"context"

	zlog "github.com/rs/zerolog/log"

	"github.com/metcalfc/wrr/internal/playback"
)

// WordFetcher retrieves the word sequence for a URL.
type WordFetcher interface {
	Fetch(ctx context.Context, url string) ([]string, error)
}

// Controller handles user actions for one reading window.
type Controller struct {
	fetcher WordFetcher
	player  *playback.Player
}

// New creates a Controller publishing frames to surface.
func New(fetcher WordFetcher, surface playback.Surface, opts ...playback.Option) *Controller {
	return &Controller{
		fetcher: fetcher,
		player:  playback.NewPlayer(playback.NewEngine(surface), opts...),
	}
}

// Fetch retrieves url and loads its words, which stops playback and rewinds
// to the first word. On failure the notice "Error: ..." is published and the
// current sequence is kept. Fetch blocks until the fetcher returns.
func (c *Controller) Fetch(ctx context.Context, url string) error {
	c.engine().Notify("Fetching " + url + "...")

	words, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		zlog.Debug().Err(err).Str("url", url).Msg("Keeping previous sequence")
		c.engine().Notify("Error: " + err.Error())
		return err
	}

	c.player.Load(words)
	return nil
}

// TogglePlay starts playback at the rate typed in the rate field, or pauses
// it when running. It returns whether playback is running afterwards.
func (c *Controller) TogglePlay(rateInput string) bool {
	return c.player.Toggle(rateInput)
}

// Play starts playback; it does nothing when already running.
func (c *Controller) Play(rateInput string) bool {
	return c.player.Play(rateInput)
}

// Pause stops playback, keeping the position.
func (c *Controller) Pause() bool {
	return c.player.Pause()
}

// Reset stops playback and rewinds to the first word.
func (c *Controller) Reset() {
	c.player.Reset()
}

// PrevSentence jumps to the start of the previous sentence.
func (c *Controller) PrevSentence() {
	c.engine().JumpToPrevSentence()
}

// NextSentence jumps to the start of the next sentence.
func (c *Controller) NextSentence() {
	c.engine().JumpToNextSentence()
}

// Snapshot returns the current frame.
func (c *Controller) Snapshot() playback.Frame {
	return c.engine().Snapshot()
}

// Close stops the ticker loop.
func (c *Controller) Close() {
	c.player.Close()
}

func (c *Controller) engine() *playback.Engine {
	return c.player.Engine()
}
