package playback

import (
	"context"
	"sync"
	"time"
)

// Ticker is the subset of *time.Ticker the player needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a Ticker firing every d.
type TickerFunc func(d time.Duration) Ticker

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Option configures a Player.
type Option func(*Player)

// WithTicker replaces the wall-clock ticker.
func WithTicker(f TickerFunc) Option {
	return func(p *Player) {
		p.newTicker = f
	}
}

// Player drives an Engine from a single background ticker goroutine.
type Player struct {
	engine    *Engine
	newTicker TickerFunc

	mu     sync.Mutex // serializes control operations
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPlayer creates a player for engine.
func NewPlayer(engine *Engine, opts ...Option) *Player {
	p := &Player{
		engine:    engine,
		newTicker: newTimeTicker,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Engine returns the engine driven by p.
func (p *Player) Engine() *Engine {
	return p.engine
}

// Play starts the engine and its ticker loop. It returns false, without
// starting a second loop, if the engine is already running or refuses to start.
func (p *Player) Play(rateInput string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playLocked(rateInput)
}

// Toggle pauses a running engine, or starts a stopped one. It returns whether
// the engine is running afterwards.
func (p *Player) Toggle(rateInput string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.engine.Running() {
		p.engine.Pause()
		p.stopLocked()
		return false
	}
	return p.playLocked(rateInput)
}

// Pause stops the engine and waits for the loop to exit.
func (p *Player) Pause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	was := p.engine.Pause()
	p.stopLocked()
	return was
}

// Reset rewinds the engine to the first word and stops the loop.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.engine.Reset()
	p.stopLocked()
}

// Load installs a new word sequence, stopping any running loop.
func (p *Player) Load(words []string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.engine.Load(words)
	p.stopLocked()
}

// Close stops playback. The engine stays usable.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.engine.Running() {
		p.engine.Pause()
	}
	p.stopLocked()
}

func (p *Player) playLocked(rateInput string) bool {
	if p.engine.Running() {
		return false
	}
	// A loop that outlived its engine run has nothing left to do.
	p.stopLocked()

	if !p.engine.Start(rateInput) {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go p.loop(ctx, p.newTicker(p.engine.Interval()), done)
	return true
}

// stopLocked cancels the loop and waits for it to return. The engine must
// already be stopped so that an in-flight tick finds it not running.
func (p *Player) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

func (p *Player) loop(ctx context.Context, t Ticker, done chan struct{}) {
	defer close(done)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			if !p.engine.Advance() {
				return
			}
		}
	}
}
