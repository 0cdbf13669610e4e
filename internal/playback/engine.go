package playback

import (
	"strconv"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/metcalfc/wrr/internal/reader"
)

// Engine owns the word sequence and the playback state. Every operation
// publishes exactly one Frame to the surface after releasing the lock.
type Engine struct {
	mu sync.Mutex

	words          []string
	sentenceStarts []int
	cursor         int
	running        bool
	wpm            int // captured at Start

	word        string
	placeholder bool
	notice      string
	percent     float64
	seq         uint64

	surface Surface
}

// NewEngine creates an idle engine with an empty sequence.
func NewEngine(surface Surface) *Engine {
	if surface == nil {
		surface = Discard
	}
	return &Engine{
		sentenceStarts: []int{0},
		wpm:            DefaultWPM,
		word:           ReadyText,
		placeholder:    true,
		surface:        surface,
	}
}

// Load installs a new sequence and returns to Idle at the first word.
func (e *Engine) Load(words []string) {
	e.mu.Lock()
	e.words = append([]string(nil), words...)
	e.sentenceStarts = reader.FindSentenceStarts(e.words)
	e.cursor = 0
	e.running = false
	e.setLabelLocked(ReadyToStartText)
	e.notice = ""
	e.percent = 0
	f := e.frameLocked("")
	e.mu.Unlock()

	zlog.Debug().Int("words", len(words)).Msg("sequence loaded")
	e.surface.Render(f)
}

// Start enters Running. It returns false when already running, when there is
// nothing to read, or when the sequence is exhausted. An invalid rateInput
// falls back to DefaultWPM and the published frame carries the corrected text.
func (e *Engine) Start(rateInput string) bool {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return false
	}
	if len(e.words) == 0 || e.cursor >= len(e.words) {
		if len(e.words) == 0 {
			e.notice = NoticeNoContent
		} else {
			e.notice = NoticeAtEnd
		}
		f := e.frameLocked("")
		e.mu.Unlock()
		e.surface.Render(f)
		return false
	}

	wpm, ok := ParseRate(rateInput)
	rateText := ""
	if !ok {
		rateText = strconv.Itoa(wpm)
		zlog.Debug().Str("input", rateInput).Int("wpm", wpm).Msg("invalid rate, using default")
	}
	e.wpm = wpm
	e.running = true
	e.notice = ""
	f := e.frameLocked(rateText)
	e.mu.Unlock()

	zlog.Debug().Int("wpm", wpm).Int("cursor", f.Position).Msg("playback started")
	e.surface.Render(f)
	return true
}

// Advance shows the word at the cursor and moves past it. It is a no-op
// unless Running. It returns whether the engine is still Running; reaching
// the end of the sequence stops it.
func (e *Engine) Advance() bool {
	e.mu.Lock()
	if !e.running || e.cursor >= len(e.words) {
		e.mu.Unlock()
		return false
	}
	e.word = e.words[e.cursor]
	e.placeholder = false
	e.percent = Percent(e.cursor, len(e.words))
	e.cursor++
	if e.cursor == len(e.words) {
		e.running = false
	}
	running := e.running
	f := e.frameLocked("")
	e.mu.Unlock()

	if !running {
		zlog.Debug().Int("words", f.Total).Msg("playback finished")
	}
	e.surface.Render(f)
	return running
}

// Pause leaves Running with the cursor unchanged. It returns false if the
// engine was not running.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	was := e.running
	e.running = false
	f := e.frameLocked("")
	e.mu.Unlock()

	if was {
		zlog.Debug().Int("cursor", f.Position).Msg("playback paused")
	}
	e.surface.Render(f)
	return was
}

// Reset returns to Idle at the first word, keeping the sequence.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.running = false
	e.cursor = 0
	e.percent = 0
	e.notice = ""
	e.setLabelLocked(ReadyText)
	f := e.frameLocked("")
	e.mu.Unlock()

	e.surface.Render(f)
}

// Notify publishes a notice without changing playback state.
func (e *Engine) Notify(notice string) {
	e.mu.Lock()
	e.notice = notice
	f := e.frameLocked("")
	e.mu.Unlock()

	e.surface.Render(f)
}

// JumpToPrevSentence moves to the start of the previous sentence.
func (e *Engine) JumpToPrevSentence() {
	e.mu.Lock()
	target := 0
	for i := len(e.sentenceStarts) - 1; i >= 0; i-- {
		if e.sentenceStarts[i] < e.cursor {
			target = e.sentenceStarts[i]
			break
		}
	}
	f := e.seekLocked(target)
	e.mu.Unlock()

	e.surface.Render(f)
}

// JumpToNextSentence moves to the start of the next sentence, or to the last
// word when there is none.
func (e *Engine) JumpToNextSentence() {
	e.mu.Lock()
	target := len(e.words) - 1
	for _, start := range e.sentenceStarts {
		if start > e.cursor {
			target = start
			break
		}
	}
	f := e.seekLocked(target)
	e.mu.Unlock()

	e.surface.Render(f)
}

// seekLocked clamps target to a valid word index and shows that word.
func (e *Engine) seekLocked(target int) Frame {
	if len(e.words) == 0 {
		return e.frameLocked("")
	}
	if target >= len(e.words) {
		target = len(e.words) - 1
	}
	if target < 0 {
		target = 0
	}
	e.cursor = target
	e.word = e.words[target]
	e.placeholder = false
	e.percent = Percent(target, len(e.words))
	return e.frameLocked("")
}

// Snapshot returns the current frame without publishing it.
func (e *Engine) Snapshot() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buildLocked("")
}

// State returns the current playback state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Running reports whether the engine is in StateRunning.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Cursor returns the index of the next word to show.
func (e *Engine) Cursor() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Len returns the number of words loaded.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.words)
}

// WPM returns the rate captured by the most recent Start.
func (e *Engine) WPM() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wpm
}

// Interval returns the per-word delay for the captured rate.
func (e *Engine) Interval() time.Duration {
	return Interval(e.WPM())
}

func (e *Engine) stateLocked() State {
	switch {
	case e.running:
		return StateRunning
	case len(e.words) > 0 && e.cursor >= len(e.words):
		return StateFinished
	default:
		return StateIdle
	}
}

func (e *Engine) setLabelLocked(label string) {
	e.word = label
	e.placeholder = true
}

// frameLocked builds the next frame in sequence.
func (e *Engine) frameLocked(rateText string) Frame {
	e.seq++
	return e.buildLocked(rateText)
}

func (e *Engine) buildLocked(rateText string) Frame {
	return Frame{
		Seq:         e.seq,
		Word:        e.word,
		Placeholder: e.placeholder,
		Notice:      e.notice,
		Percent:     e.percent,
		Position:    e.cursor,
		Total:       len(e.words),
		State:       e.stateLocked(),
		WPM:         e.wpm,
		RateText:    rateText,
	}
}
