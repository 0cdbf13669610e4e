package playback

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a Surface that keeps every frame it receives.
type recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *recorder) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *recorder) all() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

func (r *recorder) last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}
	}
	return r.frames[len(r.frames)-1]
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", i)
	}
	return out
}

func TestNewEngineIsIdle(t *testing.T) {
	e := NewEngine(nil)

	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, 0, e.Cursor())
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, DefaultWPM, e.WPM())

	f := e.Snapshot()
	assert.Equal(t, ReadyText, f.Word)
	assert.True(t, f.Placeholder)
	assert.Zero(t, f.Percent)
}

func TestStartThenAdvanceReachesFinished(t *testing.T) {
	for _, n := range []int{1, 2, 7, 100} {
		t.Run(fmt.Sprintf("%d words", n), func(t *testing.T) {
			rec := &recorder{}
			e := NewEngine(rec)
			e.Load(words(n))
			require.True(t, e.Start("300"))

			for i := 0; i < n; i++ {
				more := e.Advance()
				assert.Equal(t, i < n-1, more, "advance %d", i)
			}

			assert.Equal(t, StateFinished, e.State())
			assert.False(t, e.Running())
			assert.Equal(t, n, e.Cursor())

			last := rec.last()
			assert.Equal(t, fmt.Sprintf("w%d", n-1), last.Word)
			assert.False(t, last.Running())

			// Further advances are no-ops.
			frames := rec.count()
			assert.False(t, e.Advance())
			assert.Equal(t, n, e.Cursor())
			assert.Equal(t, frames, rec.count())
		})
	}
}

func TestAdvanceEmitsWordAndProgress(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(rec)
	e.Load([]string{"a", "b", "c", "d"})
	require.True(t, e.Start("300"))

	var got []Frame
	for e.Advance() {
		got = append(got, rec.last())
	}
	got = append(got, rec.last())

	require.Len(t, got, 4)
	for i, f := range got {
		assert.Equal(t, string(rune('a'+i)), f.Word)
		assert.False(t, f.Placeholder)
		assert.Equal(t, float64(i*25), f.Percent)
		assert.Equal(t, i+1, f.Position)
		assert.Equal(t, 4, f.Total)
	}
}

func TestAdvanceWhileNotRunningIsNoop(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(rec)
	e.Load(words(5))
	before := rec.count()

	assert.False(t, e.Advance())
	assert.Equal(t, 0, e.Cursor())
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, before, rec.count())

	require.True(t, e.Start("300"))
	e.Advance()
	e.Pause()
	assert.False(t, e.Advance())
	assert.Equal(t, 1, e.Cursor())
}

func TestStartEmptySequence(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(rec)

	assert.False(t, e.Start("300"))
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, NoticeNoContent, rec.last().Notice)

	e.Load(nil)
	assert.False(t, e.Start("300"))
	assert.Equal(t, StateIdle, e.State())
	assert.False(t, e.Running())
}

func TestStartAtEnd(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(rec)
	e.Load(words(1))
	require.True(t, e.Start("300"))
	require.False(t, e.Advance())

	assert.False(t, e.Start("300"))
	assert.Equal(t, StateFinished, e.State())
	assert.Equal(t, NoticeAtEnd, rec.last().Notice)
}

func TestStartWhileRunningRefused(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(rec)
	e.Load(words(3))
	require.True(t, e.Start("500"))
	frames := rec.count()

	assert.False(t, e.Start("100"))
	assert.Equal(t, 500, e.WPM())
	assert.Equal(t, frames, rec.count())
}

func TestPauseKeepsCursor(t *testing.T) {
	e := NewEngine(nil)
	e.Load(words(10))
	require.True(t, e.Start("300"))
	e.Advance()
	e.Advance()

	assert.True(t, e.Pause())
	assert.Equal(t, 2, e.Cursor())
	assert.Equal(t, StateIdle, e.State())
	assert.False(t, e.Pause())

	require.True(t, e.Start("300"))
	e.Advance()
	assert.Equal(t, 3, e.Cursor())
}

func TestResetFromAnyState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine)
	}{
		{"fresh", func(e *Engine) {}},
		{"loaded", func(e *Engine) { e.Load(words(4)) }},
		{"running mid-sequence", func(e *Engine) {
			e.Load(words(4))
			e.Start("300")
			e.Advance()
			e.Advance()
		}},
		{"paused", func(e *Engine) {
			e.Load(words(4))
			e.Start("300")
			e.Advance()
			e.Pause()
		}},
		{"finished", func(e *Engine) {
			e.Load(words(2))
			e.Start("300")
			e.Advance()
			e.Advance()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			e := NewEngine(rec)
			tt.setup(e)
			n := e.Len()

			e.Reset()

			assert.Equal(t, 0, e.Cursor())
			assert.False(t, e.Running())
			assert.Equal(t, StateIdle, e.State())
			assert.Equal(t, n, e.Len(), "sequence is retained")

			f := rec.last()
			assert.Zero(t, f.Percent)
			assert.Equal(t, ReadyText, f.Word)
			assert.False(t, f.Running())
		})
	}
}

func TestLoadReplacesSequence(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(rec)
	e.Load(words(5))
	require.True(t, e.Start("300"))
	e.Advance()

	input := []string{"x", "y"}
	e.Load(input)
	input[0] = "mutated"

	assert.Equal(t, 2, e.Len())
	assert.Equal(t, 0, e.Cursor())
	assert.Equal(t, StateIdle, e.State())
	assert.Equal(t, ReadyToStartText, rec.last().Word)

	require.True(t, e.Start("300"))
	e.Advance()
	assert.Equal(t, "x", rec.last().Word)
}

func TestRateFallback(t *testing.T) {
	tests := []struct {
		input    string
		wantWPM  int
		wantText string
	}{
		{"abc", 300, "300"},
		{"-5", 300, "300"},
		{"0", 300, "300"},
		{"", 300, "300"},
		{"12.5", 300, "300"},
		{"450", 450, ""},
		{" 600 ", 600, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rec := &recorder{}
			e := NewEngine(rec)
			e.Load(words(3))

			require.True(t, e.Start(tt.input))
			assert.Equal(t, tt.wantWPM, e.WPM())
			assert.Equal(t, tt.wantText, rec.last().RateText)
			assert.Equal(t, tt.wantWPM, rec.last().WPM)
		})
	}
}

func TestProgressAtQuarter(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(rec)
	e.Load(words(100))
	require.True(t, e.Start("300"))

	for i := 0; i < 25; i++ {
		e.Advance()
	}
	require.Equal(t, 25, e.Cursor())

	e.Advance()
	f := rec.last()
	assert.Equal(t, "w25", f.Word)
	assert.Equal(t, 25.0, f.Percent)
}

func TestFrameSeqIncreases(t *testing.T) {
	rec := &recorder{}
	e := NewEngine(rec)
	e.Load(words(3))
	e.Start("300")
	e.Advance()
	e.Pause()
	e.Notify("hello")
	e.Reset()

	frames := rec.all()
	require.Len(t, frames, 6)
	for i := 1; i < len(frames); i++ {
		assert.Greater(t, frames[i].Seq, frames[i-1].Seq)
	}
	assert.Equal(t, "hello", frames[4].Notice)
}

func TestSentenceJumps(t *testing.T) {
	e := NewEngine(nil)
	e.Load([]string{"One", "two.", "Three", "four.", "Five"})

	e.JumpToNextSentence()
	assert.Equal(t, 2, e.Cursor())
	e.JumpToNextSentence()
	assert.Equal(t, 4, e.Cursor())
	e.JumpToNextSentence()
	assert.Equal(t, 4, e.Cursor(), "clamped to last word")

	e.JumpToPrevSentence()
	assert.Equal(t, 2, e.Cursor())
	e.JumpToPrevSentence()
	assert.Equal(t, 0, e.Cursor())
	e.JumpToPrevSentence()
	assert.Equal(t, 0, e.Cursor())

	f := e.Snapshot()
	assert.Equal(t, "One", f.Word)
	assert.False(t, f.Placeholder)
}

func TestSentenceJumpFromFinished(t *testing.T) {
	e := NewEngine(nil)
	e.Load([]string{"A.", "B"})
	e.Start("300")
	e.Advance()
	e.Advance()
	require.Equal(t, StateFinished, e.State())

	e.JumpToPrevSentence()
	assert.Equal(t, 1, e.Cursor())
	assert.Equal(t, StateIdle, e.State())
	assert.True(t, e.Start("300"))
}

func TestSentenceJumpEmpty(t *testing.T) {
	e := NewEngine(nil)
	e.JumpToNextSentence()
	e.JumpToPrevSentence()
	assert.Equal(t, 0, e.Cursor())
	assert.Equal(t, StateIdle, e.State())
}
