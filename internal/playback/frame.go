package playback

// Labels shown in place of a word.
const (
	ReadyText        = "Ready"
	ReadyToStartText = "Ready to start"
)

// Notices published when an operation is refused.
const (
	NoticeNoContent = "Please fetch content first"
	NoticeAtEnd     = "End of text, reset to read again"
)

// Frame is a snapshot of everything a surface displays. Word and Percent
// always come from the same engine step.
type Frame struct {
	// Seq increases with every published frame. Surfaces drop frames whose
	// Seq is not newer than the last one they rendered.
	Seq uint64

	Word        string
	Placeholder bool // Word is a label, not a token from the sequence
	Notice      string
	Percent     float64 // 0..100

	Position int // index of the next word to show
	Total    int
	State    State
	WPM      int

	// RateText is set when the rate field held an invalid value and the
	// surface must replace it with the corrected rate.
	RateText string
}

// Running reports whether the play control should read "Pause".
func (f Frame) Running() bool {
	return f.State == StateRunning
}

// Surface receives frames after every engine operation. Render is called
// from the ticker goroutine as well as from the caller of an operation, so
// it must not block waiting for the goroutine that drives the engine.
type Surface interface {
	Render(Frame)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(Frame)

func (f SurfaceFunc) Render(frame Frame) { f(frame) }

// Discard is a Surface that ignores every frame.
var Discard Surface = SurfaceFunc(func(Frame) {})
