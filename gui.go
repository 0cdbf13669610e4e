//go:build gui

package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	zlog "github.com/rs/zerolog/log"

	"github.com/metcalfc/wrr/internal/config"
	"github.com/metcalfc/wrr/internal/control"
	"github.com/metcalfc/wrr/internal/playback"
	"github.com/metcalfc/wrr/internal/reader"
)

const (
	minFontSize  = 20
	maxFontSize  = 200
	fontSizeStep = 5
)

var focusColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}

// wordDisplay shows one word split around its ORP rune.
type wordDisplay struct {
	before *canvas.Text
	focus  *canvas.Text
	after  *canvas.Text
	box    *fyne.Container
}

func newWordDisplay(fontSize float32) *wordDisplay {
	newText := func(c color.Color) *canvas.Text {
		t := canvas.NewText("", c)
		t.TextSize = fontSize
		t.TextStyle.Bold = true
		return t
	}
	d := &wordDisplay{
		before: newText(color.White),
		focus:  newText(focusColor),
		after:  newText(color.White),
	}
	d.box = container.New(&orpLayout{}, d.before, d.focus, d.after)
	return d
}

func (d *wordDisplay) set(word string, placeholder bool, fontSize float32) {
	var before, focus, after string
	if placeholder {
		// Labels are centered as a whole, with no highlighted rune.
		runes := []rune(word)
		half := len(runes) / 2
		before, after = string(runes[:half]), string(runes[half:])
	} else {
		before, focus, after = reader.SplitORP(word)
	}

	for _, t := range []*canvas.Text{d.before, d.focus, d.after} {
		t.TextSize = fontSize
	}
	d.before.Text = before
	d.focus.Text = focus
	d.after.Text = after
	d.box.Refresh()
}

// orpLayout anchors the middle object at the horizontal center and centers
// all three vertically.
type orpLayout struct{}

func (l *orpLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var w, maxH float32
	for _, o := range objects {
		size := o.MinSize()
		w += size.Width
		if size.Height > maxH {
			maxH = size.Height
		}
	}
	return fyne.NewSize(w, maxH)
}

func (l *orpLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) != 3 {
		return
	}
	before, focus, after := objects[0], objects[1], objects[2]

	var maxH float32
	for _, o := range objects {
		if h := o.MinSize().Height; h > maxH {
			maxH = h
		}
	}

	y := (size.Height - maxH) / 2
	if y < 0 {
		y = 0
	}

	centerX := size.Width / 2
	beforeX := centerX - before.MinSize().Width
	if beforeX < 0 {
		beforeX = 0
	}

	before.Move(fyne.NewPos(beforeX, y))
	focus.Move(fyne.NewPos(centerX, y))
	after.Move(fyne.NewPos(centerX+focus.MinSize().Width, y))
	for _, o := range objects {
		o.Resize(o.MinSize())
	}
}

type window struct {
	ctrl     *control.Controller
	win      fyne.Window
	fontSize float32
	frame    playback.Frame
	fetching atomic.Bool

	urlEntry  *widget.Entry
	rateEntry *widget.Entry
	fetchBtn  *widget.Button
	playBtn   *widget.Button
	resetBtn  *widget.Button
	progress  *widget.ProgressBar
	status    *widget.Label
	word      *wordDisplay
}

func newWindow(a fyne.App, cfg *config.Config, opts *options, fetcher control.WordFetcher) *window {
	w := &window{
		win:      a.NewWindow("wrr - Web Rapid Reader"),
		fontSize: cfg.Display.FontSize,
	}

	// Frames arrive from the ticker goroutine; widgets are only touched on
	// the Fyne thread.
	surface := playback.SurfaceFunc(func(f playback.Frame) {
		fyne.Do(func() { w.apply(f) })
	})
	w.ctrl = control.New(fetcher, surface)

	w.urlEntry = widget.NewEntry()
	w.urlEntry.SetPlaceHolder("https://example.com/article")
	w.urlEntry.SetText(opts.URL)
	w.urlEntry.OnSubmitted = func(string) { w.fetch() }
	w.fetchBtn = widget.NewButton("Fetch", w.fetch)

	w.rateEntry = widget.NewEntry()
	w.rateEntry.SetText(opts.Rate)

	w.playBtn = widget.NewButton("Play", w.toggle)
	w.resetBtn = widget.NewButton("Reset", w.ctrl.Reset)

	w.progress = widget.NewProgressBar()
	w.progress.Max = 100

	w.status = widget.NewLabel("")
	w.status.Alignment = fyne.TextAlignCenter

	w.word = newWordDisplay(w.fontSize)

	top := container.NewBorder(nil, nil, widget.NewLabel("URL:"), w.fetchBtn, w.urlEntry)
	rate := container.NewGridWrap(fyne.NewSize(80, w.rateEntry.MinSize().Height), w.rateEntry)
	controls := container.NewHBox(w.playBtn, w.resetBtn, widget.NewLabel("WPM:"), rate)
	bottom := container.NewVBox(container.NewCenter(controls), w.progress, w.status)

	w.win.SetContent(container.NewBorder(top, bottom, nil, nil, w.word.box))
	w.win.Resize(fyne.NewSize(800, 600))
	w.bindKeys(a)
	w.win.SetOnClosed(w.ctrl.Close)

	w.apply(w.ctrl.Snapshot())
	return w
}

// apply renders f unless a newer frame is already on screen.
func (w *window) apply(f playback.Frame) {
	if f.Seq < w.frame.Seq {
		return
	}
	w.frame = f

	w.word.set(f.Word, f.Placeholder, w.fontSize)
	w.progress.SetValue(f.Percent)
	if f.RateText != "" {
		w.rateEntry.SetText(f.RateText)
	}
	if f.Running() {
		w.playBtn.SetText("Pause")
	} else {
		w.playBtn.SetText("Play")
	}
	w.status.SetText(statusLine(f, w.fontSize))
}

func statusLine(f playback.Frame, fontSize float32) string {
	line := fmt.Sprintf("Word %d/%d | %d WPM | Font: %.0f", f.Position, f.Total, f.WPM, fontSize)
	switch f.State {
	case playback.StateIdle:
		line += " [PAUSED]"
	case playback.StateFinished:
		line += " [DONE]"
	}
	if f.Notice != "" {
		line += "\n" + f.Notice
	}
	return line
}

// fetch runs the request off the UI thread with the Fetch button disabled.
// Only one fetch runs at a time; Enter in the URL entry is ignored meanwhile.
func (w *window) fetch() {
	if !w.fetching.CompareAndSwap(false, true) {
		return
	}
	url := w.urlEntry.Text
	w.fetchBtn.Disable()
	go func() {
		if err := w.ctrl.Fetch(context.Background(), url); err != nil {
			zlog.Debug().Err(err).Msg("Fetch failed")
		}
		w.fetching.Store(false)
		fyne.Do(w.fetchBtn.Enable)
	}()
}

func (w *window) toggle() {
	rate := w.rateEntry.Text
	if w.ctrl.TogglePlay(rate) {
		w.rateEntry.SetText(correctedRate(rate, w.ctrl.Snapshot().WPM))
	}
}

func (w *window) setFontSize(size float32) {
	if size < minFontSize || size > maxFontSize {
		return
	}
	w.fontSize = size
	w.apply(w.frame)
}

func (w *window) bindKeys(a fyne.App) {
	w.win.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeySpace:
			w.toggle()
		case fyne.KeyLeft:
			w.ctrl.PrevSentence()
		case fyne.KeyRight:
			w.ctrl.NextSentence()
		case fyne.KeyF:
			w.win.SetFullScreen(!w.win.FullScreen())
		case fyne.KeyQ:
			w.ctrl.Close()
			a.Quit()
		}
	})

	w.win.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 'r', 'R':
			w.ctrl.Reset()
		case '+', '=':
			w.setFontSize(w.fontSize + fontSizeStep)
		case '-':
			w.setFontSize(w.fontSize - fontSizeStep)
		}
	})
}

func run(opts *options) error {
	cfg, closer, err := setup(opts)
	if err != nil {
		return err
	}
	defer closer.Close()

	a := app.New()
	w := newWindow(a, cfg, opts, newFetcher(cfg))

	// Start the initial fetch once the window is up
	if opts.URL != "" {
		go func() {
			time.Sleep(100 * time.Millisecond)
			fyne.Do(w.fetch)
		}()
	}

	w.win.ShowAndRun()
	return nil
}

func main() {
	opts, err := parseOptions("gwrr", "Gwrr - Web Rapid Reader window. Fetches a page and flashes its paragraphs one word at a time.", os.Args[1:])
	if err != nil {
		exitOnError(err)
	}

	if err := run(opts); err != nil {
		exitOnError(err)
	}
}
