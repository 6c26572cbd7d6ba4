// Package progress renders a single adaptive terminal line summarizing an
// in-flight transfer: percent, throughput, and ETA, throttled to at most
// one repaint per sample interval.
package progress

import (
	"math"
	"strings"
	"time"
)

// Minimum time between repaints while a transfer is below its total. The
// chunk that reaches the total always repaints regardless.
const sampleInterval = 250 * time.Millisecond

// Reporter accumulates reported byte counts for one transfer and owns the
// terminal line for its lifetime. One reporter per transfer; nothing else
// may feed it concurrently.
//
// The reporter has two states: active while current is below total, and
// complete once current reaches it. Complete is terminal; later Receive
// calls are ignored.
type Reporter struct {
	title      string
	total      float64 // NaN when the transfer size is unknown
	current    float64
	batch      float64
	start      time.Time
	lastSample time.Time
	term       Terminal
	keep       bool
	complete   bool
	now        func() time.Time
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithKeepLine leaves the finished line on screen, followed by a newline.
// Without it the line is cleared on completion.
func WithKeepLine() Option {
	return func(r *Reporter) {
		r.keep = true
	}
}

// WithClock substitutes the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// New builds a reporter for one transfer of the declared total size in
// bytes; pass a negative total when the size is unknown.
func New(title string, total int64, term Terminal, opts ...Option) *Reporter {
	r := &Reporter{
		title: title,
		total: float64(total),
		term:  term,
		now:   time.Now,
	}
	if total < 0 {
		r.total = math.NaN()
	}
	for _, opt := range opts {
		opt(r)
	}
	r.start = r.now()
	r.lastSample = r.start
	return r
}

// Receive adds n transferred bytes to the pending batch and repaints when
// due. Repaints are throttled to the sample interval, except that the
// batch reaching the declared total always repaints so the final state is
// never lost. With an unknown total the throttle comparison never holds
// and every call repaints.
func (r *Reporter) Receive(n int) {
	if r.complete {
		return
	}

	r.batch += float64(n)
	now := r.now()
	elapsed := now.Sub(r.lastSample)

	if elapsed < sampleInterval && r.current+r.batch < r.total {
		return
	}

	r.current = math.Min(r.current+r.batch, r.total)
	speed := r.batch / float64(elapsed.Milliseconds()) * 1000
	done := r.current >= r.total

	r.render(speed, done)

	r.batch = 0
	r.lastSample = now
	if done {
		r.complete = true
	}
}

// Complete reports whether the transfer reached its total.
func (r *Reporter) Complete() bool {
	return r.complete
}

func (r *Reporter) render(speed float64, done bool) {
	cols := r.term.Columns()
	if cols <= 0 {
		cols = defaultColumns
	}

	ratio := r.current / r.total * 100
	percent := 0
	if !math.IsNaN(ratio) && !math.IsInf(ratio, 0) {
		percent = int(math.Round(ratio))
	}

	f := &frame{
		title:     r.title,
		percent:   percent,
		speed:     speed,
		remaining: r.total - r.current,
	}

	l := pickLayout(cols)
	barWidth := cols - l.fixedWidth()
	if barWidth < 0 {
		barWidth = 0
	}

	r.term.ClearLine()
	r.term.MoveToColumn(0)

	col := 0
	barStart, barDone := -1, 0
	for i, key := range l {
		if i > 0 {
			r.term.Write(pad(gutterWidth))
			col += gutterWidth
		}
		if key == fieldBar {
			barStart = col
			barDone = r.renderBar(barWidth, percent)
			col += barWidth
			continue
		}
		fd := fieldTable[key]
		r.term.Write(fd.format(f))
		col += fd.width
	}

	switch {
	case !done:
		// park the cursor on the completed/remaining boundary so the
		// next frame's partial redraw looks stable
		if barStart >= 0 {
			r.term.MoveToColumn(barStart + barDone)
		}
	case r.keep:
		r.term.Newline()
	default:
		r.term.ClearLine()
		r.term.MoveToColumn(0)
	}
}

// renderBar draws the elastic bar and returns the width of its completed
// run. Below the minimum width the bar degrades to blank padding.
func (r *Reporter) renderBar(width, percent int) int {
	if width < minBarWidth {
		r.term.Write(pad(width))
		return 0
	}

	done := int(math.Floor(float64(percent) / 100 * float64(width)))
	if done > width {
		done = width
	}

	r.term.Write(colorDone + strings.Repeat(barGlyph, done) +
		colorRemaining + strings.Repeat(barGlyph, width-done) +
		colorReset)
	return done
}
