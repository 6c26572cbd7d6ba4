package progress

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTerm struct {
	cols     int
	writes   []string
	moves    []int
	clears   int
	newlines int
}

func (ft *fakeTerm) Columns() int        { return ft.cols }
func (ft *fakeTerm) ClearLine()          { ft.clears++ }
func (ft *fakeTerm) MoveToColumn(col int) { ft.moves = append(ft.moves, col) }
func (ft *fakeTerm) Write(s string)      { ft.writes = append(ft.writes, s) }
func (ft *fakeTerm) Newline()            { ft.newlines++ }

// renders counts repaints by counting percent-field writes, the one field
// present in every layout.
func (ft *fakeTerm) renders() int {
	n := 0
	for _, w := range ft.writes {
		if strings.HasSuffix(w, "%") {
			n++
		}
	}
	return n
}

func (ft *fakeTerm) line() string {
	return strings.Join(ft.writes, "")
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func TestThrottleHoldsBelowInterval(t *testing.T) {
	term := &fakeTerm{cols: 80}
	clock := newClock()
	r := New("big.iso", 1000, term, WithClock(clock.now), WithKeepLine())

	// 30 chunks of 10 bytes, 10ms apart: only the call crossing the
	// 250ms boundary repaints
	for i := 0; i < 30; i++ {
		clock.advance(10 * time.Millisecond)
		r.Receive(10)
	}
	assert.Equal(t, 1, term.renders())
	assert.False(t, r.Complete())

	// the chunk that reaches the total repaints immediately
	clock.advance(10 * time.Millisecond)
	r.Receive(700)
	assert.Equal(t, 2, term.renders())
	assert.True(t, r.Complete())

	// complete is terminal
	r.Receive(10)
	assert.Equal(t, 2, term.renders())
}

func TestFinalRenderShowsHundredPercent(t *testing.T) {
	term := &fakeTerm{cols: 80}
	clock := newClock()
	r := New("amd64.deb", 100, term, WithClock(clock.now), WithKeepLine())

	clock.advance(time.Millisecond)
	r.Receive(100)

	assert.True(t, r.Complete())
	assert.Contains(t, term.line(), "100%")
	assert.Equal(t, 1, term.newlines)
}

func TestCompleteWithoutKeepClearsLine(t *testing.T) {
	term := &fakeTerm{cols: 80}
	clock := newClock()
	r := New("amd64.deb", 100, term, WithClock(clock.now))

	clock.advance(time.Millisecond)
	r.Receive(100)

	assert.True(t, r.Complete())
	assert.Zero(t, term.newlines)
	// render clears once up front, then clears again on completion and
	// parks the cursor at column zero
	assert.Equal(t, 2, term.clears)
	require.NotEmpty(t, term.moves)
	assert.Equal(t, 0, term.moves[len(term.moves)-1])
}

func TestActiveRenderParksCursorOnBarBoundary(t *testing.T) {
	term := &fakeTerm{cols: 80}
	clock := newClock()
	r := New("big.iso", 1000, term, WithClock(clock.now))

	clock.advance(sampleInterval)
	r.Receive(500)

	require.False(t, r.Complete())
	require.NotEmpty(t, term.moves)

	// wide layout: title(20) + gutter(2) before the bar, bar half done
	l := layouts[0]
	barWidth := 80 - l.fixedWidth()
	wantCol := fieldTable[fieldTitle].width + gutterWidth + barWidth/2
	assert.Equal(t, wantCol, term.moves[len(term.moves)-1])
}

func TestZeroTotalRendersZeroPercent(t *testing.T) {
	term := &fakeTerm{cols: 80}
	clock := newClock()
	r := New("empty.bin", 0, term, WithClock(clock.now), WithKeepLine())

	r.Receive(10)

	line := term.line()
	assert.Contains(t, line, "0%")
	assert.NotContains(t, line, "NaN")
}

func TestUnknownTotalRendersEveryCall(t *testing.T) {
	term := &fakeTerm{cols: 80}
	clock := newClock()
	r := New("stream.bin", -1, term, WithClock(clock.now), WithKeepLine())

	clock.advance(10 * time.Millisecond)
	r.Receive(10)
	clock.advance(10 * time.Millisecond)
	r.Receive(10)

	// unknown total defeats the throttle comparison, so both calls paint
	assert.Equal(t, 2, term.renders())
	assert.False(t, r.Complete())
	assert.Contains(t, term.line(), etaUnknown)
	assert.NotContains(t, term.line(), "NaN")
}

func TestZeroElapsedSpeedRendersZero(t *testing.T) {
	term := &fakeTerm{cols: 80}
	clock := newClock()
	r := New("x.bin", 100, term, WithClock(clock.now), WithKeepLine())

	// no clock advance: elapsed is zero, rate is non-finite
	r.Receive(100)

	assert.Contains(t, term.line(), "0.0B/s")
	assert.NotContains(t, term.line(), "Inf")
}

func TestLayoutFallbackOnNarrowTerminal(t *testing.T) {
	// narrower than every layout's fixed width: narrowest still selected
	term := &fakeTerm{cols: 3}
	clock := newClock()
	r := New("x.bin", 100, term, WithClock(clock.now), WithKeepLine())

	assert.NotPanics(t, func() {
		clock.advance(time.Millisecond)
		r.Receive(100)
	})
	assert.Contains(t, term.line(), "100%")
	assert.NotContains(t, term.line(), barGlyph)
}

func TestBarDegradesToPaddingWhenSqueezed(t *testing.T) {
	// cols 30 picks the title+bar+percent layout (fixed width 28),
	// leaving 2 columns of bar: below minBarWidth, so blank padding
	term := &fakeTerm{cols: 30}
	clock := newClock()
	r := New("x.bin", 1000, term, WithClock(clock.now))

	clock.advance(sampleInterval)
	r.Receive(500)

	assert.NotContains(t, term.line(), barGlyph)
	assert.Contains(t, term.writes, "  ")
}

func TestBarSplitsProportionally(t *testing.T) {
	term := &fakeTerm{cols: 80}
	clock := newClock()
	r := New("big.iso", 1000, term, WithClock(clock.now))

	clock.advance(sampleInterval)
	r.Receive(250)

	barWidth := 80 - layouts[0].fixedWidth()
	done := barWidth / 4
	want := colorDone + strings.Repeat(barGlyph, done) +
		colorRemaining + strings.Repeat(barGlyph, barWidth-done) +
		colorReset
	assert.Contains(t, term.writes, want)
}

func TestPickLayout(t *testing.T) {
	assert.Equal(t, layouts[0], pickLayout(200))
	assert.Equal(t, layouts[len(layouts)-1], pickLayout(1))
}

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		bps  float64
		want string
	}{
		{0, " 0.0B/s"},
		{512, "512.0B/s"},
		{1536, " 1.5KB/s"},
		{2 * 1024 * 1024, " 2.0MB/s"},
		{3 * 1024 * 1024 * 1024, " 3.0GB/s"},
		{math.NaN(), " 0.0B/s"},
		{math.Inf(1), " 0.0B/s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSpeed(tt.bps))
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0s"},
		{30, "30s"},
		{60, "60s"},
		{90, "1m30s"},
		{181, "3m1s"},
		{3660, "1h1m"},
		{math.NaN(), etaUnknown},
		{math.Inf(1), etaUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatETA(tt.seconds))
	}
}

func TestFormatETADayStepDividesBySixty(t *testing.T) {
	// Known discrepancy: the hour→day step divides by 60 like every other
	// step, so "1d" shows up after 60 hours, not 24. Kept as observed.
	assert.Equal(t, "1d", formatETA(60*60*60+60))
	assert.Equal(t, "60h", formatETA(60*60*60))
}
