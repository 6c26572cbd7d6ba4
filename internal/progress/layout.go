package progress

import (
	"fmt"
	"math"
	"strings"
)

const (
	gutterWidth = 2
	minBarWidth = 10

	colorDone      = "\x1b[32m"
	colorRemaining = "\x1b[31m"
	colorReset     = "\x1b[0m"
	barGlyph       = "█"
)

type fieldKey string

const (
	fieldTitle   fieldKey = "title"
	fieldBar     fieldKey = "bar"
	fieldPercent fieldKey = "percent"
	fieldSpeed   fieldKey = "speed"
	fieldETA     fieldKey = "eta"
)

// frame is one rendered snapshot of a transfer.
type frame struct {
	title     string
	percent   int     // 0..100, already NaN-cleaned
	speed     float64 // raw bytes/sec of the last batch, may be non-finite
	remaining float64 // bytes left, NaN when the total is unknown
}

// field pairs a fixed column width with a pure formatter. The formatter
// must return exactly width characters. The bar is the one elastic field
// and is handled by the renderer directly.
type field struct {
	width  int
	format func(f *frame) string
}

var fieldTable = map[fieldKey]field{
	fieldTitle: {width: 20, format: func(f *frame) string {
		title := f.title
		if len(title) > 20 {
			title = title[:20]
		}
		return fmt.Sprintf("%-20s", title)
	}},
	fieldPercent: {width: 4, format: func(f *frame) string {
		return fmt.Sprintf("%3d%%", f.percent)
	}},
	fieldSpeed: {width: 10, format: func(f *frame) string {
		return fmt.Sprintf("%10s", formatSpeed(f.speed))
	}},
	fieldETA: {width: 7, format: func(f *frame) string {
		return fmt.Sprintf("%7s", formatETA(f.remaining/f.speed))
	}},
}

// layout is an ordered list of fields, widest variant first in the table
// below. The renderer picks the first whose fixed width fits the terminal
// and falls back to the narrowest when none do.
type layout []fieldKey

var layouts = []layout{
	{fieldTitle, fieldBar, fieldPercent, fieldSpeed, fieldETA},
	{fieldTitle, fieldBar, fieldPercent},
	{fieldBar, fieldPercent},
	{fieldPercent},
}

// fixedWidth is the sum of the fixed field widths plus the gutters between
// fields. The elastic bar contributes gutters but no width of its own.
func (l layout) fixedWidth() int {
	w := gutterWidth * (len(l) - 1)
	for _, key := range l {
		if key == fieldBar {
			continue
		}
		w += fieldTable[key].width
	}
	return w
}

func pickLayout(cols int) layout {
	for _, l := range layouts {
		if l.fixedWidth() <= cols {
			return l
		}
	}
	return layouts[len(layouts)-1]
}

var speedUnits = []string{"B", "KB", "MB", "GB", "TB"}

// formatSpeed renders bytes/sec in the largest binary unit keeping the
// scaled value at or below 1024, one decimal place. Non-finite rates
// render as zero.
func formatSpeed(bps float64) string {
	if math.IsNaN(bps) || math.IsInf(bps, 0) {
		bps = 0
	}
	idx := 0
	for bps > 1024 && idx < len(speedUnits)-1 {
		bps /= 1024
		idx++
	}
	return fmt.Sprintf("%4.1f%s/s", bps, speedUnits[idx])
}

const etaUnknown = "--"

var etaUnits = []string{"s", "m", "h", "d"}

// formatETA renders a duration in the coarsest unit whose leading value is
// at most 60, with the fraction expressed in the next-finer unit when
// non-zero. Every unit step divides by 60 — the hour→day step included,
// which overstates day counts; the original behaves this way and displayed
// values keep it. Non-finite inputs render the unknown placeholder.
func formatETA(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return etaUnknown
	}
	v := seconds
	idx := 0
	for v > 60 && idx < len(etaUnits)-1 {
		v /= 60
		idx++
	}
	lead := int(v)
	finer := int(math.Round((v - float64(lead)) * 60))
	if idx > 0 && finer > 0 {
		return fmt.Sprintf("%d%s%d%s", lead, etaUnits[idx], finer, etaUnits[idx-1])
	}
	return fmt.Sprintf("%d%s", lead, etaUnits[idx])
}

func pad(n int) string {
	return strings.Repeat(" ", n)
}
