// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 10
	minPlotWidth      = 10
	axisLabelTop      = "100%"
	axisLabelMid      = "50%"
	axisLabelBottom   = "0%"
	axisSeparator     = " │ "
	fallbackTermWidth = 80
	colorReset        = "\x1b[0m"
)

var plotColors = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// canvas is a braille dot grid. Each cell holds a 2x4 dot block, so the
// dot resolution is width*2 by height*4.
type canvas struct {
	width  int
	height int
	masks  [][]uint8
	series [][]int
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height}
	c.masks = make([][]uint8, height)
	c.series = make([][]int, height)
	for y := 0; y < height; y++ {
		c.masks[y] = make([]uint8, width)
		c.series[y] = make([]int, width)
		for x := range c.series[y] {
			c.series[y][x] = -1
		}
	}
	return c
}

// Braille dot bits by (column, row) within a cell, per U+2800 layout.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) dot(x, y, seriesIdx int) {
	if x < 0 || y < 0 {
		return
	}
	cellX, cellY := x/2, y/4
	if cellY >= c.height || cellX >= c.width {
		return
	}
	c.masks[cellY][cellX] |= brailleBits[x%2][y%4]
	if c.series[cellY][cellX] == -1 {
		c.series[cellY][cellX] = seriesIdx
	}
}

// line draws a Bresenham line in dot coordinates.
func (c *canvas) line(x0, y0, x1, y1, seriesIdx int) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		c.dot(x0, y0, seriesIdx)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *canvas) renderRow(y int, useColor bool) string {
	var b strings.Builder
	for x := 0; x < c.width; x++ {
		ch := rune(0x2800 + int(c.masks[y][x]))
		if useColor && c.series[y][x] >= 0 {
			b.WriteString(plotColors[c.series[y][x]%len(plotColors)])
			b.WriteRune(ch)
			b.WriteString(colorReset)
		} else {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// PlotSeries renders a multi-line braille plot for the provided series.
// Each series is scaled to its own min/max so differently sized values
// share one chart.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	drawable := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			drawable = append(drawable, s)
		}
	}
	if len(drawable) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	c := newCanvas(width, height)
	ranges := make([][2]float64, len(drawable))
	for si, s := range drawable {
		values := resample(s.Values, width)
		minVal, maxVal := seriesRange(values)
		if math.Abs(maxVal-minVal) < 1e-9 {
			minVal--
			maxVal++
		}
		ranges[si] = [2]float64{minVal, maxVal}
		prevX, prevY := -1, -1
		for x, v := range values {
			pos := (v - minVal) / (maxVal - minVal)
			y := int(math.Round((1 - pos) * float64(height*4-1)))
			if prevX >= 0 {
				c.line(prevX, prevY, x*2, y, si)
			} else {
				c.dot(x*2, y, si)
			}
			prevX, prevY = x*2, y
		}
	}

	useColor := colorAllowed(w)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "Scaled per series; see min/max below."); err != nil {
		return err
	}
	for si, s := range drawable {
		if _, err := fmt.Fprintf(w, "%s: min=%.2f max=%.2f\n", s.Name, ranges[si][0], ranges[si][1]); err != nil {
			return err
		}
	}
	labels := axisLabels(height)
	labelWidth := len(axisLabelTop)
	for y := 0; y < height; y++ {
		if _, err := fmt.Fprintf(w, "%*s%s%s\n", labelWidth, labels[y], axisSeparator, c.renderRow(y, useColor)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legend(drawable, useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// PlotWidthFor computes a plot width that fits within the total
// available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - len(axisLabelTop) - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func colorAllowed(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func axisLabels(height int) []string {
	labels := make([]string, height)
	if height == 0 {
		return labels
	}
	labels[0] = axisLabelTop
	if height > 2 {
		labels[height/2] = axisLabelMid
	}
	if height > 1 {
		labels[height-1] = axisLabelBottom
	}
	return labels
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s", rune(0x2800+0x01), s.Name)
		if useColor {
			label = plotColors[i%len(plotColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func seriesRange(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// resample fits values to the target width, averaging buckets when
// shrinking and interpolating when stretching.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) == width {
		out := make([]float64, width)
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	if len(values) > width {
		for i := 0; i < width; i++ {
			start := i * len(values) / width
			end := (i + 1) * len(values) / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
		return out
	}
	if len(values) == 1 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := 0; i < width; i++ {
		pos := float64(i) * float64(len(values)-1) / float64(width-1)
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}
