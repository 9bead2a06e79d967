package plot

import (
	"context"
	"math"
	"strings"
)

const (
	DefaultWidth  = 60
	DefaultHeight = 20
)

// ASCII draws the function on a character grid with axes.
type ASCII struct {
	Width  int
	Height int
}

// NewASCII creates a plotter with the given base canvas size.
// Non-positive values fall back to the defaults.
func NewASCII(width, height int) *ASCII {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &ASCII{Width: width, Height: height}
}

// Plot implements Plotter.
func (p *ASCII) Plot(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	fn, err := Compile(req.Expression)
	if err != nil {
		return "", err
	}

	scale := req.SizeFactor
	if scale == 0 {
		scale = 1
	}
	w := max(int(float64(p.Width)*scale), 2)
	h := max(int(float64(p.Height)*scale), 2)

	grid := make([][]rune, h)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", w))
	}

	x0, x1 := req.XBounds[0], req.XBounds[1]
	y0, y1 := req.YBounds[0], req.YBounds[1]
	col := func(x float64) int { return int(math.Round((x - x0) / (x1 - x0) * float64(w-1))) }
	row := func(y float64) int { return int(math.Round((y1 - y) / (y1 - y0) * float64(h-1))) }

	if y0 <= 0 && y1 >= 0 {
		r := row(0)
		for c := range grid[r] {
			grid[r][c] = '-'
		}
	}
	if x0 <= 0 && x1 >= 0 {
		c := col(0)
		for r := range grid {
			if grid[r][c] == '-' {
				grid[r][c] = '+'
			} else {
				grid[r][c] = '|'
			}
		}
	}

	for c := 0; c < w; c++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		x := x0 + float64(c)/float64(w-1)*(x1-x0)
		y, err := fn.At(x)
		if err != nil {
			return "", err
		}
		if math.IsNaN(y) || math.IsInf(y, 0) || y < y0 || y > y1 {
			continue
		}
		grid[row(y)][c] = '*'
	}

	lines := make([]string, h)
	for i, r := range grid {
		lines[i] = strings.TrimRight(string(r), " ")
	}
	return strings.Join(lines, "\n"), nil
}

var _ Plotter = (*ASCII)(nil)
