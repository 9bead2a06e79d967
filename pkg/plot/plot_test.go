package plot_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/autotutor/pkg/plot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-1x^2 + 1x + 1", "-1*x^2 + 1*x + 1"},
		{"2x + 3", "2*x + 3"},
		{"2(x + 1)", "2*(x + 1)"},
		{"x^2", "x^2"},
	}
	for _, tt := range tests {
		if got := plot.Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompile(t *testing.T) {
	fn, err := plot.Compile("-1x^2 + 1x + 1")
	require.NoError(t, err)

	y, err := fn.At(2)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, y, 1e-9)

	constant, err := plot.Compile("3")
	require.NoError(t, err)
	y, err = constant.At(10)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, y, 1e-9)

	_, err = plot.Compile("2x +")
	assert.ErrorIs(t, err, plot.ErrExpression)
}

func TestASCII_Plot(t *testing.T) {
	p := plot.NewASCII(21, 11)
	out, err := p.Plot(context.Background(), plot.Request{
		Expression: "1x + 0",
		XBounds:    [2]float64{-5, 5},
		YBounds:    [2]float64{-5, 5},
	})
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 11)
	// y = x passes through the origin, drawn over the axes.
	assert.Equal(t, '*', []rune(lines[5])[10])
	assert.Equal(t, '*', []rune(lines[0])[20])
	assert.Contains(t, lines[5], "-")
}

func TestASCII_SizeFactor(t *testing.T) {
	p := plot.NewASCII(10, 10)
	out, err := p.Plot(context.Background(), plot.Request{
		Expression: "1",
		XBounds:    [2]float64{-1, 1},
		YBounds:    [2]float64{-2, 2},
		SizeFactor: 2,
	})
	require.NoError(t, err)
	assert.Len(t, strings.Split(out, "\n"), 20)
}

func TestASCII_InvalidRequest(t *testing.T) {
	p := plot.NewASCII(0, 0)
	tests := []plot.Request{
		{Expression: "", XBounds: [2]float64{-1, 1}, YBounds: [2]float64{-1, 1}},
		{Expression: "x", XBounds: [2]float64{1, -1}, YBounds: [2]float64{-1, 1}},
		{Expression: "x", XBounds: [2]float64{-1, 1}, YBounds: [2]float64{1, 1}},
	}
	for _, req := range tests {
		_, err := p.Plot(context.Background(), req)
		assert.ErrorIs(t, err, plot.ErrInvalidRequest)
	}
}
