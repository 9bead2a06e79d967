package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the AutoTutor ASCII banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	// Indigo to rose gradient, one color per row.
	rows := []struct{ text, color string }{
		{"     _         _        _____      _            ", "#818cf8"},
		{"    / \\  _   _| |_ ___ |_   _|   _| |_ ___  _ __ ", "#a78bfa"},
		{"   / _ \\| | | | __/ _ \\  | || | | | __/ _ \\| '__|", "#c084fc"},
		{"  / ___ \\ |_| | || (_) | | || |_| | || (_) | |   ", "#e879f9"},
		{" /_/   \\_\\__,_|\\__\\___/  |_| \\__,_|\\__\\___/|_|   ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, row := range rows {
		fmt.Fprintln(w, out.String(row.text).Foreground(out.Color(row.color)))
	}
	fmt.Fprintln(w, out.String(fmt.Sprintf("  v%s", version)).Faint())
	fmt.Fprintln(w)
}
