package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the orgtree ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Indigo to rose gradient
	lines := []struct {
		text  string
		color string
	}{
		{`   ___            _`, "#818cf8"},
		{`  / _ \ _ __ __ _| |_ _ __ ___  ___`, "#a78bfa"},
		{` | | | | '__/ _' | __| '__/ _ \/ _ \`, "#c084fc"},
		{` | |_| | | | (_| | |_| | |  __/  __/`, "#e879f9"},
		{`  \___/|_|  \__, |\__|_|  \___|\___|`, "#f472b6"},
		{`            |___/`, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
