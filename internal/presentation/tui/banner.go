package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the fbxtools banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   __ _               _              _     ", "#818cf8"},
		{"  / _| |__ __  __    | |_ ___   ___ | |___ ", "#a78bfa"},
		{" | |_| '_ \\\\ \\/ /____| __/ _ \\ / _ \\| / __|", "#c084fc"},
		{" |  _| |_) |>  <_____| || (_) | (_) | \\__ \\", "#e879f9"},
		{" |_| |_.__//_/\\_\\     \\__\\___/ \\___/|_|___/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
