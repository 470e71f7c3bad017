package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"  _____           _",
	" |_   _|   _ _ __(_)_ __   __ _",
	"   | || | | | '__| | '_ \\ / _` |",
	"   | || |_| | |  | | | | | (_| |",
	"   |_| \\__,_|_|  |_|_| |_|\\__, |",
	"                          |___/",
}

var bannerColors = []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9", "#f472b6", "#fb7185"}

// PrintBanner outputs the ASCII art banner to stdout.
func PrintBanner(version string) {
	FprintBanner(os.Stdout, termenv.ColorProfile(), version)
}

// FprintBanner writes the banner using the given color profile.
func FprintBanner(w io.Writer, p termenv.Profile, version string) {
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, p.String(line).Foreground(p.Color(bannerColors[i])))
	}
	if version = strings.TrimSpace(version); version != "" {
		fmt.Fprintln(w, p.String("   v"+version).Faint())
	}
	fmt.Fprintln(w)
}
