package console

import (
	"github.com/fatih/color"

	"github.com/mklimuk/uvsensor/uv"
)

// Available ANSI colors
var (
	Yellow  = color.New(color.FgYellow).SprintFunc()
	Red     = color.New(color.FgRed).SprintFunc()
	Green   = color.New(color.FgGreen).SprintFunc()
	Magenta = color.New(color.FgHiMagenta).SprintFunc()
	White   = color.New(color.FgHiWhite).SprintFunc()
	Bold    = color.New(color.Bold).SprintFunc()
)

// Index renders a UV band in the color of the WHO UV index chart.
func Index(i uv.Index) string {
	switch i {
	case uv.IndexLow:
		return Green(i)
	case uv.IndexModerate:
		return Yellow(i)
	case uv.IndexHigh, uv.IndexVeryHigh:
		return Red(i)
	default:
		return Magenta(i)
	}
}
