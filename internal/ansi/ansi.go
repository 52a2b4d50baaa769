// Package ansi holds the escape sequences used for plain terminal output.
// Styled output built with lipgloss does not use it.
package ansi

// SGR (Select Graphic Rendition) codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	Dim     = "\033[2m"
	Yellow  = "\033[33m"
	Green   = "\033[32m"
	Red     = "\033[31m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"
)

// ClearLine clears the entire current line. Progress output pairs it with a
// carriage return to redraw in place.
const ClearLine = "\033[2K"
