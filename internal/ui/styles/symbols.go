package styles

import "github.com/raphi011/gitscan/internal/status"

// Symbols holds the status icons based on nerdfont configuration
type Symbols struct {
	Novel  string
	Boring string
}

// Default symbols
var defaultSymbols = Symbols{
	Novel:  "●",
	Boring: "○",
}

// Nerd font symbols
var nerdfontSymbols = Symbols{
	Novel:  "\uf444", // nf-oct-dot_fill
	Boring: "\uf42e", // nf-oct-check
}

// useNerdfont tracks whether nerd font symbols are enabled
var useNerdfont bool

var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// StatusSymbol returns the icon for a repository status.
func StatusSymbol(s status.Status) string {
	if s == status.Novel {
		return currentSymbols.Novel
	}
	return currentSymbols.Boring
}

// FormatStatus returns the styled "<symbol> <status>" cell for listings.
func FormatStatus(s status.Status) string {
	return StatusStyle(s).Render(StatusSymbol(s) + " " + string(s))
}
