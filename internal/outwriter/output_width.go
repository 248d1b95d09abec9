package outwriter

import (
	"os"

	"golang.org/x/term"

	"github.com/huangsam/chartscope/internal/contract"
)

// GetMaxTableNameWidth calculates the maximum width for series names in table
// output based on the terminal width.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	termWidth := cfg.Width

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Index + Shown + Min + Max + Span + Step with borders and padding
	baseWidth := 60

	available := termWidth - baseWidth
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}
