package outwriter

import (
	"os"

	"github.com/huangsam/gauge/internal/contract"
	"golang.org/x/term"
)

// GetMaxTablePathWidth calculates the maximum width for component keys in table output
// based on terminal width and the number of variation columns shown.
func GetMaxTablePathWidth(cfg *contract.Config, variationColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for fixed columns with table formatting
	baseWidth := 50 // Metric + Value + Alert with borders/padding

	// Each variation column
	baseWidth += 12 * variationColumns

	// Reserve generous space for table borders, separators, and padding
	baseWidth += 10

	// Calculate available space for path
	available := termWidth - baseWidth
	if available < 15 {
		// Minimum reasonable path width
		return 15
	}
	if available > 70 {
		// Maximum path width to prevent overly long paths
		return 70
	}
	return available
}
