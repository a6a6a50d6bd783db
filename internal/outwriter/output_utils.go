package outwriter

import (
	"strconv"
	"strings"

	"github.com/huangsam/gauge/internal/contract"
	"github.com/huangsam/gauge/schema"
)

// activePeriodIndexes returns the indexes of the periods that carry variations.
func activePeriodIndexes(periods []schema.Period) []int {
	indexes := make([]int, 0, len(periods))
	for _, p := range periods {
		indexes = append(indexes, p.Index)
	}
	return indexes
}

// formatVariation renders a signed variation, or an empty cell when there is none.
func formatVariation(v *float64, fmtFloat func(float64) string) string {
	if v == nil {
		return ""
	}
	s := fmtFloat(*v)
	if *v > 0 {
		return "+" + s
	}
	return s
}

// periodLabel describes a period in a table header.
func periodLabel(p schema.Period) string {
	label := "Δ" + strconv.Itoa(p.Index) + " " + string(p.Mode)
	if p.ModeParameter != "" {
		label += ":" + p.ModeParameter
	}
	return label
}

// indentKey renders a component key under its tree depth.
func indentKey(key string, depth, maxWidth int) string {
	pad := strings.Repeat("  ", min(depth, 8))
	width := maxWidth - len(pad)
	if width < 10 {
		width = 10
	}
	return pad + contract.TruncatePath(key, width)
}

// alertCell renders an alert level with color, or nothing for unset levels.
func alertCell(level schema.Level, useColors bool) string {
	if level == "" {
		return ""
	}
	if !useColors {
		return string(level)
	}
	return contract.GetColorLevel(level)
}
