package utils

import (
	"fmt"
	"strings"

	"ceelo/internal/games/ceelo"
)

var dieFaces = map[int][]string{
	1: {"┌───────┐", "│       │", "│   ●   │", "│       │", "└───────┘"},
	2: {"┌───────┐", "│ ●     │", "│       │", "│     ● │", "└───────┘"},
	3: {"┌───────┐", "│ ●     │", "│   ●   │", "│     ● │", "└───────┘"},
	4: {"┌───────┐", "│ ●   ● │", "│       │", "│ ●   ● │", "└───────┘"},
	5: {"┌───────┐", "│ ●   ● │", "│   ●   │", "│ ●   ● │", "└───────┘"},
	6: {"┌───────┐", "│ ●   ● │", "│ ●   ● │", "│ ●   ● │", "└───────┘"},
}

// DieFace returns the five lines of a die drawing. Faces without pips are
// drawn with the number in the middle.
func DieFace(face int) []string {
	if lines, ok := dieFaces[face]; ok {
		out := make([]string, len(lines))
		copy(out, lines)
		return out
	}
	return []string{
		"┌───────┐",
		"│       │",
		fmt.Sprintf("│ %5d │", face),
		"│       │",
		"└───────┘",
	}
}

// RenderDice draws the three dice side by side.
func RenderDice(r ceelo.Roll) string {
	faces := make([][]string, len(r))
	for i, f := range r {
		faces[i] = DieFace(f)
	}
	var b strings.Builder
	for line := range faces[0] {
		for i, face := range faces {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(face[line])
		}
		if line < len(faces[0])-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
