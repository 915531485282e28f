// Package term renders games on a terminal and drives hot-seat play from a
// line-oriented input stream.
package term

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jaminalder/connect-four/internal/domain"
)

const (
	pieceGlyph = "●"
	emptyGlyph = "·"
)

var (
	frameStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Faint(true)
	winStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
)

// pieceStyle maps a player's colour token onto a terminal colour. Tokens are
// passed through to lipgloss, so both ANSI indices ("1") and hex ("#ff0000")
// work; names lipgloss does not know render uncoloured.
func pieceStyle(p domain.Player) lipgloss.Style {
	if p.Color == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(namedColor(p.Color)))
}

// namedColor turns common colour names into ANSI indices.
func namedColor(token string) string {
	switch strings.ToLower(token) {
	case "black":
		return "0"
	case "red":
		return "1"
	case "green":
		return "2"
	case "yellow", "gold":
		return "3"
	case "blue":
		return "4"
	case "magenta", "purple":
		return "5"
	case "cyan":
		return "6"
	case "white":
		return "7"
	default:
		return token
	}
}

// Render draws the board with 1-based column numbers above it and the status
// line below it.
func Render(s domain.Snapshot) string {
	var b strings.Builder
	cols := make([]string, s.Width)
	for c := range cols {
		cols[c] = fmt.Sprintf("%d", (c+1)%10)
	}
	b.WriteString(headerStyle.Render(strings.Join(cols, " ")))
	b.WriteByte('\n')

	for r, row := range s.Cells {
		cells := make([]string, len(row))
		for c, cell := range row {
			if cell == domain.Empty {
				cells[c] = emptyGlyph
				continue
			}
			st := pieceStyle(s.Players[cell-1])
			if s.OnLine(domain.Point{Row: r, Col: c}) {
				st = st.Inherit(winStyle)
			}
			cells[c] = st.Render(pieceGlyph)
		}
		b.WriteString(strings.Join(cells, " "))
		if r < len(s.Cells)-1 {
			b.WriteByte('\n')
		}
	}
	return frameStyle.Render(b.String()) + "\n" + Status(s)
}

// Status is the one-line message shown under the board.
func Status(s domain.Snapshot) string {
	switch s.Status {
	case domain.Won:
		return s.Players[s.Winner-1].Name + " won!"
	case domain.Drawn:
		return "Tie!"
	default:
		return fmt.Sprintf("%s to move (%s)", s.Current.Name, pieceStyle(s.Current).Render(pieceGlyph))
	}
}
