package terminal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/mcp-training/giftrun/game/engine"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	winStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	loseStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	tileStyles = map[engine.TileKind]lipgloss.Style{
		engine.Wall:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		engine.Empty:       lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		engine.ActorStart:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		engine.Collectible: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		engine.DropPoint:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		engine.Boost:       lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		engine.Slide:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	}
	actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// renderBoard draws one styled cell per tile, two columns wide
func renderBoard(snap engine.Snapshot) string {
	var b strings.Builder
	for r, row := range snap.Board {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, kind := range row {
			if r == snap.Actor.Row && c == snap.Actor.Col {
				b.WriteString(actorStyle.Render("@ "))
				continue
			}
			b.WriteString(tileStyles[kind].Render(string(engine.CharFromTile(kind)) + " "))
		}
	}
	return b.String()
}

func renderStats(snap engine.Snapshot) string {
	lines := []string{
		fmt.Sprintf("Moves     %d/%d", snap.RemainingMoves, snap.MaxMoves),
		fmt.Sprintf("Bag       %d", snap.Bag),
		fmt.Sprintf("Delivered %d/%d", snap.Delivered, snap.WinsAt),
		fmt.Sprintf("Score     %d", snap.Score),
	}
	if snap.Status != "" {
		lines = append(lines, "", snap.Status)
	}
	return statsStyle.Render(strings.Join(lines, "\n"))
}

// renderLog shows the newest entries; history is already newest first
func renderLog(history []engine.LogEntry) string {
	if len(history) == 0 {
		return mutedStyle.Render("No events yet.")
	}
	lines := make([]string, 0, logLines)
	for _, e := range history {
		if len(lines) == logLines {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s", e.Timestamp.Format("15:04:05"), e.Message))
	}
	return mutedStyle.Render(strings.Join(lines, "\n"))
}
