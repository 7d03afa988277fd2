package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/pawfocus/pawfocus/internal/pet"
	"github.com/pawfocus/pawfocus/internal/progression"
	"github.com/pawfocus/pawfocus/internal/ui/theme"
)

const titleFull = `╔═╗┌─┐┬ ┬╔═╗┌─┐┌─┐┬ ┬┌─┐
╠═╝├─┤│││╠╣ │ ││  │ │└─┐
╩  ┴ ┴└┴┘╚  └─┘└─┘└─┘└─┘`

const titleCompact = "P · A · W · F · O · C · U · S"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	return min(max(frameWidth-6, 20), 60)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders level, coins and points in a bordered box.
func renderStatsBar(p progression.Profile, cw int, compact bool) string {
	levelStyle := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	coinStyle := lipgloss.NewStyle().Foreground(theme.Coin).Bold(true)
	pointStyle := lipgloss.NewStyle().Foreground(theme.Focus).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			levelStyle.Render(fmt.Sprintf("★%d", p.Level)),
			coinStyle.Render(fmt.Sprintf("●%d", p.Coins)),
			pointStyle.Render(fmt.Sprintf("✦%d", p.Points)),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			levelStyle.Render(fmt.Sprintf("★ LEVEL %d", p.Level)),
			coinStyle.Render(fmt.Sprintf("● %d COINS", p.Coins)),
			pointStyle.Render(fmt.Sprintf("✦ %d POINTS", p.Points)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Focus).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Gold).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Gold).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	buttons := make([]string, len(items))
	for i, label := range items {
		if i == selected {
			buttons[i] = selectedBtn.Render("▸ " + label)
		} else {
			buttons[i] = normalBtn.Render(label)
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

func renderPetBox(p progression.Profile, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(pet.Render(pet.MoodIdle, p.Owned))
}

// renderCabinetFrame wraps content in a double-border frame, centered
// vertically and horizontally within the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
