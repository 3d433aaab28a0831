package ui

import (
	"github.com/charmbracelet/lipgloss"

	"promptbox/model"
)

var (
	violet = lipgloss.Color("99")
	slate  = lipgloss.Color("240")
	grey   = lipgloss.Color("245")
	light  = lipgloss.Color("252")
	mint   = lipgloss.Color("86")
	red    = lipgloss.Color("196")
	amber  = lipgloss.Color("214")

	appStyle = lipgloss.NewStyle().Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(violet).
			Padding(0, 1)

	contextStyle = lipgloss.NewStyle().Foreground(mint)
	mutedStyle   = lipgloss.NewStyle().Foreground(grey)

	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(mint)
	normalStyle   = lipgloss.NewStyle().Foreground(light)
	callStyle     = lipgloss.NewStyle().Foreground(grey).Italic(true)

	previewTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(slate)
	borderStyle       = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(slate)

	labelStyle        = lipgloss.NewStyle().Bold(true).Foreground(violet)
	inputStyle        = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(slate).Padding(0, 1)
	focusedInputStyle = inputStyle.BorderForeground(violet)

	helpStyle    = lipgloss.NewStyle().Foreground(grey)
	helpKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(violet)

	errorStyle   = lipgloss.NewStyle().Foreground(red)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(mint)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(amber)
)

// actionColors tints each action's badge in the lists.
var actionColors = map[model.Action]lipgloss.Color{
	model.ActionCreate:      lipgloss.Color("42"),
	model.ActionFetch:       lipgloss.Color("39"),
	model.ActionUpdate:      amber,
	model.ActionDelete:      red,
	model.ActionExecute:     lipgloss.Color("170"),
	model.ActionCreateTable: lipgloss.Color("37"),
}

func actionBadge(a model.Action) string {
	c, ok := actionColors[a]
	if !ok {
		c = slate
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(string(a))
}
