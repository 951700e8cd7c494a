package cmd

import (
	"fmt"
	"io"

	"github.com/baristahub/baristahub-backend/loginflow"
	"github.com/charmbracelet/lipgloss"
)

var (
	formErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ef4444"))

	alertBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	alertTitle = lipgloss.NewStyle().Bold(true)

	routeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")).
			Italic(true)
)

var alertColors = map[loginflow.AlertKind]lipgloss.Color{
	loginflow.AlertInfo:  lipgloss.Color("#3b82f6"),
	loginflow.AlertError: lipgloss.Color("#ef4444"),
}

// terminalPresenter renders the login flow on a terminal
type terminalPresenter struct {
	out io.Writer
}

func (p terminalPresenter) ShowFormError(message string) {
	fmt.Fprintln(p.out, formErrorStyle.Render(message))
}

func (p terminalPresenter) ShowAlert(alert loginflow.Alert) {
	body := alertTitle.Render(alert.Title) + "\n" + alert.Text
	fmt.Fprintln(p.out, alertBox.BorderForeground(alertColors[alert.Kind]).Render(body))
}

func (p terminalPresenter) Navigate(route string) {
	fmt.Fprintln(p.out, routeStyle.Render("-> "+routeLabel(route)))
}

func routeLabel(route string) string {
	switch route {
	case loginflow.LandingRoute:
		return "landing page (" + route + ")"
	case loginflow.ProfileCompletionRoute:
		return "complete your barista profile (" + route + ")"
	default:
		return route
	}
}
