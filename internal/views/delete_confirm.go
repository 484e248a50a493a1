package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rhystmorgan/contactsterm/internal/utils"
)

// RenderDeleteConfirm asks the user to confirm deleting the named contact.
func RenderDeleteConfirm(name, errMessage string, deleting bool, width int) string {
	var content strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Theme.Danger))
	content.WriteString(titleStyle.Render("Confirm delete"))
	content.WriteString("\n\n")

	textStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Text))
	content.WriteString(textStyle.Render(fmt.Sprintf("Are you sure you want to delete \"%s\"?", name)))
	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Theme.Warning)).
		Render("This action cannot be undone."))
	content.WriteString("\n")

	if errMessage != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Theme.Danger)).
			Render("✗ " + errMessage))
		content.WriteString("\n")
	}

	hint := "[Y] Delete  [N/Esc] Cancel"
	if deleting {
		hint = "Deleting..."
	}
	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Theme.Muted)).
		Render(hint))

	return dialogStyle(utils.Theme.Danger, width).Render(content.String())
}
