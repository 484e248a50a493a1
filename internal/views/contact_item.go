package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rhystmorgan/contactsterm/internal/models"
	"rhystmorgan/contactsterm/internal/utils"
)

const (
	noPhoneText  = "No phone number"
	favoriteStar = "★"
)

// RenderContactItem draws one list row: name and star, phone or a
// placeholder, creation time and the email when there is one.
func RenderContactItem(contact models.Contact, selected bool, width int) string {
	rowWidth := width - 2
	if rowWidth < 20 {
		rowWidth = 20
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Padding(0, 1).
		Width(rowWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(utils.Colours.Surface0))
	if selected {
		style = style.
			Background(lipgloss.Color(utils.Theme.Selection)).
			BorderForeground(lipgloss.Color(utils.Theme.Accent))
	}

	starColour := utils.Theme.Unfavorite
	if contact.Favorite {
		starColour = utils.Theme.Favorite
	}
	star := lipgloss.NewStyle().
		Foreground(lipgloss.Color(starColour)).
		Render(favoriteStar)

	nameStyle := lipgloss.NewStyle().Bold(true)
	name := utils.TruncateString(contact.Name, rowWidth-6)

	var phone string
	if contact.HasPhone() {
		phone = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Sapphire)).
			Render(contact.PhoneValue())
	} else {
		phone = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Theme.Muted)).
			Italic(true).
			Render(noPhoneText)
	}

	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Theme.Muted))

	lines := []string{
		star + " " + nameStyle.Render(name),
		"  " + phone,
		"  " + mutedStyle.Render("Created: "+utils.FormatCreatedAt(contact.CreatedAt)),
	}
	if contact.HasEmail() {
		lines = append(lines, "  "+mutedStyle.Render("Email: "+contact.EmailValue()))
	}

	return style.Render(strings.Join(lines, "\n"))
}

// RenderEmptyList is shown when no row survives the filter.
func RenderEmptyList(filterActive bool) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(utils.Theme.Muted)).
		Padding(1, 2)

	if filterActive {
		return style.Render("No contacts match the current filter.")
	}
	return style.Render("No contacts yet. Press n to add one or i to import.")
}
