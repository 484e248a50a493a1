package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"rhystmorgan/contactsterm/internal/utils"
)

// SearchHeaderProps is everything the header needs to draw itself.
type SearchHeaderProps struct {
	Total         int
	Shown         int
	Favorites     int
	SearchView    string
	SearchFocused bool
	FavoritesOnly bool
	Importing     bool
	ImportError   string
	ImportStatus  string
	Spinner       string
	Width         int
}

// RenderSearchHeader draws the title, the search box, the favorites filter
// badge and the import trigger.
func RenderSearchHeader(props SearchHeaderProps) string {
	title := fmt.Sprintf("Contacts (%s", utils.FormatCount(props.Total, "contact", "contacts"))
	if props.Favorites > 0 {
		title += fmt.Sprintf(", %d ★", props.Favorites)
	}
	if props.Shown != props.Total {
		title += fmt.Sprintf(", showing %d", props.Shown)
	}
	title += ")"

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Colours.Text)).
		Background(lipgloss.Color(utils.Colours.Surface0)).
		Padding(0, 1)
	if props.Width > 0 {
		titleStyle = titleStyle.Width(props.Width)
	}

	searchBorder := utils.Theme.Border
	if props.SearchFocused {
		searchBorder = utils.Theme.Accent
	}
	searchStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(searchBorder)).
		Padding(0, 1).
		Width(40)

	filterLabel := "☆ All"
	filterColour := utils.Theme.Muted
	if props.FavoritesOnly {
		filterLabel = "★ Favorites"
		filterColour = utils.Theme.Favorite
	}
	filterBadge := lipgloss.NewStyle().
		Foreground(lipgloss.Color(filterColour)).
		Padding(0, 1).
		Render(filterLabel)

	importLabel := "[i] Import from API"
	importStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(utils.Theme.Success)).
		Foreground(lipgloss.Color(utils.Colours.Base)).
		Padding(0, 1)
	if props.Importing {
		importLabel = "Importing..."
		if props.Spinner != "" {
			importLabel = props.Spinner + " " + importLabel
		}
		importStyle = importStyle.Background(lipgloss.Color(utils.Colours.Surface2))
	}

	controls := lipgloss.JoinHorizontal(
		lipgloss.Center,
		searchStyle.Render(props.SearchView),
		" ",
		filterBadge,
		" ",
		importStyle.Render(importLabel),
	)

	header := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), controls)

	if props.ImportError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Theme.Danger)).
			Padding(0, 1)
		header += "\n" + errorStyle.Render("✗ "+props.ImportError)
	} else if props.ImportStatus != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Theme.Success)).
			Padding(0, 1)
		header += "\n" + statusStyle.Render("✓ "+props.ImportStatus)
	}

	return header
}
