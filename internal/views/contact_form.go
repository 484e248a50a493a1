package views

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rhystmorgan/contactsterm/internal/models"
	"rhystmorgan/contactsterm/internal/utils"
)

type FormMode int

const (
	FormModeAdd FormMode = iota
	FormModeEdit
)

func (m FormMode) String() string {
	if m == FormModeEdit {
		return "edit"
	}
	return "add"
}

type FormField int

const (
	FormFieldName FormField = iota
	FormFieldPhone
	FormFieldEmail
	formFieldCount
)

// contactForm is the add/edit dialog state owned by ContactsModel.
type contactForm struct {
	open    bool
	mode    FormMode
	editing *models.Contact
	inputs  [formFieldCount]textinput.Model
	focus   FormField
	err     string
	saving  bool
}

// fieldLimits caps what can be typed into an empty field. A stored value
// longer than its limit raises the limit so editing never shortens it.
var fieldLimits = [formFieldCount]int{100, 20, 100}

func newContactForm() contactForm {
	var form contactForm

	placeholders := [formFieldCount]string{"Enter name", "Enter phone number", "Enter email"}

	for i := range form.inputs {
		input := textinput.New()
		input.Placeholder = placeholders[i]
		input.CharLimit = fieldLimits[i]
		input.Prompt = ""
		input.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Theme.Accent))
		input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Text))
		form.inputs[i] = input
	}

	return form
}

// reset clears every field and opens the dialog in the given mode.
func (f *contactForm) reset(mode FormMode, editing *models.Contact) tea.Cmd {
	f.open = true
	f.mode = mode
	f.editing = editing
	f.err = ""
	f.saving = false

	input := models.ContactInput{}
	if editing != nil {
		input = editing.Input()
	}
	values := [formFieldCount]string{input.Name, input.Phone, input.Email}
	for i, value := range values {
		f.inputs[i].CharLimit = max(fieldLimits[i], utf8.RuneCountInString(value))
		f.inputs[i].SetValue(value)
	}

	f.focus = FormFieldName
	return f.focusCurrent()
}

func (f *contactForm) close() {
	f.open = false
	f.editing = nil
	f.err = ""
	f.saving = false
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
}

func (f *contactForm) value() models.ContactInput {
	return models.ContactInput{
		Name:  f.inputs[FormFieldName].Value(),
		Phone: f.inputs[FormFieldPhone].Value(),
		Email: f.inputs[FormFieldEmail].Value(),
	}
}

func (f *contactForm) set(field FormField, value string) {
	f.inputs[field].SetValue(value)
}

func (f *contactForm) next() tea.Cmd {
	f.focus = (f.focus + 1) % formFieldCount
	return f.focusCurrent()
}

func (f *contactForm) prev() tea.Cmd {
	f.focus = (f.focus + formFieldCount - 1) % formFieldCount
	return f.focusCurrent()
}

func (f *contactForm) focusCurrent() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *contactForm) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *contactForm) props(width int) ContactFormProps {
	return ContactFormProps{
		Mode:      f.mode,
		NameView:  f.inputs[FormFieldName].View(),
		PhoneView: f.inputs[FormFieldPhone].View(),
		EmailView: f.inputs[FormFieldEmail].View(),
		Focused:   f.focus,
		Error:     f.err,
		Saving:    f.saving,
		Width:     width,
	}
}

// ContactFormProps is the rendered state of the add/edit dialog.
type ContactFormProps struct {
	Mode      FormMode
	NameView  string
	PhoneView string
	EmailView string
	Focused   FormField
	Error     string
	Saving    bool
	Width     int
}

// RenderContactForm draws the add/edit dialog.
func RenderContactForm(props ContactFormProps) string {
	title := "Add contact"
	if props.Mode == FormModeEdit {
		title = "Edit contact"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(utils.Theme.Accent)).
		MarginBottom(1)

	labels := [formFieldCount]string{"Name *", "Phone", "Email"}
	views := [formFieldCount]string{props.NameView, props.PhoneView, props.EmailView}

	var content strings.Builder
	content.WriteString(titleStyle.Render(title))
	content.WriteString("\n")

	for i := FormField(0); i < formFieldCount; i++ {
		labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Subtext1))
		borderColour := utils.Theme.Border
		if i == props.Focused {
			labelStyle = labelStyle.Foreground(lipgloss.Color(utils.Theme.Accent)).Bold(true)
			borderColour = utils.Theme.Accent
		}

		inputStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(borderColour)).
			Padding(0, 1).
			Width(40)

		content.WriteString(labelStyle.Render(labels[i]))
		content.WriteString("\n")
		content.WriteString(inputStyle.Render(views[i]))
		content.WriteString("\n")
	}

	if props.Error != "" {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Theme.Danger))
		content.WriteString(errorStyle.Render("✗ " + props.Error))
		content.WriteString("\n")
	}

	hint := "[Enter] Save  [Tab] Next field  [Esc] Cancel"
	if props.Saving {
		hint = "Saving..."
	}
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Theme.Muted)).MarginTop(1)
	content.WriteString(hintStyle.Render(hint))

	return dialogStyle(utils.Theme.Accent, props.Width).Render(content.String())
}

func dialogStyle(borderColour string, width int) lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColour)).
		Padding(1, 2)
	if width > 0 && width < 60 {
		style = style.Width(width - 4)
	}
	return style
}
