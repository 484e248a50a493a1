package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rhystmorgan/contactsterm/internal/models"
	"rhystmorgan/contactsterm/internal/storage"
	"rhystmorgan/contactsterm/internal/utils"
	"rhystmorgan/contactsterm/internal/validation"
)

// ContactStore is the part of the record store the contacts screen drives.
type ContactStore interface {
	ListAll(ctx context.Context) ([]models.Contact, error)
	Create(ctx context.Context, input models.ContactInput) (int64, error)
	Update(ctx context.Context, id int64, input models.ContactInput) error
	ToggleFavorite(ctx context.Context, id int64, current bool) error
	Delete(ctx context.Context, id int64) error
	ImportFromRemote(ctx context.Context, url string) (int, error)
}

// Messages
type ContactsLoadedMsg struct {
	Contacts []models.Contact
	Err      error
}

type ContactSavedMsg struct {
	Mode FormMode
	ID   int64
	Err  error
}

type FavoriteToggledMsg struct {
	ID  int64
	Err error
}

type ContactDeletedMsg struct {
	ID  int64
	Err error
}

type ImportFinishedMsg struct {
	Inserted int
	Err      error
}

// ContactsModel owns the in-memory contact snapshot and every piece of
// transient screen state. All store access goes through tea.Cmds it returns.
type ContactsModel struct {
	ctx       context.Context
	store     ContactStore
	importURL string

	// Contact data
	contacts         []models.Contact
	filteredContacts []models.Contact
	selectedContact  int

	// Status
	ready        bool
	loading      bool
	errorMessage string

	// Search and filtering
	searchInput   textinput.Model
	searchText    string
	favoritesOnly bool

	// Dialogs
	form          contactForm
	deleteTarget  *models.Contact
	deleteError   string
	deleting      bool
	importing     bool
	importError   string
	importedCount int
	importedOnce  bool

	keys       listKeyMap
	dialogKeys dialogKeyMap
	help       help.Model
	spinner    spinner.Model

	width  int
	height int
}

func NewContactsModel(ctx context.Context, store ContactStore, importURL string) *ContactsModel {
	searchInput := textinput.New()
	searchInput.Placeholder = "Search by name or phone..."
	searchInput.CharLimit = 50
	searchInput.Prompt = "/ "
	searchInput.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Theme.Accent))
	searchInput.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Text))

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(utils.Colours.Yellow))

	return &ContactsModel{
		ctx:              ctx,
		store:            store,
		importURL:        importURL,
		contacts:         []models.Contact{},
		filteredContacts: []models.Contact{},
		searchInput:      searchInput,
		form:             newContactForm(),
		keys:             newListKeyMap(),
		dialogKeys:       newDialogKeyMap(),
		help:             help.New(),
		spinner:          s,
	}
}

func (m *ContactsModel) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// UI contract accessors

// Ready reports whether the store finished initializing, not whether a
// list has loaded yet.
func (m *ContactsModel) Ready() bool { return m.ready }

func (m *ContactsModel) Loading() bool { return m.loading }
func (m *ContactsModel) ErrorMessage() string { return m.errorMessage }
func (m *ContactsModel) Contacts() []models.Contact { return m.contacts }
func (m *ContactsModel) FilteredContacts() []models.Contact { return m.filteredContacts }
func (m *ContactsModel) SearchText() string { return m.searchText }
func (m *ContactsModel) FavoritesOnly() bool { return m.favoritesOnly }
func (m *ContactsModel) FormOpen() bool { return m.form.open }
func (m *ContactsModel) FormMode() FormMode { return m.form.mode }
func (m *ContactsModel) FormError() string { return m.form.err }
func (m *ContactsModel) FormInput() models.ContactInput { return m.form.value() }
func (m *ContactsModel) EditingContact() *models.Contact { return m.form.editing }
func (m *ContactsModel) DeleteTarget() *models.Contact { return m.deleteTarget }
func (m *ContactsModel) DeleteError() string { return m.deleteError }
func (m *ContactsModel) Importing() bool { return m.importing }
func (m *ContactsModel) ImportError() string { return m.importError }
func (m *ContactsModel) SelectedIndex() int { return m.selectedContact }

// SelectedContact returns the highlighted row, if any.
func (m *ContactsModel) SelectedContact() (models.Contact, bool) {
	if m.selectedContact < 0 || m.selectedContact >= len(m.filteredContacts) {
		return models.Contact{}, false
	}
	return m.filteredContacts[m.selectedContact], true
}

// MarkReady records that the store finished initializing.
func (m *ContactsModel) MarkReady() {
	m.ready = true
}

func (m *ContactsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

// Intents

func (m *ContactsModel) SetSearchText(text string) {
	m.searchText = text
	if m.searchInput.Value() != text {
		m.searchInput.SetValue(text)
	}
	m.applyFilters()
}

func (m *ContactsModel) ToggleFavoritesFilter() {
	m.favoritesOnly = !m.favoritesOnly
	m.applyFilters()
}

// Reload reads the whole list from the store again.
func (m *ContactsModel) Reload() tea.Cmd {
	m.loading = true

	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		contacts, err := store.ListAll(ctx)
		return ContactsLoadedMsg{Contacts: contacts, Err: err}
	}
}

func (m *ContactsModel) ToggleFavorite(contact models.Contact) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		err := store.ToggleFavorite(ctx, contact.ID, contact.Favorite)
		return FavoriteToggledMsg{ID: contact.ID, Err: err}
	}
}

func (m *ContactsModel) StartDelete(contact models.Contact) {
	target := contact
	m.deleteTarget = &target
	m.deleteError = ""
	m.deleting = false
}

func (m *ContactsModel) ConfirmDelete() tea.Cmd {
	if m.deleteTarget == nil || m.deleting {
		return nil
	}
	m.deleting = true
	m.deleteError = ""

	ctx, store, id := m.ctx, m.store, m.deleteTarget.ID
	return func() tea.Msg {
		return ContactDeletedMsg{ID: id, Err: store.Delete(ctx, id)}
	}
}

func (m *ContactsModel) CancelDelete() {
	m.deleteTarget = nil
	m.deleteError = ""
	m.deleting = false
}

func (m *ContactsModel) OpenAddModal() tea.Cmd {
	return m.form.reset(FormModeAdd, nil)
}

func (m *ContactsModel) OpenEditModal(contact models.Contact) tea.Cmd {
	editing := contact
	return m.form.reset(FormModeEdit, &editing)
}

func (m *ContactsModel) CloseFormModal() {
	m.form.close()
}

func (m *ContactsModel) SetNameInput(value string) { m.form.set(FormFieldName, value) }
func (m *ContactsModel) SetPhoneInput(value string) { m.form.set(FormFieldPhone, value) }
func (m *ContactsModel) SetEmailInput(value string) { m.form.set(FormFieldEmail, value) }

// SaveContact validates the form and, when it passes, creates or updates
// the contact. Invalid input never reaches the store.
func (m *ContactsModel) SaveContact() tea.Cmd {
	if !m.form.open || m.form.saving {
		return nil
	}

	input := m.form.value()
	result := validation.ValidateContact(input)
	if !result.IsValid {
		m.form.err = result.FirstError()
		return nil
	}

	m.form.err = ""
	m.form.saving = true

	ctx, store, mode := m.ctx, m.store, m.form.mode
	if mode == FormModeEdit && m.form.editing != nil {
		id := m.form.editing.ID
		return func() tea.Msg {
			return ContactSavedMsg{Mode: mode, ID: id, Err: store.Update(ctx, id, input)}
		}
	}

	return func() tea.Msg {
		id, err := store.Create(ctx, input)
		return ContactSavedMsg{Mode: FormModeAdd, ID: id, Err: err}
	}
}

// ImportFromAPI starts a remote import. It does nothing while one is running.
func (m *ContactsModel) ImportFromAPI() tea.Cmd {
	if m.importing {
		return nil
	}
	m.importing = true
	m.importError = ""

	ctx, store, url := m.ctx, m.store, m.importURL
	return func() tea.Msg {
		inserted, err := store.ImportFromRemote(ctx, url)
		return ImportFinishedMsg{Inserted: inserted, Err: err}
	}
}

func (m *ContactsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ContactsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			slog.Error("loading contacts", "error", msg.Err)
			m.errorMessage = storage.UserMessage(msg.Err)
			return m, nil
		}
		m.errorMessage = ""
		m.contacts = msg.Contacts
		if m.contacts == nil {
			m.contacts = []models.Contact{}
		}
		m.applyFilters()
		return m, nil

	case ContactSavedMsg:
		m.form.saving = false
		if msg.Err != nil {
			slog.Error("saving contact", "mode", msg.Mode, "id", msg.ID, "error", msg.Err)
			m.form.err = storage.UserMessage(msg.Err)
			return m, nil
		}
		m.form.close()
		return m, m.Reload()

	case FavoriteToggledMsg:
		if msg.Err != nil {
			slog.Error("toggling favorite", "id", msg.ID, "error", msg.Err)
			m.errorMessage = storage.UserMessage(msg.Err)
			return m, nil
		}
		return m, m.Reload()

	case ContactDeletedMsg:
		m.deleting = false
		if msg.Err != nil {
			slog.Error("deleting contact", "id", msg.ID, "error", msg.Err)
			m.deleteError = storage.UserMessage(msg.Err)
			return m, nil
		}
		m.CancelDelete()
		return m, m.Reload()

	case ImportFinishedMsg:
		m.importing = false
		m.importedCount = msg.Inserted
		m.importedOnce = true
		if msg.Err != nil {
			slog.Error("importing contacts", "url", m.importURL, "inserted", msg.Inserted, "error", msg.Err)
			m.importError = storage.UserMessage(msg.Err)
			if msg.Inserted == 0 {
				return m, nil
			}
			// rows written before the failure are kept
			return m, m.Reload()
		}
		m.importError = ""
		return m, m.Reload()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.searchInput.Focused() {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	if m.form.open {
		return m, m.form.updateFocused(msg)
	}

	return m, nil
}

func (m *ContactsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.deleteTarget != nil:
		return m.updateDeleteConfirm(msg)
	case m.form.open:
		return m.updateForm(msg)
	case m.searchInput.Focused():
		return m.updateSearch(msg)
	default:
		return m.updateList(msg)
	}
}

func (m *ContactsModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	selected, hasSelection := m.SelectedContact()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selectedContact > 0 {
			m.selectedContact--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selectedContact < len(m.filteredContacts)-1 {
			m.selectedContact++
		}

	case key.Matches(msg, m.keys.Search):
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.FilterFavorite):
		m.ToggleFavoritesFilter()

	case key.Matches(msg, m.keys.Add):
		return m, m.OpenAddModal()

	case key.Matches(msg, m.keys.Edit):
		if hasSelection {
			return m, m.OpenEditModal(selected)
		}

	case key.Matches(msg, m.keys.Delete):
		if hasSelection {
			m.StartDelete(selected)
		}

	case key.Matches(msg, m.keys.ToggleFavorite):
		if hasSelection {
			return m, m.ToggleFavorite(selected)
		}

	case key.Matches(msg, m.keys.Import):
		return m, m.ImportFromAPI()

	case key.Matches(msg, m.keys.Reload):
		if !m.loading {
			return m, m.Reload()
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case msg.String() == "esc":
		switch {
		case m.errorMessage != "":
			m.errorMessage = ""
		case m.searchText != "":
			m.SetSearchText("")
		}
	}

	return m, nil
}

func (m *ContactsModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.Blur()
		m.SetSearchText("")
		return m, nil
	case "enter", "down", "tab":
		m.searchInput.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+f":
		m.ToggleFavoritesFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != m.searchText {
		m.SetSearchText(value)
	}
	return m, cmd
}

func (m *ContactsModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.dialogKeys.Cancel):
		m.CloseFormModal()
		return m, nil
	case key.Matches(msg, m.dialogKeys.Confirm):
		return m, m.SaveContact()
	case key.Matches(msg, m.dialogKeys.Next):
		return m, m.form.next()
	case key.Matches(msg, m.dialogKeys.Prev):
		return m, m.form.prev()
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	return m, m.form.updateFocused(msg)
}

func (m *ContactsModel) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.dialogKeys.Yes), key.Matches(msg, m.dialogKeys.Confirm):
		return m, m.ConfirmDelete()
	case key.Matches(msg, m.dialogKeys.No), key.Matches(msg, m.dialogKeys.Cancel):
		m.CancelDelete()
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}

	return m, nil
}

// applyFilters recomputes the visible rows and keeps the cursor in range.
func (m *ContactsModel) applyFilters() {
	m.filteredContacts = models.FilterContacts(m.contacts, m.searchText, m.favoritesOnly)

	if m.selectedContact >= len(m.filteredContacts) {
		m.selectedContact = len(m.filteredContacts) - 1
	}
	if m.selectedContact < 0 {
		m.selectedContact = 0
	}
}

func (m *ContactsModel) filterActive() bool {
	return m.favoritesOnly || models.NormalizeQuery(m.searchText) != ""
}

func (m *ContactsModel) View() string {
	if m.form.open {
		return m.centre(RenderContactForm(m.form.props(m.width)))
	}
	if m.deleteTarget != nil {
		return m.centre(RenderDeleteConfirm(m.deleteTarget.Name, m.deleteError, m.deleting, m.width))
	}

	var content strings.Builder

	content.WriteString(RenderSearchHeader(m.headerProps()))
	content.WriteString("\n")

	switch {
	case m.loading && len(m.contacts) == 0:
		loadingStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Yellow)).
			Padding(1, 2)
		content.WriteString(loadingStyle.Render(m.spinner.View() + " Loading contacts..."))
	case len(m.filteredContacts) == 0:
		content.WriteString(RenderEmptyList(m.filterActive()))
	default:
		content.WriteString(m.renderContactList())
	}

	if m.errorMessage != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Theme.Danger)).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(utils.Theme.Danger))
		content.WriteString("\n")
		content.WriteString(errorStyle.Render("✗ " + m.errorMessage + "  [esc] dismiss"))
	}

	content.WriteString("\n")
	content.WriteString(m.help.View(m.keys))

	return content.String()
}

func (m *ContactsModel) headerProps() SearchHeaderProps {
	props := SearchHeaderProps{
		Total:         len(m.contacts),
		Shown:         len(m.filteredContacts),
		Favorites:     models.CountFavorites(m.contacts),
		SearchView:    m.searchInput.View(),
		SearchFocused: m.searchInput.Focused(),
		FavoritesOnly: m.favoritesOnly,
		Importing:     m.importing,
		ImportError:   m.importError,
		Width:         m.width,
	}
	if m.importing {
		props.Spinner = m.spinner.View()
	}
	if m.importedOnce && m.importError == "" {
		props.ImportStatus = fmt.Sprintf("Imported %s", utils.FormatCount(m.importedCount, "new contact", "new contacts"))
	}
	return props
}

// renderContactList draws the rows that fit on screen around the cursor.
func (m *ContactsModel) renderContactList() string {
	const rowHeight = 6
	visible := len(m.filteredContacts)
	if m.height > 0 {
		visible = (m.height - 8) / rowHeight
		if visible < 1 {
			visible = 1
		}
	}

	start := 0
	if m.selectedContact >= visible {
		start = m.selectedContact - visible + 1
	}
	end := start + visible
	if end > len(m.filteredContacts) {
		end = len(m.filteredContacts)
	}

	items := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, RenderContactItem(m.filteredContacts[i], i == m.selectedContact, m.width))
	}

	return strings.Join(items, "\n")
}

func (m *ContactsModel) centre(dialog string) string {
	if m.width == 0 || m.height == 0 {
		return dialog
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}
