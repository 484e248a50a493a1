package views

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rhystmorgan/contactsterm/internal/storage"
	"rhystmorgan/contactsterm/internal/utils"
)

type ViewState int

const (
	ViewLoading ViewState = iota
	ViewContacts
	ViewInitError
)

func (s ViewState) String() string {
	switch s {
	case ViewLoading:
		return "loading"
	case ViewContacts:
		return "contacts"
	case ViewInitError:
		return "init_error"
	default:
		return "unknown"
	}
}

// AppStore is what the application root needs from the record store.
type AppStore interface {
	ContactStore
	Initialize(ctx context.Context) error
}

type AppModel struct {
	state  ViewState
	width  int
	height int

	ctx   context.Context
	store AppStore

	contactsView *ContactsModel

	initError string
}

type StoreInitializedMsg struct {
	Err error
}

func NewAppModel(ctx context.Context, store AppStore, importURL string) *AppModel {
	return &AppModel{
		state:        ViewLoading,
		ctx:          ctx,
		store:        store,
		contactsView: NewContactsModel(ctx, store, importURL),
	}
}

// Init prepares the database before anything else touches it.
func (m *AppModel) Init() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		return StoreInitializedMsg{Err: store.Initialize(ctx)}
	}
}

func (m *AppModel) State() ViewState {
	return m.state
}

func (m *AppModel) InitError() string {
	return m.initError
}

func (m *AppModel) Contacts() *ContactsModel {
	return m.contactsView
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.contactsView.SetSize(msg.Width, msg.Height)
		return m, nil

	case StoreInitializedMsg:
		if msg.Err != nil {
			slog.Error("initializing store", "error", msg.Err)
			m.initError = storage.UserMessage(msg.Err)
			return m.navigateTo(ViewInitError)
		}
		slog.Info("store ready")
		return m.navigateTo(ViewContacts)

	case tea.KeyMsg:
		if m.state != ViewContacts {
			switch msg.String() {
			case "ctrl+c", "q", "esc":
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.state == ViewContacts {
		_, cmd := m.contactsView.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *AppModel) View() string {
	var content string

	switch m.state {
	case ViewLoading:
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Colours.Yellow)).
			Padding(1, 2).
			Render("Preparing contacts database...")
	case ViewContacts:
		content = m.contactsView.View()
	case ViewInitError:
		errorStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Theme.Danger)).
			Bold(true).
			Padding(1, 2)
		hintStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(utils.Theme.Muted)).
			Padding(0, 2)
		content = errorStyle.Render(fmt.Sprintf("Error: %s", m.initError)) + "\n" +
			hintStyle.Render("Check the database path and permissions, then restart. Press q to quit.")
	default:
		content = "Unknown view"
	}

	if m.width == 0 || m.height == 0 {
		return content
	}

	return lipgloss.NewStyle().
		Width(m.width).
		MaxHeight(m.height).
		Render(content)
}

func (m *AppModel) navigateTo(state ViewState) (tea.Model, tea.Cmd) {
	slog.Debug("navigate", "from", m.state, "to", state)
	m.state = state

	if state == ViewContacts {
		m.contactsView.MarkReady()
		m.contactsView.SetSize(m.width, m.height)
		return m, m.contactsView.Init()
	}

	return m, nil
}
