package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jiradash/internal/api"
	"jiradash/internal/auth"
)

// App is the root Bubble Tea model. It gates every view on the auth state:
// a spinner while the persisted session is checked, the login form while
// unauthenticated, the dashboard once authenticated.
type App struct {
	auth   *auth.Controller
	client *api.Client
	width  int
	height int

	authState auth.State
	spinner   spinner.Model

	login     loginModel
	dashboard dashboardModel

	help      help.Model
	showHelp  bool
	status    string
	statusErr bool
}

func NewApp(ctrl *auth.Controller, client *api.Client) App {
	h := help.New()
	h.ShowAll = false

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(highlightStyle))

	return App{
		auth:      ctrl,
		client:    client,
		authState: auth.StateChecking,
		spinner:   sp,
		login:     newLoginModel(ctrl),
		dashboard: newDashboardModel(client),
		help:      h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.spinner.Tick,
		a.login.Init(),
		checkSessionCmd(a.auth),
	)
}

func checkSessionCmd(ctrl *auth.Controller) tea.Cmd {
	return func() tea.Msg {
		return sessionCheckedMsg{state: ctrl.CheckSession(context.Background())}
	}
}

func logoutCmd(ctrl *auth.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, a.height)
		a.dashboard.setSize(a.width, contentHeight)
		return a, nil

	case spinner.TickMsg:
		if a.authState == auth.StateChecking {
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case sessionCheckedMsg:
		a.authState = msg.state
		if a.authState == auth.StateAuthenticated {
			return a, a.dashboard.load()
		}
		return a, nil

	case SessionExpiredMsg:
		// Forced logout; acts regardless of which view is mounted.
		a.authState = auth.StateUnauthenticated
		a.login = a.login.reset()
		a.dashboard = newDashboardModel(a.client)
		a.dashboard.setSize(a.width, a.height-4)
		a.status = "Session expired. Please sign in again."
		a.statusErr = true
		return a, a.login.Init()

	case loginResultMsg:
		a.login, cmd = a.login.update(msg)
		if msg.result.OK {
			// Post-login target is always the dashboard.
			a.authState = auth.StateAuthenticated
			a.status = ""
			a.statusErr = false
			return a, tea.Batch(cmd, a.dashboard.load())
		}
		return a, cmd

	case loggedOutMsg:
		a.authState = auth.StateUnauthenticated
		a.login = a.login.reset()
		a.dashboard = newDashboardModel(a.client)
		a.dashboard.setSize(a.width, a.height-4)
		a.status = ""
		a.statusErr = false
		return a, a.login.Init()

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	// Everything else flows to the active view. The login form advances its
	// fields by round-tripping messages through the program loop, so it must
	// see them while unauthenticated; data messages reach the dashboard,
	// where stale detail results are discarded by generation.
	if a.authState == auth.StateAuthenticated {
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	}
	a.login, cmd = a.login.update(msg)
	return a, cmd
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.authState {
	case auth.StateChecking:
		return a, nil

	case auth.StateUnauthenticated:
		a.login, cmd = a.login.update(msg)
		return a, cmd

	default:
		if !a.dashboard.searching {
			switch {
			case key.Matches(msg, keys.Quit):
				return a, tea.Quit
			case key.Matches(msg, keys.Help):
				a.showHelp = !a.showHelp
				a.help.ShowAll = a.showHelp
				return a, nil
			case key.Matches(msg, keys.Logout):
				return a, logoutCmd(a.auth)
			}
		}
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	switch a.authState {
	case auth.StateChecking:
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" Checking session...")

	case auth.StateAuthenticated:
		sess, ok := a.auth.Session()
		if !ok {
			// Authenticated without a session is a defect condition;
			// fail closed and render as unauthenticated.
			return a.login.view()
		}
		return a.renderAuthenticated(sess)

	default:
		return a.renderUnauthenticated()
	}
}

func (a App) renderUnauthenticated() string {
	view := a.login.view()
	if a.status != "" {
		banner := warningStyle.Render(a.status)
		return lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(banner), view)
	}
	return view
}

func (a App) renderAuthenticated(sess auth.Session) string {
	header := a.renderHeader(sess)
	footer := a.renderFooter()

	content := a.dashboard.view()

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader(sess auth.Session) string {
	brand := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("jiradash")
	user := mutedStyle.Render(fmt.Sprintf("%s (%s)", sess.UserEmail, sess.Domain))

	gap := a.width - lipgloss.Width(brand) - lipgloss.Width(user) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Bottom, brand, spacer, user))
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = successStyle.Render(" " + a.status)
		}
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}
