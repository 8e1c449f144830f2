package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"jiradash/internal/api"
	"jiradash/internal/auth"
)

type loginModel struct {
	auth   *auth.Controller
	width  int
	height int

	form *huh.Form

	// Form field pointers (survive value copies)
	email    *string
	apiToken *string
	domain   *string

	// submitting blocks resubmission while a login is in flight.
	submitting  bool
	submitError string
}

func newLoginModel(ctrl *auth.Controller) loginModel {
	email, token, domain := "", "", ""
	l := loginModel{
		auth:     ctrl,
		email:    &email,
		apiToken: &token,
		domain:   &domain,
	}
	l.form = l.buildForm()
	return l
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

// buildForm wires the credential inputs with field validators. Inputs that
// fail validation never complete the form, so they never reach the network.
func (l loginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("your.email@company.com").
				Validate(auth.ValidateEmail).
				Value(l.email),
			huh.NewInput().
				Title("API Token").
				EchoMode(huh.EchoModePassword).
				Validate(auth.ValidateAPIToken).
				Value(l.apiToken),
			huh.NewInput().
				Title("Domain").
				Placeholder("company.atlassian.net").
				Validate(auth.ValidateDomain).
				Value(l.domain),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (l loginModel) reset() loginModel {
	*l.email, *l.apiToken, *l.domain = "", "", ""
	l.submitting = false
	l.submitError = ""
	l.form = l.buildForm()
	return l
}

func (l loginModel) Init() tea.Cmd {
	return l.form.Init()
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		l.submitting = false
		if !msg.result.OK {
			l.submitError = msg.result.Message
			l.form = l.buildForm()
			return l, l.form.Init()
		}
		l.submitError = ""
		return l, nil

	case tea.KeyMsg:
		if l.submitting {
			return l, nil
		}
		if msg.String() == "esc" && l.submitError != "" {
			l.submitError = ""
			return l, nil
		}
	}

	if l.submitting {
		return l, nil
	}

	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		l.submitting = true
		l.submitError = ""
		creds := api.Credentials{
			Email:    *l.email,
			APIToken: *l.apiToken,
			Domain:   *l.domain,
		}
		return l, tea.Batch(cmd, loginCmd(l.auth, creds))
	}

	return l, cmd
}

func loginCmd(ctrl *auth.Controller, creds api.Credentials) tea.Cmd {
	return func() tea.Msg {
		result := ctrl.Login(context.Background(), creds)
		return loginResultMsg{creds: creds, result: result}
	}
}

func (l loginModel) view() string {
	title := titleStyle.Render("Jira Dashboard")
	subtitle := mutedStyle.Render("Sign in with your Jira account")

	rows := []string{title, subtitle, ""}

	if l.submitError != "" {
		rows = append(rows, errorBannerStyle.Render(l.submitError), "")
	}

	if l.submitting {
		rows = append(rows, highlightStyle.Render("Signing in..."))
	} else {
		rows = append(rows, l.form.View())
	}

	w := min(l.width-4, 64)
	if w < 20 {
		w = 20
	}
	card := activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	if l.width > 0 && l.height > 0 {
		return lipgloss.Place(l.width, l.height, lipgloss.Center, lipgloss.Center, card)
	}
	return card
}
