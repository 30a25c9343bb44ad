package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Limpan89/storefront/internal/api"
)

// registerPage collects a username and email. Client-side guards fail fast
// without touching the network; the server still has the final word
// (duplicate emails and the like come back as API errors).
type registerPage struct {
	env        Env
	username   string
	email      string
	focus      int // 0 username, 1 email
	banner     string
	submitting bool
}

type registerDoneMsg struct {
	user api.User
	err  error
}

func newRegisterPage(env Env) registerPage {
	return registerPage{env: env}
}

func (r registerPage) Init() tea.Cmd {
	return nil
}

func (r registerPage) submitCmd(username, email string) tea.Cmd {
	backend := r.env.Backend
	sess := r.env.Session
	return func() tea.Msg {
		user, err := backend.CreateUser(context.Background(), api.CreateUserRequest{
			Username: username,
			Email:    email,
		})
		if err != nil {
			return registerDoneMsg{err: err}
		}
		if err := sess.SetUserID(context.Background(), user.ID); err != nil {
			return registerDoneMsg{err: err}
		}
		return registerDoneMsg{user: user}
	}
}

func (r registerPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		r.submitting = false
		if msg.err != nil {
			r.banner = errorMessage(msg.err, "Failed to register")
			return r, nil
		}
		r.env.Log.Info().Int64("user_id", msg.user.ID).Msg("registered")
		return r, navigate(routeProducts)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return r, navigate(routeProducts)
		case "tab", "down":
			r.focus = (r.focus + 1) % 2
		case "shift+tab", "up":
			r.focus = (r.focus + 1) % 2
		case "enter":
			return r.submit()
		case "backspace":
			field := r.field()
			if len(*field) > 0 {
				*field = (*field)[:len(*field)-1]
			}
		default:
			if len(msg.Runes) == 1 && len(*r.field()) < 64 {
				*r.field() += string(msg.Runes)
			}
		}
	}
	return r, nil
}

func (r *registerPage) field() *string {
	if r.focus == 0 {
		return &r.username
	}
	return &r.email
}

// submit validates locally first; a guard failure never issues a request and
// is displayed the same way a server rejection would be.
func (r registerPage) submit() (tea.Model, tea.Cmd) {
	if r.submitting {
		return r, nil
	}
	r.banner = ""

	username := strings.TrimSpace(r.username)
	email := strings.TrimSpace(r.email)
	if username == "" {
		r.banner = "Username is required"
		return r, nil
	}
	if email == "" {
		r.banner = "Email is required"
		return r, nil
	}
	if !strings.Contains(email, "@") {
		r.banner = "Invalid email address"
		return r, nil
	}
	r.submitting = true
	return r, r.submitCmd(username, email)
}

func (r registerPage) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Create an account")
	fmt.Fprintln(b, "")
	cursor := func(i int) string {
		if r.focus == i {
			return "_"
		}
		return ""
	}
	fmt.Fprintf(b, "Username: %s%s\n", r.username, cursor(0))
	fmt.Fprintf(b, "Email:    %s%s\n", r.email, cursor(1))
	fmt.Fprintln(b, "")
	if r.submitting {
		fmt.Fprintln(b, "Registering...")
	}
	if r.banner != "" {
		fmt.Fprintf(b, "! %s\n", r.banner)
	}
	fmt.Fprintln(b, "tab switch field · enter submit · esc back")
	return b.String()
}
