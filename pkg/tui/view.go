package tui

import (
	"fmt"
	"math"
	"strings"

	"fundspark/pkg/format"
	"fundspark/pkg/views"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const barWidth = 24

func (m Model) View() string {
	t := DefaultTheme
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(t.Notice.Render(m.notice) + "\n\n")
	}

	switch m.screen {
	case ScreenHome:
		b.WriteString(m.renderHome())
	case ScreenDonate:
		b.WriteString(m.renderDonate())
	case ScreenFundraise:
		b.WriteString(m.renderFundraise())
	}

	if dialog := m.renderDialog(); dialog != "" {
		b.WriteString("\n\n" + dialog)
	}
	if m.alert != "" {
		b.WriteString("\n\n" + t.Alert.Render(t.Error.Render(m.alert)+"\n\n"+t.Dim.Render("enter to dismiss")))
	}

	b.WriteString("\n\n" + m.renderFooter())
	return t.Base.Render(b.String())
}

func (m Model) renderHeader() string {
	t := DefaultTheme
	tabs := make([]string, 0, 3)
	for i, s := range []Screen{ScreenHome, ScreenDonate, ScreenFundraise} {
		label := fmt.Sprintf("%d %s", i+1, s)
		if s == m.screen {
			tabs = append(tabs, t.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, t.Tab.Render(label))
		}
	}
	left := t.Header.Render("Fundspark") + "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	right := t.Dim.Render("i sign in · u sign up")
	if name := m.shell.DisplayName(); name != "" {
		right = t.Focused.Render(name) + t.Dim.Render(" · o log out")
	}
	return left + "    " + right
}

func (m Model) renderHome() string {
	t := DefaultTheme
	var b strings.Builder
	b.WriteString(t.Dim.Render("#1 crowdfunding platform") + "\n")
	b.WriteString(t.Header.Render("Successful fundraisers start here") + "\n\n")

	for _, mk := range m.markers {
		offset := mk.Offset(float64(m.scroll))
		indent := int(math.Round(offset / scrollStep))
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteString(t.Accent.Render("◉ "+mk.Name) + t.Dim.Render("  "+mk.Transform(float64(m.scroll))) + "\n")
	}

	value := m.counter.Value(m.counterStep)
	b.WriteString("\nOver " + t.Focused.Render(format.INR(float64(value))) + " raised by our community!")
	return b.String()
}

func progressBar(percent float64) string {
	filled := int(math.Round(percent / 100 * barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled) + "]"
}

func (m Model) renderDonate() string {
	t := DefaultTheme
	if m.donate == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.Header.Render("Donate to a Cause") + "\n\n")

	switch m.donate.Status {
	case views.StatusLoading:
		b.WriteString(t.Dim.Render("Loading campaigns…"))
	case views.StatusError:
		b.WriteString(t.Error.Render(m.donate.Error) + "\n" + t.Dim.Render("r to retry"))
	case views.StatusLoaded:
		cards := m.donate.Cards()
		if len(cards) == 0 {
			b.WriteString(t.Dim.Render("No campaigns yet."))
		}
		for i, card := range cards {
			cursor := "  "
			title := card.Title
			if i == m.selected {
				cursor = t.Focused.Render("▸ ")
				title = t.Focused.Render(title)
			}
			b.WriteString(cursor + title + "\n")
			if card.Description != "" {
				b.WriteString("  " + t.Dim.Render(m.fit(card.Description, 4)) + "\n")
			}
			b.WriteString("  " + t.Accent.Render(progressBar(card.Percent)) + " " + card.PercentLabel() + "%\n")
			b.WriteString("  " + card.Summary() + "\n\n")
		}
	}
	return b.String()
}

// fit truncates s to the window width less margin columns.
func (m Model) fit(s string, margin int) string {
	if m.width <= margin {
		return s
	}
	return ansi.Truncate(s, m.width-margin, "…")
}

func (m Model) renderFundraise() string {
	t := DefaultTheme
	var b strings.Builder
	b.WriteString(t.Header.Render("Start a Fundraiser") + "\n\n")
	for _, f := range m.fields {
		b.WriteString(t.Input.Render(f.View()) + "\n")
	}
	switch {
	case m.form.Submitting:
		b.WriteString("\n" + t.Dim.Render("Submitting…"))
	case m.editing:
		b.WriteString("\n" + t.Dim.Render("enter on the last field to create · esc to stop editing"))
	default:
		b.WriteString("\n" + t.Dim.Render("enter to edit"))
	}
	if m.form.CreatedID != "" && m.notice == "" {
		b.WriteString("\n" + t.Notice.Render("Last created: "+m.form.CreatedID))
	}
	return b.String()
}

func (m Model) renderDialog() string {
	t := DefaultTheme
	var title string
	switch {
	case m.shell.Modal() == views.ModalSignOut:
		return t.Modal.Render(t.Focused.Render("Log out") + "\n\nAre you sure you want to log out? (y/n)")
	case m.shell.Modal() == views.ModalSignIn:
		title = "Welcome Back"
	case m.shell.Modal() == views.ModalSignUp:
		title = "Create Account"
	case m.donationOpen():
		title = "Donate to " + m.donate.Modal.Title
	default:
		return ""
	}

	var b strings.Builder
	b.WriteString(t.Focused.Render(title) + "\n\n")
	for _, in := range m.inputs {
		b.WriteString(in.View() + "\n")
	}
	if m.busy {
		b.WriteString("\n" + t.Dim.Render("Please wait…"))
	} else {
		b.WriteString("\n" + t.Dim.Render("tab next · enter submit · esc close"))
	}
	return t.Modal.Render(b.String())
}

func (m Model) renderFooter() string {
	keys := "1/2/3 screens · q quit"
	switch m.screen {
	case ScreenHome:
		keys = "↑/↓ scroll · " + keys
	case ScreenDonate:
		keys = "↑/↓ select · enter donate · r reload · " + keys
	}
	return DefaultTheme.Dim.Render(keys)
}
