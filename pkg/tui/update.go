package tui

import (
	"strings"

	"fundspark/pkg/models"
	"fundspark/pkg/views"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case counterTickMsg:
		return m.handleCounterTick(msg)
	case campaignsLoadedMsg:
		return m.handleCampaignsLoaded(msg), nil
	case donationDoneMsg:
		return m.handleDonationDone(msg), nil
	case campaignCreatedMsg:
		return m.handleCampaignCreated(msg), nil
	case signInDoneMsg:
		return m.handleSignInDone(msg), nil
	case signUpDoneMsg:
		return m.handleSignUpDone(msg), nil
	}
	return m, nil
}

// activate switches to screen s. The previous screen is torn down: its
// generation ends and a donate view stops accepting results.
func (m Model) activate(s Screen) (Model, tea.Cmd) {
	if m.donate != nil {
		m.donate.Deactivate()
		m.donate = nil
	}
	m = m.closeDialogs()
	m.screen = s
	m.gen++
	m.notice = ""
	m.editing = false

	switch s {
	case ScreenHome:
		m.counterStep = 0
		m.scroll = 0
		return m, counterTick(m.gen, m.counter.Interval)
	case ScreenDonate:
		m.donate = views.NewDonateView()
		m.selected = 0
		return m, loadCampaigns(m.ctx, m.backend, m.gen)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// a blocking alert swallows keys until dismissed
	if m.alert != "" {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
			m.alert = ""
		}
		return m, nil
	}

	if m.shell.Modal() == views.ModalSignOut {
		return m.handleSignOutKey(msg)
	}
	if m.dialogOpen() {
		return m.handleDialogKey(msg)
	}
	if m.screen == ScreenFundraise && m.editing {
		return m.handleFormKey(msg)
	}

	switch msg.String() {
	case "q":
		if m.donate != nil {
			m.donate.Deactivate()
		}
		return m, tea.Quit
	case "1":
		return m.activate(ScreenHome)
	case "2":
		return m.activate(ScreenDonate)
	case "3":
		return m.activate(ScreenFundraise)
	case "i":
		return m.openAuth(views.ModalSignIn), nil
	case "u":
		return m.openAuth(views.ModalSignUp), nil
	case "o":
		return m.openAuth(views.ModalSignOut), nil
	}

	switch m.screen {
	case ScreenHome:
		switch msg.String() {
		case "down", "j":
			m.scroll += scrollStep
		case "up", "k":
			m.scroll -= scrollStep
			if m.scroll < 0 {
				m.scroll = 0
			}
		}
	case ScreenDonate:
		if m.donate == nil {
			return m, nil
		}
		switch msg.String() {
		case "down", "j":
			if m.selected < len(m.donate.Campaigns)-1 {
				m.selected++
			}
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "enter":
			return m.openDonation(), nil
		case "r":
			return m.activate(ScreenDonate)
		}
	case ScreenFundraise:
		if msg.Type == tea.KeyEnter && !m.form.Submitting {
			m.editing = true
			m.field = 0
			focusOnly(m.fields, 0)
		}
	}
	return m, nil
}

func (m Model) handleSignOutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.shell.SignOut(true); err != nil {
			m.log.Error().Err(err).Msg("sign out")
			m.alert = views.GenericErrorMessage
		}
	case "n", "N", "esc":
		_ = m.shell.SignOut(false)
	}
	return m, nil
}

// handleDialogKey edits and submits the open auth or donation dialog.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m.closeDialogs(), nil
	}
	if m.busy {
		if msg.Type == tea.KeyEsc {
			return m.closeDialogs(), nil
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		return m.closeDialogs(), nil
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(m.inputs)
		focusOnly(m.inputs, m.focus)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + len(m.inputs) - 1) % len(m.inputs)
		focusOnly(m.inputs, m.focus)
		return m, nil
	case tea.KeyEnter:
		if m.focus < len(m.inputs)-1 {
			m.focus++
			focusOnly(m.inputs, m.focus)
			return m, nil
		}
		return m.submitDialog()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submitDialog() (tea.Model, tea.Cmd) {
	v := values(m.inputs)
	switch {
	case m.donationOpen():
		m.donate.Modal.DonorName, m.donate.Modal.Amount = v[0], v[1]
		d, err := views.ValidateDonation(v[0], v[1])
		if err != nil {
			m.alert = views.UserMessage(err)
			return m, nil
		}
		m.busy = true
		return m, recordDonation(m.ctx, m.backend, m.gen, m.donate.Modal.CampaignID, d)

	case m.shell.Modal() == views.ModalSignIn:
		m.busy = true
		return m, signIn(m.ctx, m.backend, models.SignInRequest{Email: v[0], Password: v[1]})

	case m.shell.Modal() == views.ModalSignUp:
		m.busy = true
		return m, signUp(m.ctx, m.backend, models.SignUpRequest{FullName: v[0], Email: v[1], Password: v[2]})
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		focusOnly(m.fields, -1)
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.field = (m.field + 1) % len(m.fields)
		focusOnly(m.fields, m.field)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.field = (m.field + len(m.fields) - 1) % len(m.fields)
		focusOnly(m.fields, m.field)
		return m, nil
	case tea.KeyEnter:
		if m.field < len(m.fields)-1 {
			m.field++
			focusOnly(m.fields, m.field)
			return m, nil
		}
		return m.submitFundraise()
	}

	var cmd tea.Cmd
	m.fields[m.field], cmd = m.fields[m.field].Update(msg)
	return m, cmd
}

func (m Model) submitFundraise() (tea.Model, tea.Cmd) {
	v := values(m.fields)
	m.form.Title, m.form.Description, m.form.TargetAmount = v[0], v[1], v[2]
	req, err := m.form.Begin()
	if err != nil {
		m.alert = views.UserMessage(err)
		return m, nil
	}
	m.editing = false
	focusOnly(m.fields, -1)
	return m, createCampaign(m.ctx, m.backend, req)
}

func (m Model) handleCounterTick(msg counterTickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.screen != ScreenHome || m.counter.Done(m.counterStep) {
		return m, nil
	}
	m.counterStep++
	if m.counter.Done(m.counterStep) {
		return m, nil
	}
	return m, counterTick(m.gen, m.counter.Interval)
}

func (m Model) handleCampaignsLoaded(msg campaignsLoadedMsg) Model {
	if msg.gen != m.gen || m.donate == nil {
		return m
	}
	m.donate.ApplyLoad(m.ctx, msg.campaigns, msg.err)
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("load campaigns")
	}
	m.selected = 0
	return m
}

func (m Model) handleDonationDone(msg donationDoneMsg) Model {
	if msg.gen != m.gen || m.donate == nil || !m.donate.Active() {
		return m
	}
	m.busy = false
	if msg.err != nil {
		m.log.Error().Err(msg.err).Str("campaign", msg.campaignID).Msg("record donation")
		m.alert = views.UserMessage(msg.err)
		return m
	}
	m.donate.ApplyDonation(msg.campaignID, msg.amount)
	m.inputs = nil
	m.notice = msg.message
	return m
}

func (m Model) handleCampaignCreated(msg campaignCreatedMsg) Model {
	m.form.Finish(msg.created, msg.err)
	if msg.err != nil {
		m.log.Error().Err(msg.err).Msg("create campaign")
		m.alert = views.UserMessage(msg.err)
		return m
	}
	m.fields = fundraiseFields()
	if m.screen == ScreenFundraise {
		m.notice = "Fundraiser created! ID: " + m.form.CreatedID
	}
	return m
}

func (m Model) handleSignInDone(msg signInDoneMsg) Model {
	m.busy = false
	if m.shell.Modal() != views.ModalSignIn {
		return m
	}
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("sign in")
		m.alert = views.UserMessage(msg.err)
		return m
	}
	res, err := m.shell.ApplySignIn(msg.email, msg.result)
	switch {
	case err != nil:
		m.log.Error().Err(err).Msg("store identity")
		m.alert = views.GenericErrorMessage
	case !res.OK():
		m.alert = strings.TrimSpace(res.Message)
		if m.alert == "" {
			m.alert = views.GenericErrorMessage
		}
	default:
		m.inputs = nil
		m.notice = res.Message
	}
	return m
}

func (m Model) handleSignUpDone(msg signUpDoneMsg) Model {
	m.busy = false
	if m.shell.Modal() != views.ModalSignUp {
		return m
	}
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("sign up")
		m.alert = views.UserMessage(msg.err)
		return m
	}
	m.shell.ApplySignUp()
	m = m.openAuth(views.ModalSignIn)
	m.notice = msg.message
	return m
}
