// Package tui is the terminal front end: the same home, donate and fundraise
// views as the web front end, driven by bubbletea.
package tui

import (
	"context"

	"fundspark/pkg/auth"
	"fundspark/pkg/views"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// Backend is every call the terminal front end makes to the campaign API.
type Backend interface {
	views.CampaignLister
	views.DonationRecorder
	views.CampaignCreator
	views.Authenticator
	views.Registrar
}

// Screen is the active top-level view.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenDonate
	ScreenFundraise
)

func (s Screen) String() string {
	switch s {
	case ScreenHome:
		return "Home"
	case ScreenDonate:
		return "Donate"
	case ScreenFundraise:
		return "Fundraise"
	}
	return ""
}

// scrollStep is how far one key press scrolls the home view, in pixels of the
// web layout the marker speeds are tuned for.
const scrollStep = 40

// Model is the root bubbletea model.
type Model struct {
	ctx     context.Context
	backend Backend
	log     zerolog.Logger
	shell   *views.Shell

	screen Screen
	// gen is bumped on every screen activation.
	gen    int
	width  int
	height int

	markers     []views.Marker
	counter     views.Counter
	counterStep int
	scroll      int

	donate   *views.DonateView
	selected int

	form    views.FundraiseForm
	editing bool
	fields  []textinput.Model
	field   int

	// inputs belong to the open dialog: an auth dialog or the donation dialog.
	inputs []textinput.Model
	focus  int
	busy   bool

	alert  string
	notice string
}

// Options configures New.
type Options struct {
	Backend  Backend
	Identity *auth.Identity
	Counter  views.Counter
	Logger   zerolog.Logger
}

// New returns a model on the home screen.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	identity := opts.Identity
	if identity == nil {
		identity, _ = auth.NewIdentity(&auth.MemoryStore{})
	}
	counter := opts.Counter
	if counter.Target == 0 {
		counter = views.DefaultCounter()
	}
	return Model{
		ctx:     ctx,
		backend: opts.Backend,
		log:     opts.Logger,
		shell:   views.NewShell(identity),
		markers: views.DefaultMarkers(),
		counter: counter,
		fields:  fundraiseFields(),
	}
}

func (m Model) Init() tea.Cmd {
	return counterTick(m.gen, m.counter.Interval)
}

// Screen returns the active screen.
func (m Model) Screen() Screen { return m.screen }

func newInput(placeholder string, password bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = 40
	ti.Prompt = "> "
	if password {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Cursor.SetMode(cursor.CursorStatic)
	return ti
}

func fundraiseFields() []textinput.Model {
	return []textinput.Model{
		newInput("Campaign title", false),
		newInput("Tell your story", false),
		newInput("Target amount (₹)", false),
	}
}

func focusOnly(inputs []textinput.Model, idx int) {
	for i := range inputs {
		if i == idx {
			inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
}

func values(inputs []textinput.Model) []string {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = in.Value()
	}
	return out
}

// openAuth opens an auth dialog through the shell and builds its inputs.
func (m Model) openAuth(modal views.Modal) Model {
	m.shell.Open(modal)
	m.focus = 0
	switch m.shell.Modal() {
	case views.ModalSignIn:
		m.inputs = []textinput.Model{newInput("Email address", false), newInput("Password", true)}
	case views.ModalSignUp:
		m.inputs = []textinput.Model{newInput("Full name", false), newInput("Email address", false), newInput("Password", true)}
	default:
		m.inputs = nil
	}
	focusOnly(m.inputs, 0)
	return m
}

// openDonation opens the donation dialog for the selected campaign.
func (m Model) openDonation() Model {
	if m.donate == nil || m.donate.Status != views.StatusLoaded || len(m.donate.Campaigns) == 0 {
		return m
	}
	if err := m.donate.Open(m.donate.Campaigns[m.selected].ID); err != nil {
		return m
	}
	m.focus = 0
	m.inputs = []textinput.Model{newInput("Your name", false), newInput("Amount (₹)", false)}
	focusOnly(m.inputs, 0)
	return m
}

// dialogOpen reports whether any dialog owns the keyboard.
func (m Model) dialogOpen() bool {
	return m.shell.Modal() != views.ModalNone || m.donationOpen()
}

func (m Model) donationOpen() bool {
	return m.screen == ScreenDonate && m.donate != nil && m.donate.Modal != nil
}

func (m Model) closeDialogs() Model {
	m.shell.Close()
	if m.donate != nil {
		m.donate.Close()
	}
	m.inputs = nil
	m.focus = 0
	m.busy = false
	return m
}
