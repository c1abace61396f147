package tui

import (
	"context"
	"time"

	"fundspark/pkg/backend"
	"fundspark/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
)

// --- Messages ---

// Results of work started by a screen activation carry its generation; a
// result whose generation is no longer current is dropped.

type counterTickMsg struct{ gen int }

type campaignsLoadedMsg struct {
	gen       int
	campaigns []models.Campaign
	err       error
}

type donationDoneMsg struct {
	gen        int
	campaignID string
	amount     float64
	message    string
	err        error
}

type campaignCreatedMsg struct {
	created *models.Campaign
	err     error
}

type signInDoneMsg struct {
	email  string
	result backend.SignInResult
	err    error
}

type signUpDoneMsg struct {
	message string
	err     error
}

// --- Commands ---

func counterTick(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return counterTickMsg{gen: gen} })
}

func loadCampaigns(ctx context.Context, b Backend, gen int) tea.Cmd {
	return func() tea.Msg {
		campaigns, err := b.ListCampaigns(ctx)
		return campaignsLoadedMsg{gen: gen, campaigns: campaigns, err: err}
	}
}

func recordDonation(ctx context.Context, b Backend, gen int, campaignID string, d models.Donation) tea.Cmd {
	return func() tea.Msg {
		msg, err := b.RecordDonation(ctx, campaignID, d)
		return donationDoneMsg{gen: gen, campaignID: campaignID, amount: d.Amount, message: msg, err: err}
	}
}

func createCampaign(ctx context.Context, b Backend, req models.CreateCampaignRequest) tea.Cmd {
	return func() tea.Msg {
		created, err := b.CreateCampaign(ctx, req)
		return campaignCreatedMsg{created: created, err: err}
	}
}

func signIn(ctx context.Context, b Backend, req models.SignInRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := b.SignIn(ctx, req)
		return signInDoneMsg{email: req.Email, result: res, err: err}
	}
}

func signUp(ctx context.Context, b Backend, req models.SignUpRequest) tea.Cmd {
	return func() tea.Msg {
		msg, err := b.SignUp(ctx, req)
		return signUpDoneMsg{message: msg, err: err}
	}
}
