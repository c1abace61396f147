package views

import (
	"context"
	"strings"
	"sync/atomic"

	"fundspark/pkg/models"
)

// CampaignLister reads the campaign collection.
type CampaignLister interface {
	ListCampaigns(ctx context.Context) ([]models.Campaign, error)
}

// DonationRecorder writes one donation.
type DonationRecorder interface {
	RecordDonation(ctx context.Context, campaignID string, d models.Donation) (string, error)
}

// Status is the state of the campaign list.
type Status int

const (
	StatusLoading Status = iota
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// DonationModal is the open donation dialog for one campaign.
type DonationModal struct {
	CampaignID string
	Title      string
	DonorName  string
	Amount     string
}

// DonateView is the donate screen: a campaign list fetched once per activation,
// with a cached copy that donations update locally.
type DonateView struct {
	Status    Status
	Campaigns []models.Campaign
	Error     string
	Modal     *DonationModal

	inactive atomic.Bool
}

// NewDonateView returns a view in the loading state.
func NewDonateView() *DonateView {
	return &DonateView{Status: StatusLoading}
}

// Load issues the single list request of this activation. Results that
// arrive after Deactivate or after ctx ends are dropped.
func (v *DonateView) Load(ctx context.Context, lister CampaignLister) {
	campaigns, err := lister.ListCampaigns(ctx)
	v.ApplyLoad(ctx, campaigns, err)
}

// ApplyLoad records the outcome of a list request issued elsewhere.
func (v *DonateView) ApplyLoad(ctx context.Context, campaigns []models.Campaign, err error) {
	if v.stale(ctx) {
		return
	}
	if err != nil {
		v.Status = StatusError
		v.Error = LoadErrorMessage
		v.Campaigns = nil
		return
	}
	v.Status = StatusLoaded
	v.Error = ""
	v.Campaigns = campaigns
}

// Campaign returns the cached campaign with id.
func (v *DonateView) Campaign(id string) (models.Campaign, bool) {
	for _, c := range v.Campaigns {
		if c.ID == id {
			return c, true
		}
	}
	return models.Campaign{}, false
}

// Open shows the donation dialog for campaign id with empty fields.
func (v *DonateView) Open(id string) error {
	c, ok := v.Campaign(id)
	if !ok {
		return ErrUnknownCampaign
	}
	v.Modal = &DonationModal{CampaignID: c.ID, Title: c.Title}
	return nil
}

// Close hides the donation dialog.
func (v *DonateView) Close() {
	v.Modal = nil
}

// ValidateDonation checks donor name and amount without touching the network.
func ValidateDonation(donorName, amount string) (models.Donation, error) {
	name := strings.TrimSpace(donorName)
	value, ok := models.ParseAmount(amount)
	if name == "" || !ok {
		return models.Donation{}, &ValidationError{Message: "Please enter your name and a valid donation amount."}
	}
	return models.Donation{DonorName: name, Amount: value}, nil
}

// Submit validates the open dialog's input and records the donation. On
// success the dialog closes and the cached campaign's CurrentAmount grows by
// the donated amount; the list is not fetched again. On any failure the
// dialog stays open with the entered values and every amount is unchanged.
func (v *DonateView) Submit(ctx context.Context, rec DonationRecorder, donorName, amount string) (string, error) {
	if v.Modal == nil {
		return "", ErrUnknownCampaign
	}
	v.Modal.DonorName = donorName
	v.Modal.Amount = amount

	d, err := ValidateDonation(donorName, amount)
	if err != nil {
		return "", err
	}

	campaignID := v.Modal.CampaignID
	msg, err := rec.RecordDonation(ctx, campaignID, d)
	if err != nil {
		return "", err
	}
	if v.stale(ctx) {
		return msg, ctx.Err()
	}
	v.ApplyDonation(campaignID, d.Amount)
	return msg, nil
}

// ApplyDonation closes the dialog and adds amount to the cached campaign.
func (v *DonateView) ApplyDonation(campaignID string, amount float64) {
	v.Modal = nil
	for i := range v.Campaigns {
		if v.Campaigns[i].ID == campaignID {
			v.Campaigns[i].CurrentAmount += amount
			return
		}
	}
}

// Cards renders the cached campaigns.
func (v *DonateView) Cards() []Card {
	return Cards(v.Campaigns)
}

// Deactivate marks the view as torn down; late results are ignored.
func (v *DonateView) Deactivate() {
	v.inactive.Store(true)
}

// Active reports whether the view still accepts results.
func (v *DonateView) Active() bool {
	return !v.inactive.Load()
}

func (v *DonateView) stale(ctx context.Context) bool {
	return v.inactive.Load() || (ctx != nil && ctx.Err() != nil)
}
