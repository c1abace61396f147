package views

import (
	"context"
	"strings"

	"fundspark/pkg/models"
)

// CampaignCreator creates a campaign on the backend.
type CampaignCreator interface {
	CreateCampaign(ctx context.Context, req models.CreateCampaignRequest) (*models.Campaign, error)
}

// FundraiseForm is the campaign creation form.
type FundraiseForm struct {
	Title        string
	Description  string
	TargetAmount string

	// Submitting is true while the create request is in flight.
	Submitting bool
	// CreatedID is the id of the last campaign created from this form.
	CreatedID string
}

// Validate checks the fields and builds the create request.
func (f *FundraiseForm) Validate() (models.CreateCampaignRequest, error) {
	title := strings.TrimSpace(f.Title)
	description := strings.TrimSpace(f.Description)
	if title == "" || description == "" || strings.TrimSpace(f.TargetAmount) == "" {
		return models.CreateCampaignRequest{}, &ValidationError{Message: "Please fill in all fields."}
	}
	target, ok := models.ParseAmount(f.TargetAmount)
	if !ok {
		return models.CreateCampaignRequest{}, &ValidationError{Message: "Target amount must be a positive number."}
	}
	return models.CreateCampaignRequest{
		Title:        title,
		Description:  description,
		TargetAmount: target,
	}, nil
}

// Begin validates and marks the form as submitting. Callers that issue the
// request themselves finish with Finish.
func (f *FundraiseForm) Begin() (models.CreateCampaignRequest, error) {
	req, err := f.Validate()
	if err != nil {
		return req, err
	}
	f.Submitting = true
	f.CreatedID = ""
	return req, nil
}

// Finish applies the outcome of the create request. Success clears every
// field; failure keeps them. Submitting is cleared either way.
func (f *FundraiseForm) Finish(created *models.Campaign, err error) {
	f.Submitting = false
	if err != nil {
		return
	}
	f.Title = ""
	f.Description = ""
	f.TargetAmount = ""
	if created != nil {
		f.CreatedID = created.ID
	}
}

// Submit runs Begin, the create request and Finish.
func (f *FundraiseForm) Submit(ctx context.Context, creator CampaignCreator) (*models.Campaign, error) {
	req, err := f.Begin()
	if err != nil {
		return nil, err
	}
	created, err := creator.CreateCampaign(ctx, req)
	f.Finish(created, err)
	if err != nil {
		return nil, err
	}
	return created, nil
}
